// Package backup provides database backup strategies run inside the guest before it is destroyed.
package backup

import (
	"fmt"
	"path"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// DefaultDir is the guest directory dumps are written under, one subdirectory per kind.
// /vagrant is the project directory shared by default, so dumps land on the host.
const DefaultDir = "/vagrant/.backup"

// Strategy dumps one database of a given engine.
type Strategy interface {
	// Kind returns the database engine identifier (e.g., "mysql", "postgres")
	Kind() string

	// Script returns the guest shell command that dumps database into dir
	Script(database, dir string) string
}

// Target receives the backup hook for a database.
type Target interface {
	BackupHook(name, inline string)
}

// Backup registers a hook on target that dumps database into dir using strategy.
func Backup(target Target, strategy Strategy, database, dir string) {
	if dir == "" {
		dir = path.Join(DefaultDir, strategy.Kind())
	}
	name := fmt.Sprintf("Backing up %s database %s", strategy.Kind(), database)
	target.BackupHook(name, strategy.Script(database, dir))
}

// MySQL dumps with mysqldump as the vagrant user's configured client.
type MySQL struct{}

// Kind implements Strategy.
func (MySQL) Kind() string { return "mysql" }

// Script implements Strategy.
func (MySQL) Script(database, dir string) string {
	file := dumpFile(dir, database)
	var sb strings.Builder
	fmt.Fprintf(&sb, "mkdir -p %s\n", shellquote.Join(dir))
	fmt.Fprintf(&sb, "mysqldump --single-transaction --routines %s > %s\n",
		shellquote.Join(database), quoteWithVar(file))
	return sb.String()
}

// Postgres dumps with pg_dump as the postgres system user.
type Postgres struct{}

// Kind implements Strategy.
func (Postgres) Kind() string { return "postgres" }

// Script implements Strategy.
func (Postgres) Script(database, dir string) string {
	file := dumpFile(dir, database)
	var sb strings.Builder
	fmt.Fprintf(&sb, "mkdir -p %s\n", shellquote.Join(dir))
	fmt.Fprintf(&sb, "sudo -u postgres pg_dump --clean %s > %s\n",
		shellquote.Join(database), quoteWithVar(file))
	return sb.String()
}

const timestampVar = "${ARCHBOX_BACKUP_TS:-$(date +%Y%m%d%H%M%S)}"

// dumpFile returns the timestamped dump path, keeping it directly inside dir.
func dumpFile(dir, database string) string {
	return path.Join(dir, strings.ReplaceAll(database, "/", "_")+"-"+timestampVar+".sql")
}

// quoteWithVar double-quotes a path so the timestamp expansion still happens.
func quoteWithVar(p string) string {
	before, after, _ := strings.Cut(p, timestampVar)
	escape := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", "$", `\$`)
	return `"` + escape.Replace(before) + `"` + timestampVar + `"` + escape.Replace(after) + `"`
}
