// Package guest builds the inline shell snippets run by shell provisioners inside the guest.
package guest

import (
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// Guest account layout of the archlinux/archlinux box
const (
	User           = "vagrant"
	HomeDir        = "/home/vagrant"
	SSHDir         = HomeDir + "/.ssh"
	AuthorizedKeys = SSHDir + "/authorized_keys"
)

// AuthorizedKeyScript appends each line of the key content passed as $1 to
// authorized_keys unless that exact line is already there. Runs privileged.
func AuthorizedKeyScript() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "install -d -m 700 -o %s -g %s %s\n", User, User, SSHDir)
	fmt.Fprintf(&sb, "touch %s\n", AuthorizedKeys)
	sb.WriteString(appendKeysScript(AuthorizedKeys))
	fmt.Fprintf(&sb, "chown %s:%s %s\n", User, User, AuthorizedKeys)
	fmt.Fprintf(&sb, "chmod 600 %s\n", AuthorizedKeys)

	return sb.String()
}

// appendKeysScript appends the missing lines of $1 to file, one key per line.
// A file without a trailing newline gets one first.
func appendKeysScript(file string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "if [ -s %s ] && [ -n \"$(tail -c 1 %s)\" ]; then echo >> %s; fi\n", file, file, file)
	sb.WriteString("printf '%s\\n' \"$1\" | while IFS= read -r key; do\n")
	sb.WriteString("  [ -n \"$key\" ] || continue\n")
	fmt.Fprintf(&sb, "  grep -qxF -- \"$key\" %s || printf '%%s\\n' \"$key\" >> %s\n", file, file)
	sb.WriteString("done\n")

	return sb.String()
}

// PrivateKeyScript writes the key content $1 to the ssh directory under the
// file name $2, readable by the owner only. Runs as the vagrant user.
func PrivateKeyScript() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "mkdir -p %s && chmod 700 %s\n", SSHDir, SSHDir)
	fmt.Fprintf(&sb, "printf '%%s\\n' \"$1\" > %s/\"$2\" && chmod 600 %s/\"$2\"\n", SSHDir, SSHDir)

	return sb.String()
}

// FolderWarningScript prints a warning to stderr for a folder that could not be shared.
func FolderWarningScript(settingsFile, hostPath, reason string) string {
	if settingsFile == "" {
		settingsFile = "archbox.yaml"
	}
	msg := fmt.Sprintf("Unable to mount one of your folders (%s: %s). Please check your folders in %s", hostPath, reason, settingsFile)
	return ">&2 echo " + shellquote.Join(msg) + "\n"
}
