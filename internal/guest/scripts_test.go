package guest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizedKeyScript(t *testing.T) {
	script := AuthorizedKeyScript()

	assert.Contains(t, script, "touch /home/vagrant/.ssh/authorized_keys\n")
	assert.Contains(t, script, "grep -qxF -- \"$key\" /home/vagrant/.ssh/authorized_keys ||")
	assert.Contains(t, script, ">> /home/vagrant/.ssh/authorized_keys")
	assert.Contains(t, script, "chown vagrant:vagrant /home/vagrant/.ssh/authorized_keys")

	// The duplicate check must come before the append
	grep := strings.Index(script, "grep -qxF")
	appendIdx := strings.Index(script, "|| printf")
	assert.Less(t, grep, appendIdx)
}

// runAppendKeys runs the append snippet against file with content as $1.
func runAppendKeys(t *testing.T, file, content string) {
	t.Helper()

	out, err := exec.Command("sh", "-c", appendKeysScript(file), "sh", content).CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestAppendKeysIsIdempotent(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	keys := filepath.Join(t.TempDir(), "authorized_keys")
	require.NoError(t, os.WriteFile(keys, []byte("ssh-ed25519 AAAAother other@host\n"), 0600))

	key := "ssh-ed25519 AAAAkey me@laptop"
	runAppendKeys(t, keys, key)
	runAppendKeys(t, keys, key)

	data, err := os.ReadFile(keys)
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAAother other@host\n"+key+"\n", string(data))
}

func TestAppendKeysChecksEachLine(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	keys := filepath.Join(t.TempDir(), "authorized_keys")
	// No trailing newline on the last existing key
	require.NoError(t, os.WriteFile(keys, []byte("ssh-ed25519 AAAAone one@host"), 0600))

	// One line is already present, the other is not
	content := "ssh-ed25519 AAAAone one@host\n\nssh-rsa AAAAtwo two@host"
	runAppendKeys(t, keys, content)
	runAppendKeys(t, keys, content)

	data, err := os.ReadFile(keys)
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAAone one@host\nssh-rsa AAAAtwo two@host\n", string(data))
}

func TestPrivateKeyScript(t *testing.T) {
	script := PrivateKeyScript()

	assert.Contains(t, script, "> /home/vagrant/.ssh/\"$2\"")
	assert.Contains(t, script, "chmod 600 /home/vagrant/.ssh/\"$2\"")
}

func TestFolderWarningScript(t *testing.T) {
	tests := []struct {
		name         string
		settingsFile string
		wantFile     string
	}{
		{name: "named settings file", settingsFile: "/work/archbox.yaml", wantFile: "/work/archbox.yaml"},
		{name: "default name", settingsFile: "", wantFile: "archbox.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := FolderWarningScript(tt.settingsFile, "/home/me/it's here", "does not exist")
			assert.True(t, strings.HasPrefix(script, ">&2 echo "))

			words, err := shellquote.Split(strings.TrimPrefix(strings.TrimSpace(script), ">&2 echo "))
			require.NoError(t, err)
			require.Len(t, words, 1)
			assert.Contains(t, words[0], "/home/me/it's here: does not exist")
			assert.Contains(t, words[0], tt.wantFile)
		})
	}
}
