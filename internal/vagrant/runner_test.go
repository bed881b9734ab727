package vagrant

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVagrant writes a shell script standing in for vagrant. It records its
// arguments and provider env, and answers plugin/status queries.
func fakeVagrant(t *testing.T) (*Runner, string) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	logFile := filepath.Join(dir, "calls.log")
	script := `#!/bin/sh
echo "$PWD|$VAGRANT_DEFAULT_PROVIDER|$*" >> ` + logFile + `
case "$1" in
  plugin)
    printf 'vagrant-bindfs (1.3.0, global)\n  - Version Constraint: > 0\nvagrant-vbguest (0.32.0, global)\n'
    ;;
  status)
    printf '1700000000,default,metadata,provider,virtualbox\n1700000000,default,state,running\n'
    ;;
  halt)
    echo "halting failed" >&2
    exit 1
    ;;
esac
`
	binary := filepath.Join(dir, "vagrant")
	require.NoError(t, os.WriteFile(binary, []byte(script), 0755))

	project := t.TempDir()
	r := &Runner{
		Binary:   binary,
		Dir:      project,
		Provider: "libvirt",
		Env:      []string{"PATH=" + os.Getenv("PATH")},
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	}
	return r, logFile
}

func readCalls(t *testing.T, logFile string) []string {
	t.Helper()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRunnerUpPassesProviderToChildOnly(t *testing.T) {
	t.Setenv("VAGRANT_DEFAULT_PROVIDER", "")
	r, logFile := fakeVagrant(t)

	require.NoError(t, r.Up(context.Background(), false))
	require.NoError(t, r.Destroy(context.Background(), true))

	calls := readCalls(t, logFile)
	require.Len(t, calls, 2)

	dir, err := filepath.EvalSymlinks(r.Dir)
	require.NoError(t, err)
	assert.Equal(t, dir+"|libvirt|up --no-provision", calls[0])
	assert.Equal(t, dir+"|libvirt|destroy --force", calls[1])

	// archbox's own environment is untouched
	assert.Empty(t, os.Getenv("VAGRANT_DEFAULT_PROVIDER"))
}

func TestRunnerPluginsAndStatus(t *testing.T) {
	r, _ := fakeVagrant(t)
	ctx := context.Background()

	plugins, err := r.Plugins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"vagrant-bindfs", "vagrant-vbguest"}, plugins)

	state, err := r.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "running", state)
}

func TestRunnerFailure(t *testing.T) {
	r, _ := fakeVagrant(t)

	err := r.Halt(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vagrant halt failed")
	assert.Contains(t, r.Stderr.(*bytes.Buffer).String(), "halting failed")
}

func TestEnviron(t *testing.T) {
	r := &Runner{Env: []string{"A=1"}, Provider: "virtualbox"}
	assert.Equal(t, []string{"A=1", "VAGRANT_DEFAULT_PROVIDER=virtualbox"}, r.Environ())
	// The base slice is not modified
	assert.Equal(t, []string{"A=1"}, r.Env)

	r = &Runner{Env: []string{"A=1"}}
	assert.Equal(t, []string{"A=1"}, r.Environ())
}

func TestParsePlugins(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			name: "installed plugins",
			out:  "vagrant-bindfs (1.3.0, global)\n  - Version Constraint: > 0\nvagrant-hostmanager (1.8.9, local)\n",
			want: []string{"vagrant-bindfs", "vagrant-hostmanager"},
		},
		{
			name: "none",
			out:  "No plugins installed.\n",
			want: []string{},
		},
		{
			name: "empty",
			out:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePlugins(tt.out))
		})
	}
}

func TestParseState(t *testing.T) {
	assert.Equal(t, "poweroff", ParseState("1,default,provider-name,virtualbox\n1,default,state,poweroff\n1,default,state-human-short,poweroff\n"))
	assert.Equal(t, "not_created", ParseState("1,default,state,not_created\n"))
	assert.Equal(t, "unknown", ParseState("garbage"))
}

func TestStubManager(t *testing.T) {
	m := NewStubManager()
	ctx := context.Background()

	assert.ErrorIs(t, m.Up(ctx, true), ErrVagrantNotFound)
	assert.ErrorIs(t, m.Halt(ctx), ErrVagrantNotFound)
	assert.ErrorIs(t, m.Destroy(ctx, false), ErrVagrantNotFound)
	_, err := m.Status(ctx)
	assert.ErrorIs(t, err, ErrVagrantNotFound)

	plugins, err := m.Plugins(ctx)
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestRunnerImplementsManager(t *testing.T) {
	var _ Manager = (*Runner)(nil)
	var _ Manager = (*StubManager)(nil)
}
