package vagrant

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes the vagrant binary in a project directory
type Runner struct {
	Binary   string    // Path to vagrant
	Dir      string    // Directory holding the Vagrantfile
	Provider string    // Passed as VAGRANT_DEFAULT_PROVIDER
	Env      []string  // Base environment, os.Environ() when nil
	Stdin    io.Reader // Answers vagrant prompts, e.g. destroy confirmation
	Stdout   io.Writer // Streams output of lifecycle commands
	Stderr   io.Writer
}

// NewRunner looks up vagrant in PATH. It returns ErrVagrantNotFound when missing.
func NewRunner(dir, provider string) (*Runner, error) {
	binary, err := exec.LookPath("vagrant")
	if err != nil {
		return nil, ErrVagrantNotFound
	}
	return &Runner{
		Binary:   binary,
		Dir:      dir,
		Provider: provider,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

// Up boots and, unless provision is false, provisions the machine.
func (r *Runner) Up(ctx context.Context, provision bool) error {
	args := []string{"up"}
	if !provision {
		args = append(args, "--no-provision")
	}
	return r.stream(ctx, args...)
}

// Halt stops the machine.
func (r *Runner) Halt(ctx context.Context) error {
	return r.stream(ctx, "halt")
}

// Destroy removes the machine; before-destroy triggers run first.
func (r *Runner) Destroy(ctx context.Context, force bool) error {
	args := []string{"destroy"}
	if force {
		args = append(args, "--force")
	}
	return r.stream(ctx, args...)
}

// Status returns the machine state from machine-readable status output (e.g., "running").
func (r *Runner) Status(ctx context.Context) (string, error) {
	out, err := r.output(ctx, "status", "--machine-readable")
	if err != nil {
		return "", err
	}
	return ParseState(out), nil
}

// Plugins returns the names of installed vagrant plugins.
func (r *Runner) Plugins(ctx context.Context) ([]string, error) {
	out, err := r.output(ctx, "plugin", "list")
	if err != nil {
		return nil, err
	}
	return ParsePlugins(out), nil
}

// Environ returns the environment vagrant runs with. The provider is set only
// for the child process.
func (r *Runner) Environ() []string {
	env := r.Env
	if env == nil {
		env = os.Environ()
	}
	env = append([]string(nil), env...)
	if r.Provider != "" {
		env = append(env, "VAGRANT_DEFAULT_PROVIDER="+r.Provider)
	}
	return env
}

func (r *Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = r.Dir
	cmd.Env = r.Environ()
	return cmd
}

func (r *Runner) stream(ctx context.Context, args ...string) error {
	cmd := r.command(ctx, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("vagrant %s failed: %w", strings.Join(args, " "), err)
	}
	return nil
}

func (r *Runner) output(ctx context.Context, args ...string) (string, error) {
	cmd := r.command(ctx, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("vagrant %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

// ParsePlugins extracts plugin names from `vagrant plugin list` output:
//
//	vagrant-bindfs (1.3.0, global)
//	  - Version Constraint: > 0
//	vagrant-vbguest (0.32.0, global)
func ParsePlugins(out string) []string {
	plugins := []string{}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		name, _, found := strings.Cut(line, " (")
		if !found {
			// "No plugins installed."
			continue
		}
		plugins = append(plugins, strings.TrimSpace(name))
	}
	return plugins
}

// ParseState extracts the machine state from `vagrant status --machine-readable`
// lines of the form timestamp,target,type,data.
func ParseState(out string) string {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), ",", 4)
		if len(fields) == 4 && fields[2] == "state" {
			return fields[3]
		}
	}
	return "unknown"
}
