// Package project locates the directory a Vagrantfile is rendered into.
package project

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// VagrantfileName is the file rendered into the project directory
const VagrantfileName = "Vagrantfile"

// FindGitRoot returns the git repository root for the given directory,
// or an empty string if the directory is not inside a git repository.
func FindGitRoot(dir string) string {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Resolve returns the absolute project directory. An explicit dir wins;
// otherwise the enclosing git root of the working directory is used, falling
// back to the working directory itself.
func Resolve(dir string) (string, error) {
	if dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return "", fmt.Errorf("failed to expand project directory: %w", err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf("failed to resolve project directory: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project directory %s: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project directory %s is not a directory", abs)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	if root := FindGitRoot(cwd); root != "" {
		return root, nil
	}
	return cwd, nil
}

// Vagrantfile returns the Vagrantfile path inside dir.
func Vagrantfile(dir string) string {
	return filepath.Join(dir, VagrantfileName)
}
