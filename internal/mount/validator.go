package mount

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Validator rejects host folders that would expose a blocked path to the guest
type Validator struct {
	blockedPaths []string // Expanded absolute paths
}

// NewValidator creates a new Validator with the given blocked paths.
// Each blocked path is expanded, made absolute and resolved through symlinks.
func NewValidator(blockedPaths []string) (*Validator, error) {
	expanded := make([]string, 0, len(blockedPaths))

	for _, path := range blockedPaths {
		if path == "" {
			continue
		}

		expandedPath, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand blocked path '%s': %w", path, err)
		}

		absPath, err := filepath.Abs(expandedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to convert blocked path '%s' to absolute: %w", path, err)
		}

		// (e.g., /etc -> /private/etc on macOS)
		realPath, err := filepath.EvalSymlinks(absPath)
		if err != nil {
			realPath = filepath.Clean(absPath)
		}

		expanded = append(expanded, realPath)
	}

	return &Validator{
		blockedPaths: expanded,
	}, nil
}

// Validate returns an error if the host path is at or under any blocked path.
func (v *Validator) Validate(hostPath string) error {
	if hostPath == "" {
		return fmt.Errorf("host path cannot be empty")
	}

	sourcePath, err := homedir.Expand(hostPath)
	if err != nil {
		sourcePath = hostPath
	}
	sourcePath, err = filepath.Abs(sourcePath)
	if err != nil {
		sourcePath = filepath.Clean(hostPath)
	}

	realPath, err := filepath.EvalSymlinks(sourcePath)
	if err != nil {
		// Not resolvable, compare the absolute path
		realPath = sourcePath
	}

	for _, blocked := range v.blockedPaths {
		if isUnderOrEqual(realPath, blocked) {
			if realPath != sourcePath {
				return fmt.Errorf("folder blocked: %s resolves to protected path %s", hostPath, blocked)
			}
			return fmt.Errorf("folder blocked: %s is a protected path", blocked)
		}
	}

	return nil
}

// BlockedPaths returns the resolved blocked paths.
func (v *Validator) BlockedPaths() []string {
	paths := make([]string, len(v.blockedPaths))
	copy(paths, v.blockedPaths)
	return paths
}

// isUnderOrEqual returns true if testPath is under or equal to basePath.
//   - "/home/user/.ssh" is under "/home/user/.ssh" (equal)
//   - "/home/user/.ssh/id_rsa" is under "/home/user/.ssh"
//   - "/home/user/.sshrc" is NOT under "/home/user/.ssh"
func isUnderOrEqual(testPath, basePath string) bool {
	if testPath == basePath {
		return true
	}

	baseWithSep := basePath
	if !strings.HasSuffix(baseWithSep, string(filepath.Separator)) {
		baseWithSep += string(filepath.Separator)
	}

	return strings.HasPrefix(testPath, baseWithSep)
}
