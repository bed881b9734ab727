package mount

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Synced folder types with dedicated handling
const (
	TypeNFS   = "nfs"
	TypeSMB   = "smb"
	TypeRsync = "rsync"
	// TypeNative leaves the choice to the provider (vboxsf for VirtualBox)
	TypeNative = ""
)

var knownTypes = map[string]bool{
	TypeNFS:      true,
	TypeSMB:      true,
	TypeRsync:    true,
	"virtualbox": true,
	"virtiofs":   true,
	"9p":         true,
}

// Folder represents a host directory shared into the guest
type Folder struct {
	Source string // Host path (expanded absolute path)
	Target string // Guest path (defaults to same as source)
	Type   string // Synced folder type, empty for provider native
}

// Parse parses a folder specification string into a Folder.
//
// Formats:
//   - "~/code" -> Folder{Source: expanded path, Target: expanded path}
//   - "~/code:/home/vagrant/code" -> explicit guest path
//   - "~/code:nfs" -> same path in the guest, NFS synced
//   - "/srv/app:/srv/app:smb" -> explicit guest path and type
func Parse(spec string) (*Folder, error) {
	if spec == "" {
		return nil, fmt.Errorf("folder specification cannot be empty")
	}

	parts := strings.Split(spec, ":")

	sourcePath, err := expandPath(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid source path: %w", err)
	}
	folder := &Folder{Source: sourcePath, Target: sourcePath}

	switch len(parts) {
	case 1:
	case 2:
		if knownTypes[parts[1]] {
			folder.Type = parts[1]
			break
		}
		if !strings.HasPrefix(parts[1], "/") {
			return nil, fmt.Errorf("invalid target path '%s': guest paths must be absolute", parts[1])
		}
		folder.Target = filepath.Clean(parts[1])
	case 3:
		if !strings.HasPrefix(parts[1], "/") {
			return nil, fmt.Errorf("invalid target path '%s': guest paths must be absolute", parts[1])
		}
		folder.Target = filepath.Clean(parts[1])

		if !knownTypes[parts[2]] {
			return nil, fmt.Errorf("invalid type '%s': must be one of nfs, smb, rsync, virtualbox, virtiofs, 9p", parts[2])
		}
		folder.Type = parts[2]
	default:
		return nil, fmt.Errorf("invalid folder specification: too many colons")
	}

	return folder, nil
}

// Expand expands ~ to the home directory and returns a cleaned absolute path.
func Expand(path string) (string, error) {
	return expandPath(path)
}

// expandPath expands ~ to home directory and returns an absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to convert to absolute path: %w", err)
	}

	return filepath.Clean(abs), nil
}
