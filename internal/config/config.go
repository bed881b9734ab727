package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// HardcodedBlockedPaths are credential stores that can never be shared into the guest,
// whatever blocked_paths says.
var HardcodedBlockedPaths = []string{
	"~/.ssh",
	"~/.aws",
	"~/.config/gcloud",
	"~/.gnupg",
	"~/.password-store",
	"~/.docker/config.json",
}

// Settings represents an archbox settings file
type Settings struct {
	Provider           string     `mapstructure:"provider"`
	Box                string     `mapstructure:"box"`
	Hostname           string     `mapstructure:"hostname"`
	IP                 string     `mapstructure:"ip"`
	Networks           []Network  `mapstructure:"networks"`
	Name               string     `mapstructure:"name"`
	Memory             int        `mapstructure:"memory"`
	CPUs               int        `mapstructure:"cpus"`
	NATDNSHostResolver string     `mapstructure:"natdnshostresolver"`
	GUI                *bool      `mapstructure:"gui"`
	DefaultSSHPort     *int       `mapstructure:"default_ssh_port"`
	DefaultPorts       *bool      `mapstructure:"default_ports"`
	Ports              []Port     `mapstructure:"ports"`
	PubKey             string     `mapstructure:"pubkey"`
	PrivKeys           *[]string  `mapstructure:"privkeys"`
	Copy               []Copy     `mapstructure:"copy"`
	Folders            []Folder   `mapstructure:"folders"`
	BlockedPaths       []string   `mapstructure:"blocked_paths"`
	Backup             bool       `mapstructure:"backup"`
	Databases          []Database `mapstructure:"databases"`

	// File is the settings file the values were read from, empty when none was found.
	File string `mapstructure:"-"`
}

// Network is an additional network interface
type Network struct {
	Type    string `mapstructure:"type"`
	IP      string `mapstructure:"ip"`
	Bridge  string `mapstructure:"bridge"`
	Netmask string `mapstructure:"netmask"`
}

// Port is a custom forwarded port
type Port struct {
	Guest    int    `mapstructure:"guest"`
	Host     int    `mapstructure:"host"`
	Protocol string `mapstructure:"protocol"`
}

// Copy is a host file uploaded into the guest
type Copy struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// Folder is a host directory shared with the guest
type Folder struct {
	Map          string         `mapstructure:"map"`
	To           string         `mapstructure:"to"`
	Type         string         `mapstructure:"type"`
	MountOptions []string       `mapstructure:"mount_options"`
	SMBHost      string         `mapstructure:"smb_host"`
	SMBUsername  string         `mapstructure:"smb_username"`
	SMBPassword  string         `mapstructure:"smb_password"`
	Options      map[string]any `mapstructure:"options"`
}

// Database is a guest database dumped before the machine is destroyed
type Database struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`
}

// ShowGUI returns whether the VirtualBox console window is requested.
// Defaults to false when not explicitly set.
func (s *Settings) ShowGUI() bool {
	if s.GUI == nil {
		return false
	}
	return *s.GUI
}

// ShouldForwardDefaultPorts returns whether the default port table is forwarded.
// Defaults to true; only an explicit false disables it.
func (s *Settings) ShouldForwardDefaultPorts() bool {
	if s.DefaultPorts == nil {
		return true
	}
	return *s.DefaultPorts
}

// HasPrivKeys returns whether the privkeys key was present in the settings.
func (s *Settings) HasPrivKeys() bool {
	return s.PrivKeys != nil
}

// HasCustomGuestPort returns whether a custom port entry targets the given guest port.
func (s *Settings) HasCustomGuestPort(guest int) bool {
	for _, p := range s.Ports {
		if p.Guest == guest {
			return true
		}
	}
	return false
}

// scalarKeys can be overridden from the environment as ARCHBOX_<KEY>
var scalarKeys = []string{
	"provider",
	"box",
	"hostname",
	"ip",
	"name",
	"memory",
	"cpus",
	"natdnshostresolver",
	"gui",
	"default_ssh_port",
	"default_ports",
	"pubkey",
	"backup",
}

// Load reads settings from path, or from archbox.{yaml,yml,json} in the current
// directory or ~/.archbox when path is empty. A missing search-path file yields
// an all-default Settings; a missing explicit path is an error.
func Load(path string) (*Settings, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName("archbox")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix("ARCHBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range scalarKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// No settings file, everything falls back to defaults
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	s.File = v.ConfigFileUsed()

	s.BlockedPaths = mergeBlockedPaths(expandPaths(s.BlockedPaths), expandPaths(HardcodedBlockedPaths))

	return &s, nil
}

// setDefaults only covers keys that are not part of the provisioning pass;
// provisioning defaults are resolved by Normalize so that presence stays observable.
func setDefaults(v *viper.Viper) {
	v.SetDefault("blocked_paths", []string{
		"~/.kube",
		"~/.netrc",
		"~/.config/gh",
	})
	v.SetDefault("backup", false)
}

// expandPaths expands ~ in paths to home directory
func expandPaths(paths []string) []string {
	expanded := make([]string, len(paths))
	for i, path := range paths {
		expandedPath, err := homedir.Expand(path)
		if err != nil {
			// If expansion fails, use original path
			expanded[i] = path
			continue
		}
		expanded[i] = expandedPath
	}
	return expanded
}

// ConfigDir returns the archbox configuration directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".archbox"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(configDir, 0755)
}

// mergeBlockedPaths merges two lists of blocked paths, removing duplicates.
// The hardcoded paths are always included regardless of user config.
func mergeBlockedPaths(userPaths, hardcodedPaths []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(userPaths)+len(hardcodedPaths))

	for _, path := range hardcodedPaths {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, path := range userPaths {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	return result
}
