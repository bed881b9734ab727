package provision

import (
	"fmt"
	"log/slog"
	"maps"
	"path"
	"path/filepath"
	"strings"

	"github.com/faize-ai/archbox/internal/backup"
	"github.com/faize-ai/archbox/internal/config"
	"github.com/faize-ai/archbox/internal/guest"
	"github.com/faize-ai/archbox/internal/logging"
	"github.com/faize-ai/archbox/internal/mount"
	"github.com/spf13/afero"
)

// OSType is the VirtualBox guest OS identifier forced on the machine.
const OSType = "ArchLinux_64"

// DefaultPort is one entry of the default forwarded-port table.
type DefaultPort struct {
	Guest int
	Host  int
}

// DefaultPorts are forwarded unless default_ports is false, in ascending guest order.
var DefaultPorts = []DefaultPort{
	{Guest: 80, Host: 8000},
	{Guest: 443, Host: 44300},
	{Guest: 3306, Host: 33060},
	{Guest: 4040, Host: 4040},
	{Guest: 5432, Host: 54320},
	{Guest: 8025, Host: 8025},
	{Guest: 9600, Host: 9600},
	{Guest: 27017, Host: 27017},
}

// Default mount options per synced folder type
var (
	NFSMountOptions = []string{"actimeo=1", "nolock"}
	SMBMountOptions = []string{"vers=3.02", "mfsymlinks"}
)

// Configurator applies settings to a provisioning context
type Configurator struct {
	fs      afero.Fs
	log     *slog.Logger
	backups *backup.Registry
	baseDir string
}

// Option configures a Configurator
type Option func(*Configurator)

// WithFs sets the filesystem used for host file checks and reads.
func WithFs(fs afero.Fs) Option {
	return func(c *Configurator) { c.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Configurator) { c.log = log }
}

// WithBackupRegistry sets the registry database backups are looked up in.
func WithBackupRegistry(r *backup.Registry) Option {
	return func(c *Configurator) { c.backups = r }
}

// WithBaseDir sets the directory relative host paths are resolved against,
// normally the project directory. Without it they resolve against the
// working directory.
func WithBaseDir(dir string) Option {
	return func(c *Configurator) { c.baseDir = dir }
}

// NewConfigurator creates a Configurator on the host filesystem.
func NewConfigurator(opts ...Option) *Configurator {
	c := &Configurator{
		fs:      afero.NewOsFs(),
		log:     logging.Logger,
		backups: backup.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// expand resolves a host path from the settings to an absolute path.
func (c *Configurator) expand(p string) (string, error) {
	if c.baseDir != "" && p != "" && !strings.HasPrefix(p, "~") && !filepath.IsAbs(p) {
		p = filepath.Join(c.baseDir, p)
	}
	return mount.Expand(p)
}

// Configure normalizes s in place and issues the provisioning calls on ctx.
// Validation errors are returned before ctx is touched.
func (c *Configurator) Configure(ctx Context, s *config.Settings) error {
	s.Normalize()

	keys, err := c.validate(s)
	if err != nil {
		return err
	}

	validator, err := mount.NewValidator(s.BlockedPaths)
	if err != nil {
		return fmt.Errorf("failed to create folder validator: %w", err)
	}

	ctx.SetDefaultProvider(s.Provider)
	ctx.SetBox(s.Box)
	ctx.SetHostname(s.Hostname)

	c.configureNetworks(ctx, s)
	c.configureVirtualBox(ctx, s)
	c.configurePorts(ctx, s)
	c.configureKeys(ctx, s, keys)
	c.configureCopies(ctx, s)
	c.configureFolders(ctx, s, validator)
	c.configureBackups(ctx, s)

	c.log.Debug("Provisioning configured",
		"provider", s.Provider,
		"box", s.Box,
		"hostname", s.Hostname,
	)
	return nil
}

// validate checks everything that can fail the pass and reads the private keys.
func (c *Configurator) validate(s *config.Settings) ([]privateKey, error) {
	if s.DefaultSSHPort != nil {
		if err := checkPort("default_ssh_port", *s.DefaultSSHPort); err != nil {
			return nil, err
		}
	}
	for i, p := range s.Ports {
		if err := checkPort(fmt.Sprintf("ports[%d].guest", i), p.Guest); err != nil {
			return nil, err
		}
		if err := checkPort(fmt.Sprintf("ports[%d].host", i), p.Host); err != nil {
			return nil, err
		}
	}

	if s.Backup {
		for i, db := range s.Databases {
			if _, err := c.backups.Get(db.Kind); err != nil {
				return nil, &ValidationError{
					Field: fmt.Sprintf("databases[%d].kind", i),
					Value: db.Kind,
					Err:   fmt.Errorf("%w, known kinds: %s", ErrUnknownDatabaseKind, strings.Join(c.backups.Kinds(), ", ")),
				}
			}
		}
	}

	if !s.HasPrivKeys() {
		return nil, nil
	}
	return c.loadPrivateKeys(*s.PrivKeys)
}

func checkPort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Value: fmt.Sprint(port), Err: ErrInvalidPort}
	}
	return nil
}

func (c *Configurator) configureNetworks(ctx Context, s *config.Settings) {
	if s.IsDHCP() {
		ctx.Network(Network{Type: "private_network", DHCP: true})
	} else {
		ctx.Network(Network{Type: "private_network", IP: s.IP})
	}

	for _, n := range s.Networks {
		netType := n.Type
		if netType == "" {
			netType = "private_network"
		}
		ctx.Network(Network{
			Type:    netType,
			IP:      n.IP,
			Bridge:  n.Bridge,
			Netmask: n.Netmask,
		})
	}
}

func (c *Configurator) configureVirtualBox(ctx Context, s *config.Settings) {
	ctx.VirtualBox(VirtualBox{
		Name:   s.Name,
		Memory: s.Memory,
		CPUs:   s.CPUs,
		GUI:    s.ShowGUI(),
		Customize: [][]string{
			{"modifyvm", VMID, "--natdnsproxy1", "on"},
			{"modifyvm", VMID, "--natdnshostresolver1", s.NATDNSHostResolver},
			{"modifyvm", VMID, "--ostype", OSType},
		},
	})
}

func (c *Configurator) configurePorts(ctx Context, s *config.Settings) {
	if s.DefaultSSHPort != nil {
		ctx.ForwardPort(ForwardedPort{
			Guest:       22,
			Host:        *s.DefaultSSHPort,
			AutoCorrect: false,
			ID:          "ssh",
		})
	}

	if s.ShouldForwardDefaultPorts() {
		for _, p := range DefaultPorts {
			// A custom mapping for the same guest port wins
			if s.HasCustomGuestPort(p.Guest) {
				continue
			}
			ctx.ForwardPort(ForwardedPort{
				Guest:       p.Guest,
				Host:        p.Host,
				AutoCorrect: true,
			})
		}
	}

	for _, p := range s.Ports {
		ctx.ForwardPort(ForwardedPort{
			Guest:       p.Guest,
			Host:        p.Host,
			Protocol:    p.Protocol,
			AutoCorrect: true,
		})
	}
}

func (c *Configurator) configureKeys(ctx Context, s *config.Settings, keys []privateKey) {
	if s.PubKey != "" {
		if content := c.readPublicKey(s.PubKey); content != "" {
			ctx.Shell(Shell{
				Name:       "Authorize public key " + filepath.Base(s.PubKey),
				Inline:     guest.AuthorizedKeyScript(),
				Args:       []string{content},
				Privileged: true,
			})
		}
	}

	for _, key := range keys {
		ctx.Shell(Shell{
			Name:       "Copy private key " + key.name,
			Inline:     guest.PrivateKeyScript(),
			Args:       []string{key.content, key.name},
			Privileged: false,
		})
	}
}

func (c *Configurator) configureCopies(ctx Context, s *config.Settings) {
	for _, cp := range s.Copy {
		source := cp.From
		if expanded, err := c.expand(cp.From); err == nil {
			source = expanded
		}
		ctx.File(File{
			Source:      source,
			Destination: path.Join(strings.TrimRight(cp.To, "/"), filepath.Base(source)),
		})
	}
}

func (c *Configurator) configureFolders(ctx Context, s *config.Settings, validator *mount.Validator) {
	for i, folder := range s.Folders {
		source, reason := c.checkFolder(folder, validator)
		if reason != "" {
			c.log.Warn("Folder will not be shared", "index", i, "map", folder.Map, "reason", reason)
			ctx.Shell(Shell{
				Name:       "Warn about folder " + folder.Map,
				Inline:     guest.FolderWarningScript(s.File, folder.Map, reason),
				Privileged: true,
			})
			continue
		}

		folderType := folder.Type
		if s.Provider == "hyperv" {
			folderType = mount.TypeSMB
		}

		options := make(map[string]any, len(folder.Options)+3)
		maps.Copy(options, folder.Options)
		delete(options, "mount_options")
		delete(options, "type")

		mountOptions := []string{}
		switch folderType {
		case mount.TypeNFS:
			mountOptions = orDefaultOptions(folder.MountOptions, NFSMountOptions)
		case mount.TypeSMB:
			mountOptions = orDefaultOptions(folder.MountOptions, SMBMountOptions)
			setIfNotEmpty(options, "smb_host", folder.SMBHost)
			setIfNotEmpty(options, "smb_username", folder.SMBUsername)
			setIfNotEmpty(options, "smb_password", folder.SMBPassword)
		}
		if len(options) == 0 {
			options = nil
		}

		ctx.SyncedFolder(SyncedFolder{
			Source:       source,
			Destination:  folder.To,
			Type:         folderType,
			MountOptions: mountOptions,
			Options:      options,
		})

		if folderType == mount.TypeNFS && ctx.HasPlugin(PluginBindFS) {
			ctx.BindFolder(folder.To, folder.To)
		}
	}
}

// checkFolder returns the expanded host path, or a reason the folder can't be shared.
func (c *Configurator) checkFolder(folder config.Folder, validator *mount.Validator) (string, string) {
	if folder.Map == "" {
		return "", "no host path (map) given"
	}
	if folder.To == "" {
		return "", "no guest path (to) given"
	}

	source, err := c.expand(folder.Map)
	if err != nil {
		return "", err.Error()
	}
	if exists, err := afero.Exists(c.fs, source); err != nil || !exists {
		return "", "does not exist"
	}
	if err := validator.Validate(source); err != nil {
		return "", err.Error()
	}
	return source, ""
}

func (c *Configurator) configureBackups(ctx Context, s *config.Settings) {
	if !s.Backup {
		return
	}

	target := triggerTarget{ctx: ctx}
	for _, db := range s.Databases {
		strategy, err := c.backups.Get(db.Kind)
		if err != nil {
			// validate already rejected unknown kinds
			continue
		}
		backup.Backup(target, strategy, db.Name, "")
	}
}

// triggerTarget registers backup hooks as before-destroy triggers.
type triggerTarget struct {
	ctx Context
}

func (t triggerTarget) BackupHook(name, inline string) {
	t.ctx.Trigger(Trigger{
		Name:      name,
		When:      "before",
		On:        "destroy",
		RunRemote: inline,
	})
}

func orDefaultOptions(opts, def []string) []string {
	if len(opts) > 0 {
		return append([]string(nil), opts...)
	}
	return append([]string(nil), def...)
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
