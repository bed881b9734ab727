package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/faize-ai/archbox/internal/config"
	"github.com/faize-ai/archbox/internal/errors"
	"github.com/faize-ai/archbox/internal/logging"
	"github.com/faize-ai/archbox/internal/mount"
	"github.com/faize-ai/archbox/internal/provision"
	"github.com/faize-ai/archbox/internal/vagrant"
	"github.com/faize-ai/archbox/internal/vagrantfile"
)

// loadSettings reads the settings file and appends --folder specs as folders.
func loadSettings(path string, folders []string) (*config.Settings, error) {
	s, err := config.Load(path)
	if err != nil {
		return nil, errors.ConfigError("failed to load settings", err)
	}
	if s.File != "" {
		logging.Debug("Loaded settings", "file", s.File)
	}

	for _, spec := range folders {
		f, err := mount.Parse(spec)
		if err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("invalid --folder %q", spec), err)
		}
		s.Folders = append(s.Folders, config.Folder{Map: f.Source, To: f.Target, Type: f.Type})
	}

	return s, nil
}

// buildPlan runs the configurator against a fresh plan. Relative host paths in
// s resolve against dir. Installed vagrant plugins are listed through mgr; a
// failed listing means no plugins.
func buildPlan(ctx context.Context, dir string, s *config.Settings, mgr vagrant.Manager) (*provision.Plan, error) {
	plugins, err := mgr.Plugins(ctx)
	if err != nil {
		logging.Warn("Could not list vagrant plugins", "error", err)
		plugins = nil
	}

	p := provision.NewPlan(plugins...)
	if err := provision.NewConfigurator(provision.WithBaseDir(dir)).Configure(p, s); err != nil {
		var validationErr *provision.ValidationError
		if errors.As(err, &validationErr) {
			return nil, errors.ValidationError(err)
		}
		return nil, err
	}

	logging.Debug("Plan built", "actions", p.ActionCount(), "plugins", plugins)
	return p, nil
}

// writeVagrantfile renders p to path, replacing any previous render.
func writeVagrantfile(path string, p *provision.Plan) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := vagrantfile.Render(f, p); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}
