package cmd

import (
	"fmt"

	"github.com/faize-ai/archbox/internal/logging"
	"github.com/faize-ai/archbox/internal/vagrant"
	"github.com/spf13/cobra"
)

var (
	settingsFile string
	debug        bool
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "archbox",
	Short: "archbox - Arch Linux Vagrant boxes from a settings file",
	Long: `archbox turns an archbox.yaml settings file into a Vagrant machine
running Arch Linux.

Inspect what would be provisioned:
  archbox plan
  archbox plan --output yaml

Write a Vagrantfile and boot the machine:
  archbox render
  archbox up --project ~/code/myapp

Manage machines:
  archbox ps
  archbox halt
  archbox destroy
  archbox prune`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "settings file (default is ./archbox.yaml, then ~/.archbox/archbox.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "log format: text or json")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if logFormat != logging.FormatText && logFormat != logging.FormatJSON {
		return fmt.Errorf("invalid --log-format %q: must be %s or %s", logFormat, logging.FormatText, logging.FormatJSON)
	}
	logging.Setup(debug, logFormat, cmd.ErrOrStderr())
	return nil
}

// newManager returns a vagrant runner for dir, falling back to the stub
// manager when vagrant is not installed.
var newManager = func(dir, provider string) vagrant.Manager {
	runner, err := vagrant.NewRunner(dir, provider)
	if err != nil {
		logging.Debug("vagrant not available, using stub manager", "error", err)
		return vagrant.NewStubManager()
	}
	return runner
}
