package cmd

import (
	"fmt"

	"github.com/faize-ai/archbox/internal/errors"
	"github.com/faize-ai/archbox/internal/logging"
	"github.com/faize-ai/archbox/internal/plan"
	"github.com/faize-ai/archbox/internal/project"
	"github.com/spf13/cobra"
)

var (
	upProjectDir  string
	upFolders     []string
	upNoProvision bool
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Render the Vagrantfile and boot the machine",
	Long: `Render the Vagrantfile into the project directory and run vagrant up.

The provider from the settings file is passed to vagrant as
VAGRANT_DEFAULT_PROVIDER. The plan is recorded under ~/.archbox/plans so that
halt, destroy and ps can find it.

Examples:
  archbox up                              # uses git root or current directory
  archbox up --project ~/code/myapp
  archbox up --no-provision`,
	Args: cobra.NoArgs,
	RunE: runUp,
}

func init() {
	upCmd.Flags().StringVarP(&upProjectDir, "project", "p", "", "project directory for the Vagrantfile (default: git root or current directory)")
	upCmd.Flags().StringArrayVarP(&upFolders, "folder", "f", []string{}, "additional synced folder host[:guest[:type]] (repeatable)")
	upCmd.Flags().BoolVar(&upNoProvision, "no-provision", false, "boot without running provisioners")

	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir, err := project.Resolve(upProjectDir)
	if err != nil {
		return err
	}

	s, err := loadSettings(settingsFile, upFolders)
	if err != nil {
		return err
	}

	p, err := buildPlan(ctx, dir, s, newManager(dir, ""))
	if err != nil {
		return err
	}

	path := project.Vagrantfile(dir)
	if err := writeVagrantfile(path, p); err != nil {
		return err
	}
	logging.Debug("Rendered Vagrantfile", "path", path)

	store, err := plan.NewDefaultStore()
	if err != nil {
		return fmt.Errorf("failed to access plan store: %w", err)
	}

	record := plan.NewRecord(dir, s.File, p)
	if err := store.Save(record); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting %s (%s) in %s\n", p.Hostname, p.DefaultProvider, dir)

	if err := newManager(dir, p.DefaultProvider).Up(ctx, !upNoProvision); err != nil {
		return errors.VagrantError("up", err)
	}

	record.Status = plan.StatusRunning
	if err := store.Save(record); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Machine is up. Plan %s recorded.\n", record.ShortID())
	return nil
}
