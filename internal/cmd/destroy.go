package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/faize-ai/archbox/internal/plan"
	"github.com/faize-ai/archbox/internal/vagrant"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	destroyProjectDir string
	destroyForce      bool
)

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Destroy the machine of a project",
	Long: `Run vagrant destroy for the most recent plan of the project directory.

When backups are enabled in the settings, the database dumps run as
before-destroy triggers and land in .backup/ of the project directory.`,
	Args: cobra.NoArgs,
	RunE: runDestroy,
}

func init() {
	destroyCmd.Flags().StringVarP(&destroyProjectDir, "project", "p", "", "project directory (default: git root or current directory)")
	destroyCmd.Flags().BoolVar(&destroyForce, "force", false, "destroy without confirmation")

	rootCmd.AddCommand(destroyCmd)
}

// stdinIsTerminal reports whether vagrant can ask for destroy confirmation
var stdinIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func runDestroy(cmd *cobra.Command, args []string) error {
	if !destroyForce && !stdinIsTerminal() {
		return fmt.Errorf("stdin is not a terminal: pass --force to destroy without confirmation")
	}

	return stopMachine(cmd, destroyProjectDir, "destroy", plan.StatusDestroyed, func(ctx context.Context, m vagrant.Manager) error {
		return m.Destroy(ctx, destroyForce)
	})
}
