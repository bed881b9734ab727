package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/faize-ai/archbox/internal/errors"
	"github.com/faize-ai/archbox/internal/plan"
	"github.com/faize-ai/archbox/internal/project"
	"github.com/faize-ai/archbox/internal/vagrant"
	"github.com/spf13/cobra"
)

var haltProjectDir string

var haltCmd = &cobra.Command{
	Use:   "halt",
	Short: "Stop the machine of a project",
	Long:  `Run vagrant halt for the most recent plan of the project directory.`,
	Args:  cobra.NoArgs,
	RunE:  runHalt,
}

func init() {
	haltCmd.Flags().StringVarP(&haltProjectDir, "project", "p", "", "project directory (default: git root or current directory)")

	rootCmd.AddCommand(haltCmd)
}

func runHalt(cmd *cobra.Command, args []string) error {
	return stopMachine(cmd, haltProjectDir, "halt", plan.StatusHalted, func(ctx context.Context, m vagrant.Manager) error {
		return m.Halt(ctx)
	})
}

// stopMachine runs op against the latest recorded plan of a project and marks
// the record with status.
func stopMachine(cmd *cobra.Command, projectDir, op, status string, run func(context.Context, vagrant.Manager) error) error {
	dir, err := project.Resolve(projectDir)
	if err != nil {
		return err
	}

	store, err := plan.NewDefaultStore()
	if err != nil {
		return fmt.Errorf("failed to access plan store: %w", err)
	}

	record, err := store.Latest(dir)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			return errors.PlanNotFound(dir, err)
		}
		return err
	}

	if err := run(cmd.Context(), newManager(dir, record.Provider)); err != nil {
		return errors.VagrantError(op, err)
	}

	record.MarkStopped(status, time.Now())
	if err := store.Save(record); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Plan %s %s.\n", record.ShortID(), status)
	return nil
}
