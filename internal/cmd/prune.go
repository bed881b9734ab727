package cmd

import (
	"fmt"

	"github.com/faize-ai/archbox/internal/plan"
	"github.com/spf13/cobra"
)

var pruneAll bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove records of stopped machines",
	Long: `Remove recorded plans whose machine was halted or destroyed.

With --all every record is removed, including running machines. The
machines themselves are not touched.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().BoolVarP(&pruneAll, "all", "a", false, "remove all records (including running)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	store, err := plan.NewDefaultStore()
	if err != nil {
		return fmt.Errorf("failed to access plan store: %w", err)
	}

	records, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	removedCount := 0
	for _, r := range records {
		if !pruneAll && !r.Stopped() {
			continue
		}
		if err := store.Delete(r.ID); err != nil {
			fmt.Fprintf(out, "Warning: failed to delete plan %s: %v\n", r.ShortID(), err)
			continue
		}
		fmt.Fprintf(out, "Removed plan: %s\n", r.ShortID())
		removedCount++
	}

	if removedCount == 0 {
		fmt.Fprintln(out, "No plans to remove.")
	} else {
		fmt.Fprintf(out, "Removed %d plan(s).\n", removedCount)
	}

	return nil
}
