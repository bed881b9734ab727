package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/faize-ai/archbox/internal/plan"
	"github.com/spf13/cobra"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List recorded machines",
	Long:  `List all plans recorded by archbox up with their project, provider and status.`,
	Args:  cobra.NoArgs,
	RunE:  runPs,
}

func init() {
	rootCmd.AddCommand(psCmd)
}

func runPs(cmd *cobra.Command, args []string) error {
	store, err := plan.NewDefaultStore()
	if err != nil {
		return fmt.Errorf("failed to access plan store: %w", err)
	}

	records, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No recorded machines.")
		return nil
	}

	// Create tabwriter for aligned output
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPROJECT\tPROVIDER\tSTATUS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-------\t--------\t------\t-------")

	for _, r := range records {
		created := r.CreatedAt.Local().Format("2006-01-02 15:04:05")
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ShortID(),
			r.ProjectDir,
			r.Provider,
			r.Status,
			created,
		)
	}

	return w.Flush()
}
