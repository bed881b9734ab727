package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/faize-ai/archbox/internal/project"
	"github.com/faize-ai/archbox/internal/provision"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Plan output formats
const (
	outputSummary = "summary"
	outputYAML    = "yaml"
	outputJSON    = "json"
)

var (
	planFolders []string
	planOutput  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what the settings file would provision",
	Long: `Load the settings file and print the provisioning plan without
touching any machine.

Examples:
  archbox plan
  archbox plan --folder ~/code:/srv/code:nfs
  archbox plan --output json`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringArrayVarP(&planFolders, "folder", "f", []string{}, "additional synced folder host[:guest[:type]] (repeatable)")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", outputSummary, "output format: summary, yaml or json")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := checkOutput(planOutput); err != nil {
		return err
	}

	s, err := loadSettings(settingsFile, planFolders)
	if err != nil {
		return err
	}

	dir, err := project.Resolve("")
	if err != nil {
		return err
	}

	p, err := buildPlan(cmd.Context(), dir, s, newManager(dir, ""))
	if err != nil {
		return err
	}

	return writePlan(cmd.OutOrStdout(), p, planOutput)
}

func checkOutput(format string) error {
	switch format {
	case outputSummary, outputYAML, outputJSON:
		return nil
	}
	return fmt.Errorf("invalid --output %q: must be %s, %s or %s", format, outputSummary, outputYAML, outputJSON)
}

// writePlan prints p in the given format.
func writePlan(w io.Writer, p *provision.Plan, format string) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return enc.Close()
	case outputJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		printSummary(w, p)
		return nil
	}
}
