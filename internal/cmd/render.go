package cmd

import (
	"fmt"

	"github.com/faize-ai/archbox/internal/project"
	"github.com/faize-ai/archbox/internal/vagrantfile"
	"github.com/spf13/cobra"
)

var (
	renderOut     string
	renderFolders []string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write a Vagrantfile for the settings file",
	Long: `Render the provisioning plan as a Vagrantfile. The file is written to
the project root (git root or current directory) unless --out is given;
--out - prints it instead.

Examples:
  archbox render
  archbox render --out /tmp/Vagrantfile
  archbox render --out -`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output path, - for stdout (default: <project>/Vagrantfile)")
	renderCmd.Flags().StringArrayVarP(&renderFolders, "folder", "f", []string{}, "additional synced folder host[:guest[:type]] (repeatable)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(settingsFile, renderFolders)
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

	if renderOut == "-" {
		return vagrantfile.Render(cmd.OutOrStdout(), p)
	}

	out := renderOut
	if out == "" {
		out = project.Vagrantfile(dir)
	}
	if err := writeVagrantfile(out, p); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (provider %s)\n", out, p.DefaultProvider)
	return nil
}
