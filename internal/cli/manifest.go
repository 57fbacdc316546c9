package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/manifest"
)

func newManifestCommand(app *App) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the workflow manifest",
		Long: `Derive the manifest of registered workflows: name, entry point, step
count, and description. Printed as a table by default, or written as CSV
with --csv (use "-" for stdout).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manifest.Build(app.Registry.All())

			if csvPath != "" {
				if csvPath == "-" {
					return m.WriteCSV(cmd.OutOrStdout())
				}
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("failed to create manifest file: %w", err)
				}
				if err := m.WriteCSV(f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WORKFLOW\tENTRY\tSTEPS\tDESCRIPTION")
			for _, e := range m.Entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Workflow, e.Entry, e.Steps, e.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", `write the manifest as CSV to the given path ("-" for stdout)`)

	return cmd
}
