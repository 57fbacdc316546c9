package cli

import (
	"github.com/spf13/cobra"
)

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range app.Registry.Names() {
				w, err := app.Registry.Get(name)
				if err != nil {
					return err
				}
				if w.Description != "" {
					cmd.Printf("%s\t%s\n", name, w.Description)
					continue
				}
				cmd.Println(name)
			}
			return nil
		},
	}
}
