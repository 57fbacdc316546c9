package cli

import (
	"github.com/spf13/cobra"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/render"
)

func newShowCommand(app *App) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "show <workflow> <step-id>",
		Short: "Render one step's instructions",
		Long: `Render the title, phase, and actions of a single step without touching
any run state. Useful for inspecting a workflow before driving it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.Registry.Get(args[0])
			if err != nil {
				return err
			}
			step, err := w.Step(args[1])
			if err != nil {
				return err
			}

			f := app.Formatter
			if encoding != "" {
				enc, err := render.ParseEncoding(encoding)
				if err != nil {
					return err
				}
				f = render.NewFormatter(enc)
			}

			cmd.Print(f.FormatStep(step))
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "output encoding: term or markdown (defaults to config)")

	return cmd
}
