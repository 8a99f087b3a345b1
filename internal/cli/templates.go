package cli

import (
	"github.com/spf13/cobra"

	"github.com/Senhordim/boilerplate/internal/wire"
)

// TemplatesCmd returns the templates command
func TemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect artifact templates",
		Long: `List and print the templates used to render artifacts. Templates in the
configured templates_dir override the embedded ones with the same id.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List templates and the artifacts that use them",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.TemplatesAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.List()
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.TemplatesAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Show(args[0])
			return err
		},
	})

	return cmd
}
