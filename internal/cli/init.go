package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Senhordim/boilerplate/internal/config"
	"github.com/Senhordim/boilerplate/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default project configuration",
		Long:  `Write .boilerplate/config.yaml with default settings in the project directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := wire.ProjectDir()
			path := config.Path(dir)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default(dir)
			if err := config.SaveConfig(dir, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created %s (project %q)\n", path, cfg.Project)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, `  boilerplate generate Invoice --app billing --fields "number:string,total:float"`)
			fmt.Fprintln(out, "  boilerplate history list")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	return cmd
}
