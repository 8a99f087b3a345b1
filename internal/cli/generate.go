package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Senhordim/boilerplate/internal/ports/primary"
	"github.com/Senhordim/boilerplate/internal/wire"
)

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	var src entitySource
	var artifacts []string
	var dryRun, show, yes bool

	cmd := &cobra.Command{
		Use:   "generate [entity]",
		Short: "Generate and merge scaffolding for entities",
		Long: `Render the selected artifacts for each entity and merge them into the
target files. Files are created when missing, sections are appended when their
marker is absent, and locked files are never touched.

Examples:
  boilerplate generate Invoice --app billing --fields "number:string,total:float,issued_on:date?"
  boilerplate generate --file entities.yaml --artifacts django
  boilerplate generate --file entities.cue --dry-run --show`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			entities, err := src.load(ctx, args)
			if err != nil {
				return err
			}

			if !dryRun && !yes {
				cfg, err := wire.Config()
				if err != nil {
					return err
				}
				question := fmt.Sprintf("Generate artifacts for %d entity(ies) into %s?", len(entities), cfg.OutputRoot)
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			adapter, err := wire.GenerationAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			report, err := adapter.Generate(ctx, primary.GenerateRequest{
				Entities:  entities,
				Artifacts: artifacts,
				DryRun:    dryRun,
			}, show)
			if err != nil {
				return err
			}
			if _, _, failed := report.Counts(); failed > 0 {
				return fmt.Errorf("%d artifact(s) failed", failed)
			}
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringSliceVar(&artifacts, "artifacts", nil, "Artifact kinds or groups (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Merge in memory and report without writing")
	cmd.Flags().BoolVar(&show, "show", false, "With --dry-run, print the resulting file contents")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var src entitySource
	var artifacts []string

	cmd := &cobra.Command{
		Use:   "status [entity]",
		Short: "Show what generate would do for entities",
		Long: `Probe every target file without rendering: whether it exists, whether it
is locked, and whether the entity's section is already present.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			entities, err := src.load(ctx, args)
			if err != nil {
				return err
			}

			adapter, err := wire.GenerationAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Status(ctx, primary.StatusRequest{Entities: entities, Artifacts: artifacts})
			return err
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringSliceVar(&artifacts, "artifacts", nil, "Artifact kinds or groups (default from config)")

	return cmd
}

// LockCmd returns the lock command
func LockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock <file>...",
		Short: "Protect files from further generation",
		Long: `Add the #FileLocked sentinel to each file as a comment in the file's own
syntax. Generation skips locked files. Paths are relative to the output root.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.GenerationAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Lock(commandContext(cmd), args)
			return err
		},
	}
}
