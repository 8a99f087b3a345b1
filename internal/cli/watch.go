package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Senhordim/boilerplate/internal/ports/primary"
	"github.com/Senhordim/boilerplate/internal/watch"
	"github.com/Senhordim/boilerplate/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var src entitySource
	var artifacts []string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever an entity description file changes",
		Long: `Generate once, then watch the description file and regenerate after each
change. Runs never overlap. Stop with Ctrl-C.

Example:
  boilerplate watch --file entities.yaml --artifacts django`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if src.file == "" {
				return fmt.Errorf("--file is required")
			}
			ctx := commandContext(cmd)
			logger := wire.Logger()

			adapter, err := wire.GenerationAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			regenerate := func(ctx context.Context, path string) {
				entities, err := src.load(ctx, nil)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
					return
				}
				_, err = adapter.Generate(ctx, primary.GenerateRequest{Entities: entities, Artifacts: artifacts}, false)
				if err != nil && !errors.Is(err, context.Canceled) {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
				}
			}

			regenerate(ctx, src.file)

			w, err := watch.New([]string{src.file}, regenerate,
				watch.WithDebounce(debounce), watch.WithLogger(logger))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s (Ctrl-C to stop)\n", src.file)
			logger.Info("watching entity file", zap.String("path", src.file))
			return w.Run(ctx)
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringSliceVar(&artifacts, "artifacts", nil, "Artifact kinds or groups (default from config)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")

	return cmd
}
