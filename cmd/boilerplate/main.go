package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Senhordim/boilerplate/internal/cli"
	"github.com/Senhordim/boilerplate/internal/logging"
	"github.com/Senhordim/boilerplate/internal/version"
	"github.com/Senhordim/boilerplate/internal/wire"
)

func main() {
	var (
		verbose bool
		dir     string
		root    string
		logger  *zap.Logger
	)

	rootCmd := &cobra.Command{
		Use:     "boilerplate",
		Short:   "Boilerplate - CRUD scaffolding for Django and Flutter apps",
		Version: version.String(),
		Long: `Boilerplate renders forms, serializers, views, urls, templates, models and
pages for your entities and merges them into existing project files without
touching code that is already there.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logging.New(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			wire.Configure(wire.Options{Dir: dir, OutputRoot: root, Logger: logger})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every artifact transition to stderr")
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "Project directory holding .boilerplate/config.yaml")
	rootCmd.PersistentFlags().StringVar(&root, "root", "", "Output root (overrides output_root from config)")

	// Generation
	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.LockCmd())
	rootCmd.AddCommand(cli.WatchCmd())

	// Inspection
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.TemplatesCmd())

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
