// Package cli provides the command-line interface for leapgraph.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/leapstack-labs/leapgraph/internal/cli/commands"
	"github.com/leapstack-labs/leapgraph/internal/config"
	"github.com/leapstack-labs/leapgraph/internal/render"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// ErrUsage is returned when the catalog or models directory is missing.
var ErrUsage = commands.ErrUsage

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "leapgraph <catalog.yml> <sql-dir>",
		Short: "leapgraph - column-level lineage for SQL models",
		Long: `leapgraph reads a catalog of source tables and a directory of SQL models
and writes a lineage graph: one node per table or model, one edge per
source-to-model dependency, labelled with the columns that flow along it
and their data types.`,
		Example: `  # Write graph.dot
  leapgraph sources.yml models/

  # Mermaid output to a custom file
  leapgraph sources.yml models/ --format mermaid --out lineage.mmd

  # Rebuild on every change
  leapgraph sources.yml models/ --watch`,
		Version: Version,
		Args:    cobra.MaximumNArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help, completion and version
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := cfg.NewLogger(cmd.ErrOrStderr())
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE:          commands.RunGenerate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leapgraph.yaml)")
	rootCmd.PersistentFlags().String("out", config.DefaultOutput, "Output file for the graph")
	rootCmd.PersistentFlags().StringP("format", "f", config.DefaultFormat, "Graph format (dot|mermaid|json)")
	rootCmd.PersistentFlags().Int("workers", config.DefaultWorkers, "Number of SQL files parsed concurrently")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output (debug logging)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	rootCmd.Flags().BoolP("watch", "w", false, "Rebuild the graph whenever the catalog or a model changes")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return render.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewColumnsCommand())

	return rootCmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return ExecuteContext(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
}

// ExecuteContext runs cmd with args and reports errors to stderr.
func ExecuteContext(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) error {
	cmd.SetArgs(append([]string{}, args...))
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, ErrUsage) {
			_, _ = fmt.Fprintln(stderr, commands.UsageLine)
		} else {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
