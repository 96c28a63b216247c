// Package commands implements the leapgraph subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
	"github.com/leapstack-labs/leapgraph/internal/cli/output"
	"github.com/leapstack-labs/leapgraph/internal/config"
	"github.com/leapstack-labs/leapgraph/internal/dag"
	"github.com/leapstack-labs/leapgraph/internal/lineage"
	"github.com/leapstack-labs/leapgraph/internal/render"
	"github.com/spf13/cobra"
)

// UsageLine is printed when the catalog or models directory is missing.
const UsageLine = "Usage: leapgraph <path to sources.yml> <path to folder with .sql files>"

// ErrUsage is returned when the catalog or models directory is missing.
var ErrUsage = errors.New("missing catalog or models directory")

// WithArgs returns a copy of cfg with positional arguments applied: the
// first overrides the catalog, the second the models directory.
func WithArgs(cfg *config.Config, args []string) (*config.Config, error) {
	out := *cfg
	if len(args) > 0 {
		out.Catalog = args[0]
	}
	if len(args) > 1 {
		out.ModelsDir = args[1]
	}
	if out.Catalog == "" || out.ModelsDir == "" {
		return nil, ErrUsage
	}
	return &out, nil
}

// Build loads the catalog and models and assembles the lineage.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*lineage.ModelSet, error) {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", "path", cfg.Catalog, "tables", cat.Len())

	return lineage.Load(ctx, cfg.ModelsDir, cat, lineage.Options{
		Workers: cfg.Workers,
		Logger:  logger,
	})
}

// Generate builds the graph and writes it to cfg.Output. Nothing is written
// when any step fails.
func Generate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dag.Graph, error) {
	start := time.Now()

	set, err := Build(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	g := set.Graph()
	if cyclic, path := g.HasCycle(); cyclic {
		logger.Warn("lineage graph contains a cycle", "path", strings.Join(path, " -> "))
	}
	if err := render.WriteFile(cfg.Output, g, cfg.RenderFormat()); err != nil {
		return nil, err
	}

	logger.Info("graph written",
		"path", cfg.Output,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration_ms", time.Since(start).Milliseconds())
	return g, nil
}

// RunGenerate is the root command's action.
func RunGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := WithArgs(config.FromContext(ctx), args)
	if err != nil {
		return err
	}
	logger := config.GetLogger(ctx)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)

	if _, err := Generate(ctx, cfg, logger); err != nil {
		return err
	}
	r.Success(fmt.Sprintf("graph successfully written to file: %s", cfg.Output))

	if !cfg.Watch {
		return nil
	}
	return Watch(ctx, WatchPaths{Catalog: cfg.Catalog, ModelsDir: cfg.ModelsDir}, logger, func(ctx context.Context) error {
		if _, err := Generate(ctx, cfg, logger); err != nil {
			r.Error(fmt.Sprintf("Rebuild error: %v", err))
			return err
		}
		r.Success(fmt.Sprintf("graph successfully written to file: %s", cfg.Output))
		return nil
	})
}
