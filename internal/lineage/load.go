package lineage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
	"github.com/leapstack-labs/leapgraph/internal/extract"
	"github.com/leapstack-labs/leapgraph/internal/model"
)

// DefaultWorkers bounds concurrent file parsing when Options.Workers is zero.
const DefaultWorkers = 4

// ErrNotDirectory is returned when the models path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// LoadError wraps a failure to read or parse one SQL file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options configures Load.
type Options struct {
	Workers int          // concurrent parsers; DefaultWorkers when zero
	Logger  *slog.Logger // nil discards logs
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return DefaultWorkers
	}
	return o.Workers
}

// FindSQLFiles lists *.sql files directly inside dir, sorted by name.
func FindSQLFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("models directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("models directory %s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read models directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ModelName returns the file stem used as the model name.
func ModelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FromSQL builds a model named name from SQL text.
func FromSQL(name, sql string) (*model.Model, error) {
	r, err := extract.Parse(sql)
	if err != nil {
		return nil, err
	}
	return model.New(name, r.Tables, r.Items), nil
}

// LoadModel reads and extracts one SQL file.
func LoadModel(path string) (*model.Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from directory listing
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := FromSQL(ModelName(path), string(data))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// Load parses every model in dir and assigns column types against cat.
// Any unreadable or unparseable file aborts the load.
func Load(ctx context.Context, dir string, cat *catalog.Catalog, opts Options) (*ModelSet, error) {
	start := time.Now()
	logger := opts.logger()

	files, err := FindSQLFiles(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered models", "path", dir, "files", len(files))

	models := make([]*model.Model, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := LoadModel(path)
			if err != nil {
				return err
			}
			logger.Debug("extracted model",
				"model", m.Name,
				"tables", len(m.Tables),
				"columns", len(m.Items))
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := New(cat, models, logger)

	logger.Info("lineage loaded",
		"models", len(models),
		"diagnostics", len(set.Diagnostics()),
		"duration_ms", time.Since(start).Milliseconds())

	return set, nil
}
