package commands

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
	clitestutil "github.com/leapstack-labs/leapgraph/internal/cli/testutil"
	"github.com/leapstack-labs/leapgraph/internal/config"
	"github.com/leapstack-labs/leapgraph/internal/model"
	"github.com/leapstack-labs/leapgraph/internal/render"
	"github.com/leapstack-labs/leapgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfig(t *testing.T, p testutil.Project) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Catalog = p.Catalog
	cfg.ModelsDir = p.ModelsDir
	cfg.Output = filepath.Join(p.Root, "graph.dot")
	return cfg
}

func TestWithArgs(t *testing.T) {
	base := config.Default()
	base.Catalog = "from-config.yml"

	tests := []struct {
		name        string
		args        []string
		wantCatalog string
		wantDir     string
		wantErr     bool
	}{
		{name: "both from args", args: []string{"a.yml", "models"}, wantCatalog: "a.yml", wantDir: "models"},
		{name: "missing directory", args: []string{"a.yml"}, wantErr: true},
		{name: "config only is not enough", args: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithArgs(base, tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCatalog, got.Catalog)
			assert.Equal(t, tt.wantDir, got.ModelsDir)
		})
	}

	// The input config is not modified.
	assert.Equal(t, "from-config.yml", base.Catalog)
}

func TestGenerate(t *testing.T) {
	p := testutil.WriteProject(t, testutil.ScenarioCatalog, map[string]string{
		"active_users": "SELECT u.id AS user_id FROM public.users u",
	})
	cfg := projectConfig(t, p)
	cfg.Format = string(render.FormatJSON)

	g, err := Generate(context.Background(), cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "user_id"`)
	assert.Contains(t, string(data), `"type": "String"`)
}

func TestGenerate_CatalogErrorWritesNothing(t *testing.T) {
	p := testutil.WriteProject(t, "- name: users\n  datafields:\n    - name: id\n      datatype:\n        type: integer\n", map[string]string{
		"m": "SELECT id FROM users",
	})
	cfg := projectConfig(t, p)

	_, err := Generate(context.Background(), cfg, testutil.NewTestLogger(t))
	require.ErrorIs(t, err, catalog.ErrUnknownDataType)
	assert.NoFileExists(t, cfg.Output)
}

func TestColumnsCommand(t *testing.T) {
	p := testutil.WriteProject(t, testutil.ScenarioCatalog, map[string]string{
		"active_users": "SELECT u.id AS user_id FROM public.users u",
		"joined":       "SELECT a.x FROM t1 a",
	})
	ctx := config.WithConfig(context.Background(), config.Default())

	for _, args := range [][]string{
		{p.Catalog, p.ModelsDir},
		{p.Catalog, p.ModelsDir, "--markdown"},
	} {
		res := clitestutil.Execute(t, ctx, NewColumnsCommand(), args...)
		require.NoError(t, res.Err)

		// Buffers are not terminals, so output is markdown either way.
		assert.Contains(t, res.Out, "# Columns")
		assert.Contains(t, res.Out, "| active_users | user_id | public.users | String |")
		assert.Contains(t, res.Out, "| joined | x | t1 | Unknown |")
		assert.Contains(t, res.Out, "## Diagnostics")
		assert.Contains(t, res.Out, "joined.x: untyped")
		clitestutil.AssertNoANSI(t, res.Out)
		clitestutil.AssertValidMarkdown(t, res.Out)
	}
}

func TestColumnsCommand_Usage(t *testing.T) {
	res := clitestutil.Execute(t, context.Background(), NewColumnsCommand())
	assert.ErrorIs(t, res.Err, ErrUsage)
}

func TestSourceOf(t *testing.T) {
	tables := []model.SourceTable{
		{Origin: []string{"public", "users"}, Alias: "u"},
		{Origin: []string{"orders"}},
	}

	assert.Equal(t, "public.users", sourceOf(model.Item{Name: "id", Path: []string{"u"}}, tables))
	assert.Equal(t, "(ambiguous)", sourceOf(model.Item{Name: "id"}, tables))
	assert.Equal(t, "(unresolved)", sourceOf(model.Item{Name: "id", Path: []string{"x"}}, tables))
}

func TestVersionCommand(t *testing.T) {
	res := clitestutil.Execute(t, context.Background(), NewVersionCommand("1.2.3"))
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "leapgraph v1.2.3")
}

func TestWatchPaths_Relevant(t *testing.T) {
	paths := WatchPaths{Catalog: "/p/sources.yml", ModelsDir: "/p/models"}

	tests := []struct {
		name string
		want bool
	}{
		{name: "/p/models/a.sql", want: true},
		{name: "/p/models/A.SQL", want: true},
		{name: "/p/sources.yml", want: true},
		{name: "/p/models/notes.md", want: false},
		{name: "/p/models/sub/b.sql", want: false},
		{name: "/p/other.yml", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.relevant(tt.name))
		})
	}
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	p := testutil.WriteProject(t, testutil.ScenarioCatalog, map[string]string{
		"a": "SELECT id FROM public.users",
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchPaths{Catalog: p.Catalog, ModelsDir: p.ModelsDir}, testutil.NewTestLogger(t),
			func(context.Context) error {
				rebuilds.Add(1)
				return nil
			})
	}()

	// Writes are spaced beyond the debounce interval so each one can fire.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(p.ModelsDir, "b.sql"), []byte("SELECT id FROM a"), 0o600)
		return rebuilds.Load() > 0
	}, 5*time.Second, 3*DebounceInterval)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), WatchPaths{ModelsDir: filepath.Join(t.TempDir(), "nope")},
		testutil.NewTestLogger(t), func(context.Context) error { return nil })
	assert.Error(t, err)
}
