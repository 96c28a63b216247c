// Package testutil provides shared test helpers: a slog logger bound to
// the test and temporary project layouts.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Project is a temporary catalog file and models directory.
type Project struct {
	Root      string
	Catalog   string
	ModelsDir string
}

// WriteProject lays out catalogYAML as sources.yml and each entry of models
// as models/<name>.sql under a fresh temp directory.
func WriteProject(t testing.TB, catalogYAML string, models map[string]string) Project {
	t.Helper()

	root := t.TempDir()
	p := Project{
		Root:      root,
		Catalog:   filepath.Join(root, "sources.yml"),
		ModelsDir: filepath.Join(root, "models"),
	}
	if err := os.MkdirAll(p.ModelsDir, 0o750); err != nil {
		t.Fatalf("failed to create models dir: %v", err)
	}
	if err := os.WriteFile(p.Catalog, []byte(catalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	for name, sql := range models {
		p.WriteModel(t, name, sql)
	}
	return p
}

// WriteModel writes models/<name>.sql.
func (p Project) WriteModel(t testing.TB, name, sql string) {
	t.Helper()
	path := filepath.Join(p.ModelsDir, name+".sql")
	if err := os.WriteFile(path, []byte(sql), 0o600); err != nil {
		t.Fatalf("failed to write model %s: %v", name, err)
	}
}

// ScenarioCatalog declares public.users(id string).
const ScenarioCatalog = `
- name: users
  namespace: [public]
  description: Registered users
  datafields:
    - name: id
      datatype:
        type: string
`
