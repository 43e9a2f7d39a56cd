package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depscope/pkg/config"
)

// runCache runs "depscope cache args..." against cacheHome.
func runCache(t *testing.T, cacheHome string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	status := captureOutput(t)
	var stdout bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"cache"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), status.String(), err
}

func writeLocalDesc(t *testing.T, dbPath, name, desc string) {
	t.Helper()
	dir := filepath.Join(dbPath, "local", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "desc"), []byte(desc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func countEntries(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasSuffix(path, ".json") {
			n++
		}
		return nil
	})
	return n
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", home)
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCachePathCommand(t *testing.T) {
	home := t.TempDir()
	stdout, _, err := runCache(t, home, "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(home, appName) + "\n"; stdout != want {
		t.Errorf("cache path = %q, want %q", stdout, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	fc, err := openFileCache()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"catalog:a", "catalog:b"} {
		if err := fc.Set(ctx, key, []byte("[]"), 0); err != nil {
			t.Fatal(err)
		}
	}

	_, status, err := runCache(t, home, "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(status, "Cleared 2 cached catalogs") {
		t.Errorf("status = %q, want the cleared count", status)
	}
	if n := countEntries(t, fc.Dir()); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}

	_, status, err = runCache(t, home, "clear")
	if err != nil {
		t.Fatalf("second cache clear: %v", err)
	}
	if !strings.Contains(status, "Cache is empty") {
		t.Errorf("status = %q, want an empty cache", status)
	}
}

func TestCacheClearDatabase(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	db := t.TempDir()
	writeLocalDesc(t, db, "glibc-2.40-1", "%NAME%\nglibc\n\n%VERSION%\n2.40-1\n\n")

	s := newCache(false, newLogger(io.Discard, LogInfo))
	fc := s.(interface{ Dir() string })
	// Unrelated entries survive a targeted clear.
	if err := s.Set(context.Background(), "other", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Graph.DBPath = db
	if _, err := openSession(withLogger(context.Background(), newLogger(io.Discard, LogInfo)), cfg, &sourceFlags{}, []string{"glibc"}, false); err != nil {
		t.Fatalf("openSession: %v", err)
	}
	if n := countEntries(t, fc.Dir()); n != 2 {
		t.Fatalf("%d entries before clear, want 2", n)
	}

	_, status, err := runCache(t, home, "clear", "--db", db)
	if err != nil {
		t.Fatalf("cache clear --db: %v", err)
	}
	if !strings.Contains(status, "Cleared cached catalog") {
		t.Errorf("status = %q", status)
	}
	if n := countEntries(t, fc.Dir()); n != 1 {
		t.Errorf("%d entries after clear --db, want 1", n)
	}

	_, status, err = runCache(t, home, "clear", "--db", t.TempDir())
	if err != nil {
		t.Fatalf("cache clear --db empty: %v", err)
	}
	if !strings.Contains(status, "No package database") {
		t.Errorf("status = %q", status)
	}
}
