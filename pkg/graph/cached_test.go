package graph

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/depscope/pkg/cache"
)

func TestCatalogPackagesRebuild(t *testing.T) {
	c := NewCatalog(
		Package{Name: "pacman", Version: "6.1.0-3", Installed: true, Depends: []string{"glibc>=2.38"}},
		Package{Name: "glibc", Version: "2.40-1", Installed: true, Provides: []string{"libc.so=6"}},
	)
	rebuilt := NewCatalog(c.Packages()...)
	if !reflect.DeepEqual(c.Packages(), rebuilt.Packages()) {
		t.Errorf("rebuilt packages = %+v, want %+v", rebuilt.Packages(), c.Packages())
	}
	if p, ok := rebuilt.Lookup("libc.so"); !ok || p.Name != "glibc" {
		t.Error("providers should survive a rebuild")
	}
}

func TestLoadSystemCached(t *testing.T) {
	ctx := context.Background()
	dir := writeLocalDB(t, map[string]string{
		"pacman-6.1.0-3": pacmanDesc,
		"glibc-2.40-1":   glibcDesc,
	})
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, hit, err := LoadSystemCached(ctx, c, dir, nil)
	if err != nil || hit {
		t.Fatalf("first load = hit %v, err %v; want a miss", hit, err)
	}
	second, hit, err := LoadSystemCached(ctx, c, dir, nil)
	if err != nil || !hit {
		t.Fatalf("second load = hit %v, err %v; want a hit", hit, err)
	}
	if !reflect.DeepEqual(first.Packages(), second.Packages()) {
		t.Error("cached catalog differs from the parsed one")
	}

	// Installing a package changes the local directory stamp.
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(filepath.Join(dir, "local"), later, later); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := LoadSystemCached(ctx, c, dir, nil); hit {
		t.Error("a changed database should miss")
	}
}

func TestLoadSystemCachedMissingDB(t *testing.T) {
	_, _, err := LoadSystemCached(context.Background(), cache.NewNullCache(), t.TempDir(), nil)
	if err == nil {
		t.Fatal("want an error without a local database")
	}
}

func TestForgetSystem(t *testing.T) {
	ctx := context.Background()
	dir := writeLocalDB(t, map[string]string{"glibc-2.40-1": glibcDesc})
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadSystemCached(ctx, c, dir, nil); err != nil {
		t.Fatal(err)
	}
	ok, err := ForgetSystem(ctx, c, dir)
	if err != nil || !ok {
		t.Fatalf("ForgetSystem = %v, %v; want true, nil", ok, err)
	}
	if _, hit, _ := LoadSystemCached(ctx, c, dir, nil); hit {
		t.Error("a forgotten catalog should miss")
	}

	if ok, err := ForgetSystem(ctx, c, t.TempDir()); ok || err != nil {
		t.Errorf("ForgetSystem without a database = %v, %v; want false, nil", ok, err)
	}
}
