package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depscope/pkg/cache"
)

// CatalogTTL bounds how long a cached catalog is used even when the
// database stamps have not changed.
const CatalogTTL = 24 * time.Hour

// Packages returns a copy of every package, sorted by name. Passing the
// result to [NewCatalog] rebuilds an equivalent catalog.
func (c *Catalog) Packages() []Package {
	out := make([]Package, 0, len(c.pkgs))
	for _, name := range c.Names() {
		out = append(out, *c.pkgs[name])
	}
	return out
}

// SystemStamp identifies the state of the databases under dbPath by the
// modification time and size of the local database directory and of
// every sync database.
func SystemStamp(dbPath string) (string, error) {
	paths := []string{filepath.Join(dbPath, "local")}
	syncs, _ := filepath.Glob(filepath.Join(dbPath, "sync", "*.db"))
	slices.Sort(syncs)
	paths = append(paths, syncs...)

	stamp := make([]string, 0, len(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return "", err
		}
		stamp = append(stamp, fmt.Sprintf("%s@%d/%d", filepath.Base(p), fi.ModTime().UnixNano(), fi.Size()))
	}
	return cache.Hash([]byte(fmt.Sprint(stamp))), nil
}

// ForgetSystem removes the cached catalog for the current state of the
// databases under dbPath. It reports false when there was nothing to stamp.
func ForgetSystem(ctx context.Context, c cache.Cache, dbPath string) (bool, error) {
	stamp, err := SystemStamp(dbPath)
	if err != nil {
		return false, nil
	}
	if err := c.Delete(ctx, catalogKey(dbPath, stamp)); err != nil {
		return false, err
	}
	return true, nil
}

func catalogKey(dbPath, stamp string) string {
	return cache.Key("catalog", dbPath, stamp)
}

// LoadSystemCached is [LoadSystem] behind c. Entries are keyed by
// dbPath and [SystemStamp], so any database change is a miss. It reports
// whether the catalog came from the cache. Cache failures are logged and
// fall back to reading the databases.
func LoadSystemCached(ctx context.Context, c cache.Cache, dbPath string, logger *log.Logger) (*Catalog, bool, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	stamp, err := SystemStamp(dbPath)
	if err != nil {
		cat, err := LoadSystem(dbPath, logger)
		return cat, false, err
	}
	key := catalogKey(dbPath, stamp)

	data, hit, err := c.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("reading catalog cache", "err", err)
	case hit:
		var pkgs []Package
		if err := json.Unmarshal(data, &pkgs); err == nil {
			return NewCatalog(pkgs...), true, nil
		}
		logger.Warn("discarding undecodable catalog cache entry")
	}

	cat, err := LoadSystem(dbPath, logger)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(cat.Packages()); err == nil {
		if err := c.Set(ctx, key, data, CatalogTTL); err != nil {
			logger.Warn("writing catalog cache", "err", err)
		}
	}
	return cat, false, nil
}
