package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depscope/pkg/cache"
	"github.com/matzehuels/depscope/pkg/config"
	"github.com/matzehuels/depscope/pkg/errors"
	"github.com/matzehuels/depscope/pkg/graph"
)

// =============================================================================
// Source Flags
// =============================================================================

// sourceFlags selects where dependency trees come from. Zero values fall
// back to the [graph] section of the config.
type sourceFlags struct {
	graphFile string
	dbPath    string
	depth     int
	direction string
	maxNodes  int
	noCache   bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.graphFile, "graph", "g", "", "read a dependency tree JSON file instead of the package database")
	fl.StringVar(&f.dbPath, "db", "", "package database directory (default /var/lib/pacman)")
	fl.IntVarP(&f.depth, "depth", "d", 0, "levels resolved below the root")
	fl.StringVar(&f.direction, "direction", "", "edge direction: forward, reverse or both")
	fl.IntVar(&f.maxNodes, "max-nodes", 0, "stop adding nodes past this count")
	fl.BoolVar(&f.noCache, "no-cache", false, "always parse the package databases")
}

// apply merges the flags into cfg.Graph and validates the result.
func (f *sourceFlags) apply(cfg *config.Config) error {
	if f.dbPath != "" {
		cfg.Graph.DBPath = f.dbPath
	}
	if f.depth != 0 {
		if err := errors.ValidateDepth(f.depth); err != nil {
			return err
		}
		cfg.Graph.Depth = f.depth
	}
	if f.direction != "" {
		if _, err := graph.ParseDirection(f.direction); err != nil {
			return err
		}
		cfg.Graph.Direction = f.direction
	}
	if f.maxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max-nodes must be positive, got %d", f.maxNodes)
	}
	if f.maxNodes > 0 {
		cfg.Graph.MaxNodes = f.maxNodes
	}
	return nil
}

// =============================================================================
// Session
// =============================================================================

// session resolves trees out of one catalog and remembers the roots
// visited, so the explorer can step back after re-rooting.
type session struct {
	catalog *graph.Catalog
	opts    graph.ResolveOptions
	tree    *graph.Tree
	history []string
	logger  *log.Logger
}

// openSession loads the catalog and the initial tree. A tree file is used
// as is unless a different root or resolution flag was given; otherwise
// the tree is resolved from the package database for the root in args.
func openSession(ctx context.Context, cfg *config.Config, f *sourceFlags, args []string, resolveFlagsSet bool) (*session, error) {
	logger := loggerFromContext(ctx)
	s := &session{
		opts: graph.ResolveOptions{
			Depth:     cfg.Graph.Depth,
			Direction: cfg.Direction(),
			MaxNodes:  cfg.Graph.MaxNodes,
		},
		logger: logger,
	}

	root := ""
	if len(args) > 0 {
		root = args[0]
		if err := errors.ValidatePackageName(root); err != nil {
			return nil, err
		}
	}

	if f.graphFile != "" {
		tree, err := graph.ReadTreeFile(f.graphFile)
		if err != nil {
			return nil, err
		}
		s.catalog = graph.CatalogFromTree(tree)
		logger.Debug("read tree file", "path", f.graphFile, "nodes", len(tree.Nodes), "edges", len(tree.Edges))
		if (root == "" || root == tree.Root) && !resolveFlagsSet {
			s.tree = tree
			return s, nil
		}
		if root == "" {
			root = tree.Root
		}
		return s, s.resolve(root)
	}

	if root == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a package name is required without --graph")
	}

	store := newCache(f.noCache, logger)
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, "Reading package database...")
	spinner.Start()
	prog := newProgress(logger)
	catalog, cached, err := graph.LoadSystemCached(ctx, store, cfg.Graph.DBPath, logger)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Read %d packages", catalog.Len()))
	logger.Debug("catalog loaded", "path", cfg.Graph.DBPath, "packages", catalog.Len(), "cached", cached)

	s.catalog = catalog
	return s, s.resolve(root)
}

// resolve makes root the current tree's root.
func (s *session) resolve(root string) error {
	tree, err := graph.Resolve(s.catalog, root, s.opts)
	if err != nil {
		return err
	}
	s.tree = tree
	s.logger.Debug("resolved", "root", tree.Root, "nodes", len(tree.Nodes), "edges", len(tree.Edges),
		"depth", s.opts.Depth, "direction", s.opts.Direction, "truncated", tree.MaxDepthReached)
	return nil
}

// reroot resolves id and pushes the previous root on the history.
func (s *session) reroot(id string) error {
	if s.tree != nil && id == s.tree.Root {
		return nil
	}
	prev := ""
	if s.tree != nil {
		prev = s.tree.Root
	}
	if err := s.resolve(id); err != nil {
		return err
	}
	if prev != "" {
		s.history = append(s.history, prev)
	}
	return nil
}

// back returns to the previous root. It reports false with an empty history.
func (s *session) back() (bool, error) {
	if len(s.history) == 0 {
		return false, nil
	}
	prev := s.history[len(s.history)-1]
	if err := s.resolve(prev); err != nil {
		return false, err
	}
	s.history = s.history[:len(s.history)-1]
	return true, nil
}

// setDepth changes the depth by delta within [1, MaxDepth] and resolves
// again. It reports false when the depth did not change.
func (s *session) setDepth(delta int) (bool, error) {
	next := min(max(s.opts.Depth+delta, 1), errors.MaxDepth)
	if next == s.opts.Depth {
		return false, nil
	}
	old := s.opts.Depth
	s.opts.Depth = next
	if err := s.resolve(s.tree.Root); err != nil {
		s.opts.Depth = old
		return false, err
	}
	return true, nil
}

// cycleDirection switches to the next direction and resolves again.
func (s *session) cycleDirection() error {
	old := s.opts.Direction
	s.opts.Direction = old.Next()
	if err := s.resolve(s.tree.Root); err != nil {
		s.opts.Direction = old
		return err
	}
	return nil
}

// newCache opens the catalog cache, or a null cache when disabled or when
// the cache directory cannot be created.
func newCache(noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("catalog cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return c
}
