package graph

import (
	"fmt"

	"github.com/matzehuels/depscope/pkg/errors"
)

// Resolution defaults.
const (
	DefaultDepth    = 3
	DefaultMaxNodes = 500
)

// ResolveOptions bounds a resolution.
type ResolveOptions struct {
	Depth     int       // levels below the root; 0 means DefaultDepth
	Direction Direction // empty means Forward
	MaxNodes  int       // 0 means DefaultMaxNodes
}

func (o *ResolveOptions) setDefaults() {
	if o.Depth <= 0 {
		o.Depth = DefaultDepth
	}
	if o.Direction == "" {
		o.Direction = Forward
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
}

// Resolve expands the dependency tree of root breadth-first.
//
// Forward resolution follows depends and optdepends; reverse resolution
// follows required_by and optional_for, with those edges flipped so that
// every edge still points from dependent to dependency. Each edge is
// recorded once. Packages beyond Depth are not expanded and set
// MaxDepthReached; once MaxNodes nodes exist no new nodes are added and a
// truncation warning is recorded. Dependencies missing from the catalog
// become not-installed nodes with version "unknown" and a warning.
func Resolve(c *Catalog, root string, opts ResolveOptions) (*Tree, error) {
	opts.setDefaults()

	rootPkg, ok := c.Lookup(root)
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %q not found", root)
	}

	r := &resolver{
		catalog: c,
		opts:    opts,
		tree:    &Tree{Root: rootPkg.Name, Warnings: []string{}},
		visited: map[string]bool{},
		edges:   map[[2]string]bool{},
	}
	r.addNode(rootPkg.Name, rootPkg, 0)

	for len(r.queue) > 0 {
		cur := r.queue[0]
		r.queue = r.queue[1:]

		if cur.depth >= opts.Depth {
			r.tree.MaxDepthReached = true
			continue
		}

		pkg, ok := c.Lookup(cur.name)
		if !ok {
			continue
		}
		next := cur.depth + 1

		if opts.Direction.forward() {
			for _, d := range pkg.Depends {
				r.relate(cur.name, d, EdgeDepends, next)
			}
			for _, d := range pkg.OptDepends {
				r.relate(cur.name, d, EdgeOptDepends, next)
			}
		}
		if opts.Direction.reverse() {
			for _, d := range c.RequiredBy(pkg.Name) {
				r.relate(cur.name, d, EdgeRequiredBy, next)
			}
			for _, d := range c.OptionalFor(pkg.Name) {
				r.relate(cur.name, d, EdgeOptionalFor, next)
			}
		}
	}

	return r.tree, nil
}

type queued struct {
	name  string
	depth int
}

type resolver struct {
	catalog   *Catalog
	opts      ResolveOptions
	tree      *Tree
	visited   map[string]bool
	edges     map[[2]string]bool
	queue     []queued
	truncated bool
}

// relate records the edge between from and the package named dep and
// enqueues dep if it is new.
func (r *resolver) relate(from, dep string, typ EdgeType, depth int) {
	pkg, found := r.catalog.Lookup(dep)
	id := dep
	if found {
		id = pkg.Name
	}
	if id == from {
		return
	}

	if !r.visited[id] {
		if len(r.tree.Nodes) >= r.opts.MaxNodes {
			if !r.truncated {
				r.truncated = true
				r.tree.Warnings = append(r.tree.Warnings,
					fmt.Sprintf("Graph truncated at %d nodes for performance", r.opts.MaxNodes))
			}
			return
		}
		if !found {
			r.tree.Warnings = append(r.tree.Warnings, fmt.Sprintf("Package '%s' not found in databases", dep))
		}
		r.addNode(id, pkg, depth)
	}

	src, dst := from, id
	if typ == EdgeRequiredBy || typ == EdgeOptionalFor {
		src, dst = id, from
	}
	key := [2]string{src, dst}
	if r.edges[key] {
		return
	}
	r.edges[key] = true
	r.tree.Edges = append(r.tree.Edges, Edge{Source: src, Target: dst, Type: typ})
}

func (r *resolver) addNode(id string, pkg *Package, depth int) {
	r.visited[id] = true
	n := Node{ID: id, Name: id, Version: "unknown", Depth: depth}
	if pkg != nil {
		n.Version = pkg.Version
		n.Installed = pkg.Installed
		n.Repository = pkg.Repository
		if pkg.Installed {
			n.Reason = pkg.Reason
		}
	}
	r.tree.Nodes = append(r.tree.Nodes, n)
	r.queue = append(r.queue, queued{name: id, depth: depth})
}
