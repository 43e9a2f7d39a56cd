package graph

import (
	"slices"
	"strings"
)

// Package is the metadata of one package in a [Catalog].
type Package struct {
	Name       string
	Version    string
	Installed  bool
	Reason     string // ReasonExplicit or ReasonDependency; empty when not installed
	Repository string
	Depends    []string
	OptDepends []string
	Provides   []string
}

// Catalog indexes packages by name and by the virtual names they provide.
type Catalog struct {
	pkgs      map[string]*Package
	providers map[string][]string

	// reverse relations, built on first use
	requiredBy  map[string][]string
	optionalFor map[string][]string
}

// NewCatalog returns a catalog holding pkgs.
func NewCatalog(pkgs ...Package) *Catalog {
	c := &Catalog{
		pkgs:      make(map[string]*Package, len(pkgs)),
		providers: make(map[string][]string),
	}
	for _, p := range pkgs {
		c.Add(p)
	}
	return c
}

// Add inserts or replaces a package. Dependency strings are normalized with
// [DepName]. An installed entry is never replaced by a non-installed one,
// so the local database wins over sync databases, but a sync entry still
// fills in the repository of an installed package.
func (c *Catalog) Add(p Package) {
	p.Depends = normalizeDeps(p.Depends)
	p.OptDepends = normalizeDeps(p.OptDepends)
	p.Provides = normalizeDeps(p.Provides)

	if old, ok := c.pkgs[p.Name]; ok && old.Installed && !p.Installed {
		if old.Repository == "" {
			old.Repository = p.Repository
		}
		return
	}
	c.pkgs[p.Name] = &p
	for _, v := range p.Provides {
		if v != p.Name && !slices.Contains(c.providers[v], p.Name) {
			c.providers[v] = append(c.providers[v], p.Name)
		}
	}
	c.requiredBy, c.optionalFor = nil, nil
}

// Len returns the number of packages.
func (c *Catalog) Len() int { return len(c.pkgs) }

// Names returns all package names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.pkgs))
	for n := range c.pkgs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup finds a package by name, falling back to a provider of that name.
// Installed providers are preferred.
func (c *Catalog) Lookup(name string) (*Package, bool) {
	if p, ok := c.pkgs[name]; ok {
		return p, true
	}
	var found *Package
	for _, prov := range c.providers[name] {
		p := c.pkgs[prov]
		if found == nil || (p.Installed && !found.Installed) {
			found = p
		}
	}
	return found, found != nil
}

// RequiredBy returns the packages that depend on name, sorted.
func (c *Catalog) RequiredBy(name string) []string {
	c.buildReverse()
	return c.requiredBy[name]
}

// OptionalFor returns the packages that optionally depend on name, sorted.
func (c *Catalog) OptionalFor(name string) []string {
	c.buildReverse()
	return c.optionalFor[name]
}

func (c *Catalog) buildReverse() {
	if c.requiredBy != nil {
		return
	}
	c.requiredBy = make(map[string][]string)
	c.optionalFor = make(map[string][]string)
	for _, name := range c.Names() {
		p := c.pkgs[name]
		for _, d := range p.Depends {
			if dep, ok := c.Lookup(d); ok && dep.Name != name {
				c.requiredBy[dep.Name] = appendUnique(c.requiredBy[dep.Name], name)
			}
		}
		for _, d := range p.OptDepends {
			if dep, ok := c.Lookup(d); ok && dep.Name != name {
				c.optionalFor[dep.Name] = appendUnique(c.optionalFor[dep.Name], name)
			}
		}
	}
}

// CatalogFromTree rebuilds package metadata from a resolved tree so that
// it can be re-rooted offline. Every edge is read as "source depends on
// target"; optional edges become optdepends.
func CatalogFromTree(t *Tree) *Catalog {
	deps := make(map[string][]string)
	opt := make(map[string][]string)
	for _, e := range t.Edges {
		if e.IsOptional() {
			opt[e.Source] = appendUnique(opt[e.Source], e.Target)
		} else {
			deps[e.Source] = appendUnique(deps[e.Source], e.Target)
		}
	}

	c := NewCatalog()
	for _, n := range t.Nodes {
		c.Add(Package{
			Name:       n.ID,
			Version:    n.Version,
			Installed:  n.Installed,
			Reason:     n.Reason,
			Repository: n.Repository,
			Depends:    deps[n.ID],
			OptDepends: opt[n.ID],
		})
	}
	return c
}

// DepName strips version constraints and optdepends descriptions:
// "glibc>=2.38" → "glibc", "perl: for po4a" → "perl".
func DepName(dep string) string {
	if i := strings.Index(dep, ":"); i >= 0 {
		dep = dep[:i]
	}
	if i := strings.IndexAny(dep, "<>="); i >= 0 {
		dep = dep[:i]
	}
	return strings.TrimSpace(dep)
}

func normalizeDeps(deps []string) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if n := DepName(d); n != "" {
			out = appendUnique(out, n)
		}
	}
	return out
}

func appendUnique(s []string, v string) []string {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}
