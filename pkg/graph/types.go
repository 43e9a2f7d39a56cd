package graph

import (
	"slices"

	"github.com/matzehuels/depscope/pkg/errors"
)

// =============================================================================
// Roles
// =============================================================================

// Role classifies a node for styling.
type Role string

const (
	RoleRoot         Role = "root"
	RoleExplicit     Role = "explicit"
	RoleDependency   Role = "dependency"
	RoleNotInstalled Role = "not-installed"
)

// Roles lists all roles in legend order.
var Roles = []Role{RoleRoot, RoleExplicit, RoleDependency, RoleNotInstalled}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return slices.Contains(Roles, r) }

// Install reasons as reported by the package database.
const (
	ReasonExplicit   = "explicit"
	ReasonDependency = "dependency"
)

// =============================================================================
// Edge Types
// =============================================================================

// EdgeType names the relation an edge was discovered through.
type EdgeType string

const (
	EdgeDepends     EdgeType = "depends"
	EdgeOptDepends  EdgeType = "optdepends"
	EdgeRequiredBy  EdgeType = "required_by"
	EdgeOptionalFor EdgeType = "optional_for"
)

// Optional reports whether the relation is an optional dependency.
func (t EdgeType) Optional() bool {
	return t == EdgeOptDepends || t == EdgeOptionalFor
}

// =============================================================================
// Direction
// =============================================================================

// Direction selects which relations [Resolve] follows from each package.
type Direction string

const (
	Forward Direction = "forward" // depends, optdepends
	Reverse Direction = "reverse" // required_by, optional_for
	Both    Direction = "both"
)

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Forward, Reverse, Both:
		return d, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (want forward, reverse or both)", s)
}

// Next cycles forward → reverse → both → forward.
func (d Direction) Next() Direction {
	switch d {
	case Forward:
		return Reverse
	case Reverse:
		return Both
	default:
		return Forward
	}
}

func (d Direction) forward() bool { return d == Forward || d == Both || d == "" }
func (d Direction) reverse() bool { return d == Reverse || d == Both }

// =============================================================================
// Tree
// =============================================================================

// Tree is a resolved dependency tree.
type Tree struct {
	Nodes           []Node   `json:"nodes"`
	Edges           []Edge   `json:"edges"`
	Root            string   `json:"root"`
	MaxDepthReached bool     `json:"max_depth_reached"`
	Warnings        []string `json:"warnings"`
}

// Node is one package in a tree.
type Node struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	Depth      int    `json:"depth"`
	Installed  bool   `json:"installed"`
	Reason     string `json:"reason,omitempty"`
	Repository string `json:"repository,omitempty"`
	Role       Role   `json:"role,omitempty"` // overrides DeriveRole when set
}

// DisplayLabel returns the name if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is a directed relation from a dependent package to its dependency.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Type     EdgeType `json:"edge_type,omitempty"`
	Optional *bool    `json:"optional,omitempty"` // overrides Type when set
}

// IsOptional reports whether the edge is drawn and simulated as optional.
func (e Edge) IsOptional() bool {
	if e.Optional != nil {
		return *e.Optional
	}
	return e.Type.Optional()
}

// DeriveRole returns the visual role of n in a tree rooted at root.
func DeriveRole(n Node, root string) Role {
	switch {
	case n.Role.Valid():
		return n.Role
	case n.ID == root:
		return RoleRoot
	case !n.Installed:
		return RoleNotInstalled
	case n.Reason == ReasonExplicit:
		return RoleExplicit
	default:
		return RoleDependency
	}
}

// Index maps node IDs to their position in t.Nodes. Later duplicates lose.
func (t *Tree) Index() map[string]int {
	idx := make(map[string]int, len(t.Nodes))
	for i, n := range t.Nodes {
		if _, dup := idx[n.ID]; !dup {
			idx[n.ID] = i
		}
	}
	return idx
}

// Lookup returns the node with the given ID.
func (t *Tree) Lookup(id string) (Node, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// RoleCounts tallies nodes per derived role.
func (t *Tree) RoleCounts() map[Role]int {
	counts := make(map[Role]int, len(Roles))
	for _, n := range t.Nodes {
		counts[DeriveRole(n, t.Root)]++
	}
	return counts
}
