// Package graph provides the wire format for dependency trees and a local
// resolver that produces them.
//
// A dependency tree is the already-resolved input of the explorer: a flat
// list of package nodes, a list of directed edges and the identifier of the
// root package. Edges always point from the dependent package to the
// package it depends on, whatever direction the tree was resolved in.
//
// # Tree Serialization
//
// Trees use the JSON shape produced by the dashboard backend:
//
//	{
//	  "nodes": [
//	    {"id": "pacman", "name": "pacman", "version": "6.1.0-3", "depth": 0,
//	     "installed": true, "reason": "explicit", "repository": "core"},
//	    {"id": "glibc", "name": "glibc", "version": "2.40-1", "depth": 1,
//	     "installed": true, "reason": "dependency", "repository": "core"}
//	  ],
//	  "edges": [{"source": "pacman", "target": "glibc", "edge_type": "depends"}],
//	  "root": "pacman",
//	  "max_depth_reached": false,
//	  "warnings": []
//	}
//
// Use [ReadTree]/[ReadTreeFile] and [WriteTree] to convert. Reading never
// validates graph content: edges with unknown endpoints are kept in the
// tree and ignored later by the layout engine.
//
// # Roles
//
// Every node has a visual [Role] derived by [DeriveRole]: the root, an
// explicitly installed package, a dependency, or a package that is not
// installed. An explicit "role" field in the JSON overrides derivation.
//
// # Resolution
//
// [Catalog] holds package metadata (from a package database via
// [LoadSystem], or rebuilt from a tree with [CatalogFromTree]) and
// [Resolve] expands a breadth-first subtree from any root, in the
// forward, reverse or both directions, bounded by depth and node count.
package graph
