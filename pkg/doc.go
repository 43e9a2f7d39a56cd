// Package pkg provides the core libraries for depscope, a force-directed
// dependency graph explorer for pacman package databases.
//
// # Overview
//
// depscope resolves the dependency tree of an installed package and lays it
// out with a live force simulation that can be dragged, panned and zoomed
// in a terminal. The pkg directory is organized into four areas:
//
//  1. Data: [graph] reads package databases and resolves trees
//  2. Layout: [physics] computes forces, [sim] advances them frame by frame
//  3. View: [viewport], [interact] and [scene] map, handle and draw
//  4. Embedding: [explorer] wires the above to a host
//
// # Architecture
//
// The typical data flow:
//
//	/var/lib/pacman (local/ + sync/*.db)
//	         ↓
//	    [graph] Catalog (optionally cached by [cache])
//	         ↓
//	    [graph] Resolve → Tree
//	         ↓
//	    [explorer] → [sim] Driver → [physics] Tick
//	         ↓
//	    [scene] Synchronizer → Raster (terminal) or [render/nodelink] (files)
//
// # Quick Start
//
// Resolve a tree and settle its layout without a terminal:
//
//	catalog, _ := graph.LoadSystem(graph.DefaultDBPath, nil)
//	tree, _ := graph.Resolve(catalog, "pacman", graph.ResolveOptions{Depth: 3})
//
//	sched := sim.NewManualScheduler()
//	d := sim.NewDriver(sched, sim.DefaultOptions(), nil)
//	d.Load(sim.Input{IDs: ids, Links: links, Root: tree.Root})
//	sched.Run(5000)
//
//	svg, _ := nodelink.Export(ctx, tree, d.State(), "svg", nodelink.Options{})
//
// Interactive hosts embed an [explorer] instead, which builds the driver
// input from the tree and routes pointer events to the layout.
//
// # Supporting Packages
//
// [config] loads settings from TOML or YAML with validation. [errors]
// carries error codes and user-facing messages. [observability] defines
// hooks that [metrics] implements with Prometheus. [buildinfo] holds the
// version stamped in at link time.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/graph
// [physics]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/physics
// [sim]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/sim
// [viewport]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/viewport
// [interact]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/interact
// [scene]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/scene
// [explorer]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/explorer
// [config]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/metrics
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/buildinfo
//
// [cache]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/cache
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/depscope/pkg/render/nodelink
package pkg
