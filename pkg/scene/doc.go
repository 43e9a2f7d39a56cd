// Package scene keeps a retained drawing surface in step with the layout.
//
// A [Synchronizer] is built once per graph and then synced after every
// simulation frame and every camera change. Each sync converts body
// positions to screen space through the camera and pushes only what
// changed (positions and off-screen culling) to the [Surface], so frame
// cost stays proportional to movement rather than graph size.
//
// Edges whose endpoints are not nodes of the graph are dropped at build
// time and never reach the surface.
//
// [Raster] is the terminal surface: role-coloured glyphs and Bresenham
// edges in a lipgloss-styled cell buffer.
package scene
