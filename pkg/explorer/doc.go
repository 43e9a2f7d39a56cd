// Package explorer is the embeddable dependency-graph explorer.
//
// An [Explorer] owns one graph instance at a time: a layout driver, a
// camera, an interaction controller and a scene synchronizer, all wired to
// a [Host] that supplies frames and input events. [Explorer.SetGraph]
// replaces the instance; the old one is torn down first, synchronously
// cancelling its pending frame and removing its pointer, wheel and resize
// listeners, so nothing from a superseded graph can touch the new one.
//
// Node positions and the camera carry over between graphs. When the root
// changes the camera recenters on the new root.
package explorer
