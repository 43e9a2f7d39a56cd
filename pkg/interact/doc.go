// Package interact turns raw pointer and wheel events into graph gestures.
//
// A [Controller] runs the state machine
//
//	Idle → Pressed → Dragging | Panning → Idle
//
// over a [viewport.Camera] and a layout [Driver]. A press and release that
// never moves further than Options.DragThreshold is a click; a second press
// on the same node inside the double-click window and distance is a
// double-click, and its release produces no second click. Moving past the
// threshold on a node drags it: the node is pinned at exactly
// Camera.ToGraph(pointer) on every move. Moving past the threshold on empty
// canvas pans the camera, and wheel events zoom around the pointer.
//
// All coordinate conversion goes through the camera; the controller never
// does its own scale or pan arithmetic.
package interact
