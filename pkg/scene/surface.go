package scene

import "github.com/matzehuels/depscope/pkg/graph"

// Surface is a retained-mode drawing target. Items are created once by
// AddNode/AddEdge and afterwards only moved or shown/hidden. Coordinates
// are screen units.
type Surface interface {
	AddNode(n graph.Node, role graph.Role)
	AddEdge(key int, e graph.Edge)
	MoveNode(id string, x, y float64)
	SetNodeVisible(id string, visible bool)
	MoveEdge(key int, x1, y1, x2, y2 float64)
	SetEdgeVisible(key int, visible bool)
	Clear()
}
