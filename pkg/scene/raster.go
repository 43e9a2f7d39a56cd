package scene

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/depscope/pkg/graph"
)

// Glyphs per role.
var glyphs = map[graph.Role]rune{
	graph.RoleRoot:         '◉',
	graph.RoleExplicit:     '●',
	graph.RoleDependency:   '•',
	graph.RoleNotInstalled: '○',
}

// Glyph returns the rune drawn for nodes of role r.
func Glyph(r graph.Role) rune {
	if g, ok := glyphs[r]; ok {
		return g
	}
	return glyphs[graph.RoleDependency]
}

// DefaultStyles is the role palette used by NewRaster.
func DefaultStyles() map[StyleKey]lipgloss.Style {
	return map[StyleKey]lipgloss.Style{
		StyleEdge:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StyleOptionalEdge: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		StyleRoot:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		StyleExplicit:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		StyleDependency:   lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		StyleNotInstalled: lipgloss.NewStyle().Foreground(lipgloss.Color("167")),
		StyleLabel:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		StyleHighlight:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
	}
}

// RoleStyle returns the style key for nodes of role r.
func RoleStyle(r graph.Role) StyleKey {
	switch r {
	case graph.RoleRoot:
		return StyleRoot
	case graph.RoleExplicit:
		return StyleExplicit
	case graph.RoleNotInstalled:
		return StyleNotInstalled
	default:
		return StyleDependency
	}
}

type rasterNode struct {
	label   string
	role    graph.Role
	x, y    float64
	visible bool
}

type rasterEdge struct {
	optional       bool
	x1, y1, x2, y2 float64
	visible        bool
}

// Raster is a terminal Surface. One screen unit is one cell.
type Raster struct {
	w, h   int
	styles map[StyleKey]lipgloss.Style

	nodes     map[string]*rasterNode
	order     []string
	edges     map[int]*rasterEdge
	edgeOrder []int

	highlight  string
	showLabels bool

	view  string
	dirty bool
}

// NewRaster returns an empty w×h raster using DefaultStyles.
func NewRaster(w, h int) *Raster {
	r := &Raster{styles: DefaultStyles()}
	r.Clear()
	r.Resize(w, h)
	return r
}

// SetStyles replaces the palette; nil renders plain text.
func (r *Raster) SetStyles(styles map[StyleKey]lipgloss.Style) {
	r.styles = styles
	r.dirty = true
}

// Resize changes the raster size in cells.
func (r *Raster) Resize(w, h int) {
	r.w, r.h = max(w, 0), max(h, 0)
	r.dirty = true
}

// Size returns the raster size in cells.
func (r *Raster) Size() (w, h int) { return r.w, r.h }

// SetHighlight marks one node whose label is always drawn.
func (r *Raster) SetHighlight(id string) {
	if id != r.highlight {
		r.highlight = id
		r.dirty = true
	}
}

// SetShowLabels toggles labels for every node.
func (r *Raster) SetShowLabels(on bool) {
	if on != r.showLabels {
		r.showLabels = on
		r.dirty = true
	}
}

// ShowLabels reports whether every node is labelled.
func (r *Raster) ShowLabels() bool { return r.showLabels }

func (r *Raster) AddNode(n graph.Node, role graph.Role) {
	if _, ok := r.nodes[n.ID]; !ok {
		r.order = append(r.order, n.ID)
	}
	r.nodes[n.ID] = &rasterNode{label: n.DisplayLabel(), role: role}
	r.dirty = true
}

func (r *Raster) AddEdge(key int, e graph.Edge) {
	if _, ok := r.edges[key]; !ok {
		r.edgeOrder = append(r.edgeOrder, key)
	}
	r.edges[key] = &rasterEdge{optional: e.IsOptional()}
	r.dirty = true
}

func (r *Raster) MoveNode(id string, x, y float64) {
	if n, ok := r.nodes[id]; ok {
		n.x, n.y = x, y
		r.dirty = true
	}
}

func (r *Raster) SetNodeVisible(id string, visible bool) {
	if n, ok := r.nodes[id]; ok {
		n.visible = visible
		r.dirty = true
	}
}

func (r *Raster) MoveEdge(key int, x1, y1, x2, y2 float64) {
	if e, ok := r.edges[key]; ok {
		e.x1, e.y1, e.x2, e.y2 = x1, y1, x2, y2
		r.dirty = true
	}
}

func (r *Raster) SetEdgeVisible(key int, visible bool) {
	if e, ok := r.edges[key]; ok {
		e.visible = visible
		r.dirty = true
	}
}

func (r *Raster) Clear() {
	r.nodes = make(map[string]*rasterNode)
	r.order = nil
	r.edges = make(map[int]*rasterEdge)
	r.edgeOrder = nil
	r.dirty = true
}

// View renders the raster. The string is cached until something changes.
func (r *Raster) View() string {
	if r.dirty {
		r.view = r.paint().render(r.styles)
		r.dirty = false
	}
	return r.view
}

// Plain renders the raster without styles.
func (r *Raster) Plain() string {
	return r.paint().render(nil)
}

func (r *Raster) paint() *cells {
	c := newCells(r.w, r.h)
	for _, key := range r.edgeOrder {
		if e := r.edges[key]; e.visible {
			r.paintEdge(c, e)
		}
	}
	for _, id := range r.order {
		n := r.nodes[id]
		if !n.visible {
			continue
		}
		x, y := cellOf(n.x), cellOf(n.y)
		c.set(x, y, glyphs[n.role], RoleStyle(n.role))
		switch {
		case id == r.highlight:
			c.setString(x+2, y, n.label, StyleHighlight)
		case r.showLabels || n.role == graph.RoleRoot:
			c.setString(x+2, y, n.label, StyleLabel)
		}
	}
	return c
}

func (r *Raster) paintEdge(c *cells, e *rasterEdge) {
	x1, y1, x2, y2, ok := clip(e.x1, e.y1, e.x2, e.y2, float64(r.w-1), float64(r.h-1))
	if !ok {
		return
	}
	pts := bresenham(cellOf(x1), cellOf(y1), cellOf(x2), cellOf(y2))
	ch := lineChar(cellOf(e.x2)-cellOf(e.x1), cellOf(e.y2)-cellOf(e.y1))
	style := StyleEdge
	if e.optional {
		style = StyleOptionalEdge
	}
	for i, p := range pts {
		if e.optional && i%2 == 1 {
			continue
		}
		c.set(p.X, p.Y, ch, style)
	}
}

func cellOf(v float64) int { return int(math.Round(v)) }

// clip trims a segment to the box [0, w]×[0, h] (Liang–Barsky).
func clip(x1, y1, x2, y2, w, h float64) (cx1, cy1, cx2, cy2 float64, ok bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x2-x1, y2-y1
	for _, pq := range [4][2]float64{{-dx, x1}, {dx, w - x1}, {-dy, y1}, {dy, h - y1}} {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}
