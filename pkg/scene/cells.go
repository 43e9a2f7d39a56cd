package scene

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StyleKey selects a lipgloss style for a cell.
type StyleKey int

const (
	StyleBlank StyleKey = iota
	StyleEdge
	StyleOptionalEdge
	StyleRoot
	StyleExplicit
	StyleDependency
	StyleNotInstalled
	StyleLabel
	StyleHighlight
)

type cell struct {
	ch    rune
	style StyleKey
}

// cells is a fixed-size grid of styled runes. All runes are assumed to be
// one column wide.
type cells struct {
	w, h int
	rows [][]cell
}

func newCells(w, h int) *cells {
	w, h = max(w, 0), max(h, 0)
	c := &cells{w: w, h: h, rows: make([][]cell, h)}
	for y := range c.rows {
		c.rows[y] = make([]cell, w)
	}
	c.fill()
	return c
}

func (c *cells) fill() {
	for y := range c.rows {
		for x := range c.rows[y] {
			c.rows[y][x] = cell{ch: ' '}
		}
	}
}

func (c *cells) set(x, y int, ch rune, style StyleKey) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.rows[y][x] = cell{ch: ch, style: style}
	}
}

func (c *cells) setString(x, y int, s string, style StyleKey) {
	i := 0
	for _, ch := range s {
		c.set(x+i, y, ch, style)
		i++
	}
}

// render joins rows with newlines, styling each run of equal keys with a
// single Render call. A nil styles map renders plain text.
func (c *cells) render(styles map[StyleKey]lipgloss.Style) string {
	lines := make([]string, c.h)
	for y, row := range c.rows {
		var sb strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style {
				continue
			}
			run := make([]rune, x-start)
			for i := range run {
				run[i] = row[start+i].ch
			}
			if st, ok := styles[row[start].style]; ok {
				sb.WriteString(st.Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// bresenham returns the integer points from (x0, y0) to (x1, y1),
// endpoints included.
func bresenham(x0, y0, x1, y1 int) []image.Point {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	pts := make([]image.Point, 0, max(dx, dy)+1)
	for range dx + dy + 2 {
		pts = append(pts, image.Pt(x0, y0))
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	return pts
}

// lineChar picks a glyph for a segment with direction (dx, dy).
func lineChar(dx, dy int) rune {
	switch {
	case dx == 0:
		return '│'
	case dy == 0:
		return '─'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
