package nodelink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depscope/pkg/errors"
	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/observability"
	"github.com/matzehuels/depscope/pkg/physics"
)

// Export formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists the supported export formats.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON}

// Options configures diagram generation.
type Options struct {
	// Scale is points per layout unit. Zero means 1.5.
	Scale float64
	// Detailed adds the version to node labels.
	Detailed bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1.5
	}
	return o.Scale
}

var roleFill = map[graph.Role]string{
	graph.RoleRoot:         "#f5c542",
	graph.RoleExplicit:     "#5fafff",
	graph.RoleDependency:   "#00af5f",
	graph.RoleNotInstalled: "#d75f5f",
}

// ToDOT converts a tree and its layout to DOT with pinned positions.
// Nodes without a body in st are omitted, as are edges touching them.
func ToDOT(t *graph.Tree, st *physics.State, opts Options) string {
	s := opts.scale()
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, fontname=\"Helvetica\", margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [color=\"#808080\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	placed := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		b, ok := st.Body(n.ID)
		if !ok || placed[n.ID] {
			continue
		}
		placed[n.ID] = true
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", b.X*s, -b.Y*s),
			fmt.Sprintf("fillcolor=%q", roleFill[graph.DeriveRole(n, t.Root)]),
		}
		if !n.Installed {
			attrs = append(attrs, "fontcolor=white")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range t.Edges {
		if !placed[e.Source] || !placed[e.Target] || e.Source == e.Target {
			continue
		}
		if e.IsOptional() {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.Source, e.Target)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed || n.Version == "" {
		return n.DisplayLabel()
	}
	return n.DisplayLabel() + "\n" + n.Version
}

// RenderSVG renders DOT with fixed positions to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT with fixed positions to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NOP2)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders a settled layout in one of Formats.
func Export(ctx context.Context, t *graph.Tree, st *physics.State, format string, opts Options) (out []byte, err error) {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layout to export")
	}

	hooks := observability.Export()
	hooks.OnExportStart(ctx, format, st.Len())
	start := time.Now()
	defer func() { hooks.OnExportComplete(ctx, format, time.Since(start), err) }()

	switch format {
	case FormatDOT:
		return []byte(ToDOT(t, st, opts)), nil
	case FormatJSON:
		return json.MarshalIndent(Positions(t, st), "", "  ")
	case FormatPNG:
		return RenderPNG(ctx, ToDOT(t, st, opts))
	default:
		return RenderSVG(ctx, ToDOT(t, st, opts))
	}
}
