package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/depscope/pkg/config"
	"github.com/matzehuels/depscope/pkg/errors"
	"github.com/matzehuels/depscope/pkg/explorer"
	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/interact"
	"github.com/matzehuels/depscope/pkg/scene"
)

// wheelStep is the relative zoom per wheel notch or zoom key.
const wheelStep = 0.1

// Footer styles
var (
	footerRootStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	footerNameStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// frameMsg asks the model to run the queued frame callbacks.
type frameMsg struct{}

// =============================================================================
// ExploreModel - Interactive graph explorer
// =============================================================================

// exploreModel hosts an explorer inside Bubble Tea. Frame callbacks queue
// on the host and run on frameMsg, so physics, input and rendering share
// the program's event loop.
type exploreModel struct {
	cfg    *config.Config
	sess   *session
	logger *log.Logger

	host   *host
	raster *scene.Raster
	exp    *explorer.Explorer
	help   help.Model

	width, height int
	ticking       bool

	selected *explorer.NodeInfo
	hover    *explorer.NodeInfo
	reroot   string // requested by a double click, applied after the event
	status   string
	failed   bool
}

func newExploreModel(cfg *config.Config, sess *session, logger *log.Logger) *exploreModel {
	m := &exploreModel{
		cfg:    cfg,
		sess:   sess,
		logger: logger,
		host:   newHost(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	m.help.Width = m.width

	h := m.canvasHeight()
	m.raster = scene.NewRaster(m.width, h)
	m.raster.SetShowLabels(cfg.Render.Labels)

	ec := explorerConfig(cfg, m.width, h, logger)
	ec.OnNodeClick = func(info explorer.NodeInfo) { m.selected = &info }
	ec.OnNodeDoubleClick = func(info explorer.NodeInfo) { m.reroot = info.ID }
	ec.OnHover = func(info explorer.NodeInfo, ok bool) {
		if ok {
			m.hover = &info
		} else {
			m.hover = nil
		}
	}
	m.exp = explorer.New(m.host, m.raster, ec)
	m.exp.SetGraph(sess.tree)
	return m
}

func (m *exploreModel) Init() tea.Cmd {
	return m.schedule()
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.ticking = false
		m.host.Frame()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resizeCanvas()
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.exp.Teardown()
			return m, tea.Quit
		}
		m.key(msg)
	}
	m.applyReroot()
	return m, m.schedule()
}

// schedule arms one frame tick while callbacks are queued.
func (m *exploreModel) schedule() tea.Cmd {
	if m.ticking || m.host.Pending() == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.cfg.Render.FrameInterval(), func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// =============================================================================
// Input
// =============================================================================

func (m *exploreModel) mouse(msg tea.MouseMsg) {
	x, y := float64(msg.X), float64(msg.Y)
	inside := msg.Y < m.canvasHeight()

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if !inside {
			return
		}
		delta := wheelStep
		if msg.Button == tea.MouseButtonWheelDown {
			delta = -wheelStep
		}
		m.host.wheel.emit(interact.WheelEvent{X: x, Y: y, Delta: delta})
		return
	}

	ev := interact.PointerEvent{X: x, Y: y, Button: mouseButton(msg.Button)}
	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			return
		}
		ev.Kind = interact.Down
	case tea.MouseActionRelease:
		ev.Kind = interact.Up
	case tea.MouseActionMotion:
		ev.Kind = interact.Move
	default:
		return
	}
	m.host.pointer.emit(ev)
}

func mouseButton(b tea.MouseButton) interact.Button {
	switch b {
	case tea.MouseButtonLeft:
		return interact.ButtonLeft
	case tea.MouseButtonRight:
		return interact.ButtonRight
	case tea.MouseButtonMiddle:
		return interact.ButtonMiddle
	default:
		return interact.ButtonNone
	}
}

func (m *exploreModel) key(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Reset):
		m.exp.ResetView()
	case key.Matches(msg, keys.Fit):
		m.exp.Fit(m.cfg.Render.FitPadding)
	case key.Matches(msg, keys.ZoomIn):
		m.zoomCenter(wheelStep)
	case key.Matches(msg, keys.ZoomOut):
		m.zoomCenter(-wheelStep)
	case key.Matches(msg, keys.Deeper):
		m.changeDepth(1)
	case key.Matches(msg, keys.Shallower):
		m.changeDepth(-1)
	case key.Matches(msg, keys.Direction):
		if err := m.sess.cycleDirection(); err != nil {
			m.fail(err)
			return
		}
		m.showTree(fmt.Sprintf("Direction %s", m.sess.opts.Direction))
	case key.Matches(msg, keys.Back):
		ok, err := m.sess.back()
		if err != nil {
			m.fail(err)
			return
		}
		if ok {
			m.selected = nil
			m.showTree(fmt.Sprintf("Back to %s", m.sess.tree.Root))
		}
	case key.Matches(msg, keys.Unpin):
		m.setStatus(fmt.Sprintf("Released %d pinned nodes", m.exp.UnpinAll()))
	case key.Matches(msg, keys.Labels):
		m.raster.SetShowLabels(!m.raster.ShowLabels())
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeCanvas()
	}
}

func (m *exploreModel) zoomCenter(delta float64) {
	m.host.wheel.emit(interact.WheelEvent{
		X:     float64(m.width) / 2,
		Y:     float64(m.canvasHeight()) / 2,
		Delta: delta,
	})
}

func (m *exploreModel) changeDepth(delta int) {
	changed, err := m.sess.setDepth(delta)
	if err != nil {
		m.fail(err)
		return
	}
	if changed {
		m.showTree(fmt.Sprintf("Depth %d", m.sess.opts.Depth))
	}
}

// applyReroot re-roots on the node double clicked during this update.
// It runs after input dispatch so the old instance is never replaced from
// inside its own callbacks.
func (m *exploreModel) applyReroot() {
	if m.reroot == "" {
		return
	}
	id := m.reroot
	m.reroot = ""
	if err := m.sess.reroot(id); err != nil {
		m.fail(err)
		return
	}
	m.selected = nil
	m.hover = nil
	m.showTree(fmt.Sprintf("Rooted at %s", m.sess.tree.Root))
}

func (m *exploreModel) showTree(status string) {
	m.exp.SetGraph(m.sess.tree)
	for _, w := range m.sess.tree.Warnings {
		m.logger.Warn(w, "root", m.sess.tree.Root)
	}
	m.setStatus(status)
}

func (m *exploreModel) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *exploreModel) fail(err error) {
	m.logger.Error("explorer", "err", err)
	m.status, m.failed = errors.UserMessage(err), true
}

// =============================================================================
// Layout
// =============================================================================

// footerLines is the status line, the detail line and the help block.
func (m *exploreModel) footerLines() int {
	return 2 + lipgloss.Height(m.help.View(keys))
}

func (m *exploreModel) canvasHeight() int {
	return max(m.height-m.footerLines(), 1)
}

func (m *exploreModel) resizeCanvas() {
	m.host.resize.emit(size{w: m.width, h: m.canvasHeight()})
}

// =============================================================================
// View
// =============================================================================

func (m *exploreModel) View() string {
	line := lipgloss.NewStyle().MaxWidth(m.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.raster.View(),
		line.Render(m.statusLine()),
		line.Render(m.detailLine()),
		m.help.View(keys),
	)
}

func (m *exploreModel) statusLine() string {
	tree := m.sess.tree
	parts := []string{
		footerRootStyle.Render(string(scene.Glyph(graph.RoleRoot)) + " " + tree.Root),
		StyleDim.Render(fmt.Sprintf("depth %d", m.sess.opts.Depth)),
		StyleDim.Render(string(m.sess.opts.Direction)),
	}
	status := ""
	if drv := m.exp.Driver(); drv != nil {
		status = drv.Status().String()
	}
	parts = append(parts, statsLine(len(tree.Nodes), len(tree.Edges), status))
	if cam := m.exp.Camera(); cam != nil {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%.0f%%", cam.Scale*100)))
	}
	if tree.MaxDepthReached {
		parts = append(parts, StyleWarning.Render("truncated"))
	}
	if m.status != "" {
		style := StyleHighlight
		if m.failed {
			style = StyleError
		}
		parts = append(parts, style.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func (m *exploreModel) detailLine() string {
	info := m.hover
	if info == nil {
		info = m.selected
	}
	if info == nil {
		return StyleDim.Render("click a node for details · double-click to re-root · drag to pin · right-click to unpin")
	}
	return describeNode(*info)
}

// describeNode renders one node for the detail line.
func describeNode(info explorer.NodeInfo) string {
	parts := []string{footerNameStyle.Render(info.Name)}
	if info.Version != "" {
		parts = append(parts, StyleValue.Render(info.Version))
	}
	if info.Repository != "" {
		parts = append(parts, StyleDim.Render(info.Repository))
	}
	switch {
	case !info.Installed:
		parts = append(parts, StyleWarning.Render("not installed"))
	case info.Reason != "":
		parts = append(parts, StyleDim.Render(info.Reason))
	}
	if info.Role == graph.RoleRoot {
		parts = append(parts, footerRootStyle.Render("root"))
	} else {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("depth %d", info.Depth)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
