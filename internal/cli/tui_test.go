package cli

import (
	"context"
	"io"
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depscope/pkg/config"
	"github.com/matzehuels/depscope/pkg/graph"
)

func newTestModel(t *testing.T) *exploreModel {
	t.Helper()
	cfg := config.Default()
	cfg.Simulation.AnchorRoot = true
	m := newExploreModel(cfg, testSession(t), newLogger(io.Discard, LogInfo))
	t.Cleanup(m.exp.Teardown)

	m.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	_, err := m.host.drain(context.Background(), 2000)
	require.NoError(t, err)
	return m
}

// screenOf returns the cell a node is drawn in.
func screenOf(t *testing.T, m *exploreModel, id string) (int, int) {
	t.Helper()
	x, y, ok := m.exp.Driver().Position(id)
	require.True(t, ok, "no position for %s", id)
	sx, sy := m.exp.Camera().ToScreen(x, y)
	return int(math.Round(sx)), int(math.Round(sy))
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExploreModelFrames(t *testing.T) {
	cfg := config.Default()
	m := newExploreModel(cfg, testSession(t), newLogger(io.Discard, LogInfo))
	defer m.exp.Teardown()

	require.NotNil(t, m.Init(), "a loaded graph schedules a frame")
	assert.Nil(t, m.schedule(), "only one tick is armed at a time")

	before := m.exp.Driver().Ticks()
	_, cmd := m.Update(frameMsg{})
	assert.Equal(t, before+1, m.exp.Driver().Ticks())
	assert.NotNil(t, cmd, "the next frame is armed")
}

func TestExploreModelResize(t *testing.T) {
	m := newTestModel(t)
	w, h := m.raster.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 60-m.footerLines(), h)

	m.Update(runes("?"))
	_, h2 := m.raster.Size()
	assert.Less(t, h2, h, "full help takes rows from the canvas")
}

func TestExploreModelClickSelects(t *testing.T) {
	m := newTestModel(t)
	x, y := screenOf(t, m, "pacman")

	m.Update(press(x, y))
	m.Update(release(x, y))

	require.NotNil(t, m.selected)
	assert.Equal(t, "pacman", m.selected.ID)
	assert.Equal(t, graph.RoleRoot, m.selected.Role)
	assert.Contains(t, m.View(), "6.1.0-3")
}

func TestExploreModelDoubleClickReroots(t *testing.T) {
	m := newTestModel(t)
	x, y := screenOf(t, m, "bash")

	m.Update(press(x, y))
	m.Update(release(x, y))
	m.Update(press(x, y))
	m.Update(release(x, y))

	assert.Equal(t, "bash", m.exp.Tree().Root)
	assert.Equal(t, []string{"pacman"}, m.sess.history)
	assert.Equal(t, "Rooted at bash", m.status)
	assert.Nil(t, m.selected)

	m.Update(runes("b"))
	assert.Equal(t, "pacman", m.exp.Tree().Root)
}

func TestExploreModelWheelZooms(t *testing.T) {
	m := newTestModel(t)
	scale := m.exp.Camera().Scale

	m.Update(tea.MouseMsg{X: 100, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.InDelta(t, scale*1.1, m.exp.Camera().Scale, 1e-9)

	m.Update(runes("-"))
	assert.InDelta(t, scale*1.1*0.9, m.exp.Camera().Scale, 1e-9)

	m.Update(runes("r"))
	assert.Equal(t, 1.0, m.exp.Camera().Scale)
}

func TestExploreModelKeys(t *testing.T) {
	m := newTestModel(t)

	m.Update(runes("]"))
	assert.Equal(t, 4, m.sess.opts.Depth)
	assert.Equal(t, "Depth 4", m.status)

	m.Update(runes("["))
	m.Update(runes("["))
	assert.Equal(t, 2, m.sess.opts.Depth)

	m.Update(runes("d"))
	assert.Equal(t, graph.Reverse, m.sess.opts.Direction)
	assert.Len(t, m.exp.Tree().Nodes, 1, "nothing requires pacman")

	labels := m.raster.ShowLabels()
	m.Update(runes("l"))
	assert.Equal(t, !labels, m.raster.ShowLabels())

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, m.exp.Driver(), "quitting tears the explorer down")
}

func TestExploreModelStatusLine(t *testing.T) {
	m := newTestModel(t)
	line := m.statusLine()
	assert.Contains(t, line, "◉ pacman")
	assert.Contains(t, line, "depth 3")
	assert.Contains(t, line, "6 nodes")
	assert.Contains(t, line, "100%")
}

func TestDescribeNode(t *testing.T) {
	m := newTestModel(t)
	info, ok := m.exp.Info("zstd")
	require.True(t, ok)
	got := describeNode(info)
	assert.Contains(t, got, "zstd")
	assert.Contains(t, got, "not installed")
	assert.Contains(t, got, "depth 2")
}
