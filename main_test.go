package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flerd/internal/diagram"
	"flerd/internal/schema"
	"flerd/internal/store"
)

const shopSchema = `
tables:
  - name: users
    fields:
      - {name: id, type: int, primary: true}
      - {name: name, type: text}
  - name: orders
    left: 400
    fields:
      - {name: id, type: int, primary: true}
      - {name: user_id, type: int}
relations:
  - {from: orders, from_field: user_id, to: users, to_field: id}
`

func newTestModel(t *testing.T) model {
	t.Helper()
	catalog, err := schema.Parse([]byte(shopSchema))
	require.NoError(t, err)
	config := defaultConfig()
	config.SaveDirectory = t.TempDir()
	m, err := newModel(config, catalog, store.NewMemoryStore(), zap.NewNop(), "shop.yaml")
	require.NoError(t, err)
	m.width = 120
	m.height = 40
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	config, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), config)

	path := filepath.Join(dir, "flerd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cell_width: 10\ndiagram:\n  max_fields: 5\n"), 0644))
	config, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, config.CellWidth)
	assert.Equal(t, defaultCellHeight, config.CellHeight)
	assert.Equal(t, 5, config.Diagram.MaxFields)
	assert.Equal(t, 24, config.Diagram.RowHeight)

	for _, doc := range []string{"cell_width: 0\n", "diagram:\n  min_zoom: 200\n", "cell_width: [\n"} {
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
		_, err = loadConfig(path)
		assert.Error(t, err, doc)
	}
}

func TestSavePath(t *testing.T) {
	config := defaultConfig()
	path, err := config.SavePath("shop.png")
	require.NoError(t, err)
	assert.Equal(t, "shop.png", path)

	config.SaveDirectory = filepath.Join(t.TempDir(), "out")
	path, err = config.SavePath("shop.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(config.SaveDirectory, "shop.png"), path)
	_, err = os.Stat(config.SaveDirectory)
	assert.NoError(t, err)
}

func TestSavePathReportsUnusableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	config := defaultConfig()
	config.SaveDirectory = filepath.Join(blocker, "out")
	_, err := config.SavePath("shop.png")
	assert.Error(t, err)

	m := newTestModel(t)
	m.config.SaveDirectory = config.SaveDirectory
	m = update(t, m, runes("p"))
	assert.Contains(t, m.errorMessage, "create save directory")
	assert.Empty(t, m.successMessage)
}

func TestPaletteStylesAreDistinct(t *testing.T) {
	require.Len(t, paletteColors, diagram.MaxPaletteSize)
	seen := map[lipgloss.Color]bool{}
	for _, c := range paletteColors {
		assert.False(t, seen[c], "color %s repeats", c)
		seen[c] = true
	}
	assert.Equal(t, stylePalette+7, tagStyle(diagram.MaxPaletteSize))
}

func TestLayoutRoundTrip(t *testing.T) {
	m := newTestModel(t)
	l := m.layout()
	assert.Equal(t, 30, l.panelCols)
	assert.Equal(t, 31, l.canvasCol)
	assert.Equal(t, 89, l.canvasCols)
	assert.Equal(t, 39, l.canvasRows)

	col, row := l.cell(l.toScreen(l.canvasCol+5, 7))
	assert.Equal(t, 5, col)
	assert.Equal(t, 7, row)
}

func TestViewShowsTables(t *testing.T) {
	m := newTestModel(t)

	canvas := strings.Join(m.renderCanvas(m.layout()).plainLines(), "\n")
	assert.Contains(t, canvas, "users")
	assert.Contains(t, canvas, "orders")
	assert.Contains(t, canvas, "*id")

	view := m.View()
	assert.Contains(t, view, "Tables (2)")
	assert.Contains(t, view, "● users")
	assert.Contains(t, view, "zoom 100%")

	m.width = 0
	assert.Empty(t, m.View())
}

func TestMouseDragMovesTable(t *testing.T) {
	m := newTestModel(t)
	l := m.layout()

	// the users header sits two cells into the canvas
	press := tea.MouseMsg{X: l.canvasCol + 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = update(t, m, press)
	assert.Equal(t, diagram.ModeDraggingEntities, m.ctrl.Mode())
	assert.Equal(t, []string{"users"}, m.diagram.SelectedIDs())

	m = update(t, m, tea.MouseMsg{X: l.canvasCol + 12, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: l.canvasCol + 12, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, diagram.ModeIdle, m.ctrl.Mode())

	users, ok := m.diagram.Entity("users")
	require.True(t, ok)
	assert.Equal(t, diagram.Position{Left: 80}, users.Position)
}

func TestMouseResizesPanel(t *testing.T) {
	m := newTestModel(t)
	l := m.layout()

	m = update(t, m, tea.MouseMsg{X: l.handleCol, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, diagram.ModeResizingPanel, m.ctrl.Mode())
	m = update(t, m, tea.MouseMsg{X: 40, Y: 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, 320, m.diagram.Panel().Width)
	assert.Equal(t, 40, m.layout().panelCols)
}

func TestMouseWheelZooms(t *testing.T) {
	m := newTestModel(t)
	l := m.layout()
	m = update(t, m, tea.MouseMsg{X: l.canvasCol + 4, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 90, m.diagram.Viewport().Zoom)

	// wheel over the table list is ignored
	m = update(t, m, tea.MouseMsg{X: 2, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 90, m.diagram.Viewport().Zoom)
}

func TestPanelRowRestoresHiddenTable(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.diagram.Hide("orders"))

	// row 0 is the title, catalog order follows
	m = update(t, m, tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	orders, _ := m.diagram.Entity("orders")
	assert.True(t, orders.Visible)

	m = update(t, m, tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, []string{"users"}, m.diagram.SelectedIDs())
}

func TestKeysHideAndRestore(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, runes("d"))
	assert.Equal(t, errNothingSelected.Error(), m.errorMessage)

	m.diagram.Select("users", false)
	m = update(t, m, runes("d"))
	assert.Len(t, m.diagram.Entities(), 1)
	assert.Empty(t, m.diagram.Connectors())
	assert.Contains(t, m.View(), "○ users")

	m = update(t, m, runes("r"))
	assert.Len(t, m.diagram.Entities(), 2)
	assert.Len(t, m.diagram.Connectors(), 1)
	assert.Equal(t, "Restored 1 tables", m.successMessage)
}

func TestKeysPanelZoomAndGroups(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.diagram.Panel().Collapsed())
	assert.Equal(t, 3, m.layout().panelCols)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 240, m.diagram.Panel().Width)

	m = update(t, m, runes("+"))
	assert.Equal(t, 110, m.diagram.Viewport().Zoom)
	m = update(t, m, runes("0"))
	assert.Equal(t, 100, m.diagram.Viewport().Zoom)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Len(t, m.diagram.SelectedIDs(), 2)
	m = update(t, m, runes("g"))
	require.Len(t, m.diagram.Groups(), 1)
	assert.Equal(t, "group 1", m.diagram.Groups()[0].Name)
	m = update(t, m, runes("G"))
	assert.Empty(t, m.diagram.Groups())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.diagram.SelectedIDs())
}

func TestKeysPan(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, runes("l"))
	assert.Equal(t, diagram.Point{X: 32}, m.diagram.Viewport().Scroll())
	m = update(t, m, runes("J"))
	assert.Equal(t, diagram.Point{X: 32, Y: 128}, m.diagram.Viewport().Scroll())
}

func TestExports(t *testing.T) {
	m := newTestModel(t)

	txt, err := m.exportVisualTXT()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.config.SaveDirectory, "shop.txt"), txt)
	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Contains(t, string(data), "orders")

	png, err := m.exportPNG()
	require.NoError(t, err)
	_, err = os.Stat(png)
	assert.NoError(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ord…", truncate("orders", 4))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "…", truncate("abc", 1))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestGridClipsAndBoxes(t *testing.T) {
	g := newGrid(6, 3)
	g.box(0, 0, 5, 2, thinBorder, styleNone, false)
	g.text(1, 1, "abcdefgh", styleNone, 5)
	g.set(10, 10, 'x', styleNone)
	assert.Equal(t, []string{"┌────┐", "│abcd│", "└────┘"}, g.plainLines())
	assert.Len(t, g.lines(), 3)
}
