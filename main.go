package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"flerd/internal/diagram"
	"flerd/internal/schema"
	"flerd/internal/store"
)

func main() {
	schemaPath := flag.String("schema", "", "schema file with tables and relations (YAML)")
	statePath := flag.String("state", "", "layout state file (default: <schema>.state in the save directory)")
	logPath := flag.String("log", "", "write debug logs to this file")
	configPath := flag.String("config", defaultConfigPath(), "configuration file")
	flag.Parse()

	if *schemaPath == "" && flag.NArg() > 0 {
		*schemaPath = flag.Arg(0)
	}
	if *schemaPath == "" {
		fmt.Fprintln(os.Stderr, "usage: flerd [flags] schema.yaml")
		flag.PrintDefaults()
		os.Exit(2)
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := newLogger(*logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	catalog, err := schema.Load(*schemaPath)
	if err != nil {
		log.Fatal(err)
	}
	if *statePath == "" {
		stem := strings.TrimSuffix(filepath.Base(*schemaPath), filepath.Ext(*schemaPath))
		*statePath, err = config.SavePath(stem + ".state")
		if err != nil {
			log.Fatal(err)
		}
	}
	st, err := store.OpenFile(*statePath)
	if err != nil {
		log.Fatal(err)
	}

	m, err := newModel(config, catalog, st, logger, *schemaPath)
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("starting",
		zap.String("schema", *schemaPath),
		zap.String("state", st.Path()),
		zap.Int("tables", len(catalog.Tables)),
		zap.Int("relations", len(catalog.Relations)))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func newModel(config *Config, catalog *schema.Catalog, st store.Store, logger *zap.Logger, name string) (model, error) {
	d, err := diagram.New(config.Diagram,
		diagram.WithLogger(logger),
		diagram.WithStore(st),
		diagram.WithMeasurer(diagram.RowMeasurer{
			CharWidth: config.CellWidth,
			MinWidth:  minEntityColumns * config.CellWidth,
		}),
	)
	if err != nil {
		return model{}, err
	}
	if err := catalog.Apply(d); err != nil {
		return model{}, err
	}
	return model{
		config:     config,
		diagram:    d,
		ctrl:       diagram.NewController(d),
		keys:       defaultKeyMap(),
		help:       help.New(),
		schemaName: name,
		log:        logger,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	if m.showHelp {
		switch msg.String() {
		case "esc", "q", "?":
			m.showHelp = false
		}
		return m, nil
	}

	d := m.diagram
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Left, m.keys.Right, m.keys.Up, m.keys.Down):
		m.handlePan(msg.String(), m.getMoveSpeed(msg.String()))
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomBy(1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomBy(-1)
	case key.Matches(msg, m.keys.ZoomReset):
		m.resetZoom()
	case key.Matches(msg, m.keys.Center):
		d.CenterView(m.layout().view())
	case key.Matches(msg, m.keys.Panel):
		m.ctrl.TogglePanel()
	case key.Matches(msg, m.keys.Expand):
		m.forSelected(d.ToggleExpanded)
	case key.Matches(msg, m.keys.ShowAll):
		m.forSelected(d.ToggleShowAll)
	case key.Matches(msg, m.keys.Hide):
		m.forSelected(d.Hide)
	case key.Matches(msg, m.keys.Restore):
		m.restoreAll()
	case key.Matches(msg, m.keys.Group):
		m.groupSelected()
	case key.Matches(msg, m.keys.Ungroup):
		m.ungroupSelected()
	case key.Matches(msg, m.keys.SelectAll):
		var ids []string
		for _, e := range d.Entities() {
			ids = append(ids, e.ID)
		}
		d.SetSelection(ids)
	case key.Matches(msg, m.keys.Clear):
		d.ClearSelection()
	case key.Matches(msg, m.keys.Copy):
		if err := m.copySelection(); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = fmt.Sprintf("Copied %d table names", len(d.SelectedIDs()))
		}
	case key.Matches(msg, m.keys.Export):
		m.report(m.exportPNG())
	case key.Matches(msg, m.keys.ExportTXT):
		m.report(m.exportVisualTXT())
	}
	return m, nil
}

func (m *model) report(filename string, err error) {
	if err != nil {
		m.errorMessage = err.Error()
		m.log.Warn("export failed", zap.Error(err))
		return
	}
	m.successMessage = "Saved " + filename
}

// forSelected applies fn to a snapshot of the selection.
func (m *model) forSelected(fn func(id string) error) {
	ids := m.diagram.SelectedIDs()
	if len(ids) == 0 {
		m.errorMessage = errNothingSelected.Error()
		return
	}
	for _, id := range ids {
		if err := fn(id); err != nil {
			m.errorMessage = err.Error()
		}
	}
}

func (m *model) restoreAll() {
	n := 0
	for _, e := range m.diagram.Catalog() {
		if e.Visible {
			continue
		}
		if err := m.diagram.Show(e.ID); err != nil {
			m.errorMessage = err.Error()
			continue
		}
		n++
	}
	m.successMessage = fmt.Sprintf("Restored %d tables", n)
}

func (m *model) groupSelected() {
	if len(m.diagram.SelectedIDs()) == 0 {
		m.errorMessage = errNothingSelected.Error()
		return
	}
	m.groupCount++
	g, err := m.diagram.NewGroup(fmt.Sprintf("group %d", m.groupCount))
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.successMessage = fmt.Sprintf("Grouped %d tables", len(g.Members))
}

func (m *model) ungroupSelected() {
	var doomed []string
	for _, g := range m.diagram.Groups() {
		for _, id := range g.Members {
			if m.diagram.IsSelected(id) {
				doomed = append(doomed, g.ID)
				break
			}
		}
	}
	for _, id := range doomed {
		m.diagram.RemoveGroup(id)
	}
}

func buttonOf(b tea.MouseButton) diagram.Button {
	switch b {
	case tea.MouseButtonRight:
		return diagram.ButtonSecondary
	case tea.MouseButtonMiddle:
		return diagram.ButtonMiddle
	default:
		return diagram.ButtonPrimary
	}
}

// pointer converts a mouse position for the controller. While the panel is
// being resized the canvas origin moves with it, so absolute columns are
// used instead.
func (m *model) pointer(l layout, x, y int) diagram.Point {
	if m.ctrl.Mode() == diagram.ModeResizingPanel {
		return diagram.Point{X: float64(x * l.cellW)}
	}
	return l.toScreen(x, y)
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	l := m.layout()
	additive := msg.Ctrl || msg.Shift

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Y >= l.canvasRows {
			return
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if msg.X < l.canvasCol {
				return
			}
			step := m.config.Diagram.ZoomInterval
			if msg.Button == tea.MouseButtonWheelDown {
				step = -step
			}
			m.diagram.SetZoom(m.diagram.Viewport().Zoom+step, l.toScreen(msg.X, msg.Y))
			return
		}
		if msg.X < l.handleCol {
			m.pickPanelRow(msg.Y, additive)
			return
		}
		ev := diagram.PointerEvent{
			Type:     diagram.EventPick,
			Position: l.toScreen(msg.X, msg.Y),
			Button:   buttonOf(msg.Button),
			Additive: additive,
		}
		if msg.X == l.handleCol {
			ev.Target = diagram.TargetPanelHandle
			ev.Position = diagram.Point{X: float64(msg.X * l.cellW)}
		}
		m.ctrl.Handle(ev)

	case tea.MouseActionMotion:
		if m.ctrl.Mode() == diagram.ModeIdle {
			return
		}
		m.ctrl.Handle(diagram.PointerEvent{Type: diagram.EventDrag, Position: m.pointer(l, msg.X, msg.Y)})

	case tea.MouseActionRelease:
		if m.ctrl.Mode() == diagram.ModeIdle {
			return
		}
		m.ctrl.Handle(diagram.PointerEvent{Type: diagram.EventDrop, Position: m.pointer(l, msg.X, msg.Y)})
	}
}

// pickPanelRow restores a hidden table or selects a visible one from the
// table list.
func (m *model) pickPanelRow(row int, additive bool) {
	if m.diagram.Panel().Collapsed() {
		return
	}
	catalog := m.diagram.Catalog()
	i := row - 1
	if i < 0 || i >= len(catalog) {
		return
	}
	e := catalog[i]
	switch {
	case !e.Visible:
		if err := m.diagram.Show(e.ID); err != nil {
			m.errorMessage = err.Error()
		}
	case additive:
		m.diagram.ToggleSelected(e.ID)
	default:
		m.diagram.Select(e.ID, false)
	}
}
