package main

import (
	"fmt"
	"math"
	"strings"

	"flerd/internal/diagram"
)

// grid is a rune canvas with one style per cell.
type grid struct {
	w, h   int
	runes  [][]rune
	styles [][]cellStyle
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, runes: make([][]rune, h), styles: make([][]cellStyle, h)}
	for y := range g.runes {
		g.runes[y] = make([]rune, w)
		g.styles[y] = make([]cellStyle, w)
		for x := range g.runes[y] {
			g.runes[y][x] = ' '
		}
	}
	return g
}

func (g *grid) set(col, row int, r rune, s cellStyle) {
	if col < 0 || row < 0 || col >= g.w || row >= g.h {
		return
	}
	g.runes[row][col] = r
	g.styles[row][col] = s
}

// text writes s from col, stopping before limit.
func (g *grid) text(col, row int, s string, style cellStyle, limit int) {
	for _, r := range s {
		if col >= limit {
			return
		}
		g.set(col, row, r, style)
		col++
	}
}

type border struct {
	tl, tr, bl, br rune
	h, v           rune
	lt, rt         rune
}

var (
	thinBorder   = border{'┌', '┐', '└', '┘', '─', '│', '├', '┤'}
	thickBorder  = border{'╔', '╗', '╚', '╝', '═', '║', '╟', '╢'}
	dashedBorder = border{'┌', '┐', '└', '┘', '╌', '╎', '├', '┤'}
	dottedBorder = border{'·', '·', '·', '·', '┄', '┆', '·', '·'}
)

func (g *grid) box(left, top, right, bottom int, b border, s cellStyle, fill bool) {
	if fill {
		for y := top + 1; y < bottom; y++ {
			for x := left + 1; x < right; x++ {
				g.set(x, y, ' ', styleNone)
			}
		}
	}
	for x := left + 1; x < right; x++ {
		g.set(x, top, b.h, s)
		g.set(x, bottom, b.h, s)
	}
	for y := top + 1; y < bottom; y++ {
		g.set(left, y, b.v, s)
		g.set(right, y, b.v, s)
	}
	g.set(left, top, b.tl, s)
	g.set(right, top, b.tr, s)
	g.set(left, bottom, b.bl, s)
	g.set(right, bottom, b.br, s)
}

func (g *grid) hline(left, right, row int, b border, s cellStyle) {
	g.set(left, row, b.lt, s)
	for x := left + 1; x < right; x++ {
		g.set(x, row, b.h, s)
	}
	g.set(right, row, b.rt, s)
}

// lines renders each row, wrapping runs of equal style in one lipgloss
// render call.
func (g *grid) lines() []string {
	out := make([]string, g.h)
	for y := 0; y < g.h; y++ {
		var sb strings.Builder
		start := 0
		for x := 1; x <= g.w; x++ {
			if x < g.w && g.styles[y][x] == g.styles[y][start] {
				continue
			}
			run := string(g.runes[y][start:x])
			if s := g.styles[y][start]; s != styleNone {
				run = styleFor(s).Render(run)
			}
			sb.WriteString(run)
			start = x
		}
		out[y] = sb.String()
	}
	return out
}

func (g *grid) plainLines() []string {
	out := make([]string, g.h)
	for y := range g.runes {
		out[y] = string(g.runes[y])
	}
	return out
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// rectCells maps a screen rectangle to inclusive cell corners, keeping at
// least a border's worth of cells.
func (l layout) rectCells(r diagram.Rect) (left, top, right, bottom int) {
	left, top = l.cell(diagram.Point{X: r.Left, Y: r.Top})
	right, bottom = l.cell(diagram.Point{X: r.Right() - 1, Y: r.Bottom() - 1})
	right = max(right, left+2)
	bottom = max(bottom, top+1)
	return left, top, right, bottom
}

func (m *model) renderCanvas(l layout) *grid {
	g := newGrid(l.canvasCols, l.canvasRows)
	scene := m.diagram.Scene(m.ctrl)

	for _, gv := range scene.Groups {
		left, top, right, bottom := l.rectCells(gv.Screen)
		g.box(left, top, right, bottom, dottedBorder, styleGroup, false)
		g.text(left+2, top, truncate(" "+gv.Name+" ", right-left-3), styleGroup, right)
	}
	for _, c := range scene.Connectors {
		m.drawConnector(g, l, c)
	}
	for _, e := range scene.Entities {
		m.drawEntity(g, l, e, scene.Scale)
	}
	if scene.MarqueeOpen {
		left, top, right, bottom := l.rectCells(scene.Marquee)
		g.box(left, top, right, bottom, dashedBorder, styleMarquee, false)
	}
	return g
}

func (m *model) drawConnector(g *grid, l layout, c diagram.ConnectorView) {
	style := tagStyle(c.ColorTag)
	if c.State == diagram.StateDisabled {
		style = styleDim
	}
	steps := int(2 * (c.Surface.Width/float64(l.cellW) + c.Surface.Height/float64(l.cellH)))
	pts := c.Route().Sample(max(steps, sampleSteps))
	for i, p := range pts {
		col, row := l.cell(p)
		next := p
		if i+1 < len(pts) {
			next = pts[i+1]
		} else if i > 0 {
			next = p.Add(p.Sub(pts[i-1]))
		}
		d := next.Sub(p)
		r := '─'
		if math.Abs(d.Y)/float64(l.cellH) > math.Abs(d.X)/float64(l.cellW) {
			r = '│'
		}
		g.set(col, row, r, style)
	}
	a := c.Arrow
	col, row := l.cell(a.Apex)
	head := '◀'
	if a.Apex.X > a.Base1.X {
		head = '▶'
	}
	g.set(col, row, head, style)
}

func (m *model) drawEntity(g *grid, l layout, v diagram.EntityView, scale float64) {
	cfg := m.config.Diagram
	left, top, right, bottom := l.rectCells(v.Screen)

	style, b := styleNone, thinBorder
	switch {
	case v.Picked:
		style, b = stylePicked, thickBorder
	case v.State == diagram.StateSelected:
		style, b = styleSelected, thickBorder
	case v.State == diagram.StateDisabled:
		style = styleDim
	}
	g.box(left, top, right, bottom, b, style, true)

	avail := right - left - 1
	nameRow := top
	if bottom-top >= 2 {
		nameRow = top + 1
	}
	nameStyle := style
	if nameStyle == styleNone {
		nameStyle = styleHeader
	}
	title := truncate(v.ID, avail)
	g.text(left+1+max(0, (avail-len([]rune(title)))/2), nameRow, title, nameStyle, right)

	headerBottom := v.Screen.Top + float64(cfg.HeaderHeight+cfg.BorderWidth)*scale
	_, sep := l.cell(diagram.Point{Y: headerBottom})
	if len(v.Fields) > 0 && sep > nameRow && sep < bottom {
		g.hline(left, right, sep, b, style)
	}

	// rows are pushed below the separator and below each other when the
	// zoomed row height is smaller than a cell
	rowH := float64(cfg.RowHeight) * scale
	last := max(nameRow, sep)
	for i, f := range v.Fields {
		_, row := l.cell(diagram.Point{Y: headerBottom + float64(i)*rowH + rowH/2})
		row = max(row, last+1)
		if row >= bottom {
			break
		}
		last = row
		fs := styleNone
		switch {
		case v.State == diagram.StateDisabled:
			fs = styleDim
		case f.ColorTag != 0:
			fs = tagStyle(f.ColorTag)
		}
		label := " " + f.Name
		if f.Primary {
			label = "*" + f.Name
		}
		g.text(left+1, row, truncate(label, avail), fs, right)
		if f.Type == "" || f.Hidden {
			continue
		}
		typeCol := right - len([]rune(f.Type))
		if typeCol > left+1+len([]rune(label)) {
			ts := fs
			if ts == styleNone {
				ts = styleDim
			}
			g.text(typeCol, row, f.Type, ts, right)
		}
	}
}

func (m *model) renderPanel(l layout) *grid {
	g := newGrid(l.panelCols, l.canvasRows)
	if m.diagram.Panel().Collapsed() {
		g.set(0, 0, '≡', styleHandle)
		return g
	}
	catalog := m.diagram.Catalog()
	g.text(0, 0, truncate(fmt.Sprintf("Tables (%d)", len(catalog)), l.panelCols), styleHeader, l.panelCols)
	for i, e := range catalog {
		row := i + 1
		if row >= l.canvasRows {
			break
		}
		marker, style := "○ ", styleDim
		if e.Visible {
			marker, style = "● ", stylePanel
		}
		if m.diagram.IsSelected(e.ID) {
			style = stylePanelActive
		}
		g.text(0, row, truncate(marker+e.ID, l.panelCols), style, l.panelCols)
	}
	return g
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}

	l := m.layout()
	panel := m.renderPanel(l).lines()
	canvas := m.renderCanvas(l).lines()
	handle := "│"
	if m.ctrl.Mode() == diagram.ModeResizingPanel {
		handle = "┃"
	}
	handle = handleStyle.Render(handle)

	var sb strings.Builder
	for row := 0; row < l.canvasRows; row++ {
		sb.WriteString(panel[row])
		sb.WriteString(handle)
		sb.WriteString(canvas[row])
		sb.WriteString("\n")
	}
	sb.WriteString(m.statusLine())
	return sb.String()
}

func (m model) modeString() string {
	return strings.ToUpper(m.ctrl.Mode().String())
}

func (m model) statusLine() string {
	d := m.diagram
	status := fmt.Sprintf(" %s | %s | zoom %d%% | %d/%d tables | %d selected",
		m.schemaName, m.modeString(), d.Viewport().Zoom,
		len(d.Entities()), len(d.Catalog()), len(d.SelectedIDs()))
	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		status += " | " + successStyle.Render(m.successMessage)
	}
	return statusStyle.Width(m.width).Render(status + " | ? help")
}

func (m model) helpView() string {
	h := m.help
	h.ShowAll = true
	return headerStyle.Render("flerd help") + "\n\n" + h.View(m.keys) + "\n\n" +
		dimStyle.Render("mouse: drag a table to move it, drag empty space to select,\n"+
			"right-drag to pan, wheel to zoom, drag the divider to resize the list")
}
