package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/atotto/clipboard"

	"flerd/internal/diagram"
)

func (m *model) layout() layout {
	l := layout{cellW: m.config.CellWidth, cellH: m.config.CellHeight}
	l.panelCols = int(math.Round(float64(m.diagram.Panel().Width) / float64(l.cellW)))
	if l.panelCols < 1 {
		l.panelCols = 1
	}
	if limit := m.width - 2; l.panelCols > limit && limit > 0 {
		l.panelCols = limit
	}
	l.handleCol = l.panelCols
	l.canvasCol = l.panelCols + 1
	l.canvasCols = max(m.width-l.canvasCol, 0)
	l.canvasRows = max(m.height-statusLines, 0)
	return l
}

// toScreen maps a terminal cell on the canvas to screen units, aimed at
// the middle of the cell.
func (l layout) toScreen(col, row int) diagram.Point {
	return diagram.Point{
		X: (float64(col-l.canvasCol) + 0.5) * float64(l.cellW),
		Y: (float64(row) + 0.5) * float64(l.cellH),
	}
}

// cell maps a screen-unit point to a canvas-local terminal cell.
func (l layout) cell(p diagram.Point) (int, int) {
	return int(math.Floor(p.X / float64(l.cellW))), int(math.Floor(p.Y / float64(l.cellH)))
}

// view is the visible canvas area in screen units.
func (l layout) view() diagram.Rect {
	return diagram.Rect{
		Width:  float64(l.canvasCols * l.cellW),
		Height: float64(l.canvasRows * l.cellH),
	}
}

var errNothingSelected = errors.New("nothing selected")

func (m *model) copySelection() error {
	ids := m.diagram.SelectedIDs()
	if len(ids) == 0 {
		return errNothingSelected
	}
	if err := clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
