package main

import (
	"flerd/internal/diagram"
)

func (m *model) handlePan(key string, speed int) {
	l := m.layout()
	dx := float64(speed * l.cellW * 4)
	dy := float64(speed * l.cellH * 2)
	vp := m.diagram.Viewport()
	switch key {
	case "h", "left", "H", "shift+left":
		vp.Pan(diagram.Point{X: -dx})
	case "l", "right", "L", "shift+right":
		vp.Pan(diagram.Point{X: dx})
	case "k", "up", "K", "shift+up":
		vp.Pan(diagram.Point{Y: -dy})
	case "j", "down", "J", "shift+down":
		vp.Pan(diagram.Point{Y: dy})
	}
	m.diagram.SaveViewport()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

// zoomBy steps the zoom around the middle of the canvas.
func (m *model) zoomBy(steps int) {
	l := m.layout()
	view := l.view()
	anchor := diagram.Point{X: view.Width / 2, Y: view.Height / 2}
	cfg := m.config.Diagram
	m.diagram.SetZoom(m.diagram.Viewport().Zoom+steps*cfg.ZoomInterval, anchor)
}

func (m *model) resetZoom() {
	l := m.layout()
	view := l.view()
	m.diagram.SetZoom(m.config.Diagram.DefaultZoom, diagram.Point{X: view.Width / 2, Y: view.Height / 2})
}
