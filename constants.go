package main

import "github.com/charmbracelet/lipgloss"

const (
	defaultCellWidth  = 8  // screen units per terminal column
	defaultCellHeight = 16 // screen units per terminal row
	minEntityColumns  = 14
	sampleSteps       = 24 // bezier samples per leg when rasterizing
	statusLines       = 1
)

type cellStyle int

const (
	styleNone cellStyle = iota
	styleDim
	styleSelected
	stylePicked
	styleHeader
	styleMarquee
	styleGroup
	stylePanel
	stylePanelActive
	styleHandle
	stylePalette // stylePalette + (tag-1) for each palette entry
)

// Terminal colors for highlight tags, indexed by tag - 1.
var paletteColors = []lipgloss.Color{"196", "36", "214", "33", "135", "106", "205", "245"}

var (
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	pickedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	marqueeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	panelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	panelActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	handleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

func styleFor(s cellStyle) lipgloss.Style {
	switch {
	case s >= stylePalette:
		return lipgloss.NewStyle().Foreground(paletteColors[int(s-stylePalette)%len(paletteColors)])
	case s == styleDim:
		return dimStyle
	case s == styleSelected:
		return selectedStyle
	case s == stylePicked:
		return pickedStyle
	case s == styleHeader:
		return headerStyle
	case s == styleMarquee:
		return marqueeStyle
	case s == styleGroup:
		return groupStyle
	case s == stylePanel:
		return panelStyle
	case s == stylePanelActive:
		return panelActive
	case s == styleHandle:
		return handleStyle
	default:
		return lipgloss.NewStyle()
	}
}

func tagStyle(tag int) cellStyle {
	if tag <= 0 {
		return styleNone
	}
	return stylePalette + cellStyle(tag-1)
}
