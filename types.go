package main

import (
	"github.com/charmbracelet/bubbles/help"
	"go.uber.org/zap"

	"flerd/internal/diagram"
)

type model struct {
	width          int
	height         int
	config         *Config
	diagram        *diagram.Diagram
	ctrl           *diagram.Controller
	keys           keyMap
	help           help.Model
	showHelp       bool
	schemaName     string
	errorMessage   string
	successMessage string
	groupCount     int
	log            *zap.Logger
}

// layout is the terminal split between the table list, its resize handle
// and the canvas.
type layout struct {
	panelCols  int
	handleCol  int
	canvasCol  int
	canvasCols int
	canvasRows int
	cellW      int
	cellH      int
}
