package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flerd/internal/export"
)

func (m *model) exportFilename(ext string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(m.schemaName), filepath.Ext(m.schemaName))
	if base == "" || base == "." {
		base = "diagram"
	}
	return m.config.SavePath(base + ext)
}

func (m *model) exportPNG() (string, error) {
	filename, err := m.exportFilename(".png")
	if err != nil {
		return "", err
	}
	scene := m.diagram.Scene(nil)
	if err := export.PNG(scene, filename, export.DefaultOptions(m.config.Diagram)); err != nil {
		return "", fmt.Errorf("export %s: %w", filename, err)
	}
	return filename, nil
}

// exportVisualTXT writes the canvas as it currently appears on screen,
// without colors.
func (m *model) exportVisualTXT() (string, error) {
	filename, err := m.exportFilename(".txt")
	if err != nil {
		return "", err
	}
	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	l := m.layout()
	g := m.renderCanvas(l)
	for _, line := range g.plainLines() {
		if _, err := fmt.Fprintln(file, strings.TrimRight(line, " ")); err != nil {
			return "", err
		}
	}
	return filename, nil
}
