package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"flerd/internal/diagram"
)

type Config struct {
	SaveDirectory string         `yaml:"save_directory"`
	CellWidth     int            `yaml:"cell_width" validate:"gt=0"`
	CellHeight    int            `yaml:"cell_height" validate:"gt=0"`
	Diagram       diagram.Config `yaml:"diagram"`
}

func defaultConfig() *Config {
	return &Config{
		CellWidth:  defaultCellWidth,
		CellHeight: defaultCellHeight,
		Diagram:    diagram.DefaultConfig(),
	}
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".flerd.yaml")
}

// loadConfig reads path over the defaults. A missing file is not an error;
// keys absent from the file keep their default values.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if dir := config.SaveDirectory; dir != "" {
		if strings.HasPrefix(dir, "~") {
			if homeDir, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(homeDir, strings.TrimPrefix(dir, "~"))
			}
		}
		if !filepath.IsAbs(dir) {
			if absPath, err := filepath.Abs(dir); err == nil {
				dir = absPath
			}
		}
		config.SaveDirectory = dir
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// SavePath places filename in the save directory, creating it if needed.
func (c *Config) SavePath(filename string) (string, error) {
	if c.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}
