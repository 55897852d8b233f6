package diagram

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds every geometry and interaction constant the engine uses.
// One instance is shared by the router, the viewport, the panel and the
// highlight engine so that the values can never disagree between modules.
type Config struct {
	RowHeight    int `yaml:"row_height" validate:"gt=0"`
	HeaderHeight int `yaml:"header_height" validate:"gte=0"`
	BorderWidth  int `yaml:"border_width" validate:"gte=0"`
	MaxFields    int `yaml:"max_fields" validate:"gt=0"`

	ArrowSize  int `yaml:"arrow_size" validate:"gt=0"`
	SelfWidth  int `yaml:"self_width" validate:"gt=0"`
	DownWidth  int `yaml:"down_width" validate:"gt=0"`
	DirectGap  int `yaml:"direct_gap" validate:"gte=0"`
	DetourBias int `yaml:"detour_bias" validate:"gte=0"`

	PaletteSize int `yaml:"palette_size" validate:"gt=0,lte=8"`

	MinZoom      int `yaml:"min_zoom" validate:"gt=0"`
	MaxZoom      int `yaml:"max_zoom" validate:"gtefield=MinZoom"`
	ZoomInterval int `yaml:"zoom_interval" validate:"gt=0"`
	DefaultZoom  int `yaml:"default_zoom" validate:"gtefield=MinZoom,ltefield=MaxZoom"`

	PanelMinWidth       int `yaml:"panel_min_width" validate:"gt=0"`
	PanelCollapsedWidth int `yaml:"panel_collapsed_width" validate:"gte=0,ltefield=PanelMinWidth"`
	PanelInitialWidth   int `yaml:"panel_initial_width" validate:"gtefield=PanelMinWidth"`

	MarqueeThreshold int `yaml:"marquee_threshold" validate:"gte=0"`
	GroupPadding     int `yaml:"group_padding" validate:"gte=0"`
}

// DefaultConfig returns the canonical parameter set.
func DefaultConfig() Config {
	return Config{
		RowHeight:    24,
		HeaderHeight: 31,
		BorderWidth:  2,
		MaxFields:    15,

		ArrowSize:  10,
		SelfWidth:  70,
		DownWidth:  70,
		DirectGap:  50,
		DetourBias: 10,

		PaletteSize: 6,

		MinZoom:      30,
		MaxZoom:      150,
		ZoomInterval: 10,
		DefaultZoom:  100,

		PanelMinWidth:       150,
		PanelCollapsedWidth: 24,
		PanelInitialWidth:   240,

		MarqueeThreshold: 20,
		GroupPadding:     20,
	}
}

// MaxPaletteSize is the number of distinct highlight colors renderers carry.
const MaxPaletteSize = 8

var validate = validator.New()

// Validate reports the first constraint the configuration breaks.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid diagram config: %w", err)
	}
	return nil
}
