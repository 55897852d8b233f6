package diagram

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSetZoomClampsAndSnaps(t *testing.T) {
	v := NewViewport(DefaultConfig())
	assert.Equal(t, 100, v.Zoom)

	tests := []struct {
		in, want int
	}{
		{160, 150},
		{20, 30},
		{104, 100},
		{105, 110},
		{30, 30},
		{150, 150},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.SetZoom(tt.in), "SetZoom(%d)", tt.in)
	}
}

func TestSetZoomKeepsBoundsOnTheStepGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinZoom = 25
	cfg.MaxZoom = 155
	v := NewViewport(cfg)

	assert.Equal(t, 30, v.SetZoom(20))
	assert.Equal(t, 150, v.SetZoom(200))
}

func TestZoomSteps(t *testing.T) {
	v := NewViewport(DefaultConfig())
	assert.Equal(t, 110, v.ZoomIn())
	v.SetZoom(150)
	assert.Equal(t, 150, v.ZoomIn())
	v.SetZoom(30)
	assert.Equal(t, 30, v.ZoomOut())
	assert.InDelta(t, 0.3, v.Scale(), 1e-9)
}

func TestCoordinateConversion(t *testing.T) {
	v := NewViewport(DefaultConfig())
	v.SetZoom(120)
	v.SetScroll(Point{X: 30, Y: 40})

	s := v.CanvasToScreen(Point{X: 10, Y: 10})
	assert.InDelta(t, -18, s.X, 1e-9)
	assert.InDelta(t, -28, s.Y, 1e-9)

	c := v.ScreenToCanvas(s)
	assert.InDelta(t, 10, c.X, 1e-9)
	assert.InDelta(t, 10, c.Y, 1e-9)

	r := v.RectToScreen(Rect{Left: 10, Top: 10, Width: 100, Height: 50})
	assert.InDelta(t, 120, r.Width, 1e-9)
	back := v.RectToCanvas(r)
	assert.InDelta(t, 10, back.Left, 1e-9)
	assert.InDelta(t, 50, back.Height, 1e-9)
}

func TestPan(t *testing.T) {
	v := NewViewport(DefaultConfig())
	v.Pan(Point{X: 15, Y: -5})
	v.Pan(Point{X: 5, Y: -5})
	assert.Equal(t, Point{X: 20, Y: -10}, v.Scroll())
}

func TestCenter(t *testing.T) {
	v := NewViewport(DefaultConfig())
	v.Center(Rect{Width: 200, Height: 100}, Rect{Width: 800, Height: 600})
	assert.Equal(t, Point{X: -300, Y: -250}, v.Scroll())
}

func TestZoomAroundKeepsAnchorFixed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("anchor maps to the same canvas point", prop.ForAll(
		func(zoom int, ax, ay int) bool {
			v := NewViewport(DefaultConfig())
			v.SetScroll(Point{X: 37, Y: -12})
			anchor := Point{X: float64(ax), Y: float64(ay)}
			before := v.ScreenToCanvas(anchor)
			v.ZoomAround(zoom, anchor)
			after := v.ScreenToCanvas(anchor)
			return math.Abs(before.X-after.X) < 1e-6 && math.Abs(before.Y-after.Y) < 1e-6
		},
		gen.IntRange(0, 200),
		gen.IntRange(0, 1600),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
