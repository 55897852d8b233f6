package diagram

import "math"

// Viewport is the pan/zoom frame. Scroll is expressed in screen units, so a
// canvas point maps to screen as canvas*scale - scroll.
type Viewport struct {
	ScrollTop  float64
	ScrollLeft float64
	Zoom       int

	cfg Config
}

func NewViewport(cfg Config) *Viewport {
	return &Viewport{Zoom: cfg.DefaultZoom, cfg: cfg}
}

// Scale is the zoom factor relative to the default zoom.
func (v *Viewport) Scale() float64 {
	if v.cfg.DefaultZoom == 0 {
		return 1
	}
	return float64(v.Zoom) / float64(v.cfg.DefaultZoom)
}

// Pan shifts the scroll offset. There is no clamping; the host surface clips.
func (v *Viewport) Pan(delta Point) {
	v.ScrollLeft += delta.X
	v.ScrollTop += delta.Y
}

// Scroll returns the offset as a point.
func (v *Viewport) Scroll() Point {
	return Point{X: v.ScrollLeft, Y: v.ScrollTop}
}

// SetScroll replaces the offset.
func (v *Viewport) SetScroll(p Point) {
	v.ScrollLeft, v.ScrollTop = p.X, p.Y
}

// SetZoom snaps value to the zoom step counted from the default and clamps
// it to [MinZoom, MaxZoom]. It returns the applied zoom.
func (v *Viewport) SetZoom(value int) int {
	step := v.cfg.ZoomInterval
	if step > 0 {
		off := float64(value-v.cfg.DefaultZoom) / float64(step)
		value = v.cfg.DefaultZoom + int(math.Round(off))*step
	}
	v.Zoom = clampZoom(value, v.cfg)
	return v.Zoom
}

func clampZoom(value int, cfg Config) int {
	lo, hi := cfg.MinZoom, cfg.MaxZoom
	step := cfg.ZoomInterval
	if step > 0 {
		// keep the bounds on the step grid as well
		for (lo-cfg.DefaultZoom)%step != 0 && lo < cfg.DefaultZoom {
			lo++
		}
		for (hi-cfg.DefaultZoom)%step != 0 && hi > cfg.DefaultZoom {
			hi--
		}
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// ZoomIn raises the zoom by one step.
func (v *Viewport) ZoomIn() int { return v.SetZoom(v.Zoom + v.cfg.ZoomInterval) }

// ZoomOut lowers the zoom by one step.
func (v *Viewport) ZoomOut() int { return v.SetZoom(v.Zoom - v.cfg.ZoomInterval) }

// ZoomAround changes the zoom while keeping the canvas point under the
// screen anchor fixed.
func (v *Viewport) ZoomAround(value int, anchor Point) int {
	fixed := v.ScreenToCanvas(anchor)
	z := v.SetZoom(value)
	s := v.Scale()
	v.ScrollLeft = fixed.X*s - anchor.X
	v.ScrollTop = fixed.Y*s - anchor.Y
	return z
}

func (v *Viewport) ScreenToCanvas(pt Point) Point {
	return pt.Add(v.Scroll()).Div(v.Scale())
}

func (v *Viewport) CanvasToScreen(pt Point) Point {
	s := v.Scale()
	return Point{X: pt.X*s - v.ScrollLeft, Y: pt.Y*s - v.ScrollTop}
}

// RectToScreen projects a canvas rectangle.
func (v *Viewport) RectToScreen(r Rect) Rect {
	s := v.Scale()
	o := v.CanvasToScreen(Point{X: r.Left, Y: r.Top})
	return Rect{Left: o.X, Top: o.Y, Width: r.Width * s, Height: r.Height * s}
}

// RectToCanvas is the inverse of RectToScreen.
func (v *Viewport) RectToCanvas(r Rect) Rect {
	s := v.Scale()
	o := v.ScreenToCanvas(Point{X: r.Left, Y: r.Top})
	return Rect{Left: o.X, Top: o.Y, Width: r.Width / s, Height: r.Height / s}
}

// Center scrolls so the content rectangle (canvas units) sits in the middle
// of the view rectangle (screen units).
func (v *Viewport) Center(content, view Rect) {
	s := v.Scale()
	cx := (content.Left + content.Width/2) * s
	cy := (content.Top + content.Height/2) * s
	v.ScrollLeft = cx - (view.Left + view.Width/2)
	v.ScrollTop = cy - (view.Top + view.Height/2)
}
