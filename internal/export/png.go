// Package export paints a diagram scene to a PNG image.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"flerd/internal/diagram"
)

var ErrEmptyScene = errors.New("nothing to export")

// Palette holds the highlight colors indexed by color tag - 1.
var Palette = []color.RGBA{
	{0xe6, 0x39, 0x46, 0xff},
	{0x2a, 0x9d, 0x8f, 0xff},
	{0xf4, 0xa2, 0x61, 0xff},
	{0x45, 0x7b, 0x9d, 0xff},
	{0x9b, 0x5d, 0xe5, 0xff},
	{0x8a, 0xb0, 0x17, 0xff},
	{0xd6, 0x33, 0x84, 0xff},
	{0x6c, 0x75, 0x7d, 0xff},
}

var (
	ink      = color.RGBA{0x22, 0x22, 0x22, 0xff}
	dimmed   = color.RGBA{0xbb, 0xbb, 0xbb, 0xff}
	header   = color.RGBA{0xee, 0xf1, 0xf5, 0xff}
	selected = color.RGBA{0x1d, 0x4e, 0xd8, 0xff}
	groupBg  = color.RGBA{0xf7, 0xf3, 0xe8, 0xff}
)

// Options controls the output image.
type Options struct {
	Padding  float64
	FontSize float64
	Config   diagram.Config
}

func DefaultOptions(cfg diagram.Config) Options {
	return Options{Padding: 20, FontSize: 12, Config: cfg}
}

// TagColor maps a color tag to a palette color. Tags wrap around the
// palette; zero is ink.
func TagColor(tag int) color.Color {
	if tag <= 0 {
		return ink
	}
	return Palette[(tag-1)%len(Palette)]
}

// PNG renders the scene into filename. Coordinates are taken from the
// scene's screen projection, so the current zoom applies.
func PNG(scene diagram.Scene, filename string, opts Options) error {
	dc, err := Render(scene, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(filename)
}

// Render paints the scene into a new drawing context sized to fit it.
func Render(scene diagram.Scene, opts Options) (*gg.Context, error) {
	bounds, ok := sceneBounds(scene)
	if !ok {
		return nil, ErrEmptyScene
	}
	minX := bounds.Left - opts.Padding
	minY := bounds.Top - opts.Padding
	width := int(math.Ceil(bounds.Width + 2*opts.Padding))
	height := int(math.Ceil(bounds.Height + 2*opts.Padding))

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    opts.FontSize * scene.Scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	dc.Translate(-minX, -minY)

	// groups behind connectors, connectors behind entities
	for _, g := range scene.Groups {
		drawGroup(dc, g)
	}
	for _, c := range scene.Connectors {
		drawConnector(dc, c, scene.Scale)
	}
	for _, e := range scene.Entities {
		drawEntity(dc, e, scene.Scale, opts.Config)
	}
	return dc, nil
}

func sceneBounds(scene diagram.Scene) (diagram.Rect, bool) {
	var rects []diagram.Rect
	for _, e := range scene.Entities {
		rects = append(rects, e.Screen)
	}
	for _, c := range scene.Connectors {
		rects = append(rects, c.Surface)
	}
	for _, g := range scene.Groups {
		rects = append(rects, g.Screen)
	}
	if len(rects) == 0 {
		return diagram.Rect{}, false
	}
	left, top := rects[0].Left, rects[0].Top
	right, bottom := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		left = math.Min(left, r.Left)
		top = math.Min(top, r.Top)
		right = math.Max(right, r.Right())
		bottom = math.Max(bottom, r.Bottom())
	}
	return diagram.Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}, true
}

func drawGroup(dc *gg.Context, g diagram.GroupView) {
	r := g.Screen
	dc.SetColor(groupBg)
	dc.DrawRoundedRectangle(r.Left, r.Top, r.Width, r.Height, 6)
	dc.Fill()
	dc.SetColor(dimmed)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(r.Left, r.Top, r.Width, r.Height, 6)
	dc.Stroke()
	dc.SetColor(ink)
	dc.DrawString(g.Name, r.Left+6, r.Top+14)
}

func strokeColor(state diagram.State, tag int) color.Color {
	if state == diagram.StateDisabled {
		return dimmed
	}
	return TagColor(tag)
}

func drawConnector(dc *gg.Context, c diagram.ConnectorView, scale float64) {
	col := strokeColor(c.State, c.ColorTag)
	dc.SetColor(col)
	dc.SetLineWidth(math.Max(1, 1.5*scale))
	dc.MoveTo(c.Start.X, c.Start.Y)
	for _, l := range c.Legs {
		dc.CubicTo(l.C1.X, l.C1.Y, l.C2.X, l.C2.Y, l.To.X, l.To.Y)
	}
	dc.Stroke()

	a := c.Arrow
	dc.MoveTo(a.Apex.X, a.Apex.Y)
	dc.LineTo(a.Base1.X, a.Base1.Y)
	dc.LineTo(a.Base2.X, a.Base2.Y)
	dc.ClosePath()
	dc.Fill()
}

func drawEntity(dc *gg.Context, e diagram.EntityView, scale float64, cfg diagram.Config) {
	r := e.Screen
	border := ink
	switch {
	case e.State == diagram.StateSelected:
		border = selected
	case e.State == diagram.StateDisabled:
		border = dimmed
	}

	dc.SetColor(color.White)
	dc.DrawRectangle(r.Left, r.Top, r.Width, r.Height)
	dc.Fill()

	headerH := float64(cfg.HeaderHeight+cfg.BorderWidth) * scale
	dc.SetColor(header)
	dc.DrawRectangle(r.Left, r.Top, r.Width, headerH)
	dc.Fill()

	dc.SetLineWidth(1)
	if e.State == diagram.StateSelected {
		dc.SetLineWidth(2)
	}
	dc.SetColor(border)
	dc.DrawRectangle(r.Left, r.Top, r.Width, r.Height)
	dc.Stroke()

	text := color.Color(ink)
	if e.State == diagram.StateDisabled {
		text = dimmed
	}
	dc.SetColor(text)
	dc.DrawStringAnchored(e.ID, r.Left+r.Width/2, r.Top+headerH/2, 0.5, 0.35)

	rowH := float64(cfg.RowHeight) * scale
	pad := 6 * scale
	for i, f := range e.Fields {
		y := r.Top + headerH + float64(i)*rowH + rowH/2
		if f.ColorTag != 0 && e.State != diagram.StateDisabled {
			dc.SetColor(TagColor(f.ColorTag))
			dc.DrawRectangle(r.Left+1, y-rowH/2, 3*scale, rowH)
			dc.Fill()
		}
		dc.SetColor(text)
		name := f.Name
		if f.Primary {
			name = "* " + name
		}
		dc.DrawStringAnchored(name, r.Left+pad, y, 0, 0.35)
		if f.Type != "" {
			dc.DrawStringAnchored(f.Type, r.Right()-pad, y, 1, 0.35)
		}
	}
}
