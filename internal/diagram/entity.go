package diagram

import "math"

// State is the highlight state shared by entities and connectors.
type State int

const (
	StateNormal State = iota
	StateSelected
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateDisabled:
		return "disabled"
	default:
		return "normal"
	}
}

// HeaderRow is the row index reported for fields of a collapsed entity.
// Connectors attached to it converge on the header.
const HeaderRow = -1

type Position struct {
	Top, Left int
}

type Size struct {
	Width, Height int
}

// Field is one attribute row of an entity.
type Field struct {
	Name     string
	Type     string
	Primary  bool
	Index    int
	ColorTag int // 0 means no highlight, otherwise palette index + 1
}

// Entity is a single table on the canvas.
type Entity struct {
	ID       string
	Position Position
	Size     Size
	Right    int
	Bottom   int
	Fields   []Field

	Visible  bool
	Expanded bool
	ShowAll  bool
	State    State
	Picked   bool
}

// NewEntity creates an expanded, off-canvas entity. Field indexes are
// assigned from the slice order.
func NewEntity(id string, fields []Field) *Entity {
	e := &Entity{
		ID:       id,
		Fields:   make([]Field, len(fields)),
		Expanded: true,
	}
	copy(e.Fields, fields)
	for i := range e.Fields {
		e.Fields[i].Index = i
		e.Fields[i].ColorTag = 0
	}
	return e
}

// Translate moves the entity to pos, rounded to whole canvas units, and
// refreshes the derived bounds.
func (e *Entity) Translate(pos Point) {
	e.Position = Position{
		Top:  int(math.Round(pos.Y)),
		Left: int(math.Round(pos.X)),
	}
	e.updateBounds()
}

// SetBounds applies a measured size and refreshes the derived bounds.
func (e *Entity) SetBounds(size Size) {
	e.Size = size
	e.updateBounds()
}

func (e *Entity) updateBounds() {
	e.Right = e.Position.Left + e.Size.Width
	e.Bottom = e.Position.Top + e.Size.Height
}

// Bounds returns the entity rectangle in canvas units.
func (e *Entity) Bounds() Rect {
	return Rect{
		Left:   float64(e.Position.Left),
		Top:    float64(e.Position.Top),
		Width:  float64(e.Size.Width),
		Height: float64(e.Size.Height),
	}
}

// Origin returns the top-left corner as a Point.
func (e *Entity) Origin() Point {
	return Point{X: float64(e.Position.Left), Y: float64(e.Position.Top)}
}

// Field returns the named field, or nil.
func (e *Entity) Field(name string) *Field {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// FieldIndex returns the row a connector to the named field attaches to.
// Fields past the truncation threshold collapse onto the "+N hidden" row
// unless ShowAll is set, and every field of a collapsed entity maps to
// HeaderRow.
func (e *Entity) FieldIndex(name string, maxFields int) (int, bool) {
	f := e.Field(name)
	if f == nil {
		return 0, false
	}
	if !e.Expanded {
		return HeaderRow, true
	}
	if !e.ShowAll && f.Index >= maxFields {
		return maxFields, true
	}
	return f.Index, true
}

// Truncated reports whether some rows are folded into the "+N hidden" row.
func (e *Entity) Truncated(maxFields int) bool {
	return e.Expanded && !e.ShowAll && len(e.Fields) > maxFields
}

// HiddenCount is the N of the "+N hidden" row.
func (e *Entity) HiddenCount(maxFields int) int {
	if !e.Truncated(maxFields) {
		return 0
	}
	return len(e.Fields) - maxFields
}

// VisibleRows is the number of rows drawn below the header, counting the
// truncation row.
func (e *Entity) VisibleRows(maxFields int) int {
	switch {
	case !e.Expanded:
		return 0
	case e.Truncated(maxFields):
		return maxFields + 1
	default:
		return len(e.Fields)
	}
}

func (e *Entity) clearMarks() {
	e.State = StateNormal
	for i := range e.Fields {
		e.Fields[i].ColorTag = 0
	}
}

// Measurer supplies the rendered size of an entity. Hosts implement it with
// whatever text metrics their surface has.
type Measurer interface {
	Measure(e *Entity, cfg Config) Size
}

// RowMeasurer sizes entities from the row constants and a fixed glyph width.
type RowMeasurer struct {
	CharWidth int
	MinWidth  int
}

func (m RowMeasurer) Measure(e *Entity, cfg Config) Size {
	longest := len(e.ID)
	for _, f := range e.Fields {
		if n := len(f.Name) + len(f.Type) + 1; n > longest {
			longest = n
		}
	}
	width := (longest + 4) * m.CharWidth
	if width < m.MinWidth {
		width = m.MinWidth
	}
	return Size{
		Width:  width,
		Height: cfg.HeaderHeight + 2*cfg.BorderWidth + e.VisibleRows(cfg.MaxFields)*cfg.RowHeight,
	}
}
