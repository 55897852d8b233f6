package diagram

import "fmt"

// FieldView is one drawable row of an entity.
type FieldView struct {
	Name     string
	Type     string
	Primary  bool
	ColorTag int
	// Hidden marks the synthetic "+N hidden" row; Name holds its label.
	Hidden bool
}

// EntityView is an entity projected to screen space.
type EntityView struct {
	ID       string
	Screen   Rect
	Canvas   Rect
	State    State
	Picked   bool
	Expanded bool
	Fields   []FieldView
}

// ConnectorView is a routed connector projected to screen space.
type ConnectorView struct {
	Relation Relation
	Strategy Strategy
	Start    Point
	Legs     []Leg
	Arrow    Arrow
	Surface  Rect
	State    State
	ColorTag int
}

// GroupView is a group rectangle projected to screen space.
type GroupView struct {
	ID      string
	Name    string
	Members []string
	Screen  Rect
}

// Scene is the full render description handed to a renderer.
type Scene struct {
	ScrollTop  float64
	ScrollLeft float64
	Zoom       int
	Scale      float64

	PanelWidth     int
	PanelCollapsed bool

	Entities   []EntityView
	Connectors []ConnectorView
	Groups     []GroupView

	Marquee     Rect
	MarqueeOpen bool
	Mode        Mode
}

// Scene describes the current state. Pass a nil controller when no
// interaction overlay is needed.
func (d *Diagram) Scene(c *Controller) Scene {
	vp := d.viewport
	s := Scene{
		ScrollTop:      vp.ScrollTop,
		ScrollLeft:     vp.ScrollLeft,
		Zoom:           vp.Zoom,
		Scale:          vp.Scale(),
		PanelWidth:     d.panel.Width,
		PanelCollapsed: d.panel.Collapsed(),
	}
	if c != nil {
		s.Mode = c.Mode()
		s.Marquee, s.MarqueeOpen = c.Marquee()
	}
	for _, g := range d.groups {
		if !g.Computed {
			continue
		}
		s.Groups = append(s.Groups, GroupView{
			ID:      g.ID,
			Name:    g.Name,
			Members: append([]string(nil), g.Members...),
			Screen:  vp.RectToScreen(g.Bounds),
		})
	}
	for _, conn := range d.connectors {
		s.Connectors = append(s.Connectors, d.connectorView(conn))
	}
	for _, e := range d.Entities() {
		s.Entities = append(s.Entities, d.entityView(e))
	}
	return s
}

func (d *Diagram) entityView(e *Entity) EntityView {
	v := EntityView{
		ID:       e.ID,
		Canvas:   e.Bounds(),
		Screen:   d.viewport.RectToScreen(e.Bounds()),
		State:    e.State,
		Picked:   e.Picked,
		Expanded: e.Expanded,
	}
	if !e.Expanded {
		return v
	}
	limit := d.cfg.MaxFields
	for _, f := range e.Fields {
		if e.Truncated(limit) && f.Index >= limit {
			break
		}
		v.Fields = append(v.Fields, FieldView{Name: f.Name, Type: f.Type, Primary: f.Primary, ColorTag: f.ColorTag})
	}
	if n := e.HiddenCount(limit); n > 0 {
		// the hidden row shows the first color among the folded fields
		tag := 0
		for _, f := range e.Fields[limit:] {
			if f.ColorTag != 0 {
				tag = f.ColorTag
				break
			}
		}
		v.Fields = append(v.Fields, FieldView{Name: hiddenLabel(n), ColorTag: tag, Hidden: true})
	}
	return v
}

func hiddenLabel(n int) string {
	return fmt.Sprintf("+%d hidden", n)
}

func (d *Diagram) connectorView(c *Connector) ConnectorView {
	vp := d.viewport
	r := c.Route
	v := ConnectorView{
		Relation: c.Relation,
		Strategy: r.Strategy,
		Start:    vp.CanvasToScreen(r.Start),
		Surface:  vp.RectToScreen(r.Surface),
		State:    c.State,
		ColorTag: c.ColorTag,
		Arrow: Arrow{
			Apex:  vp.CanvasToScreen(r.Arrow.Apex),
			Base1: vp.CanvasToScreen(r.Arrow.Base1),
			Base2: vp.CanvasToScreen(r.Arrow.Base2),
		},
	}
	v.Legs = make([]Leg, len(r.Legs))
	for i, l := range r.Legs {
		v.Legs[i] = Leg{C1: vp.CanvasToScreen(l.C1), C2: vp.CanvasToScreen(l.C2), To: vp.CanvasToScreen(l.To)}
	}
	return v
}

// Route rebuilds a Route from the projected view, for renderers that want
// Sample.
func (v ConnectorView) Route() Route {
	return Route{Strategy: v.Strategy, Start: v.Start, Legs: v.Legs, Arrow: v.Arrow, Surface: v.Surface}
}
