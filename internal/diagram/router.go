package diagram

// Strategy names the routing case chosen for a connector.
type Strategy int

const (
	StrategyDirect Strategy = iota
	StrategySelfLoop
	StrategyLeftDetour
	StrategyRightDetour
)

func (s Strategy) String() string {
	switch s {
	case StrategySelfLoop:
		return "self-loop"
	case StrategyLeftDetour:
		return "left-detour"
	case StrategyRightDetour:
		return "right-detour"
	default:
		return "direct"
	}
}

// Leg is one cubic bezier segment ending at To.
type Leg struct {
	C1, C2, To Point
}

// Arrow is the arrowhead triangle. Apex touches the entity edge.
type Arrow struct {
	Apex, Base1, Base2 Point
}

func (a Arrow) Points() []Point { return []Point{a.Apex, a.Base1, a.Base2} }

// Route is the drawable result of routing one connector, in canvas units.
type Route struct {
	Strategy Strategy
	Start    Point
	Legs     []Leg
	Arrow    Arrow
	// Surface is the smallest rectangle enclosing the path, its control
	// points and the arrow, so the renderer can size a local drawing surface.
	Surface Rect
}

// End returns the final point of the path.
func (r Route) End() Point {
	if len(r.Legs) == 0 {
		return r.Start
	}
	return r.Legs[len(r.Legs)-1].To
}

// Points returns the start point followed by every control and end point.
func (r Route) Points() []Point {
	pts := make([]Point, 0, 1+3*len(r.Legs))
	pts = append(pts, r.Start)
	for _, l := range r.Legs {
		pts = append(pts, l.C1, l.C2, l.To)
	}
	return pts
}

// Local returns the route translated into its surface's coordinate frame.
func (r Route) Local() Route {
	o := Point{X: r.Surface.Left, Y: r.Surface.Top}
	out := Route{Strategy: r.Strategy, Start: r.Start.Sub(o), Surface: Rect{Width: r.Surface.Width, Height: r.Surface.Height}}
	out.Legs = make([]Leg, len(r.Legs))
	for i, l := range r.Legs {
		out.Legs[i] = Leg{C1: l.C1.Sub(o), C2: l.C2.Sub(o), To: l.To.Sub(o)}
	}
	out.Arrow = Arrow{Apex: r.Arrow.Apex.Sub(o), Base1: r.Arrow.Base1.Sub(o), Base2: r.Arrow.Base2.Sub(o)}
	return out
}

// Sample flattens the path into a polyline with n steps per leg.
func (r Route) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := []Point{r.Start}
	p0 := r.Start
	for _, l := range r.Legs {
		for i := 1; i <= n; i++ {
			pts = append(pts, cubicAt(p0, l.C1, l.C2, l.To, float64(i)/float64(n)))
		}
		p0 = l.To
	}
	return pts
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Endpoint is one side of a connector as seen by the router: the entity's
// bounds and the row its field is drawn on.
type Endpoint struct {
	ID     string
	Bounds Rect
	Row    int
}

// EndpointFor builds an Endpoint from an entity and a field name. The
// second result is false when the entity has no such field.
func EndpointFor(e *Entity, field string, cfg Config) (Endpoint, bool) {
	row, ok := e.FieldIndex(field, cfg.MaxFields)
	if !ok {
		return Endpoint{}, false
	}
	return Endpoint{ID: e.ID, Bounds: e.Bounds(), Row: row}, true
}

// rowY is the vertical center of a row in canvas units.
func rowY(ep Endpoint, cfg Config) float64 {
	if ep.Row == HeaderRow {
		return ep.Bounds.Top + float64(cfg.BorderWidth+cfg.HeaderHeight)/2
	}
	return ep.Bounds.Top + float64(cfg.BorderWidth+cfg.HeaderHeight+ep.Row*cfg.RowHeight) + float64(cfg.RowHeight)/2
}

// ChooseStrategy picks the routing case for a pair of endpoints. It only
// looks at bounds and ids.
func ChooseStrategy(from, to Endpoint, cfg Config) Strategy {
	if from.ID == to.ID {
		return StrategySelfLoop
	}
	top, bottom := from, to
	if to.Bounds.Top < from.Bounds.Top {
		top, bottom = to, from
	}
	left, right := from, to
	if to.Bounds.Left < from.Bounds.Left {
		left, right = to, from
	}
	if left.Bounds.Right()+float64(cfg.DirectGap) > right.Bounds.Left {
		if top.Bounds.Left+float64(cfg.DetourBias) < bottom.Bounds.Left {
			return StrategyLeftDetour
		}
		return StrategyRightDetour
	}
	return StrategyDirect
}

// RouteConnector computes the path and arrowhead between two endpoints. It
// is pure: the same bounds and rows always yield the same route.
func RouteConnector(from, to Endpoint, cfg Config) Route {
	var r Route
	switch s := ChooseStrategy(from, to, cfg); s {
	case StrategySelfLoop:
		r = routeSelfLoop(from, to, cfg)
	case StrategyLeftDetour:
		r = routeDetour(from, to, cfg, false)
	case StrategyRightDetour:
		r = routeDetour(from, to, cfg, true)
	default:
		r = routeDirect(from, to, cfg)
	}
	r.Surface = enclose(append(r.Points(), r.Arrow.Points()...)...)
	return r
}

// arrowAt builds a triangle whose apex sits on apex. pointRight means the
// arrow points in +X, so its base lies to the left of the apex.
func arrowAt(apex Point, pointRight bool, cfg Config) Arrow {
	size := float64(cfg.ArrowSize)
	half := size / 2
	baseX := apex.X + size
	if pointRight {
		baseX = apex.X - size
	}
	return Arrow{
		Apex:  apex,
		Base1: Point{X: baseX, Y: apex.Y - half},
		Base2: Point{X: baseX, Y: apex.Y + half},
	}
}

// routeSelfLoop leaves and re-enters the right edge through a fixed-width
// loop. The arrow points back into the entity at the "to" row.
func routeSelfLoop(from, to Endpoint, cfg Config) Route {
	right := from.Bounds.Right()
	depth := right + float64(cfg.SelfWidth)
	start := Point{X: right, Y: rowY(from, cfg)}
	end := Point{X: right, Y: rowY(to, cfg)}
	return Route{
		Strategy: StrategySelfLoop,
		Start:    start,
		Legs: []Leg{{
			C1: Point{X: depth, Y: start.Y},
			C2: Point{X: depth, Y: end.Y},
			To: end,
		}},
		Arrow: arrowAt(end, false, cfg),
	}
}

// routeDetour handles entities stacked too closely for a direct route. Both
// ends attach to the same side and the curve bulges DownWidth past the
// outermost edge on that side.
func routeDetour(from, to Endpoint, cfg Config, rightSide bool) Route {
	fromX, toX := from.Bounds.Left, to.Bounds.Left
	depth := min(fromX, toX) - float64(cfg.DownWidth)
	strategy := StrategyLeftDetour
	if rightSide {
		fromX, toX = from.Bounds.Right(), to.Bounds.Right()
		depth = max(fromX, toX) + float64(cfg.DownWidth)
		strategy = StrategyRightDetour
	}
	start := Point{X: fromX, Y: rowY(from, cfg)}
	end := Point{X: toX, Y: rowY(to, cfg)}
	return Route{
		Strategy: strategy,
		Start:    start,
		Legs: []Leg{{
			C1: Point{X: depth, Y: start.Y},
			C2: Point{X: depth, Y: end.Y},
			To: end,
		}},
		// on the left side the arrow enters pointing right, and vice versa
		Arrow: arrowAt(end, !rightSide, cfg),
	}
}

// routeDirect draws an S-shaped curve from the left entity's right edge to
// the right entity's left edge. The arrow sits at whichever end belongs to
// the "to" entity.
func routeDirect(from, to Endpoint, cfg Config) Route {
	left, right := from, to
	toEnd := true
	if to.Bounds.Left < from.Bounds.Left {
		left, right = to, from
		toEnd = false
	}
	start := Point{X: left.Bounds.Right(), Y: rowY(left, cfg)}
	end := Point{X: right.Bounds.Left, Y: rowY(right, cfg)}
	span := end.X - start.X
	mid := Point{X: start.X + span/2, Y: (start.Y + end.Y) / 2}

	r := Route{
		Strategy: StrategyDirect,
		Start:    start,
		Legs: []Leg{
			{
				C1: Point{X: start.X + 0.05*span, Y: start.Y},
				C2: Point{X: start.X + 0.66*span, Y: start.Y},
				To: mid,
			},
			{
				C1: Point{X: start.X + 0.33*span, Y: end.Y},
				C2: Point{X: end.X - 0.05*span, Y: end.Y},
				To: end,
			},
		},
	}
	if toEnd {
		r.Arrow = arrowAt(end, true, cfg)
	} else {
		r.Arrow = arrowAt(start, false, cfg)
	}
	return r
}
