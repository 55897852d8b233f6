package diagram

import (
	"math"

	"go.uber.org/zap"
)

// Mode is the active pointer interaction. Exactly one is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeMarqueeSelecting
	ModeDraggingEntities
	ModeResizingPanel
)

func (m Mode) String() string {
	switch m {
	case ModePanning:
		return "panning"
	case ModeMarqueeSelecting:
		return "marquee"
	case ModeDraggingEntities:
		return "dragging"
	case ModeResizingPanel:
		return "resizing-panel"
	default:
		return "idle"
	}
}

type EventType int

const (
	EventPick EventType = iota
	EventDrag
	EventDrop
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Target tells the controller which surface the pointer went down on.
type Target int

const (
	TargetCanvas Target = iota
	TargetPanelHandle
)

// PointerEvent is one pick/drag/drop step. Position is in screen units
// relative to the canvas origin; for panel events only X matters.
type PointerEvent struct {
	Type     EventType
	Position Point
	Button   Button
	Target   Target
	Additive bool
}

type marquee struct {
	start Point
	rect  Rect
	shown bool
}

// Controller turns pointer events into diagram mutations.
type Controller struct {
	d    *Diagram
	mode Mode

	start       Point
	scrollStart Point
	marquee     marquee
	dragIDs     []string
	snapshots   map[string]Point
	widthStart  int
}

func NewController(d *Diagram) *Controller {
	return &Controller{d: d, snapshots: make(map[string]Point)}
}

func (c *Controller) Mode() Mode { return c.mode }

// Marquee returns the selection rectangle in screen units once it has
// passed the movement threshold.
func (c *Controller) Marquee() (Rect, bool) {
	if c.mode != ModeMarqueeSelecting || !c.marquee.shown {
		return Rect{}, false
	}
	return c.marquee.rect, true
}

func (c *Controller) enter(m Mode) bool {
	if c.mode != ModeIdle {
		return false
	}
	c.mode = m
	c.d.log.Debug("interaction started", zap.Stringer("mode", m))
	return true
}

func (c *Controller) leave() {
	c.d.log.Debug("interaction finished", zap.Stringer("mode", c.mode))
	c.mode = ModeIdle
}

// Handle dispatches one pointer event. A pick on the panel handle resizes
// the panel, a secondary or middle button pans, a pick on an entity drags
// and anything else starts a marquee. It reports whether state changed.
func (c *Controller) Handle(ev PointerEvent) bool {
	switch ev.Type {
	case EventPick:
		if ev.Target == TargetPanelHandle {
			return c.PickPanel(ev.Position)
		}
		if ev.Button != ButtonPrimary {
			return c.PickPan(ev.Position)
		}
		if e, ok := c.d.EntityAt(c.d.viewport.ScreenToCanvas(ev.Position)); ok {
			return c.PickEntity(e.ID, ev.Position, ev.Additive)
		}
		return c.PickMarquee(ev.Position)
	case EventDrag:
		return c.Drag(ev.Position)
	case EventDrop:
		return c.Drop(ev.Position)
	}
	return false
}

// PickPan starts panning. Ignored while another interaction is active.
func (c *Controller) PickPan(p Point) bool {
	if !c.enter(ModePanning) {
		return false
	}
	c.start = p
	c.scrollStart = c.d.viewport.Scroll()
	return true
}

// PickMarquee starts a marquee selection. Nothing is shown until the
// pointer moves past the threshold.
func (c *Controller) PickMarquee(p Point) bool {
	if !c.enter(ModeMarqueeSelecting) {
		return false
	}
	c.start = p
	c.marquee = marquee{start: p}
	return true
}

// PickEntity starts dragging. An unselected entity becomes the selection
// (or joins it when additive); an already selected one drags the whole
// selection.
func (c *Controller) PickEntity(id string, p Point, additive bool) bool {
	if c.mode != ModeIdle {
		return false
	}
	if _, ok := c.d.live(id); !ok {
		return false
	}
	if !c.d.IsSelected(id) {
		c.d.Select(id, additive)
	}
	c.enter(ModeDraggingEntities)
	c.start = p
	c.dragIDs = c.d.SelectedIDs()
	clear(c.snapshots)
	for _, sid := range c.dragIDs {
		e := c.d.entities[sid]
		e.Picked = true
		c.snapshots[sid] = e.Origin()
	}
	return true
}

// PickPanel starts resizing the side panel.
func (c *Controller) PickPanel(p Point) bool {
	if !c.enter(ModeResizingPanel) {
		return false
	}
	c.start = p
	c.widthStart = c.d.panel.Width
	return true
}

// Drag advances the active interaction to pointer position p.
func (c *Controller) Drag(p Point) bool {
	delta := p.Sub(c.start)
	switch c.mode {
	case ModePanning:
		c.d.viewport.SetScroll(c.scrollStart.Sub(delta))
	case ModeMarqueeSelecting:
		t := float64(c.d.cfg.MarqueeThreshold)
		if !c.marquee.shown && math.Abs(delta.X) < t && math.Abs(delta.Y) < t {
			return false
		}
		c.marquee.shown = true
		c.marquee.rect = RectFromPoints(c.marquee.start, p)
	case ModeDraggingEntities:
		step := delta.Div(c.d.viewport.Scale())
		for _, id := range c.dragIDs {
			if _, ok := c.d.live(id); !ok {
				continue
			}
			// MoveEntity re-routes this entity's connectors before the next
			// entity moves.
			c.d.MoveEntity(id, c.snapshots[id].Add(step))
		}
		c.d.Refresh()
	case ModeResizingPanel:
		c.d.panel.Width = c.widthStart + int(math.Round(delta.X))
	default:
		return false
	}
	return true
}

// Drop finishes the active interaction at pointer position p.
func (c *Controller) Drop(p Point) bool {
	switch c.mode {
	case ModePanning:
		c.Drag(p)
		c.d.SaveViewport()
	case ModeMarqueeSelecting:
		if c.marquee.shown {
			c.marquee.rect = RectFromPoints(c.marquee.start, p)
			area := c.d.viewport.RectToCanvas(c.marquee.rect)
			c.d.SetSelection(c.d.EntitiesIn(area))
		}
		c.marquee = marquee{}
	case ModeDraggingEntities:
		for _, id := range c.dragIDs {
			e, ok := c.d.live(id)
			if !ok {
				continue
			}
			e.Picked = false
			c.d.rerouteTouching(id)
			c.d.saveEntity(e)
		}
		c.dragIDs = nil
		clear(c.snapshots)
	case ModeResizingPanel:
		c.d.panel.settle()
		c.d.savePanel()
	default:
		return false
	}
	c.leave()
	return true
}

// TogglePanel collapses or restores the side panel.
func (c *Controller) TogglePanel() bool {
	if c.mode != ModeIdle {
		return false
	}
	c.d.panel.Toggle()
	c.d.savePanel()
	return true
}
