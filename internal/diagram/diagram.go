// Package diagram is the entity-relationship diagram engine: entity
// geometry, the viewport, connector routing, selection highlighting, groups
// and the pointer interaction state machine. It owns no rendering; Scene
// produces descriptors a renderer can paint.
//
// A Diagram is single-owner state and is not safe for concurrent use.
package diagram

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"flerd/internal/store"
)

var (
	ErrDuplicateEntity = errors.New("entity already exists")
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownGroup    = errors.New("unknown group")
)

type Option func(*Diagram)

func WithLogger(l *zap.Logger) Option {
	return func(d *Diagram) { d.log = l }
}

func WithStore(s store.Store) Option {
	return func(d *Diagram) { d.store = s }
}

func WithMeasurer(m Measurer) Option {
	return func(d *Diagram) { d.measurer = m }
}

// Diagram holds every piece of mutable engine state.
type Diagram struct {
	cfg Config

	entities   map[string]*Entity
	order      []string
	relations  []Relation
	connectors []*Connector
	selection  map[string]*Entity
	groups     []*Group
	viewport   *Viewport
	panel      *Panel

	log      *zap.Logger
	store    store.Store
	measurer Measurer
}

// New validates cfg and builds an empty diagram. The viewport and panel are
// restored from the store when one is configured.
func New(cfg Config, opts ...Option) (*Diagram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Diagram{
		cfg:       cfg,
		entities:  make(map[string]*Entity),
		selection: make(map[string]*Entity),
		viewport:  NewViewport(cfg),
		panel:     NewPanel(cfg),
		log:       zap.NewNop(),
		measurer:  RowMeasurer{CharWidth: 8, MinWidth: 120},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.restoreViewport()
	return d, nil
}

func (d *Diagram) Config() Config { return d.cfg }
func (d *Diagram) Viewport() *Viewport { return d.viewport }
func (d *Diagram) Panel() *Panel { return d.panel }
func (d *Diagram) Logger() *zap.Logger { return d.log }
func (d *Diagram) Relations() []Relation { return d.relations }

// AddEntity registers a table at the origin. See AddEntityAt.
func (d *Diagram) AddEntity(id string, fields []Field) (*Entity, error) {
	return d.AddEntityAt(id, fields, Position{})
}

// AddEntityAt registers a table. Its persisted state, if any, is restored;
// otherwise it starts visible and expanded at pos.
func (d *Diagram) AddEntityAt(id string, fields []Field, pos Position) (*Entity, error) {
	if _, ok := d.entities[id]; ok {
		return nil, fmt.Errorf("add %q: %w", id, ErrDuplicateEntity)
	}
	e := NewEntity(id, fields)
	e.Visible = true
	e.Position = pos
	var st store.EntityState
	if d.load(store.EntityKey(id), &st) {
		e.Position = Position{Top: st.Top, Left: st.Left}
		e.Expanded = st.Expanded
		e.Visible = st.Visible
		e.ShowAll = st.ShowAll
	}
	d.entities[id] = e
	d.order = append(d.order, id)
	d.measure(e)
	if e.Visible {
		d.materialize(id)
	}
	return e, nil
}

// Entity looks up any registered entity, on canvas or not.
func (d *Diagram) Entity(id string) (*Entity, bool) {
	e, ok := d.entities[id]
	return e, ok
}

// Entities returns the on-canvas entities in registration order.
func (d *Diagram) Entities() []*Entity {
	out := make([]*Entity, 0, len(d.order))
	for _, id := range d.order {
		if e := d.entities[id]; e.Visible {
			out = append(out, e)
		}
	}
	return out
}

// Catalog returns every registered entity, including hidden ones.
func (d *Diagram) Catalog() []*Entity {
	out := make([]*Entity, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.entities[id])
	}
	return out
}

func (d *Diagram) live(id string) (*Entity, bool) {
	e, ok := d.entities[id]
	if !ok || !e.Visible {
		return nil, false
	}
	return e, true
}

// Show puts an entity on the canvas and materializes its relations.
func (d *Diagram) Show(id string) error {
	e, ok := d.entities[id]
	if !ok {
		return fmt.Errorf("show %q: %w", id, ErrUnknownEntity)
	}
	if e.Visible {
		return nil
	}
	e.Visible = true
	d.measure(e)
	d.materialize(id)
	d.recomputeGroups(id)
	d.saveEntity(e)
	if len(d.selection) > 0 {
		d.Refresh()
	}
	return nil
}

// Hide takes an entity off the canvas. Its connectors are destroyed and it
// leaves the selection; its position is kept in the store.
func (d *Diagram) Hide(id string) error {
	e, ok := d.entities[id]
	if !ok {
		return fmt.Errorf("hide %q: %w", id, ErrUnknownEntity)
	}
	if !e.Visible {
		return nil
	}
	e.Visible = false
	e.Picked = false
	e.clearMarks()
	d.prune(id)
	wasSelected := d.selection[id] != nil
	delete(d.selection, id)
	d.recomputeGroups(id)
	d.saveEntity(e)
	if wasSelected {
		d.Refresh()
	}
	return nil
}

// Delete unregisters an entity and every relation and group membership
// referring to it.
func (d *Diagram) Delete(id string) error {
	if err := d.Hide(id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	delete(d.entities, id)
	for i, o := range d.order {
		if o == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	kept := d.relations[:0]
	for _, r := range d.relations {
		if !r.Touches(id) {
			kept = append(kept, r)
		}
	}
	d.relations = kept
	for _, g := range d.groups {
		if g.Remove(id) {
			g.Recompute(d.live)
		}
	}
	return nil
}

// DeclareRelation records a relation between two registered entity fields
// and materializes it when both ends are on the canvas.
func (d *Diagram) DeclareRelation(r Relation) error {
	for _, end := range []struct{ id, field string }{{r.From, r.FromField}, {r.To, r.ToField}} {
		e, ok := d.entities[end.id]
		if !ok {
			return fmt.Errorf("relation %s: %q: %w", r, end.id, ErrUnknownEntity)
		}
		if e.Field(end.field) == nil {
			return fmt.Errorf("relation %s: %q: %w", r, end.field, ErrUnknownField)
		}
	}
	for _, existing := range d.relations {
		if existing == r {
			return nil
		}
	}
	d.relations = append(d.relations, r)
	d.connect(r)
	return nil
}

// Connectors returns the materialized connectors in declaration order.
func (d *Diagram) Connectors() []*Connector { return d.connectors }

func (d *Diagram) connect(r Relation) {
	from, ok := d.live(r.From)
	if !ok {
		return
	}
	to, ok := d.live(r.To)
	if !ok {
		return
	}
	for _, c := range d.connectors {
		if c.Relation == r {
			return
		}
	}
	c := &Connector{Relation: r}
	if !c.reroute(from, to, d.cfg) {
		return
	}
	d.connectors = append(d.connectors, c)
}

// materialize creates connectors for every declared relation of id whose
// other end is live. Connectors keep declaration order.
func (d *Diagram) materialize(id string) {
	for _, r := range d.relations {
		if r.Touches(id) {
			d.connect(r)
		}
	}
	d.sortConnectors()
}

func (d *Diagram) sortConnectors() {
	rank := make(map[Relation]int, len(d.relations))
	for i, r := range d.relations {
		rank[r] = i
	}
	sorted := make([]*Connector, 0, len(d.connectors))
	slots := make([]*Connector, len(d.relations))
	for _, c := range d.connectors {
		slots[rank[c.Relation]] = c
	}
	for _, c := range slots {
		if c != nil {
			sorted = append(sorted, c)
		}
	}
	d.connectors = sorted
}

func (d *Diagram) prune(id string) {
	kept := d.connectors[:0]
	for _, c := range d.connectors {
		if !c.Touches(id) {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(d.connectors); i++ {
		d.connectors[i] = nil
	}
	d.connectors = kept
}

// MoveEntity translates an entity to pos (canvas units) and re-routes every
// connector touching it.
func (d *Diagram) MoveEntity(id string, pos Point) error {
	e, ok := d.live(id)
	if !ok {
		return fmt.Errorf("move %q: %w", id, ErrUnknownEntity)
	}
	e.Translate(pos)
	d.rerouteTouching(id)
	d.recomputeGroups(id)
	return nil
}

// ToggleExpanded opens or closes the field list of an entity.
func (d *Diagram) ToggleExpanded(id string) error {
	e, ok := d.live(id)
	if !ok {
		return fmt.Errorf("expand %q: %w", id, ErrUnknownEntity)
	}
	e.Expanded = !e.Expanded
	d.afterResize(e)
	return nil
}

// ToggleShowAll switches truncation of long field lists.
func (d *Diagram) ToggleShowAll(id string) error {
	e, ok := d.live(id)
	if !ok {
		return fmt.Errorf("show all %q: %w", id, ErrUnknownEntity)
	}
	e.ShowAll = !e.ShowAll
	d.afterResize(e)
	return nil
}

func (d *Diagram) afterResize(e *Entity) {
	d.measure(e)
	d.rerouteTouching(e.ID)
	d.recomputeGroups(e.ID)
	d.saveEntity(e)
}

// Remeasure re-reads every entity size from the measurer, for example after
// the host's font metrics changed.
func (d *Diagram) Remeasure() {
	for _, id := range d.order {
		d.measure(d.entities[id])
	}
	d.RerouteAll()
	for _, g := range d.groups {
		g.Recompute(d.live)
	}
}

func (d *Diagram) measure(e *Entity) {
	e.SetBounds(d.measurer.Measure(e, d.cfg))
}

func (d *Diagram) rerouteTouching(id string) {
	for _, c := range d.connectors {
		if c.Touches(id) {
			d.reroute(c)
		}
	}
}

// RerouteAll recomputes every connector route.
func (d *Diagram) RerouteAll() {
	for _, c := range d.connectors {
		d.reroute(c)
	}
}

func (d *Diagram) reroute(c *Connector) {
	from, ok := d.live(c.From)
	if !ok {
		return
	}
	to, ok := d.live(c.To)
	if !ok {
		return
	}
	c.reroute(from, to, d.cfg)
}

// EntityAt returns the topmost on-canvas entity containing the canvas point.
func (d *Diagram) EntityAt(p Point) (*Entity, bool) {
	for i := len(d.order) - 1; i >= 0; i-- {
		e := d.entities[d.order[i]]
		if e.Visible && e.Bounds().Contains(p) {
			return e, true
		}
	}
	return nil, false
}

// EntitiesIn returns the ids of on-canvas entities overlapping r.
func (d *Diagram) EntitiesIn(r Rect) []string {
	var ids []string
	for _, e := range d.Entities() {
		if e.Bounds().Intersects(r) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// ContentBounds is the rectangle enclosing every on-canvas entity.
func (d *Diagram) ContentBounds() (Rect, bool) {
	var pts []Point
	for _, e := range d.Entities() {
		b := e.Bounds()
		pts = append(pts, Point{X: b.Left, Y: b.Top}, Point{X: b.Right(), Y: b.Bottom()})
	}
	if len(pts) == 0 {
		return Rect{}, false
	}
	return enclose(pts...), true
}

// CenterView scrolls the viewport so the content sits in the middle of view.
func (d *Diagram) CenterView(view Rect) {
	content, ok := d.ContentBounds()
	if !ok {
		return
	}
	d.viewport.Center(content, view)
	d.SaveViewport()
}

// SetZoom applies a zoom level around a screen anchor and persists it.
func (d *Diagram) SetZoom(value int, anchor Point) int {
	z := d.viewport.ZoomAround(value, anchor)
	d.SaveViewport()
	return z
}

// NewGroup clusters the given entities. With no ids it groups the current
// selection.
func (d *Diagram) NewGroup(name string, ids ...string) (*Group, error) {
	if len(ids) == 0 {
		ids = d.SelectedIDs()
	}
	for _, id := range ids {
		if _, ok := d.entities[id]; !ok {
			return nil, fmt.Errorf("group %q: %q: %w", name, id, ErrUnknownEntity)
		}
	}
	g := NewGroup(name, ids, d.cfg.GroupPadding)
	g.Recompute(d.live)
	d.groups = append(d.groups, g)
	return g, nil
}

// RemoveGroup deletes a group; its members are untouched.
func (d *Diagram) RemoveGroup(id string) error {
	for i, g := range d.groups {
		if g.ID == id {
			d.groups = append(d.groups[:i], d.groups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove group %q: %w", id, ErrUnknownGroup)
}

// AddToGroup adds an entity to an existing group.
func (d *Diagram) AddToGroup(groupID, id string) error {
	if _, ok := d.entities[id]; !ok {
		return fmt.Errorf("add to group: %q: %w", id, ErrUnknownEntity)
	}
	for _, g := range d.groups {
		if g.ID == groupID {
			g.Add(id)
			g.Recompute(d.live)
			return nil
		}
	}
	return fmt.Errorf("add to group %q: %w", groupID, ErrUnknownGroup)
}

func (d *Diagram) Groups() []*Group { return d.groups }

func (d *Diagram) recomputeGroups(id string) {
	for _, g := range d.groups {
		if g.Has(id) {
			g.Recompute(d.live)
		}
	}
}

func (d *Diagram) load(key string, v any) bool {
	if d.store == nil {
		return false
	}
	ok, err := d.store.Load(key, v)
	if err != nil {
		d.log.Warn("load state", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (d *Diagram) save(key string, v any) {
	if d.store == nil {
		return
	}
	if err := d.store.Save(key, v); err != nil {
		d.log.Warn("save state", zap.String("key", key), zap.Error(err))
	}
}

func (d *Diagram) saveEntity(e *Entity) {
	d.save(store.EntityKey(e.ID), store.EntityState{
		Top:      e.Position.Top,
		Left:     e.Position.Left,
		Expanded: e.Expanded,
		Visible:  e.Visible,
		ShowAll:  e.ShowAll,
	})
}

// SaveViewport persists the scroll offset and zoom.
func (d *Diagram) SaveViewport() {
	d.save(store.ViewportKey, store.ViewportState{
		ScrollTop:  d.viewport.ScrollTop,
		ScrollLeft: d.viewport.ScrollLeft,
		Zoom:       d.viewport.Zoom,
	})
}

func (d *Diagram) savePanel() {
	d.save(store.PanelKey, store.PanelState{Width: d.panel.Width, LastExpanded: d.panel.LastExpanded})
}

func (d *Diagram) restoreViewport() {
	var vs store.ViewportState
	if d.load(store.ViewportKey, &vs) {
		d.viewport.SetScroll(Point{X: vs.ScrollLeft, Y: vs.ScrollTop})
		d.viewport.SetZoom(vs.Zoom)
	}
	var ps store.PanelState
	if d.load(store.PanelKey, &ps) {
		d.panel.restore(ps.Width, ps.LastExpanded)
	}
}
