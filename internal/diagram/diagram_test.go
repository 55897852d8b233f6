package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flerd/internal/store"
)

// fields builds int columns; the first one is the primary key.
func fields(names ...string) []Field {
	out := make([]Field, len(names))
	for i, n := range names {
		out[i] = Field{Name: n, Type: "int", Primary: i == 0}
	}
	return out
}

func newTestDiagram(t *testing.T, opts ...Option) *Diagram {
	t.Helper()
	d, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return d
}

func addAt(t *testing.T, d *Diagram, id string, left, top int, names ...string) *Entity {
	t.Helper()
	e, err := d.AddEntityAt(id, fields(names...), Position{Top: top, Left: left})
	require.NoError(t, err)
	return e
}

func relate(t *testing.T, d *Diagram, from, fromField, to, toField string) Relation {
	t.Helper()
	r := Relation{From: from, FromField: fromField, To: to, ToField: toField}
	require.NoError(t, d.DeclareRelation(r))
	return r
}

// shopDiagram is users <- orders <- items laid out left to right.
func shopDiagram(t *testing.T, opts ...Option) *Diagram {
	t.Helper()
	d := newTestDiagram(t, opts...)
	addAt(t, d, "users", 0, 0, "id", "name")
	addAt(t, d, "orders", 400, 0, "id", "user_id", "total")
	addAt(t, d, "items", 800, 0, "id", "order_id")
	relate(t, d, "orders", "user_id", "users", "id")
	relate(t, d, "items", "order_id", "orders", "id")
	return d
}

func mustEntity(t *testing.T, d *Diagram, id string) *Entity {
	t.Helper()
	e, ok := d.Entity(id)
	require.True(t, ok, "entity %s", id)
	return e
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxZoom = 10
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestAddEntity(t *testing.T) {
	d := newTestDiagram(t)
	e := addAt(t, d, "users", 10, 20, "id", "name")

	assert.True(t, e.Visible)
	assert.True(t, e.Expanded)
	assert.Equal(t, Position{Top: 20, Left: 10}, e.Position)
	// header 31 + two borders of 2 + two rows of 24
	assert.Equal(t, 83, e.Size.Height)
	assert.Equal(t, 10+e.Size.Width, e.Right)
	assert.Equal(t, 20+83, e.Bottom)

	_, err := d.AddEntity("users", nil)
	assert.ErrorIs(t, err, ErrDuplicateEntity)
}

func TestDeclareRelationValidatesEnds(t *testing.T) {
	d := newTestDiagram(t)
	addAt(t, d, "users", 0, 0, "id")

	err := d.DeclareRelation(Relation{From: "orders", FromField: "user_id", To: "users", ToField: "id"})
	assert.ErrorIs(t, err, ErrUnknownEntity)

	err = d.DeclareRelation(Relation{From: "users", FromField: "missing", To: "users", ToField: "id"})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Empty(t, d.Relations())
}

func TestDeclareRelationIsIdempotent(t *testing.T) {
	d := shopDiagram(t)
	relate(t, d, "orders", "user_id", "users", "id")

	assert.Len(t, d.Relations(), 2)
	assert.Len(t, d.Connectors(), 2)
}

func TestRelationWaitsForBothEnds(t *testing.T) {
	d := newTestDiagram(t)
	addAt(t, d, "orders", 400, 0, "id", "user_id")
	require.NoError(t, d.Hide("orders"))
	addAt(t, d, "users", 0, 0, "id")
	relate(t, d, "orders", "user_id", "users", "id")
	assert.Empty(t, d.Connectors())

	require.NoError(t, d.Show("orders"))
	require.Len(t, d.Connectors(), 1)
	assert.Equal(t, "users.id", d.Connectors()[0].JoinKey())
}

func TestHidePrunesAndShowRestoresInDeclarationOrder(t *testing.T) {
	d := shopDiagram(t)
	require.NoError(t, d.Hide("users"))

	require.Len(t, d.Connectors(), 1)
	assert.Equal(t, "items", d.Connectors()[0].From)
	assert.Len(t, d.Entities(), 2)
	assert.Len(t, d.Catalog(), 3)

	require.NoError(t, d.Show("users"))
	require.Len(t, d.Connectors(), 2)
	assert.Equal(t, "orders", d.Connectors()[0].From)
	assert.Equal(t, "items", d.Connectors()[1].From)

	assert.ErrorIs(t, d.Hide("nope"), ErrUnknownEntity)
	assert.ErrorIs(t, d.Show("nope"), ErrUnknownEntity)
}

func TestHideLeavesSelection(t *testing.T) {
	d := shopDiagram(t)
	require.True(t, d.Select("users", false))
	require.NoError(t, d.Hide("users"))

	assert.Empty(t, d.SelectedIDs())
	for _, e := range d.Catalog() {
		assert.Equal(t, StateNormal, e.State, e.ID)
	}
	for _, c := range d.Connectors() {
		assert.Equal(t, StateNormal, c.State)
		assert.Zero(t, c.ColorTag)
	}
}

func TestMoveEntityReroutes(t *testing.T) {
	d := shopDiagram(t)
	require.NoError(t, d.MoveEntity("users", Point{X: 0, Y: 300}))

	users := mustEntity(t, d, "users")
	orders := mustEntity(t, d, "orders")
	from, ok := EndpointFor(orders, "user_id", d.Config())
	require.True(t, ok)
	to, ok := EndpointFor(users, "id", d.Config())
	require.True(t, ok)

	c := d.Connectors()[0]
	assert.Equal(t, RouteConnector(from, to, d.Config()), c.Route)
	assert.Equal(t, 345.0, c.Route.Start.Y)

	assert.ErrorIs(t, d.MoveEntity("nope", Point{}), ErrUnknownEntity)
}

func TestCollapsedEntityRoutesToHeader(t *testing.T) {
	d := shopDiagram(t)
	require.NoError(t, d.ToggleExpanded("users"))

	users := mustEntity(t, d, "users")
	assert.Equal(t, 35, users.Size.Height)
	// the arrow sits on users, which is on the left: the route starts there
	assert.Equal(t, 16.5, d.Connectors()[0].Route.Start.Y)
}

func TestTruncatedFieldsShareTheHiddenRow(t *testing.T) {
	d := newTestDiagram(t)
	names := make([]string, 20)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	wide := addAt(t, d, "wide", 400, 0, names...)
	addAt(t, d, "ref", 0, 0, "id")
	relate(t, d, "wide", "r", "ref", "id") // index 17

	assert.Equal(t, 35+16*24, wide.Size.Height)
	end := d.Connectors()[0].Route.End()
	assert.Equal(t, float64(2+31+15*24+12), end.Y)

	require.NoError(t, d.ToggleShowAll("wide"))
	assert.Equal(t, 35+20*24, wide.Size.Height)
	end = d.Connectors()[0].Route.End()
	assert.Equal(t, float64(2+31+17*24+12), end.Y)
}

func TestEntityAtPrefersTopmost(t *testing.T) {
	d := newTestDiagram(t)
	addAt(t, d, "below", 0, 0, "id")
	addAt(t, d, "above", 50, 20, "id")

	e, ok := d.EntityAt(Point{X: 60, Y: 30})
	require.True(t, ok)
	assert.Equal(t, "above", e.ID)

	e, ok = d.EntityAt(Point{X: 10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, "below", e.ID)

	require.NoError(t, d.Hide("above"))
	e, ok = d.EntityAt(Point{X: 60, Y: 30})
	require.True(t, ok)
	assert.Equal(t, "below", e.ID)

	_, ok = d.EntityAt(Point{X: -5, Y: -5})
	assert.False(t, ok)
}

func TestDeleteUnregisters(t *testing.T) {
	d := shopDiagram(t)
	require.NoError(t, d.Delete("orders"))

	_, ok := d.Entity("orders")
	assert.False(t, ok)
	assert.Empty(t, d.Relations())
	assert.Empty(t, d.Connectors())
	assert.Len(t, d.Catalog(), 2)
	assert.ErrorIs(t, d.Delete("orders"), ErrUnknownEntity)
}

func TestStateSurvivesReload(t *testing.T) {
	st := store.NewMemoryStore()
	d := newTestDiagram(t, WithStore(st))
	addAt(t, d, "users", 0, 0, "id", "name")
	require.NoError(t, d.MoveEntity("users", Point{X: 30, Y: 40}))
	require.NoError(t, d.ToggleExpanded("users"))
	d.SetZoom(120, Point{})
	require.NoError(t, d.Hide("users"))

	again := newTestDiagram(t, WithStore(st))
	assert.Equal(t, 120, again.Viewport().Zoom)
	e := addAt(t, again, "users", 0, 0, "id", "name")
	assert.Equal(t, Position{Top: 40, Left: 30}, e.Position)
	assert.False(t, e.Expanded)
	assert.False(t, e.Visible)
	assert.Empty(t, again.Entities())
}

func TestCenterView(t *testing.T) {
	d := newTestDiagram(t)
	d.CenterView(Rect{Width: 800, Height: 600})
	assert.Equal(t, Point{}, d.Viewport().Scroll())

	e := addAt(t, d, "users", 0, 0, "id")
	d.CenterView(Rect{Width: 800, Height: 600})
	b := e.Bounds()
	center := d.Viewport().CanvasToScreen(Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2})
	assert.InDelta(t, 400, center.X, 1e-9)
	assert.InDelta(t, 300, center.Y, 1e-9)
}
