package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBounds(t *testing.T) {
	d := shopDiagram(t)
	d.SetSelection([]string{"users", "orders"})

	g, err := d.NewGroup("core")
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, []string{"users", "orders"}, g.Members)
	require.True(t, g.Computed)

	orders := mustEntity(t, d, "orders")
	assert.Equal(t, Rect{
		Left:   -20,
		Top:    -20,
		Width:  float64(orders.Right) + 40,
		Height: float64(orders.Bottom) + 40,
	}, g.Bounds)

	require.NoError(t, d.MoveEntity("users", Point{X: 0, Y: 500}))
	users := mustEntity(t, d, "users")
	assert.Equal(t, float64(users.Bottom)+40, g.Bounds.Height)

	require.NoError(t, d.Hide("users"))
	assert.Equal(t, orders.Bounds().Left-20, g.Bounds.Left)

	require.NoError(t, d.Hide("orders"))
	assert.False(t, g.Computed)
	assert.Empty(t, d.Scene(nil).Groups)
}

func TestGroupMembership(t *testing.T) {
	d := shopDiagram(t)
	g, err := d.NewGroup("solo", "items")
	require.NoError(t, err)

	require.NoError(t, d.AddToGroup(g.ID, "users"))
	require.NoError(t, d.AddToGroup(g.ID, "users"))
	assert.Equal(t, []string{"items", "users"}, g.Members)

	assert.ErrorIs(t, d.AddToGroup(g.ID, "nope"), ErrUnknownEntity)
	assert.ErrorIs(t, d.AddToGroup("nope", "users"), ErrUnknownGroup)

	_, err = d.NewGroup("bad", "nope")
	assert.ErrorIs(t, err, ErrUnknownEntity)

	require.NoError(t, d.Delete("items"))
	assert.Equal(t, []string{"users"}, g.Members)

	require.NoError(t, d.RemoveGroup(g.ID))
	assert.Empty(t, d.Groups())
	assert.ErrorIs(t, d.RemoveGroup(g.ID), ErrUnknownGroup)
}
