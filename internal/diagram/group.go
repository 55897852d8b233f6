package diagram

import (
	"math"

	"github.com/google/uuid"
)

// Group clusters entities under one padded bounding box.
type Group struct {
	ID      string
	Name    string
	Members []string

	// Bounds is valid only when Computed is true, i.e. at least one member
	// is on the canvas.
	Bounds   Rect
	Computed bool
	Padding  int
}

func NewGroup(name string, members []string, padding int) *Group {
	g := &Group{
		ID:      uuid.NewString(),
		Name:    name,
		Padding: padding,
	}
	for _, id := range members {
		g.Add(id)
	}
	return g
}

// Has reports membership.
func (g *Group) Has(id string) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Add appends id unless it is already a member.
func (g *Group) Add(id string) {
	if !g.Has(id) {
		g.Members = append(g.Members, id)
	}
}

// Remove drops id, keeping member order.
func (g *Group) Remove(id string) bool {
	for i, m := range g.Members {
		if m == id {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Recompute refreshes the bounding box from the visible members found by
// lookup.
func (g *Group) Recompute(lookup func(id string) (*Entity, bool)) {
	left, top := math.Inf(1), math.Inf(1)
	right, bottom := math.Inf(-1), math.Inf(-1)
	g.Computed = false
	for _, id := range g.Members {
		e, ok := lookup(id)
		if !ok || !e.Visible {
			continue
		}
		b := e.Bounds()
		left = math.Min(left, b.Left)
		top = math.Min(top, b.Top)
		right = math.Max(right, b.Right())
		bottom = math.Max(bottom, b.Bottom())
		g.Computed = true
	}
	if !g.Computed {
		g.Bounds = Rect{}
		return
	}
	p := float64(g.Padding)
	g.Bounds = Rect{
		Left:   left - p,
		Top:    top - p,
		Width:  right - left + 2*p,
		Height: bottom - top + 2*p,
	}
}
