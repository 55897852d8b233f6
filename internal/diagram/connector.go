package diagram

import "fmt"

// Relation is a declared link between two entity fields. It exists whether
// or not both entities are on the canvas.
type Relation struct {
	From      string
	FromField string
	To        string
	ToField   string
}

func (r Relation) String() string {
	return fmt.Sprintf("%s.%s->%s.%s", r.From, r.FromField, r.To, r.ToField)
}

// Touches reports whether either end is the given entity.
func (r Relation) Touches(id string) bool {
	return r.From == id || r.To == id
}

// JoinKey identifies the referenced field. Connectors sharing a join key
// share a highlight color.
func (r Relation) JoinKey() string {
	return r.To + "." + r.ToField
}

// Connector is a materialized relation with its current route.
type Connector struct {
	Relation
	Route    Route
	ColorTag int
	State    State
}

func (c *Connector) reroute(from, to *Entity, cfg Config) bool {
	fe, ok := EndpointFor(from, c.FromField, cfg)
	if !ok {
		return false
	}
	te, ok := EndpointFor(to, c.ToField, cfg)
	if !ok {
		return false
	}
	c.Route = RouteConnector(fe, te, cfg)
	return true
}
