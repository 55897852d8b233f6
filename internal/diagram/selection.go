package diagram

import "go.uber.org/zap"

// Select adds an on-canvas entity to the selection, replacing the previous
// selection unless additive is set, and recolors the diagram. Unknown or
// hidden ids are ignored.
func (d *Diagram) Select(id string, additive bool) bool {
	e, ok := d.live(id)
	if !ok {
		return false
	}
	if !additive {
		clear(d.selection)
	}
	d.selection[id] = e
	d.Refresh()
	return true
}

// Unselect removes one entity from the selection.
func (d *Diagram) Unselect(id string) {
	if _, ok := d.selection[id]; !ok {
		return
	}
	delete(d.selection, id)
	d.Refresh()
}

// ToggleSelected flips one entity in or out of the selection.
func (d *Diagram) ToggleSelected(id string) {
	if d.IsSelected(id) {
		d.Unselect(id)
		return
	}
	d.Select(id, true)
}

// SetSelection replaces the selection with the given ids. Ids that are not
// on the canvas are dropped.
func (d *Diagram) SetSelection(ids []string) {
	clear(d.selection)
	for _, id := range ids {
		if e, ok := d.live(id); ok {
			d.selection[id] = e
		}
	}
	d.Refresh()
}

// ClearSelection empties the selection and removes all highlighting.
func (d *Diagram) ClearSelection() {
	clear(d.selection)
	d.clearMarks()
}

func (d *Diagram) IsSelected(id string) bool {
	_, ok := d.selection[id]
	return ok
}

// SelectedIDs returns the selection in registration order.
func (d *Diagram) SelectedIDs() []string {
	ids := make([]string, 0, len(d.selection))
	for _, id := range d.order {
		if _, ok := d.selection[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Refresh recolors the diagram for the current selection. An empty
// selection means no highlighting at all.
func (d *Diagram) Refresh() {
	if len(d.selection) == 0 {
		d.clearMarks()
		return
	}
	d.MarkSelection()
}

// MarkSelection dims everything, then colors the connectors and fields that
// touch the selection. Join keys get palette colors in first-seen order:
// connectors in declaration order first, then the primary fields of the
// selected entities that no connector colored. The palette wraps when it runs out. The returned map
// holds the palette index per join key.
func (d *Diagram) MarkSelection() map[string]int {
	for _, id := range d.order {
		e := d.entities[id]
		e.clearMarks()
		e.State = StateDisabled
	}
	for _, c := range d.connectors {
		c.ColorTag = 0
		c.State = StateDisabled
	}

	colors := make(map[string]int)
	next := 0
	assign := func(key string) int {
		if idx, ok := colors[key]; ok {
			return idx
		}
		idx := next % d.cfg.PaletteSize
		colors[key] = idx
		next++
		return idx
	}

	for _, c := range d.connectors {
		if !d.IsSelected(c.From) && !d.IsSelected(c.To) {
			continue
		}
		tag := assign(c.JoinKey()) + 1
		c.ColorTag = tag
		c.State = StateSelected
		for _, end := range []struct{ id, field string }{{c.From, c.FromField}, {c.To, c.ToField}} {
			e := d.entities[end.id]
			if f := e.Field(end.field); f != nil {
				f.ColorTag = tag
			}
			e.State = StateNormal
		}
	}

	for _, id := range d.SelectedIDs() {
		e := d.entities[id]
		for i := range e.Fields {
			f := &e.Fields[i]
			// a connector already gave this field its join key color
			if !f.Primary || f.ColorTag != 0 {
				continue
			}
			f.ColorTag = assign(id+"."+f.Name) + 1
		}
		e.State = StateSelected
	}

	d.log.Debug("marked selection", zap.Int("selected", len(d.selection)), zap.Int("colors", len(colors)))
	return colors
}

func (d *Diagram) clearMarks() {
	for _, e := range d.entities {
		e.clearMarks()
	}
	for _, c := range d.connectors {
		c.ColorTag = 0
		c.State = StateNormal
	}
}
