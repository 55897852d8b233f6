package diagram

// Panel is the resizable side panel listing the catalog. Width is in screen
// units.
type Panel struct {
	Width        int
	LastExpanded int

	cfg Config
}

func NewPanel(cfg Config) *Panel {
	return &Panel{
		Width:        cfg.PanelInitialWidth,
		LastExpanded: cfg.PanelInitialWidth,
		cfg:          cfg,
	}
}

func (p *Panel) Collapsed() bool {
	return p.Width == p.cfg.PanelCollapsedWidth
}

// Toggle flips between the collapsed width and the last expanded width.
func (p *Panel) Toggle() {
	if p.Collapsed() {
		p.Width = p.LastExpanded
		return
	}
	p.LastExpanded = p.Width
	p.Width = p.cfg.PanelCollapsedWidth
}

// settle applies the drop-time rule: anything narrower than the minimum
// snaps to the collapsed width.
func (p *Panel) settle() {
	if p.Width < p.cfg.PanelMinWidth {
		p.Width = p.cfg.PanelCollapsedWidth
		return
	}
	p.LastExpanded = p.Width
}

func (p *Panel) restore(width, last int) {
	if last >= p.cfg.PanelMinWidth {
		p.LastExpanded = last
	}
	p.Width = width
	if width != p.cfg.PanelCollapsedWidth {
		p.settle()
	}
}
