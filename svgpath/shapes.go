package svgpath

// This file implements the transformation from
// high level shapes to their path equivalent

// AddOval adds an ellipse centered at (cx, cy), as a move
// followed by two half arcs.
func (p *Path) AddOval(cx, cy, rx, ry float64) {
	p.MoveTo(cx-rx, cy, false)
	p.ArcTo(rx, ry, 0, true, false, cx+rx, cy, false)
	p.ArcTo(rx, ry, 0, true, false, cx-rx, cy, false)
}

// AddRect adds a rectangle with top left corner (x, y), using
// relative horizontal and vertical lines. The sub-path is
// not explicitly closed.
func (p *Path) AddRect(x, y, width, height float64) {
	p.MoveTo(x, y, false)
	p.HLineTo(width, true)
	p.VLineTo(height, true)
	p.HLineTo(-width, true)
	p.VLineTo(-height, true)
}

// AddRoundRect adds a closed rectangle with rounded corners of radius
// rx in the x axis and ry in the y axis. Radii are clamped to half
// of the sides; non positive radii fall back to AddRect.
func (p *Path) AddRoundRect(x, y, width, height, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.AddRect(x, y, width, height)
		return
	}
	if width < rx*2 {
		rx = width / 2
	}
	if height < ry*2 {
		ry = height / 2
	}
	p.MoveTo(x+rx, y, false)
	p.HLineTo(width-2*rx, true)
	p.ArcTo(rx, ry, 0, false, true, rx, ry, true)
	p.VLineTo(height-2*ry, true)
	p.ArcTo(rx, ry, 0, false, true, -rx, ry, true)
	p.HLineTo(-(width - 2*rx), true)
	p.ArcTo(rx, ry, 0, false, true, -rx, -ry, true)
	p.VLineTo(-(height - 2*ry), true)
	p.ArcTo(rx, ry, 0, false, true, rx, -ry, true)
	p.Close()
}
