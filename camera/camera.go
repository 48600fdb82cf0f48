// Package camera provides a 2D pan/zoom viewport onto the noise plane.
package camera

import (
	"github.com/pthm-cable/gator/field"
	"github.com/pthm-cable/gator/noise"
)

// Camera maps preview pixels to noise-domain coordinates.
// The noise plane is unbounded, so there is no wrapping.
type Camera struct {
	// Position is the camera center in domain coordinates
	X, Y float64

	// Zoom is pixels per domain unit
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	// home is the state Reset returns to
	homeX, homeY, homeZoom float64
}

// New creates a camera centered on (cx, cy) showing `span` domain units
// across the narrower viewport side.
func New(viewportW, viewportH, cx, cy, span float64) *Camera {
	side := viewportW
	if viewportH < side {
		side = viewportH
	}
	zoom := side / span

	return &Camera{
		X:         cx,
		Y:         cy,
		Zoom:      zoom,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   zoom / 64,
		MaxZoom:   zoom * 64,
		homeX:     cx,
		homeY:     cy,
		homeZoom:  zoom,
	}
}

// WorldToScreen converts domain coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to domain coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// Resize updates viewport dimensions, keeping the center and zoom.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the domain point under screen
// position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
}

// Reset returns the camera to its initial position and zoom.
func (c *Camera) Reset() {
	c.X = c.homeX
	c.Y = c.homeY
	c.Zoom = c.homeZoom
}

// VisibleWorldBounds returns the domain bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// Region returns the sampling region that covers the viewport with a
// gridW x gridH field at depth z.
func (c *Camera) Region(gridW, gridH int, z float64) field.Region {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return field.Region{
		Origin: noise.Vec3{X: minX, Y: minY, Z: z},
		Spacing: noise.Vec3{
			X: (maxX - minX) / float64(gridW),
			Y: (maxY - minY) / float64(gridH),
		},
	}
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
