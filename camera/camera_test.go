package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(800, 600, 4, 4, 8)

	if cam.X != 4 || cam.Y != 4 {
		t.Errorf("expected camera at (4, 4), got (%f, %f)", cam.X, cam.Y)
	}
	// 8 units across the 600px side
	if cam.Zoom != 75 {
		t.Errorf("expected zoom 75, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(800, 600, 4, 4, 8)

	sx, sy := cam.WorldToScreen(4, 4)
	if math.Abs(sx-400) > 1e-9 || math.Abs(sy-300) > 1e-9 {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 600, -3, 12, 5)
	cam.Pan(37, -90)
	cam.ZoomBy(1.7)

	testCases := []struct{ sx, sy float64 }{
		{400, 300}, // center
		{0, 0},     // top-left
		{799, 599}, // bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(sx-tc.sx) > 1e-9 || math.Abs(sy-tc.sy) > 1e-9 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanDoesNotWrap(t *testing.T) {
	cam := New(800, 600, 0, 0, 8)
	cam.Pan(-7500, 0) // 100 units left

	if math.Abs(cam.X+100) > 1e-9 {
		t.Errorf("expected X = -100, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, 0, 0, 8)

	cam.SetZoom(0)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1e9)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	cam := New(800, 600, 2, 2, 8)
	wx, wy := cam.ScreenToWorld(100, 500)

	cam.ZoomAt(100, 500, 2)

	nx, ny := cam.ScreenToWorld(100, 500)
	if math.Abs(nx-wx) > 1e-9 || math.Abs(ny-wy) > 1e-9 {
		t.Errorf("anchor moved from (%f,%f) to (%f,%f)", wx, wy, nx, ny)
	}
	if cam.Zoom != 150 {
		t.Errorf("expected zoom 150, got %f", cam.Zoom)
	}
}

func TestRegionCoversViewport(t *testing.T) {
	cam := New(800, 600, 4, 4, 8)
	r := cam.Region(200, 150, 0.5)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if r.Origin.X != minX || r.Origin.Y != minY || r.Origin.Z != 0.5 {
		t.Errorf("unexpected origin %v", r.Origin)
	}
	end := r.Position(200, 150, 0)
	if math.Abs(end.X-maxX) > 1e-9 || math.Abs(end.Y-maxY) > 1e-9 {
		t.Errorf("region ends at (%f,%f), viewport at (%f,%f)", end.X, end.Y, maxX, maxY)
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, 1, 2, 8)
	cam.Pan(500, 500)
	cam.ZoomBy(3)

	cam.Reset()

	if cam.X != 1 || cam.Y != 2 {
		t.Errorf("expected position (1, 2), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 75 {
		t.Errorf("expected zoom 75, got %f", cam.Zoom)
	}
}
