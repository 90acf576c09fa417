package present

import (
	"testing"

	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/window"
)

var vp = tiling.Viewport{Width: 1000, Height: 800}

func TestFrameFor_MaximizedCoversViewport(t *testing.T) {
	w := window.Window{
		ID:        "a",
		Geometry:  window.Rect{X: 10, Y: 48, Width: 485, Height: 742},
		ZOrder:    12,
		Maximized: true,
	}
	f := FrameFor(w, true, vp)
	if f.Rect != (window.Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Fatalf("expected full viewport, got %+v", f.Rect)
	}
	if f.Z != TopmostZ {
		t.Fatalf("expected topmost z, got %d", f.Z)
	}
	if !f.Focused {
		t.Fatalf("expected focus flag to carry through")
	}
}

func TestFrameFor_UsesStoredGeometry(t *testing.T) {
	geom := window.Rect{X: 5, Y: 6, Width: 70, Height: 80}
	f := FrameFor(window.Window{ID: "a", Geometry: geom, ZOrder: 14}, false, vp)
	if f.Rect != geom || f.Z != 14 {
		t.Fatalf("unexpected frame %+v", f)
	}
}

func TestFrames_PaintOrder(t *testing.T) {
	windows := []window.Window{
		{ID: "max", ZOrder: 11, Maximized: true},
		{ID: "high", ZOrder: 20},
		{ID: "low", ZOrder: 12},
		{ID: "hidden", ZOrder: 99, Minimized: true},
	}
	frames := Frames(windows, "low", vp)
	if len(frames) != 3 {
		t.Fatalf("expected 3 visible frames, got %d", len(frames))
	}
	got := []window.ID{frames[0].ID, frames[1].ID, frames[2].ID}
	want := []window.ID{"low", "high", "max"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paint order = %v, want %v", got, want)
		}
	}
	if !frames[0].Focused || frames[1].Focused {
		t.Fatalf("focus flag misplaced: %+v", frames)
	}
}

func TestHitTest(t *testing.T) {
	c := DefaultChrome()
	frames := []Frame{
		{ID: "under", Rect: window.Rect{X: 0, Y: 0, Width: 400, Height: 300}, Z: 11},
		{ID: "over", Rect: window.Rect{X: 100, Y: 100, Width: 200, Height: 150}, Z: 12},
	}

	tests := []struct {
		name   string
		x, y   int
		id     window.ID
		region Region
		found  bool
	}{
		{"title of top window", 120, 110, "over", RegionTitle, true},
		{"body of top window", 150, 200, "over", RegionBody, true},
		{"body of lower window", 20, 250, "under", RegionBody, true},
		{"close button", 300 - 8 - 4, 110, "over", RegionClose, true},
		{"float button", 300 - 8 - 4*16 + 2, 110, "over", RegionFloat, true},
		{"outside", 900, 700, "", RegionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := c.HitTest(frames, tt.x, tt.y)
			if ok != tt.found {
				t.Fatalf("found=%v, want %v", ok, tt.found)
			}
			if !ok {
				return
			}
			if hit.Frame.ID != tt.id || hit.Region != tt.region {
				t.Fatalf("hit %s/%s, want %s/%s", hit.Frame.ID, hit.Region, tt.id, tt.region)
			}
		})
	}
}

func TestButtons_DroppedWhenTooNarrow(t *testing.T) {
	c := DefaultChrome()
	f := Frame{Rect: window.Rect{Width: 50, Height: 100}}
	buttons := c.Buttons(f)
	if len(buttons) != 2 {
		t.Fatalf("expected 2 buttons to fit, got %d", len(buttons))
	}
	if buttons[len(buttons)-1].Region != RegionClose {
		t.Fatalf("close button should survive, got %v", buttons)
	}
}

func TestContentRect(t *testing.T) {
	c := DefaultChrome()
	f := Frame{Rect: window.Rect{X: 10, Y: 48, Width: 980, Height: 742}}
	got := c.ContentRect(f)
	if got != (window.Rect{X: 10, Y: 80, Width: 980, Height: 710}) {
		t.Fatalf("unexpected content rect %+v", got)
	}
}
