package wm

import (
	"testing"

	"hackdesk/internal/geometry"
)

func TestUnmaximizeClearsRestoreBounds(t *testing.T) {
	m := NewManager(800, 600, nil)
	w := m.CreateWindow(CreateOptions{Bounds: geometry.Rect{X: 10, Y: 10, Width: 100, Height: 50}})

	m.MaximizeWindow(w.ID)
	if w.restoreBounds == (geometry.Rect{}) {
		t.Fatal("restoreBounds not captured on maximize")
	}

	m.UnmaximizeWindow(w.ID)
	if w.restoreBounds != (geometry.Rect{}) {
		t.Errorf("restoreBounds = %+v after unmaximize, want zero", w.restoreBounds)
	}
}
