package desktop

import (
	tea "charm.land/bubbletea/v2"

	"hackdesk/internal/config"
	"hackdesk/internal/geometry"
	"hackdesk/internal/wm"
)

// Title bar button cells, measured from the right border. The renderer
// and the hit tests below must agree on these.
const (
	buttonCloseOffset    = 3
	buttonMaximizeOffset = 5
	buttonMinimizeOffset = 7
)

// Rows per wheel notch when scrolling a window's output history.
const wheelScrollLines = 3

func (d *Desktop) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return d, nil
	}
	x, y := mouse.X, mouse.Y

	// Clicks dismiss the modal layers.
	if d.helpVisible || d.logVisible {
		d.helpVisible = false
		d.logVisible = false
		return d, nil
	}
	if d.confirmQuit || d.renaming {
		return d, nil
	}

	if y >= d.height-config.DockHeight {
		d.handleDockClick(x)
		return d, nil
	}

	w := d.windowAt(x, y)
	if w == nil {
		d.mode = ModeWindow
		return d, nil
	}

	if corner := geometry.HitCorner(w.Bounds, x, y); corner != geometry.CornerNone && w.Resizable && !w.Maximized() {
		d.wm.ActivateWindow(w.ID)
		d.mode = ModeWindow
		d.wm.StartResize(w.ID, corner)
		return d, nil
	}

	if y == w.Bounds.Y {
		switch x {
		case w.Bounds.Right() - buttonCloseOffset:
			if w.Closable {
				d.wm.CloseWindow(w.ID)
				return d, nil
			}
		case w.Bounds.Right() - buttonMaximizeOffset:
			if w.Maximizable {
				d.wm.ToggleMaximizeWindow(w.ID)
				return d, nil
			}
		case w.Bounds.Right() - buttonMinimizeOffset:
			if w.Minimizable {
				d.wm.MinimizeWindow(w.ID)
				return d, nil
			}
		}
		d.wm.ActivateWindow(w.ID)
		d.mode = ModeWindow
		d.wm.StartDrag(w.ID, x, y)
		return d, nil
	}

	// Clicking the content of the active window starts typing into it;
	// clicking any other window just focuses it.
	if w.ID == d.wm.ActiveID() {
		d.mode = ModeTerminal
	} else {
		d.wm.ActivateWindow(w.ID)
	}
	return d, nil
}

func (d *Desktop) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if d.wm.Dragging() {
		d.wm.DragTo(mouse.X, mouse.Y)
	} else if d.wm.Resizing() {
		d.wm.ResizeTo(mouse.X, mouse.Y)
	}
	return d, nil
}

func (d *Desktop) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if d.wm.Dragging() {
		d.wm.EndDrag()
	}
	if d.wm.Resizing() {
		d.wm.EndResize()
	}
	return d, nil
}

// handleMouseWheel scrolls the window under the cursor. The window being
// typed into gets arrow keys so full-screen apps can react; any other
// window scrolls its output history instead.
func (d *Desktop) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	w := d.windowAt(mouse.X, mouse.Y)
	if w == nil || w.Screen == nil {
		return d, nil
	}
	forward := d.mode == ModeTerminal && w.ID == d.wm.ActiveID()
	switch mouse.Button {
	case tea.MouseWheelUp:
		if forward {
			w.Screen.SendKey("up")
		} else {
			w.Screen.ScrollBy(wheelScrollLines)
		}
	case tea.MouseWheelDown:
		if forward {
			w.Screen.SendKey("down")
		} else {
			w.Screen.ScrollBy(-wheelScrollLines)
		}
	}
	return d, nil
}

// windowAt returns the top-most non-minimized window containing the
// point, or nil.
func (d *Desktop) windowAt(x, y int) *wm.Window {
	windows := d.wm.Windows()
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if w.Minimized() {
			continue
		}
		if w.Bounds.Contains(x, y) {
			return w
		}
	}
	return nil
}
