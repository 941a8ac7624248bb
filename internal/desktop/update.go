package desktop

import (
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"hackdesk/internal/config"
	"hackdesk/internal/geometry"
)

// Update is the single message entry point.
func (d *Desktop) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.wm.SetArea(msg.Width, msg.Height-config.DockHeight)
		return d, nil

	case TickMsg:
		d.sampler.Update()
		d.expireNotifications(time.Time(msg))
		d.reapClosedWindows()
		return d, d.tick()

	case ConfigReloadedMsg:
		d.ApplyConfig(msg.Config)
		d.Notify(LogLevelInfo, "configuration reloaded")
		return d, nil

	case windowExitMsg:
		// The session ended on its own; tear down its window. Closing
		// is idempotent, so this is safe when the window went first.
		d.wm.CloseWindow(msg.windowID)
		return d, d.listenForWindowExits()

	case tea.KeyPressMsg:
		return d.handleKey(msg)

	case tea.MouseClickMsg:
		return d.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return d.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return d.handleMouseRelease(msg)

	case tea.MouseWheelMsg:
		return d.handleMouseWheel(msg)
	}
	return d, nil
}

// defaultTerminalBounds cascades new terminals so they do not stack
// exactly on top of each other.
func defaultTerminalBounds(n, areaW, areaH int) geometry.Rect {
	w := config.DefaultWindowWidth
	h := config.DefaultWindowHeight
	if w > areaW {
		w = areaW
	}
	if h > areaH {
		h = areaH
	}
	r := geometry.Centered(w, h, areaW, areaH)
	offset := ((n - 1) % 5) * 2
	r.X += offset
	r.Y += offset
	return geometry.Clamp(r, areaW, areaH)
}

func titleForTerminal(n int) string {
	return "terminal " + strconv.Itoa(n)
}
