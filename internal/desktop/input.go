package desktop

import (
	tea "charm.land/bubbletea/v2"

	"hackdesk/internal/geometry"
	"hackdesk/internal/term"
)

// handleKey routes a keystroke through the modal layers before the
// current input mode gets it.
func (d *Desktop) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if d.renaming {
		return d.handleRenameKey(key)
	}
	if d.confirmQuit {
		return d.handleQuitConfirmKey(key)
	}
	if d.helpVisible {
		// Any key dismisses the overlay.
		d.helpVisible = false
		return d, nil
	}
	if d.logVisible {
		d.logVisible = false
		return d, nil
	}

	if d.mode == ModeTerminal {
		return d.handleTerminalKey(key)
	}
	return d.handleWindowKey(key)
}

func (d *Desktop) handleTerminalKey(key string) (tea.Model, tea.Cmd) {
	if key == "esc" {
		d.mode = ModeWindow
		return d, nil
	}
	if w, ok := d.wm.Active(); ok && w.Screen != nil {
		w.Screen.SendKey(key)
	} else {
		// The focused window vanished under us.
		d.mode = ModeWindow
	}
	return d, nil
}

func (d *Desktop) handleWindowKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "1", "2", "3", "4":
		d.snapActiveQuarter(key)
		return d, nil
	case "u":
		d.wm.UnmaximizeWindow(d.wm.ActiveID())
		return d, nil
	}

	switch d.keys.GetAction(key) {
	case "new_window":
		d.OpenTerminal()
	case "close_window":
		if id := d.wm.ActiveID(); id != "" {
			d.wm.CloseWindow(id)
		}
	case "rename_window":
		if w, ok := d.wm.Active(); ok {
			d.renaming = true
			d.renameBuf = w.Title
		}
	case "minimize_window":
		d.wm.MinimizeWindow(d.wm.ActiveID())
	case "restore_all":
		d.wm.RestoreAll()
	case "maximize_window":
		d.wm.ToggleMaximizeWindow(d.wm.ActiveID())
	case "next_window":
		d.wm.CycleActive(false)
	case "prev_window":
		d.wm.CycleActive(true)
	case "snap_left":
		d.wm.SnapWindow(d.wm.ActiveID(), geometry.QuarterLeft)
	case "snap_right":
		d.wm.SnapWindow(d.wm.ActiveID(), geometry.QuarterRight)
	case "enter_terminal_mode":
		if _, ok := d.wm.Active(); ok {
			d.mode = ModeTerminal
		}
	case "toggle_help":
		d.helpVisible = true
	case "toggle_log":
		d.logVisible = true
	case "quit":
		if len(d.wm.Windows()) == 0 {
			return d.shutdown()
		}
		d.confirmQuit = true
	}
	return d, nil
}

func (d *Desktop) snapActiveQuarter(key string) {
	id := d.wm.ActiveID()
	if id == "" {
		return
	}
	var q geometry.Quarter
	switch key {
	case "1":
		q = geometry.QuarterTopLeft
	case "2":
		q = geometry.QuarterTopRight
	case "3":
		q = geometry.QuarterBottomLeft
	case "4":
		q = geometry.QuarterBottomRight
	}
	d.wm.SnapWindow(id, q)
}

func (d *Desktop) handleRenameKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		if d.renameBuf != "" {
			d.wm.SetTitle(d.wm.ActiveID(), d.renameBuf)
		}
		d.renaming = false
		d.renameBuf = ""
	case "esc":
		d.renaming = false
		d.renameBuf = ""
	case "backspace":
		if d.renameBuf != "" {
			runes := []rune(d.renameBuf)
			d.renameBuf = string(runes[:len(runes)-1])
		}
	default:
		if text := term.TokenText(key); text != "" && text != "\t" {
			d.renameBuf += text
		}
	}
	return d, nil
}

func (d *Desktop) handleQuitConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y", "enter":
		return d.shutdown()
	default:
		d.confirmQuit = false
	}
	return d, nil
}

// shutdown closes every window, reaps the processes, and quits.
func (d *Desktop) shutdown() (tea.Model, tea.Cmd) {
	d.wm.CloseAllWindows()
	for {
		d.wm.FlushCloseNotices()
		select {
		case notice := <-d.wm.CloseNotices():
			d.procs.Kill(notice.OwnerPID)
		default:
			return d, tea.Quit
		}
	}
}
