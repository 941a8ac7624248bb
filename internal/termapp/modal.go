package termapp

import (
	"strings"

	"hackdesk/internal/term"
)

// Modal primitives. Each one swaps in its own key table, runs a nested
// event loop on the host goroutine, and restores the outer interaction
// when it resolves. The host's Mode reflects which primitive is active.

// DialogResult is the outcome of a Yes/No/Cancel dialog.
type DialogResult int

const (
	DialogCancel DialogResult = iota
	DialogYes
	DialogNo
)

// Prompt asks for a single line of input. Enter resolves with the typed
// text, Esc cancels and returns ok=false with an empty string.
func (h *Host) Prompt(label string) (text string, ok bool) {
	h.pushInteraction(ModePrompt)
	defer h.popInteraction()

	var buf []rune
	done := false

	draw := func() {
		h.FillLine(h.height-1, Inverse(" "+label+" ")+" "+string(buf))
	}
	draw()

	for !done {
		ev := h.readEvent()
		if ev.closed {
			return "", false
		}
		if ev.resize {
			h.width, h.height = ev.width, ev.height
			h.app.Render()
			draw()
			continue
		}
		switch ev.key {
		case "enter":
			text = string(buf)
			ok = true
			done = true
		case "esc":
			text = ""
			ok = false
			done = true
		case "backspace":
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
			draw()
		default:
			if t := term.TokenText(ev.key); t != "" {
				buf = append(buf, []rune(t)...)
				draw()
			}
		}
	}
	return text, ok
}

// Dialog asks a Yes/No/Cancel question. y/n/c answer it; Esc cancels.
func (h *Host) Dialog(message string) DialogResult {
	h.pushInteraction(ModeDialog)
	defer h.popInteraction()

	h.drawModalBox(message, "[y]es  [n]o  [c]ancel")

	for {
		ev := h.readEvent()
		if ev.closed {
			return DialogCancel
		}
		if ev.resize {
			h.width, h.height = ev.width, ev.height
			h.app.Render()
			h.drawModalBox(message, "[y]es  [n]o  [c]ancel")
			continue
		}
		switch ev.key {
		case "y", "Y":
			return DialogYes
		case "n", "N":
			return DialogNo
		case "c", "C", "esc":
			return DialogCancel
		}
	}
}

// Message shows a dismissable message box; Enter (or Esc) dismisses it.
func (h *Host) Message(message string) {
	h.pushInteraction(ModeMessage)
	defer h.popInteraction()

	h.drawModalBox(message, "press enter")

	for {
		ev := h.readEvent()
		if ev.closed {
			return
		}
		if ev.resize {
			h.width, h.height = ev.width, ev.height
			h.app.Render()
			h.drawModalBox(message, "press enter")
			continue
		}
		if ev.key == "enter" || ev.key == "esc" {
			return
		}
	}
}

// drawModalBox centers a bordered box with the message and a hint line.
func (h *Host) drawModalBox(message, hint string) {
	lines := strings.Split(message, "\n")
	width := len([]rune(hint))
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	width += 4
	if width > h.width {
		width = h.width
	}
	height := len(lines) + 4
	x := (h.width - width) / 2
	y := (h.height - height) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	blank := strings.Repeat(" ", width)
	for row := 0; row < height; row++ {
		h.WriteAt(x, y+row, blank)
	}
	h.Box(x, y, width, height, "")
	for i, l := range lines {
		h.WriteAt(x+2, y+1+i, padCenter(l, width-4))
	}
	h.WriteAt(x+2, y+height-2, padCenter(hint, width-4))
}

func padCenter(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
