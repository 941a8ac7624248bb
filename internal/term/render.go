package term

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"hackdesk/internal/theme"
)

// Render flattens the grid into a styled string for the desktop canvas.
// Cells with equal attributes share one SGR run. When showCursor is set
// the cursor cell is drawn inverted so the focused window shows where
// input goes. While the viewport is scrolled into history the cursor is
// hidden and rows come from the scrollback buffer.
func (s *Screen) Render(showCursor bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	palette := theme.ANSIPalette()
	fgDefault := theme.TerminalFg()
	bgDefault := theme.TerminalBg()
	showCursor = showCursor && s.viewOffset == 0

	var b strings.Builder
	b.Grow(s.width * s.height * 2)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row, live := s.viewRow(y)
		var prev Cell
		styled := false
		for x := 0; x < s.width; x++ {
			c := Cell{Rune: ' ', Fg: DefaultFg, Bg: DefaultBg}
			if x < len(row) {
				c = row[x]
			}
			if showCursor && live && x == s.cursorX && y == s.cursorY {
				c.Inverse = !c.Inverse
			}
			if !styled || c.Bold != prev.Bold || c.Inverse != prev.Inverse || c.Fg != prev.Fg || c.Bg != prev.Bg {
				if styled {
					b.WriteString("\x1b[0m")
				}
				b.WriteString(styleFor(c, palette, fgDefault, bgDefault))
				prev = c
				styled = true
			}
			b.WriteRune(c.Rune)
		}
		if styled {
			b.WriteString("\x1b[0m")
		}
	}
	return b.String()
}

// viewRow maps a viewport row to either a scrollback row or a live grid
// row, honoring the current scroll offset.
func (s *Screen) viewRow(y int) ([]Cell, bool) {
	if s.viewOffset == 0 {
		return s.cells[y], true
	}
	idx := len(s.scrollback) - s.viewOffset + y
	if idx < len(s.scrollback) {
		return s.scrollback[idx], false
	}
	gridY := idx - len(s.scrollback)
	if gridY < s.height {
		return s.cells[gridY], false
	}
	return nil, false
}

func styleFor(c Cell, palette [16]color.Color, fgDefault, bgDefault color.Color) string {
	var st ansi.Style
	fg := fgDefault
	bg := bgDefault
	if c.Fg >= 0 && c.Fg < len(palette) {
		fg = palette[c.Fg]
	}
	if c.Bg >= 0 && c.Bg < len(palette) {
		bg = palette[c.Bg]
	}
	if fg != nil {
		st = st.ForegroundColor(ansi.Color(fg))
	}
	if bg != nil {
		st = st.BackgroundColor(ansi.Color(bg))
	}
	if c.Bold {
		st = st.Bold()
	}
	if c.Inverse {
		st = st.Reverse(true)
	}
	return st.String()
}
