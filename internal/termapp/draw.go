package termapp

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Drawing primitives. Everything the host emits goes through the
// surface's Write, which understands the sequences produced here.

var (
	sgrReverse = ansi.Style{}.Reverse(true).String()
	sgrBold    = ansi.Style{}.Bold().String()
)

const (
	sgrNoReverse = "\x1b[27m"
	sgrNoBold    = "\x1b[22m"
	sgrReset     = "\x1b[0m"
)

// Clear wipes the surface and homes the cursor.
func (h *Host) Clear() {
	if h.screen == nil {
		return
	}
	fmt.Fprint(h.screen, "\x1b[2J\x1b[H")
}

// MoveTo places the cursor at the zero-based cell (x, y).
func (h *Host) MoveTo(x, y int) {
	fmt.Fprintf(h.screen, "\x1b[%d;%dH", y+1, x+1)
}

// Write emits text at the cursor.
func (h *Host) Write(text string) {
	fmt.Fprint(h.screen, text)
}

// WriteAt emits text starting at (x, y).
func (h *Host) WriteAt(x, y int, text string) {
	h.MoveTo(x, y)
	h.Write(text)
}

// Inverse wraps text in reverse video.
func Inverse(text string) string {
	return sgrReverse + text + sgrNoReverse
}

// Bold wraps text in bold.
func Bold(text string) string {
	return sgrBold + text + sgrNoBold
}

// Box draws a bordered rectangle with an optional centered title in the
// top border. Content inside is left untouched.
func (h *Host) Box(x, y, width, height int, title string) {
	if width < 2 || height < 2 {
		return
	}

	top := "┌" + strings.Repeat("─", width-2) + "┐"
	if title != "" {
		label := " " + title + " "
		if len([]rune(label)) > width-2 {
			label = string([]rune(label)[:width-2])
		}
		pad := width - 2 - len([]rune(label))
		left := pad / 2
		top = "┌" + strings.Repeat("─", left) + label + strings.Repeat("─", pad-left) + "┐"
	}
	h.WriteAt(x, y, top)

	for row := 1; row < height-1; row++ {
		h.WriteAt(x, y+row, "│")
		h.WriteAt(x+width-1, y+row, "│")
	}

	h.WriteAt(x, y+height-1, "└"+strings.Repeat("─", width-2)+"┘")
}

// StatusItem is one key hint in the status bar.
type StatusItem struct {
	Key         string
	Description string
}

// StatusBar paints the bottom row as an inverse-video bar of key hints.
func (h *Host) StatusBar(items []StatusItem) {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(Bold(item.Key))
		b.WriteByte(' ')
		b.WriteString(item.Description)
	}

	line := b.String()
	// Pad with spaces so the inverse bar spans the whole row.
	plain := 0
	for _, item := range items {
		plain += len([]rune(item.Key)) + 1 + len([]rune(item.Description))
	}
	if len(items) > 1 {
		plain += 2 * (len(items) - 1)
	}
	if pad := h.width - plain; pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	h.MoveTo(0, h.height-1)
	h.Write(sgrReverse + line + sgrReset)
}

// FillLine blanks row y and writes text at its start.
func (h *Host) FillLine(y int, text string) {
	h.MoveTo(0, y)
	h.Write("\x1b[2K" + text)
}
