package desktop

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"hackdesk/internal/config"
	"hackdesk/internal/theme"
)

const dockEntryMaxWidth = 18

// dockEntry is a clickable minimized-window slot on the dock.
type dockEntry struct {
	windowID string
	label    string
	x0, x1   int
}

// dockLayout computes the left-hand dock segments. The renderer styles
// them and handleDockClick hit-tests them, so both go through here.
func (d *Desktop) dockLayout() (mode string, entries []dockEntry) {
	if d.mode == ModeTerminal {
		mode = " TERM "
	} else {
		mode = " WM "
	}

	x := ansi.StringWidth(mode) + 1
	for _, w := range d.wm.Windows() {
		if !w.Minimized() {
			continue
		}
		label := " " + ansi.Truncate(w.Title, dockEntryMaxWidth, "…") + " "
		width := ansi.StringWidth(label)
		entries = append(entries, dockEntry{
			windowID: w.ID,
			label:    label,
			x0:       x,
			x1:       x + width,
		})
		x += width + 1
	}
	return mode, entries
}

func (d *Desktop) handleDockClick(x int) {
	_, entries := d.dockLayout()
	for _, e := range entries {
		if x >= e.x0 && x < e.x1 {
			d.wm.RestoreWindow(e.windowID)
			return
		}
	}
}

func (d *Desktop) renderDock() *lipgloss.Layer {
	mode, entries := d.dockLayout()

	modeColor := theme.DockColorWindow()
	if d.mode == ModeTerminal {
		modeColor = theme.DockColorTerminal()
	}
	modeStyle := lipgloss.NewStyle().
		Foreground(theme.DockBg()).
		Background(modeColor).
		Bold(true)
	entryStyle := lipgloss.NewStyle().
		Foreground(theme.DockFg()).
		Background(theme.DockBg())
	infoStyle := lipgloss.NewStyle().
		Foreground(theme.DockDimmed()).
		Background(theme.DockBg())

	var left strings.Builder
	left.WriteString(modeStyle.Render(mode))
	leftWidth := ansi.StringWidth(mode)
	for _, e := range entries {
		left.WriteString(" ")
		left.WriteString(entryStyle.Render(e.label))
		leftWidth += 1 + ansi.StringWidth(e.label)
	}

	var parts []string
	if d.cfg.Appearance.ShowSysinfo {
		parts = append(parts, d.sampler.CPUGraph(), d.sampler.MemLine())
	}
	if d.cfg.Appearance.ShowClock {
		parts = append(parts, time.Now().Format(config.ClockFormat))
	}
	right := strings.Join(parts, "  ")
	rightWidth := ansi.StringWidth(right)

	gap := d.width - leftWidth - rightWidth - 1
	if gap < 1 {
		gap = 1
	}

	line := left.String() +
		lipgloss.NewStyle().Background(theme.DockBg()).Render(strings.Repeat(" ", gap)) +
		infoStyle.Render(right+" ")

	return lipgloss.NewLayer(line).
		X(0).
		Y(d.height - config.DockHeight).
		Z(zDock).
		ID("dock")
}
