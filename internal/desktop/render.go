package desktop

import (
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"hackdesk/internal/config"
	"hackdesk/internal/theme"
	"hackdesk/internal/wm"
)

// Layer stacking. Windows use their manager Z directly, everything else
// sits above them.
const (
	zDock          = 1000
	zNotifications = 1500
	zOverlay       = 2000
)

// View renders the whole desktop.
func (d *Desktop) View() tea.View {
	var view tea.View
	view.SetContent(lipgloss.Sprint(d.canvas().Render()))
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.ReportFocus = true
	return view
}

func (d *Desktop) canvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(d.width, d.height)
	var layers []*lipgloss.Layer

	windows := d.wm.Windows()
	visible := 0
	for _, w := range windows {
		if w.Minimized() {
			continue
		}
		visible++
		layers = append(layers, d.renderWindow(w))
	}

	if visible == 0 {
		layers = append(layers, d.renderWelcome())
	}

	layers = append(layers, d.renderDock())
	layers = append(layers, d.renderNotifications()...)

	switch {
	case d.helpVisible:
		layers = append(layers, d.renderHelp())
	case d.logVisible:
		layers = append(layers, d.renderLog())
	case d.confirmQuit:
		layers = append(layers, d.renderQuitConfirm())
	case d.renaming:
		layers = append(layers, d.renderRenamePrompt())
	}

	canvas.Compose(lipgloss.NewCompositor(layers...))
	return canvas
}

func (d *Desktop) renderWindow(w *wm.Window) *lipgloss.Layer {
	focused := w.ID == d.wm.ActiveID()

	borderColor := theme.BorderUnfocused()
	if focused {
		if d.mode == ModeTerminal {
			borderColor = theme.BorderFocusedTerminal()
		} else {
			borderColor = theme.BorderFocusedWindow()
		}
	}

	content := w.Content
	if w.Screen != nil {
		content = w.Screen.Render(focused && d.mode == ModeTerminal)
	}

	box := lipgloss.NewStyle().
		Align(lipgloss.Left).
		AlignVertical(lipgloss.Top).
		Border(borderStyle(d.cfg.Appearance.BorderStyle)).
		BorderTop(false).
		BorderForeground(borderColor).
		Width(w.Bounds.Width - 2).
		Height(w.Bounds.Height - 2)

	body := box.Render(content)
	top := d.renderTitleBar(w, borderColor, focused)

	return lipgloss.NewLayer(top + "\n" + body).
		X(w.Bounds.X).
		Y(w.Bounds.Y).
		Z(w.Z).
		ID(w.ID)
}

// renderTitleBar builds the top border with the title and the window
// buttons embedded. Button cells line up with the mouse hit offsets.
func (d *Desktop) renderTitleBar(w *wm.Window, borderColor color.Color, focused bool) string {
	b := borderStyle(d.cfg.Appearance.BorderStyle)
	width := w.Bounds.Width
	lineStyle := lipgloss.NewStyle().Foreground(borderColor)
	buttonStyle := lipgloss.NewStyle().Foreground(theme.ButtonFg())
	if !focused {
		buttonStyle = lineStyle
	}

	minGlyph, maxGlyph, closeGlyph := b.Top, b.Top, b.Top
	if w.Minimizable {
		minGlyph = "–"
	}
	if w.Maximizable {
		maxGlyph = "□"
	}
	if w.Closable {
		closeGlyph = "×"
	}

	// Tail occupies the last eight cells before the corner so the close,
	// maximize and minimize glyphs land on fixed offsets from the right.
	title := w.Title
	maxTitle := width - 2 - 8 - 4
	if maxTitle < 0 {
		maxTitle = 0
	}
	title = ansi.Truncate(title, maxTitle, "…")

	var sb strings.Builder
	sb.WriteString(lineStyle.Render(b.TopLeft + b.Top + " "))
	sb.WriteString(lipgloss.NewStyle().Foreground(borderColor).Bold(focused).Render(title))
	sb.WriteString(lineStyle.Render(" "))

	used := 2 + 1 + ansi.StringWidth(title) + 1
	fill := width - used - 8 - 1
	if fill > 0 {
		sb.WriteString(lineStyle.Render(strings.Repeat(b.Top, fill)))
	}

	sb.WriteString(lineStyle.Render(b.Top))
	sb.WriteString(buttonStyle.Render(minGlyph))
	sb.WriteString(lineStyle.Render(b.Top))
	sb.WriteString(buttonStyle.Render(maxGlyph))
	sb.WriteString(lineStyle.Render(b.Top))
	sb.WriteString(buttonStyle.Render(closeGlyph))
	sb.WriteString(lineStyle.Render(b.Top + b.TopRight))
	return sb.String()
}

func (d *Desktop) renderWelcome() *lipgloss.Layer {
	title := lipgloss.NewStyle().
		Foreground(theme.DockHighlight()).
		Bold(true).
		Render("h a c k d e s k")
	hint := lipgloss.NewStyle().
		Foreground(theme.DockDimmed()).
		Render("Press 'n' to open a terminal, '?' for help")

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", hint)
	w := lipgloss.Width(content)
	h := lipgloss.Height(content)
	return lipgloss.NewLayer(content).
		X((d.width - w) / 2).
		Y((d.height - config.DockHeight - h) / 2).
		Z(0).
		ID("welcome")
}

func borderStyle(name string) lipgloss.Border {
	switch name {
	case "normal":
		return lipgloss.NormalBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "thick":
		return lipgloss.ThickBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}
