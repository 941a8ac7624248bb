package desktop

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"hackdesk/internal/config"
	"hackdesk/internal/theme"
)

// renderHelp draws the keybinding reference over the desktop.
func (d *Desktop) renderHelp() *lipgloss.Layer {
	keyStyle := lipgloss.NewStyle().
		Foreground(theme.HelpKeyBadge()).
		Background(theme.HelpKeyBadgeBg()).
		Padding(0, 1)
	descStyle := lipgloss.NewStyle().Foreground(theme.HelpGray())
	titleStyle := lipgloss.NewStyle().Foreground(theme.DockHighlight()).Bold(true)

	sections := config.GetKeybindings(d.keys)

	keyWidth := 0
	for _, section := range sections {
		for _, b := range section.Bindings {
			if w := lipgloss.Width(keyStyle.Render(b.Key)); w > keyWidth {
				keyWidth = w
			}
		}
	}

	var lines []string
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, titleStyle.Render(section.Title))
		for _, b := range section.Bindings {
			badge := keyStyle.Render(b.Key)
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(badge)+2)
			lines = append(lines, badge+pad+descStyle.Render(b.Description))
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.HelpBorder()).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return d.centeredOverlay(box, "help")
}

// renderLog draws the newest entries of the in-app log.
func (d *Desktop) renderLog() *lipgloss.Layer {
	titleStyle := lipgloss.NewStyle().Foreground(theme.LogViewerTitle()).Bold(true)
	timeStyle := lipgloss.NewStyle().Foreground(theme.HelpGray())

	height := d.height - config.DockHeight - 6
	if height < 4 {
		height = 4
	}
	logs := d.logs
	if len(logs) > height {
		logs = logs[len(logs)-height:]
	}

	lines := []string{titleStyle.Render("LOG"), ""}
	if len(logs) == 0 {
		lines = append(lines, timeStyle.Render("nothing logged yet"))
	}
	for _, entry := range logs {
		level := lipgloss.NewStyle().Foreground(theme.LogViewerInfo()).Render("INFO ")
		switch entry.Level {
		case LogLevelWarn:
			level = lipgloss.NewStyle().Foreground(theme.LogViewerWarn()).Render("WARN ")
		case LogLevelError:
			level = lipgloss.NewStyle().Foreground(theme.LogViewerError()).Render("ERROR")
		}
		lines = append(lines, timeStyle.Render(entry.Time.Format("15:04:05"))+" "+level+" "+entry.Message)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.HelpBorder()).
		Background(theme.LogViewerBg()).
		Padding(0, 1).
		Width(d.width * 3 / 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return d.centeredOverlay(box, "log")
}

func (d *Desktop) renderQuitConfirm() *lipgloss.Layer {
	open := len(d.wm.Windows())
	message := "Quit and close " + pluralWindows(open) + "?"
	hint := lipgloss.NewStyle().Foreground(theme.HelpGray()).Render("y to quit, any other key to stay")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.NotificationWarning()).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, message, "", hint))

	return d.centeredOverlay(box, "quit-confirm")
}

func (d *Desktop) renderRenamePrompt() *lipgloss.Layer {
	label := lipgloss.NewStyle().Bold(true).Render("Rename window")
	field := lipgloss.NewStyle().Foreground(theme.DockHighlight()).Render(d.renameBuf + "█")
	hint := lipgloss.NewStyle().Foreground(theme.HelpGray()).Render("enter to apply, esc to cancel")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderFocusedWindow()).
		Padding(0, 2).
		Width(40).
		Render(lipgloss.JoinVertical(lipgloss.Left, label, field, hint))

	return d.centeredOverlay(box, "rename")
}

// renderNotifications stacks transient messages in the top-right corner.
func (d *Desktop) renderNotifications() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	y := 0
	for i, n := range d.notifications {
		accent := theme.NotificationInfo()
		switch n.Level {
		case LogLevelWarn:
			accent = theme.NotificationWarning()
		case LogLevelError:
			accent = theme.NotificationError()
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Background(theme.NotificationBg()).
			Foreground(theme.NotificationFg()).
			Padding(0, 1).
			Render(n.Message)

		layers = append(layers, lipgloss.NewLayer(box).
			X(d.width-lipgloss.Width(box)-1).
			Y(y).
			Z(zNotifications+i).
			ID("notification"))
		y += lipgloss.Height(box)
	}
	return layers
}

func (d *Desktop) centeredOverlay(box, id string) *lipgloss.Layer {
	w := lipgloss.Width(box)
	h := lipgloss.Height(box)
	x := (d.width - w) / 2
	y := (d.height - config.DockHeight - h) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return lipgloss.NewLayer(box).X(x).Y(y).Z(zOverlay).ID(id)
}

func pluralWindows(n int) string {
	if n == 1 {
		return "1 open window"
	}
	return strconv.Itoa(n) + " open windows"
}
