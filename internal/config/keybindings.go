package config

// Keybinding represents a single keybinding entry for help rendering.
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection groups related keybindings under a heading.
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// GetKeybindings returns the help menu sections. When a registry is
// provided the bindings reflect the user config; otherwise the built-in
// defaults are shown.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	sections := []KeybindingSection{}

	windowMgmt := KeybindingSection{Title: "WINDOW MANAGEMENT"}
	addBinding(&windowMgmt, registry, "new_window", "New terminal window")
	addBinding(&windowMgmt, registry, "close_window", "Close window")
	addBinding(&windowMgmt, registry, "rename_window", "Rename window")
	addBinding(&windowMgmt, registry, "minimize_window", "Minimize window")
	addBinding(&windowMgmt, registry, "restore_all", "Restore all")
	addBinding(&windowMgmt, registry, "maximize_window", "Toggle maximize")
	addBinding(&windowMgmt, registry, "next_window", "Next window")
	addBinding(&windowMgmt, registry, "prev_window", "Previous window")
	if len(windowMgmt.Bindings) > 0 {
		sections = append(sections, windowMgmt)
	}

	snapping := KeybindingSection{Title: "WINDOW SNAPPING"}
	addBinding(&snapping, registry, "snap_left", "Snap to left half")
	addBinding(&snapping, registry, "snap_right", "Snap to right half")
	snapping.Bindings = append(snapping.Bindings,
		Keybinding{"1-4", "Snap to quarters"},
		Keybinding{"u", "Unsnap (restore bounds)"},
	)
	sections = append(sections, snapping)

	modes := KeybindingSection{Title: "MODES"}
	addBinding(&modes, registry, "enter_terminal_mode", "Terminal mode (type into window)")
	modes.Bindings = append(modes.Bindings, Keybinding{"Esc", "Back to window management"})
	addBinding(&modes, registry, "toggle_help", "Toggle help")
	sections = append(sections, modes)

	system := KeybindingSection{Title: "SYSTEM"}
	addBinding(&system, registry, "toggle_log", "Toggle log viewer")
	addBinding(&system, registry, "quit", "Quit")
	sections = append(sections, system)

	sections = append(sections, KeybindingSection{
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"Click", "Focus window"},
			{"Drag title bar", "Move window"},
			{"Drag corner", "Resize window"},
			{"Click dock entry", "Restore minimized window"},
		},
	})

	return sections
}

func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{Key: keys, Description: description})
	}
}
