// Package config holds the user-facing configuration: TOML file handling,
// keybinding registry, and the tunable desktop constants.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Desktop tunables. These are compile-time defaults; appearance values can
// be overridden from the config file.
const (
	DefaultWindowWidth  = 84
	DefaultWindowHeight = 24
	DockHeight          = 1
	FPS                 = 30
	TickInterval        = time.Second / FPS
	ClockFormat         = "15:04:05"
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Appearance  AppearanceConfig  `toml:"appearance"`
}

// KeybindingsConfig maps actions to key lists, grouped by concern.
type KeybindingsConfig struct {
	WindowManagement map[string][]string `toml:"window_management"`
	Modes            map[string][]string `toml:"modes"`
	System           map[string][]string `toml:"system"`
}

// AppearanceConfig controls theming and chrome.
type AppearanceConfig struct {
	Theme           string `toml:"theme"`
	BorderStyle     string `toml:"border_style"`
	ShowClock       bool   `toml:"show_clock"`
	ShowSysinfo     bool   `toml:"show_sysinfo"`
	ScrollbackLines int    `toml:"scrollback_lines"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Keybindings: KeybindingsConfig{
			WindowManagement: map[string][]string{
				"new_window":      {"n"},
				"close_window":    {"x"},
				"rename_window":   {"r"},
				"minimize_window": {"m"},
				"restore_all":     {"M"},
				"maximize_window": {"f"},
				"next_window":     {"tab"},
				"prev_window":     {"shift+tab"},
				"snap_left":       {"h"},
				"snap_right":      {"l"},
			},
			Modes: map[string][]string{
				"enter_terminal_mode": {"i", "enter"},
				"toggle_help":         {"?"},
			},
			System: map[string][]string{
				"toggle_log": {"ctrl+l"},
				"quit":       {"q", "ctrl+c"},
			},
		},
		Appearance: AppearanceConfig{
			Theme:           "dracula",
			BorderStyle:     "rounded",
			ShowClock:       true,
			ShowSysinfo:     true,
			ScrollbackLines: 1000,
		},
	}
}

// ConfigPath returns the path of the config file under the XDG config home.
func ConfigPath() (string, error) {
	return xdg.ConfigFile("hackdesk/config.toml")
}

// Load reads the config file, falling back to defaults when it does not
// exist. A malformed file is an error rather than a silent fallback.
func Load() (*UserConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Appearance.ScrollbackLines < 100 {
		cfg.Appearance.ScrollbackLines = 100
	}
	return cfg, nil
}

// Save writes cfg to the config path, creating parent directories.
func Save(cfg *UserConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ActionDescriptions labels every bindable action for help and the
// `keybinds list` command.
var ActionDescriptions = map[string]string{
	"new_window":          "Open a new terminal window",
	"close_window":        "Close the focused window",
	"rename_window":       "Rename the focused window",
	"minimize_window":     "Minimize the focused window to the dock",
	"restore_all":         "Restore all minimized windows",
	"maximize_window":     "Toggle maximize on the focused window",
	"next_window":         "Focus the next window",
	"prev_window":         "Focus the previous window",
	"snap_left":           "Snap the focused window to the left half",
	"snap_right":          "Snap the focused window to the right half",
	"enter_terminal_mode": "Type into the focused window",
	"toggle_help":         "Show or hide the help overlay",
	"toggle_log":          "Show or hide the log viewer",
	"quit":                "Quit the desktop",
}

// KeybindRegistry resolves actions to keys and keys back to actions.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
}

// NewKeybindRegistry builds the lookup tables from cfg. When two actions
// claim the same key the later section wins; sections are applied in the
// order window management, modes, system.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
	}
	for _, section := range []map[string][]string{
		cfg.Keybindings.WindowManagement,
		cfg.Keybindings.Modes,
		cfg.Keybindings.System,
	} {
		for action, keys := range section {
			normalized := make([]string, 0, len(keys))
			for _, k := range keys {
				nk := normalizeKey(k)
				normalized = append(normalized, nk)
				r.keyToAction[nk] = action
			}
			r.actionToKeys[action] = normalized
		}
	}
	return r
}

// GetKeys returns the keys bound to action, or nil.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	return r.keyToAction[normalizeKey(key)]
}

// GetKeysForDisplay returns a comma-joined key list for help text.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.actionToKeys[action], ", ")
}

// normalizeKey lowercases modifier tokens so config entries like "Ctrl+L"
// match the key strings bubbletea reports. Single uppercase letters are
// real bindings (shifted keys) and pass through untouched.
func normalizeKey(key string) string {
	if len(key) == 1 {
		return key
	}
	parts := strings.Split(key, "+")
	for i, p := range parts {
		if len(p) > 1 || i < len(parts)-1 {
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, "+")
}
