// Package main implements hackdesk, a hacker-movie desktop for the
// terminal: draggable terminal windows over a fake filesystem, a toy
// shell, and a text editor, all rendered as one TUI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/fang"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"hackdesk/internal/config"
	"hackdesk/internal/desktop"
	"hackdesk/internal/server"
	"hackdesk/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hackdesk",
		Short: "A hacker-movie desktop for the terminal",
		Long: `hackdesk - a desktop environment that lives in one terminal

Draggable, resizable terminal windows over a simulated filesystem,
driven by a toy shell with a built-in text editor. Looks the part,
touches nothing real.`,
		Example: `  # Run the desktop
  hackdesk

  # Serve it over SSH
  hackdesk ssh --port 2222

  # Edit configuration
  hackdesk config edit

  # List all keybindings
  hackdesk keybinds list`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal()
		},
		SilenceUsage: true,
	}

	var sshPort, sshHost, sshKeyPath string
	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve the desktop over SSH",
		Long: `Serve the desktop over SSH

Each connection gets its own desktop with a private filesystem and
process table. A host key is generated automatically when none is
specified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(sshHost, sshPort, sshKeyPath)
		},
	}
	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print configuration file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.ConfigPath()
				if err != nil {
					return err
				}
				fmt.Println(path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			RunE: func(cmd *cobra.Command, args []string) error {
				return editConfigFile()
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Reset configuration to defaults",
			RunE: func(cmd *cobra.Command, args []string) error {
				return resetConfig()
			},
		},
	)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}
	keybindsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings()
		},
	})

	rootCmd.AddCommand(sshCmd, configCmd, keybindsCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}

func runLocal() error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config unusable, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	theme.Initialize(cfg.Appearance.Theme)

	d := desktop.New(cfg)
	p := tea.NewProgram(d, tea.WithFPS(config.FPS))

	// Hot-reload the config while the desktop runs. A missing config
	// directory just means nothing to watch.
	stop, err := config.Watch(
		func(fresh *config.UserConfig) {
			theme.Initialize(fresh.Appearance.Theme)
			p.Send(desktop.ConfigReloadedMsg{Config: fresh})
		},
		func(err error) { log.Printf("config reload: %v", err) },
	)
	if err == nil {
		defer stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSSHServer(host, port, keyPath string) error {
	cfg, err := config.Load()
	if err == nil {
		theme.Initialize(cfg.Appearance.Theme)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	if err := server.Start(ctx, &server.Config{Host: host, Port: port, KeyPath: keyPath}); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

func editConfigFile() error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", path)
		if err := config.Save(config.DefaultConfig()); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found, set $EDITOR")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func resetConfig() error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("This will overwrite your existing configuration at:\n  %s\n\n", path)
		fmt.Printf("Reset to defaults? (yes/no): ")
		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	var sb strings.Builder
	sb.WriteString("# hackdesk configuration\n")
	sb.WriteString("# Keybindings map actions to arrays of keys; multiple keys\n")
	sb.WriteString("# can be bound to the same action.\n\n")

	data, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Configuration reset to defaults\n  Location: %s\n", path)
	fmt.Println("\nCustomize it with: hackdesk config edit")
	return nil
}

func listKeybindings() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		cfg = config.DefaultConfig()
	}
	theme.Initialize(cfg.Appearance.Theme)
	registry := config.NewKeybindRegistry(cfg)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.CLITableHeader()).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	keyStyle := cellStyle.Foreground(theme.CLITableKey())

	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Render("hackdesk keybindings"))

	for _, section := range config.GetKeybindings(registry) {
		rows := [][]string{}
		for _, b := range section.Bindings {
			rows = append(rows, []string{b.Key, b.Description})
		}
		if len(rows) == 0 {
			continue
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
			Headers("Keys", section.Title).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 0 {
					return keyStyle
				}
				return cellStyle
			}).
			Rows(rows...)

		fmt.Println(t)
	}
	fmt.Println()
	return nil
}
