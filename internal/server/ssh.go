// Package server serves the desktop over SSH so a box can host the
// simulator for remote clients. Every connection gets its own desktop
// with a private filesystem and process table.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/ssh"

	"hackdesk/internal/config"
	"hackdesk/internal/desktop"
)

// Config holds the SSH listener settings.
type Config struct {
	Host    string
	Port    string
	KeyPath string
}

// Start runs the SSH server until ctx is cancelled.
func Start(ctx context.Context, cfg *Config) error {
	hostKeyPath := cfg.KeyPath
	if hostKeyPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		hostKeyPath = filepath.Join(homeDir, ".ssh", "hackdesk_host_key")
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("creating SSH server: %w", err)
	}

	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
			log.Printf("SSH server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down SSH server")
	return server.Shutdown(ctx)
}

// teaHandler builds a fresh desktop per SSH session.
func teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	_, _, active := sess.Pty()
	if !active {
		return nil, nil
	}

	profile := colorprofile.Detect(sess, sess.Environ())
	log.Printf("session from %s: %v", sess.User(), profile)

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config for SSH session unusable, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	return desktop.New(cfg), []tea.ProgramOption{
		tea.WithFPS(config.FPS),
	}
}
