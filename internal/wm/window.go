// Package wm owns window records, z-order, focus, and the window
// lifecycle. It never draws; rendering is delegated to the injected
// RenderAdapter and all methods are called from the desktop event loop.
package wm

import (
	"github.com/google/uuid"

	"hackdesk/internal/geometry"
	"hackdesk/internal/term"
)

// WindowState is the mutually exclusive display state.
type WindowState int

const (
	StateNormal WindowState = iota
	StateMinimized
	StateMaximized
)

// Window is one managed window. Capability flags are fixed at creation;
// everything else mutates through the manager so events and the render
// adapter stay in sync.
type Window struct {
	ID     string
	Title  string
	Bounds geometry.Rect
	State  WindowState
	Z      int

	Resizable   bool
	Minimizable bool
	Maximizable bool
	Closable    bool

	// OwnerPID links the window to its process table entry; zero means
	// no owner.
	OwnerPID int

	// Screen is the surface of the hosted application, nil for windows
	// that only show static content.
	Screen *term.Screen

	// Content is the fallback body for windows without a screen.
	Content string

	// restoreBounds holds the normal bounds while maximized.
	restoreBounds geometry.Rect

	// preMinimize remembers what to restore to: the state before
	// minimizing (Normal or Maximized) and the normal bounds.
	preMinimize struct {
		state  WindowState
		bounds geometry.Rect
	}
}

// CreateOptions configures CreateWindow. A zero-size Bounds asks for the
// centered default placement.
type CreateOptions struct {
	Title    string
	Bounds   geometry.Rect
	OwnerPID int
	Screen   *term.Screen

	// Capabilities default to enabled; set the Not* fields to strip one.
	NotResizable   bool
	NotMinimizable bool
	NotMaximizable bool
	NotClosable    bool
}

func newWindow(opts CreateOptions) *Window {
	return &Window{
		ID:          uuid.NewString(),
		Title:       opts.Title,
		Bounds:      opts.Bounds,
		OwnerPID:    opts.OwnerPID,
		Screen:      opts.Screen,
		Resizable:   !opts.NotResizable,
		Minimizable: !opts.NotMinimizable,
		Maximizable: !opts.NotMaximizable,
		Closable:    !opts.NotClosable,
	}
}

// Minimized reports whether the window is minimized.
func (w *Window) Minimized() bool { return w.State == StateMinimized }

// Maximized reports whether the window is maximized.
func (w *Window) Maximized() bool { return w.State == StateMaximized }
