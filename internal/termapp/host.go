// Package termapp is the framework for full-screen applications that run
// inside a terminal window, such as the editor. The host owns the app
// lifecycle, key dispatch, and the modal interaction primitives; apps
// draw through the host's primitives and never touch ANSI directly.
package termapp

import (
	"errors"

	"hackdesk/internal/shell"
	"hackdesk/internal/term"
)

// App is a full-screen application. The host calls Setup once before the
// event loop, Render after every state change, HandleKey for tokens with
// no binding, and OnExit exactly once on the way out.
type App interface {
	Setup(h *Host, args []string, ctx *shell.Context) error
	HandleKey(token string)
	Render()
	OnExit()
}

// State is the host lifecycle. Transitions are one-way:
// Idle -> Running -> Terminated.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

// Mode is the current interaction mode. Modal primitives switch modes so
// the active key table is always inspectable.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeDialog
	ModeMessage
)

// ErrNoTerminal is returned when the context has no attached surface.
var ErrNoTerminal = errors.New("termapp: context has no terminal surface")

type event struct {
	key    string
	resize bool
	width  int
	height int
	closed bool
}

// Host runs one App over one surface. It lives on the session goroutine;
// resize notifications from the desktop are funneled through an event
// channel so app code only ever runs on this goroutine.
type Host struct {
	app    App
	ctx    *shell.Context
	screen *term.Screen

	state    State
	mode     Mode
	exitCode int

	width  int
	height int

	bindings map[string]func()
	// Modal primitives save the outer bindings and mode here.
	stack []savedInteraction

	resizeCh chan event
}

type savedInteraction struct {
	mode     Mode
	bindings map[string]func()
}

// NewHost returns an idle host for app.
func NewHost(app App) *Host {
	return &Host{
		app:      app,
		bindings: make(map[string]func()),
		resizeCh: make(chan event, 8),
	}
}

// State returns the lifecycle state.
func (h *Host) State() State { return h.state }

// Mode returns the current interaction mode.
func (h *Host) Mode() Mode { return h.mode }

// Size returns the captured surface dimensions.
func (h *Host) Size() (width, height int) { return h.width, h.height }

// Context returns the execution context the app was started with.
func (h *Host) Context() *shell.Context { return h.ctx }

// Bind registers a callback for a key token in the current table.
func (h *Host) Bind(token string, fn func()) {
	h.bindings[token] = fn
}

// Exit requests termination with the given code. It only acts while the
// host is running; calling it twice, or before Run, is a no-op.
func (h *Host) Exit(code int) {
	if h.state != StateRunning {
		return
	}
	h.state = StateTerminated
	h.exitCode = code
}

// Run executes the app and blocks until it exits, returning the exit
// code. A context without a surface terminates immediately with code 1.
func (h *Host) Run(args []string, ctx *shell.Context) int {
	if h.state != StateIdle {
		return h.exitCode
	}
	if ctx == nil || ctx.Term == nil {
		h.state = StateTerminated
		h.exitCode = 1
		return 1
	}

	h.ctx = ctx
	h.screen = ctx.Term
	h.width, h.height = h.screen.Size()
	unsubscribe := h.screen.OnResize(func(w, ht int) {
		select {
		case h.resizeCh <- event{resize: true, width: w, height: ht}:
		default:
		}
	})
	defer unsubscribe()

	h.state = StateRunning
	if err := h.app.Setup(h, args, ctx); err != nil {
		h.state = StateTerminated
		h.exitCode = 1
		h.app.OnExit()
		return 1
	}

	h.app.Render()
	for h.state == StateRunning {
		ev := h.readEvent()
		if ev.closed {
			h.Exit(0)
			break
		}
		if ev.resize {
			h.width, h.height = ev.width, ev.height
			h.app.Render()
			continue
		}
		h.dispatch(ev.key)
	}

	h.app.OnExit()
	h.Clear()
	return h.exitCode
}

// readEvent blocks for the next key or resize. Modal primitives call it
// too, which is safe because they run inside dispatch on this goroutine.
func (h *Host) readEvent() event {
	select {
	case ev := <-h.resizeCh:
		return ev
	case token, ok := <-h.screen.Keys():
		if !ok {
			return event{closed: true}
		}
		return event{key: token}
	}
}

func (h *Host) dispatch(token string) {
	if fn, ok := h.bindings[token]; ok {
		fn()
		return
	}
	h.app.HandleKey(token)
}

// pushInteraction swaps in a fresh key table for a modal primitive.
func (h *Host) pushInteraction(mode Mode) {
	h.stack = append(h.stack, savedInteraction{mode: h.mode, bindings: h.bindings})
	h.mode = mode
	h.bindings = make(map[string]func())
}

// popInteraction restores the table saved by the matching push.
func (h *Host) popInteraction() {
	if len(h.stack) == 0 {
		return
	}
	top := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	h.mode = top.mode
	h.bindings = top.bindings
}
