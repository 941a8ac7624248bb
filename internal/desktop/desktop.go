// Package desktop is the bubbletea program tying everything together: it
// routes input to the window manager or the focused application, drives
// drag and resize sessions, renders the canvas, and reaps the processes
// behind closed windows.
package desktop

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"hackdesk/internal/apps"
	"hackdesk/internal/config"
	"hackdesk/internal/proc"
	"hackdesk/internal/shell"
	"hackdesk/internal/sysinfo"
	"hackdesk/internal/term"
	"hackdesk/internal/vfs"
	"hackdesk/internal/wm"
)

// InputMode selects where keystrokes go.
type InputMode int

const (
	// ModeWindow: keys drive window management.
	ModeWindow InputMode = iota
	// ModeTerminal: keys go to the focused window's application.
	ModeTerminal
)

// LogLevel classifies in-app log messages.
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarn
	LogLevelError
)

// LogMessage is one entry in the in-app log ring buffer.
type LogMessage struct {
	Time    time.Time
	Level   LogLevel
	Message string
}

// Notification is a transient dock-corner message.
type Notification struct {
	Message string
	Level   LogLevel
	Expires time.Time
}

const (
	maxLogMessages      = 200
	notificationTTL     = 3 * time.Second
	sysinfoInterval     = 500 * time.Millisecond
	closeNoticesPerTick = 16
)

// TickMsg drives the frame loop.
type TickMsg time.Time

// ConfigReloadedMsg carries a hot-reloaded config into the event loop.
type ConfigReloadedMsg struct {
	Config *config.UserConfig
}

// windowExitMsg arrives when a session goroutine finishes.
type windowExitMsg struct {
	windowID string
}

// Desktop is the top-level model.
type Desktop struct {
	cfg  *config.UserConfig
	keys *config.KeybindRegistry

	wm      *wm.Manager
	fs      *vfs.FS
	procs   *proc.Table
	apps    *apps.Registry
	shellRg *shell.Registry
	sampler *sysinfo.Sampler

	width  int
	height int

	mode        InputMode
	helpVisible bool
	logVisible  bool
	confirmQuit bool

	renaming  bool
	renameBuf string

	notifications []Notification
	logs          []LogMessage

	// Session goroutines report their window here; a command drains it.
	windowExits chan string

	termCount int
}

// renderNotifier implements wm.RenderAdapter. The frame loop repaints
// every tick, so notifications only need to exist; they are the seam
// tests hook into.
type renderNotifier struct {
	changed func(id string)
	closed  func(id string)
}

func (r renderNotifier) WindowChanged(id string) {
	if r.changed != nil {
		r.changed(id)
	}
}

func (r renderNotifier) WindowClosed(id string) {
	if r.closed != nil {
		r.closed(id)
	}
}

// New builds a desktop over fresh collaborator instances.
func New(cfg *config.UserConfig) *Desktop {
	registry := shell.NewRegistry()
	shell.RegisterBuiltins(registry)

	d := &Desktop{
		cfg:         cfg,
		keys:        config.NewKeybindRegistry(cfg),
		fs:          vfs.Seed(),
		procs:       proc.NewTable(),
		apps:        apps.Default(),
		shellRg:     registry,
		sampler:     sysinfo.NewSampler(sysinfoInterval),
		windowExits: make(chan string, 16),
		width:       80,
		height:      24,
	}
	d.wm = wm.NewManager(80, 24-config.DockHeight, renderNotifier{})
	return d
}

// ApplyConfig swaps in a hot-reloaded config.
func (d *Desktop) ApplyConfig(cfg *config.UserConfig) {
	d.cfg = cfg
	d.keys = config.NewKeybindRegistry(cfg)
}

// WM exposes the manager for tests.
func (d *Desktop) WM() *wm.Manager { return d.wm }

// Mode returns the current input mode.
func (d *Desktop) Mode() InputMode { return d.mode }

// Init starts the frame loop and the window-exit listener.
func (d *Desktop) Init() tea.Cmd {
	return tea.Batch(d.tick(), d.listenForWindowExits())
}

func (d *Desktop) tick() tea.Cmd {
	return tea.Tick(config.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// listenForWindowExits turns session terminations into messages.
func (d *Desktop) listenForWindowExits() tea.Cmd {
	return func() tea.Msg {
		id := <-d.windowExits
		return windowExitMsg{windowID: id}
	}
}

// OpenTerminal creates a window running a fresh shell session on its
// own goroutine.
func (d *Desktop) OpenTerminal() *wm.Window {
	d.termCount++
	areaW, areaH := d.wm.Area()
	bounds := defaultTerminalBounds(d.termCount, areaW, areaH)

	screen := term.NewScreen(bounds.Width-2, bounds.Height-2)
	screen.SetScrollbackLimit(d.cfg.Appearance.ScrollbackLines)

	w := d.wm.CreateWindow(wm.CreateOptions{
		Title:  "terminal",
		Bounds: bounds,
		Screen: screen,
	})
	pid := d.procs.Spawn("hsh", w.ID, screen.Close)
	w.OwnerPID = pid
	d.wm.SetTitle(w.ID, titleForTerminal(d.termCount))

	session := shell.NewSession(d.fs, d.procs, screen, d.shellRg, d.apps)
	id := w.ID
	go func() {
		session.Run()
		d.windowExits <- id
	}()

	d.LogInfo("spawned " + w.Title)
	return w
}

// Notify queues a transient notification and mirrors it into the log.
func (d *Desktop) Notify(level LogLevel, message string) {
	d.notifications = append(d.notifications, Notification{
		Message: message,
		Level:   level,
		Expires: time.Now().Add(notificationTTL),
	})
	d.log(level, message)
}

// LogInfo, LogWarn and LogError append to the in-app ring buffer.
func (d *Desktop) LogInfo(message string)  { d.log(LogLevelInfo, message) }
func (d *Desktop) LogWarn(message string)  { d.log(LogLevelWarn, message) }
func (d *Desktop) LogError(message string) { d.log(LogLevelError, message) }

func (d *Desktop) log(level LogLevel, message string) {
	d.logs = append(d.logs, LogMessage{Time: time.Now(), Level: level, Message: message})
	if len(d.logs) > maxLogMessages {
		d.logs = d.logs[len(d.logs)-maxLogMessages:]
	}
}

func (d *Desktop) expireNotifications(now time.Time) {
	keep := d.notifications[:0]
	for _, n := range d.notifications {
		if now.Before(n.Expires) {
			keep = append(keep, n)
		}
	}
	d.notifications = keep
}

// reapClosedWindows drains the manager's close notices and kills the
// owner processes, completing the deferred half of CloseWindow.
func (d *Desktop) reapClosedWindows() {
	d.wm.FlushCloseNotices()
	for i := 0; i < closeNoticesPerTick; i++ {
		select {
		case notice := <-d.wm.CloseNotices():
			if d.procs.Kill(notice.OwnerPID) {
				d.LogInfo("reaped process of closed window")
			}
		default:
			return
		}
	}
}
