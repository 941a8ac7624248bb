package wm

import (
	"hackdesk/internal/config"
	"hackdesk/internal/geometry"
)

// RenderAdapter is how the manager tells the presentation layer that a
// window needs repainting. The desktop supplies the real implementation;
// tests supply fakes.
type RenderAdapter interface {
	WindowChanged(id string)
	WindowClosed(id string)
}

// NopRenderAdapter discards every notification.
type NopRenderAdapter struct{}

func (NopRenderAdapter) WindowChanged(string) {}
func (NopRenderAdapter) WindowClosed(string)  {}

// CloseNotice tells the desktop loop that a closed window had an owner
// process to reap. Notices are delivered through a buffered channel and
// handled by the event loop, never inline from CloseWindow, so a close
// triggered from inside a command handler cannot deadlock on its own
// session teardown.
type CloseNotice struct {
	WindowID string
	OwnerPID int
}

// opKind tracks the single global interaction session: at most one drag
// or resize exists at a time, and starting a new one ends the old.
type opKind int

const (
	opNone opKind = iota
	opDrag
	opResize
)

// Manager owns the window registry. Not safe for concurrent use; every
// call site lives on the desktop event loop goroutine.
type Manager struct {
	width  int
	height int

	windows map[string]*Window
	order   []string // bottom to top
	active  string

	bus      *Bus
	renderer RenderAdapter
	closed   chan CloseNotice
	// Notices that did not fit the channel; flushed as room frees up.
	noticeBacklog []CloseNotice

	op          opKind
	opWindow    string
	dragOffsetX int
	dragOffsetY int
	resizeStart geometry.Rect
	corner      geometry.Corner
}

// NewManager returns a manager over a desktop area of the given size.
func NewManager(width, height int, renderer RenderAdapter) *Manager {
	if renderer == nil {
		renderer = NopRenderAdapter{}
	}
	return &Manager{
		width:    width,
		height:   height,
		windows:  make(map[string]*Window),
		bus:      NewBus(),
		renderer: renderer,
		closed:   make(chan CloseNotice, 64),
	}
}

// Subscribe registers an event listener; see Bus.Subscribe.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	return m.bus.Subscribe(fn)
}

// CloseNotices is drained by the desktop loop to reap owner processes of
// closed windows.
func (m *Manager) CloseNotices() <-chan CloseNotice {
	return m.closed
}

// Area returns the desktop area size.
func (m *Manager) Area() (width, height int) {
	return m.width, m.height
}

// SetArea resizes the desktop area, re-clamping every window and
// re-stretching maximized ones.
func (m *Manager) SetArea(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	m.width = width
	m.height = height
	for _, id := range m.order {
		w := m.windows[id]
		switch w.State {
		case StateMaximized:
			w.Bounds = geometry.Rect{X: 0, Y: 0, Width: width, Height: height}
		case StateNormal:
			w.Bounds = geometry.Clamp(w.Bounds, width, height)
		}
		m.renderer.WindowChanged(id)
	}
}

// Lookup returns the window with the given id.
func (m *Manager) Lookup(id string) (*Window, bool) {
	w, ok := m.windows[id]
	return w, ok
}

// Windows returns the windows bottom to top.
func (m *Manager) Windows() []*Window {
	out := make([]*Window, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.windows[id])
	}
	return out
}

// ActiveID returns the focused window id, or "" when nothing has focus.
// The active window, when set, always exists and is never minimized.
func (m *Manager) ActiveID() string {
	return m.active
}

// Active returns the focused window.
func (m *Manager) Active() (*Window, bool) {
	if m.active == "" {
		return nil, false
	}
	return m.Lookup(m.active)
}

// CreateWindow registers a window and focuses it. Creation always
// succeeds; zero-size bounds get the centered default placement.
func (m *Manager) CreateWindow(opts CreateOptions) *Window {
	w := newWindow(opts)
	if w.Bounds.Width == 0 || w.Bounds.Height == 0 {
		w.Bounds = geometry.Centered(config.DefaultWindowWidth, config.DefaultWindowHeight, m.width, m.height)
	}
	w.Bounds = geometry.Clamp(w.Bounds, m.width, m.height)

	m.windows[w.ID] = w
	m.order = append(m.order, w.ID)
	m.renumber()

	m.bus.Publish(Event{Kind: EventCreated, WindowID: w.ID, Title: w.Title, Bounds: w.Bounds})
	m.ActivateWindow(w.ID)
	return w
}

// ActivateWindow focuses the window and raises it to the top. Missing
// ids and minimized windows are no-ops; activating the already-active
// window still re-raises it but emits no duplicate focus event.
func (m *Manager) ActivateWindow(id string) {
	w, ok := m.windows[id]
	if !ok || w.Minimized() {
		return
	}
	m.raise(id)
	if m.active == id {
		return
	}
	m.active = id
	m.bus.Publish(Event{Kind: EventFocus, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	m.renderer.WindowChanged(id)
}

// CycleActive focuses the next (or previous) non-minimized window in
// z-order.
func (m *Manager) CycleActive(backward bool) {
	visible := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if !m.windows[id].Minimized() {
			visible = append(visible, id)
		}
	}
	if len(visible) == 0 {
		return
	}
	idx := -1
	for i, id := range visible {
		if id == m.active {
			idx = i
			break
		}
	}
	var next string
	if idx < 0 {
		next = visible[len(visible)-1]
	} else if backward {
		next = visible[(idx-1+len(visible))%len(visible)]
	} else {
		next = visible[(idx+1)%len(visible)]
	}
	m.ActivateWindow(next)
}

// MinimizeWindow hides the window and moves focus to the top-most
// remaining window, preserving the focus invariant.
func (m *Manager) MinimizeWindow(id string) {
	w, ok := m.windows[id]
	if !ok || !w.Minimizable || w.Minimized() {
		return
	}
	w.preMinimize.state = w.State
	if w.State == StateMaximized {
		w.preMinimize.bounds = w.restoreBounds
	} else {
		w.preMinimize.bounds = w.Bounds
	}
	w.State = StateMinimized

	if m.active == id {
		m.active = ""
		m.activateTop()
	}
	m.bus.Publish(Event{Kind: EventMinimized, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	m.renderer.WindowChanged(id)
}

// RestoreWindow un-minimizes back to the pre-minimize state: a window
// minimized while maximized comes back maximized.
func (m *Manager) RestoreWindow(id string) {
	w, ok := m.windows[id]
	if !ok || !w.Minimized() {
		return
	}
	if w.preMinimize.state == StateMaximized {
		w.State = StateMaximized
		w.restoreBounds = w.preMinimize.bounds
		w.Bounds = geometry.Rect{X: 0, Y: 0, Width: m.width, Height: m.height}
	} else {
		w.State = StateNormal
		w.Bounds = geometry.Clamp(w.preMinimize.bounds, m.width, m.height)
	}
	m.bus.Publish(Event{Kind: EventRestored, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	m.ActivateWindow(id)
	m.renderer.WindowChanged(id)
}

// RestoreAll un-minimizes everything.
func (m *Manager) RestoreAll() {
	for _, id := range m.snapshotIDs() {
		if w, ok := m.windows[id]; ok && w.Minimized() {
			m.RestoreWindow(id)
		}
	}
}

// MaximizeWindow stretches the window over the whole area, saving the
// normal bounds for restore. Minimized windows must be restored first.
func (m *Manager) MaximizeWindow(id string) {
	w, ok := m.windows[id]
	if !ok || !w.Maximizable || w.State != StateNormal {
		return
	}
	w.restoreBounds = w.Bounds
	w.State = StateMaximized
	w.Bounds = geometry.Rect{X: 0, Y: 0, Width: m.width, Height: m.height}
	m.bus.Publish(Event{Kind: EventMaximized, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	m.ActivateWindow(id)
	m.renderer.WindowChanged(id)
}

// UnmaximizeWindow returns a maximized window to its saved bounds.
func (m *Manager) UnmaximizeWindow(id string) {
	w, ok := m.windows[id]
	if !ok || w.State != StateMaximized {
		return
	}
	w.State = StateNormal
	w.Bounds = geometry.Clamp(w.restoreBounds, m.width, m.height)
	w.restoreBounds = geometry.Rect{}
	m.bus.Publish(Event{Kind: EventUnmaximized, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	m.ActivateWindow(id)
	m.renderer.WindowChanged(id)
}

// ToggleMaximizeWindow flips between maximized and normal.
func (m *Manager) ToggleMaximizeWindow(id string) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	if w.Maximized() {
		m.UnmaximizeWindow(id)
	} else {
		m.MaximizeWindow(id)
	}
}

// CloseWindow removes the window. Closing an unknown id is a no-op, so
// double-close is safe. The owner process is reported through the close
// notice channel for the desktop loop to reap later, never killed inline.
func (m *Manager) CloseWindow(id string) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	delete(m.windows, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.renumber()

	if w.Screen != nil {
		w.Screen.Close()
	}
	if m.active == id {
		m.active = ""
		m.activateTop()
	}

	m.bus.Publish(Event{Kind: EventClosed, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	m.renderer.WindowClosed(id)

	if w.OwnerPID != 0 {
		m.noticeBacklog = append(m.noticeBacklog, CloseNotice{WindowID: id, OwnerPID: w.OwnerPID})
		m.FlushCloseNotices()
	}
}

// FlushCloseNotices moves backlogged close notices into the channel as
// room frees up, so no owner process is ever lost to a full channel. The
// desktop loop calls this before each drain.
func (m *Manager) FlushCloseNotices() {
	for len(m.noticeBacklog) > 0 {
		select {
		case m.closed <- m.noticeBacklog[0]:
			m.noticeBacklog = m.noticeBacklog[1:]
		default:
			return
		}
	}
}

// CloseAllWindows closes every window. The id list is snapshotted first
// so closing does not disturb iteration.
func (m *Manager) CloseAllWindows() {
	for _, id := range m.snapshotIDs() {
		m.CloseWindow(id)
	}
}

// SetTitle renames the window.
func (m *Manager) SetTitle(id, title string) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	w.Title = title
	m.bus.Publish(Event{Kind: EventTitleChanged, WindowID: id, Title: title, Bounds: w.Bounds})
	m.renderer.WindowChanged(id)
}

// SetContent replaces the static body of a window without a screen.
func (m *Manager) SetContent(id, content string) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	w.Content = content
	m.renderer.WindowChanged(id)
}

// SnapWindow places the window into a snap slot.
func (m *Manager) SnapWindow(id string, q geometry.Quarter) {
	w, ok := m.windows[id]
	if !ok || w.Minimized() {
		return
	}
	if w.State == StateMaximized {
		w.State = StateNormal
	}
	w.Bounds = geometry.QuarterRect(q, m.width, m.height)
	m.bus.Publish(Event{Kind: EventMoved, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	m.renderer.WindowChanged(id)
}

// StartDrag begins a move session anchored at the grab point, implicitly
// ending any in-flight drag or resize. It fails silently when the window
// cannot move.
func (m *Manager) StartDrag(id string, x, y int) {
	w, ok := m.windows[id]
	if !ok || w.State != StateNormal {
		return
	}
	m.endOperation()
	m.op = opDrag
	m.opWindow = id
	m.dragOffsetX = x - w.Bounds.X
	m.dragOffsetY = y - w.Bounds.Y
	m.ActivateWindow(id)
}

// DragTo moves the dragged window so the grab point follows the pointer,
// clamped and edge-snapped per move.
func (m *Manager) DragTo(x, y int) {
	if m.op != opDrag {
		return
	}
	w, ok := m.windows[m.opWindow]
	if !ok {
		m.op = opNone
		return
	}
	candidate := w.Bounds
	candidate.X = x - m.dragOffsetX
	candidate.Y = y - m.dragOffsetY
	w.Bounds = geometry.ClampAndSnap(candidate, m.width, m.height)
	m.renderer.WindowChanged(w.ID)
}

// EndDrag finishes the move session and emits the final Moved event.
func (m *Manager) EndDrag() {
	if m.op != opDrag {
		return
	}
	id := m.opWindow
	m.op = opNone
	m.opWindow = ""
	if w, ok := m.windows[id]; ok {
		m.bus.Publish(Event{Kind: EventMoved, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	}
}

// StartResize begins a resize session anchored at a corner, implicitly
// ending any in-flight drag or resize.
func (m *Manager) StartResize(id string, corner geometry.Corner) {
	w, ok := m.windows[id]
	if !ok || !w.Resizable || w.State != StateNormal || corner == geometry.CornerNone {
		return
	}
	m.endOperation()
	m.op = opResize
	m.opWindow = id
	m.corner = corner
	m.resizeStart = w.Bounds
	m.ActivateWindow(id)
}

// ResizeTo recomputes bounds for the pointer position, holding the
// opposite corner fixed and respecting minimum sizes.
func (m *Manager) ResizeTo(x, y int) {
	if m.op != opResize {
		return
	}
	w, ok := m.windows[m.opWindow]
	if !ok {
		m.op = opNone
		return
	}
	r := geometry.ResizeFromCorner(m.resizeStart, m.corner, x, y)
	w.Bounds = geometry.Clamp(r, m.width, m.height)
	if w.Screen != nil {
		w.Screen.Resize(innerWidth(w.Bounds), innerHeight(w.Bounds))
	}
	m.renderer.WindowChanged(w.ID)
}

// EndResize finishes the resize session and emits the final Resized
// event.
func (m *Manager) EndResize() {
	if m.op != opResize {
		return
	}
	id := m.opWindow
	m.op = opNone
	m.opWindow = ""
	if w, ok := m.windows[id]; ok {
		m.bus.Publish(Event{Kind: EventResized, WindowID: id, Title: w.Title, Bounds: w.Bounds})
	}
}

// endOperation finishes whatever drag or resize session is in flight,
// emitting its final event.
func (m *Manager) endOperation() {
	switch m.op {
	case opDrag:
		m.EndDrag()
	case opResize:
		m.EndResize()
	}
}

// Dragging reports whether a drag session is active.
func (m *Manager) Dragging() bool { return m.op == opDrag }

// Resizing reports whether a resize session is active.
func (m *Manager) Resizing() bool { return m.op == opResize }

// OperationWindow returns the window of the active drag or resize
// session.
func (m *Manager) OperationWindow() string { return m.opWindow }

// innerWidth and innerHeight are the surface dimensions inside the
// window border.
func innerWidth(r geometry.Rect) int {
	if r.Width < 2 {
		return 1
	}
	return r.Width - 2
}

func innerHeight(r geometry.Rect) int {
	if r.Height < 2 {
		return 1
	}
	return r.Height - 2
}

func (m *Manager) snapshotIDs() []string {
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

// raise moves id to the top of the z-order.
func (m *Manager) raise(id string) {
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			m.order = append(m.order, id)
			m.renumber()
			return
		}
	}
}

// renumber keeps Window.Z equal to the stacking position.
func (m *Manager) renumber() {
	for i, id := range m.order {
		m.windows[id].Z = i
	}
}

// activateTop focuses the top-most non-minimized window, or leaves focus
// empty when there is none.
func (m *Manager) activateTop() {
	for i := len(m.order) - 1; i >= 0; i-- {
		if w := m.windows[m.order[i]]; !w.Minimized() {
			m.ActivateWindow(w.ID)
			return
		}
	}
}
