// Package editor implements the full-screen text editor hosted by the
// terminal application framework: a line buffer with a clamped cursor,
// follow-the-cursor scrolling, wrapping incremental search, and the
// save/exit flows built on the host's modal primitives.
package editor

import (
	"fmt"
	"strings"

	"hackdesk/internal/shell"
	"hackdesk/internal/term"
	"hackdesk/internal/termapp"
)

// Editor is the application state. The cursor column is clamped to
// [0, len(line)] and re-clamped after every vertical move so it never
// points past the end of the current line.
type Editor struct {
	host *termapp.Host
	ctx  *shell.Context

	lines []string
	cx    int // rune column
	cy    int // line index
	want  int // preferred column for vertical moves

	scroll   int
	path     string
	modified bool
	readOnly bool
	status   string

	lastQuery string
}

// New returns an editor with a single empty line.
func New() *Editor {
	return &Editor{lines: []string{""}}
}

// Setup loads the file named in args (if any) and installs the key
// bindings. The token "--readonly" opens the buffer read-only.
func (e *Editor) Setup(h *termapp.Host, args []string, ctx *shell.Context) error {
	e.host = h
	e.ctx = ctx

	for _, arg := range args {
		if arg == "--readonly" {
			e.readOnly = true
			continue
		}
		if e.path == "" {
			e.path = ctx.Resolve(arg)
		}
	}

	if e.path != "" && ctx.FS.Exists(e.path) {
		data, err := ctx.FS.ReadFile(e.path)
		if err != nil {
			return err
		}
		e.SetText(string(data))
	}

	h.Bind("up", func() { e.MoveCursor(0, -1); e.Render() })
	h.Bind("down", func() { e.MoveCursor(0, 1); e.Render() })
	h.Bind("left", func() { e.MoveCursor(-1, 0); e.Render() })
	h.Bind("right", func() { e.MoveCursor(1, 0); e.Render() })
	h.Bind("home", func() { e.MoveTo(0, e.cy); e.Render() })
	h.Bind("end", func() { e.MoveTo(len([]rune(e.lines[e.cy])), e.cy); e.Render() })
	h.Bind("pgup", func() { e.MoveCursor(0, -e.viewHeight()); e.Render() })
	h.Bind("pgdown", func() { e.MoveCursor(0, e.viewHeight()); e.Render() })
	h.Bind("enter", func() { e.InsertNewline(); e.Render() })
	h.Bind("backspace", func() { e.Backspace(); e.Render() })
	h.Bind("delete", func() { e.Delete(); e.Render() })
	h.Bind("ctrl+s", func() { e.save(); e.Render() })
	h.Bind("ctrl+f", func() { e.searchPrompt(); e.Render() })
	h.Bind("ctrl+g", func() { e.searchAgain(); e.Render() })
	h.Bind("ctrl+q", e.requestExit)
	h.Bind("esc", e.requestExit)
	return nil
}

// HandleKey inserts printable tokens; everything else is ignored.
func (e *Editor) HandleKey(token string) {
	if text := term.TokenText(token); text != "" {
		for _, r := range text {
			e.InsertRune(r)
		}
		e.Render()
	}
}

// OnExit has nothing to release; the host clears the surface.
func (e *Editor) OnExit() {}

// SetText replaces the buffer and resets the cursor.
func (e *Editor) SetText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	e.lines = strings.Split(text, "\n")
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	e.cx, e.cy, e.want, e.scroll = 0, 0, 0, 0
	e.modified = false
}

// Text returns the buffer joined with newlines.
func (e *Editor) Text() string {
	return strings.Join(e.lines, "\n")
}

// Lines returns the buffer.
func (e *Editor) Lines() []string { return e.lines }

// Cursor returns the (column, line) position.
func (e *Editor) Cursor() (x, y int) { return e.cx, e.cy }

// Scroll returns the first visible line.
func (e *Editor) Scroll() int { return e.scroll }

// Modified reports unsaved changes.
func (e *Editor) Modified() bool { return e.modified }

// Path returns the resolved file path, empty for a scratch buffer.
func (e *Editor) Path() string { return e.path }

// SetReadOnly toggles read-only mode.
func (e *Editor) SetReadOnly(ro bool) { e.readOnly = ro }

// Status returns the last status message.
func (e *Editor) Status() string { return e.status }

func (e *Editor) lineLen(y int) int {
	return len([]rune(e.lines[y]))
}

// MoveTo places the cursor, clamping to the buffer.
func (e *Editor) MoveTo(x, y int) {
	if y < 0 {
		y = 0
	}
	if y > len(e.lines)-1 {
		y = len(e.lines) - 1
	}
	e.cy = y
	if x < 0 {
		x = 0
	}
	if max := e.lineLen(y); x > max {
		x = max
	}
	e.cx = x
	e.want = x
	e.followCursor()
}

// MoveCursor moves relative. Horizontal moves clamp to the line and set
// the preferred column; vertical moves re-clamp against the new line but
// remember the preferred column, so moving through a short line does not
// permanently shorten the cursor position.
func (e *Editor) MoveCursor(dx, dy int) {
	if dx != 0 {
		e.MoveTo(e.cx+dx, e.cy)
		return
	}
	y := e.cy + dy
	if y < 0 {
		y = 0
	}
	if y > len(e.lines)-1 {
		y = len(e.lines) - 1
	}
	e.cy = y
	x := e.want
	if max := e.lineLen(y); x > max {
		x = max
	}
	e.cx = x
	e.followCursor()
}

func (e *Editor) viewHeight() int {
	if e.host == nil {
		return 24
	}
	_, h := e.host.Size()
	if h <= 1 {
		return 1
	}
	return h - 1 // bottom row is the status bar
}

// followCursor adjusts scroll so the cursor line stays visible.
func (e *Editor) followCursor() {
	view := e.viewHeight()
	if e.cy < e.scroll {
		e.scroll = e.cy
	}
	if e.cy >= e.scroll+view {
		e.scroll = e.cy - view + 1
	}
	if e.scroll < 0 {
		e.scroll = 0
	}
}

func (e *Editor) blockReadOnly() bool {
	if e.readOnly {
		e.status = "Buffer is read-only"
		return true
	}
	return false
}

// InsertRune inserts r at the cursor.
func (e *Editor) InsertRune(r rune) {
	if e.blockReadOnly() {
		return
	}
	line := []rune(e.lines[e.cy])
	line = append(line[:e.cx], append([]rune{r}, line[e.cx:]...)...)
	e.lines[e.cy] = string(line)
	e.cx++
	e.want = e.cx
	e.modified = true
}

// InsertNewline splits the current line at the cursor.
func (e *Editor) InsertNewline() {
	if e.blockReadOnly() {
		return
	}
	line := []rune(e.lines[e.cy])
	before, after := string(line[:e.cx]), string(line[e.cx:])
	e.lines[e.cy] = before
	e.lines = append(e.lines[:e.cy+1], append([]string{after}, e.lines[e.cy+1:]...)...)
	e.cy++
	e.cx = 0
	e.want = 0
	e.modified = true
	e.followCursor()
}

// Backspace deletes before the cursor, joining with the previous line at
// column zero.
func (e *Editor) Backspace() {
	if e.blockReadOnly() {
		return
	}
	if e.cx > 0 {
		line := []rune(e.lines[e.cy])
		e.lines[e.cy] = string(append(line[:e.cx-1], line[e.cx:]...))
		e.cx--
		e.want = e.cx
		e.modified = true
		return
	}
	if e.cy == 0 {
		return
	}
	prevLen := e.lineLen(e.cy - 1)
	e.lines[e.cy-1] += e.lines[e.cy]
	e.lines = append(e.lines[:e.cy], e.lines[e.cy+1:]...)
	e.cy--
	e.cx = prevLen
	e.want = e.cx
	e.modified = true
	e.followCursor()
}

// Delete removes the rune under the cursor, joining with the next line
// at end of line.
func (e *Editor) Delete() {
	if e.blockReadOnly() {
		return
	}
	line := []rune(e.lines[e.cy])
	if e.cx < len(line) {
		e.lines[e.cy] = string(append(line[:e.cx], line[e.cx+1:]...))
		e.modified = true
		return
	}
	if e.cy == len(e.lines)-1 {
		return
	}
	e.lines[e.cy] += e.lines[e.cy+1]
	e.lines = append(e.lines[:e.cy+1], e.lines[e.cy+2:]...)
	e.modified = true
}

// FindNext searches for query starting one position after the cursor,
// wrapping around the buffer exactly once. It reports the match position
// without moving the cursor.
func (e *Editor) FindNext(query string) (line, col int, found bool) {
	if query == "" {
		return 0, 0, false
	}

	// Rest of the current line, one past the cursor.
	start := e.cx + 1
	if runes := []rune(e.lines[e.cy]); start <= len(runes) {
		if idx := indexRunes(runes[start:], query); idx >= 0 {
			return e.cy, start + idx, true
		}
	}
	// Following lines, then wrap to the top and finish on the cursor
	// line so every position is visited once.
	for off := 1; off <= len(e.lines); off++ {
		y := (e.cy + off) % len(e.lines)
		if idx := indexRunes([]rune(e.lines[y]), query); idx >= 0 {
			return y, idx, true
		}
	}
	return 0, 0, false
}

func indexRunes(haystack []rune, needle string) int {
	idx := strings.Index(string(haystack), needle)
	if idx < 0 {
		return -1
	}
	return len([]rune(string(haystack)[:idx]))
}

// Search jumps the cursor to the next match and remembers the query.
func (e *Editor) Search(query string) bool {
	line, col, found := e.FindNext(query)
	if !found {
		e.status = "Not found: " + query
		return false
	}
	e.lastQuery = query
	e.MoveTo(col, line)
	e.status = fmt.Sprintf("Match at %d:%d", line+1, col+1)
	return true
}

func (e *Editor) searchPrompt() {
	query, ok := e.host.Prompt("Find")
	if !ok || query == "" {
		e.status = "Search cancelled"
		return
	}
	e.Search(query)
}

func (e *Editor) searchAgain() {
	if e.lastQuery == "" {
		e.status = "No previous search"
		return
	}
	e.Search(e.lastQuery)
}

// save writes the buffer, prompting for a path when none is set. It
// reports whether the buffer ended up saved.
func (e *Editor) save() bool {
	if e.readOnly {
		e.status = "Buffer is read-only"
		return false
	}
	if e.path == "" {
		name, ok := e.host.Prompt("Save as")
		if !ok || name == "" {
			e.status = "Save cancelled"
			return false
		}
		e.path = e.ctx.Resolve(name)
	}
	if err := e.ctx.FS.WriteFile(e.path, []byte(e.Text())); err != nil {
		e.status = "Save failed: " + err.Error()
		return false
	}
	e.modified = false
	e.status = "Saved " + e.path
	return true
}

// requestExit runs the modified-buffer flow: save and exit, discard and
// exit, or stay.
func (e *Editor) requestExit() {
	if !e.modified {
		e.host.Exit(0)
		return
	}
	switch e.host.Dialog("Save changes before closing?") {
	case termapp.DialogYes:
		if e.save() {
			e.host.Exit(0)
		} else {
			e.Render()
		}
	case termapp.DialogNo:
		e.host.Exit(0)
	case termapp.DialogCancel:
		e.Render()
	}
}

// Render paints the visible slice of the buffer and the status bar.
func (e *Editor) Render() {
	if e.host == nil {
		return
	}
	w, _ := e.host.Size()
	view := e.viewHeight()

	e.host.Clear()
	for row := 0; row < view; row++ {
		y := e.scroll + row
		if y >= len(e.lines) {
			e.host.WriteAt(0, row, "~")
			continue
		}
		line := e.lines[y]
		if runes := []rune(line); len(runes) > w {
			line = string(runes[:w])
		}
		e.host.WriteAt(0, row, line)
	}

	name := e.path
	if name == "" {
		name = "[scratch]"
	}
	marker := ""
	if e.modified {
		marker = " [+]"
	}
	if e.readOnly {
		marker = " [ro]"
	}
	left := fmt.Sprintf("%s%s  %d:%d", name, marker, e.cy+1, e.cx+1)
	if e.status != "" {
		left += "  " + e.status
	}
	e.host.StatusBar([]termapp.StatusItem{
		{Key: "^S", Description: "save"},
		{Key: "^F", Description: "find"},
		{Key: "^Q", Description: "quit"},
		{Key: "", Description: left},
	})

	e.host.MoveTo(e.cx, e.cy-e.scroll)
}
