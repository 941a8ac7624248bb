// Package term implements the terminal surface a window hands to the
// application running inside it: a cell grid that interprets the escape
// subset the application host emits, an input token channel, and resize
// notification. This is the only package that parses ANSI.
package term

import (
	"strconv"
	"strings"
	"sync"
)

const tabWidth = 8

// DefaultFg and DefaultBg mark cells that use the theme's terminal
// colors rather than a palette entry.
const (
	DefaultFg = -1
	DefaultBg = -1
)

// Cell is a single character cell.
type Cell struct {
	Rune    rune
	Bold    bool
	Inverse bool
	Fg      int // ANSI palette index 0-15, or DefaultFg
	Bg      int
}

type parseState int

const (
	stateGround parseState = iota
	stateEscape
	stateCSI
)

// Screen is the surface for one window. Writes come from the application
// goroutine, resizes and key input from the desktop event loop, so every
// entry point locks.
type Screen struct {
	mu     sync.Mutex
	width  int
	height int
	cells  [][]Cell

	// Rows scrolled off the top, oldest first, capped at scrollbackMax.
	scrollback    [][]Cell
	scrollbackMax int
	// viewOffset > 0 means the viewport shows history. Any new output
	// snaps the view back to the live grid.
	viewOffset int

	cursorX int
	cursorY int

	bold    bool
	inverse bool
	fg      int
	bg      int

	// Escape sequences can straddle Write calls.
	state   parseState
	csi     []byte
	pending []byte // partial utf8 rune

	keys      chan string
	closed    bool
	resizeFns []func(width, height int)
}

// NewScreen returns a blank screen of the given size.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  width,
		height: height,
		fg:     DefaultFg,
		bg:     DefaultBg,
		keys:   make(chan string, 128),
	}
	s.cells = blankGrid(width, height)
	return s
}

func blankGrid(width, height int) [][]Cell {
	grid := make([][]Cell, height)
	for y := range grid {
		grid[y] = blankRow(width)
	}
	return grid
}

func blankRow(width int) []Cell {
	row := make([]Cell, width)
	for x := range row {
		row[x] = Cell{Rune: ' ', Fg: DefaultFg, Bg: DefaultBg}
	}
	return row
}

// Size returns the current dimensions.
func (s *Screen) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SetScrollbackLimit caps how many rows scrolled off the top are kept.
// Zero, the default, disables scrollback entirely.
func (s *Screen) SetScrollbackLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s.scrollbackMax = n
	if len(s.scrollback) > n {
		s.scrollback = s.scrollback[len(s.scrollback)-n:]
	}
	if s.viewOffset > len(s.scrollback) {
		s.viewOffset = len(s.scrollback)
	}
}

// ScrollBy moves the viewport into history. Positive delta scrolls back
// toward older lines, negative toward the live grid.
func (s *Screen) ScrollBy(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewOffset = clamp(s.viewOffset+delta, 0, len(s.scrollback))
}

// ScrollOffset reports how far back into history the viewport sits.
func (s *Screen) ScrollOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewOffset
}

// Cursor returns the cursor cell position.
func (s *Screen) Cursor() (x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorX, s.cursorY
}

// Keys returns the input token channel. Tokens are bubbletea-style key
// strings ("a", "enter", "ctrl+c"). The channel is closed when the
// screen is closed, which unblocks any reader.
func (s *Screen) Keys() <-chan string {
	return s.keys
}

// SendKey delivers an input token to the application. Tokens are dropped
// when the application stops draining its input.
func (s *Screen) SendKey(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.keys <- token:
	default:
	}
}

// Close closes the input channel. Further writes still work so an app can
// paint a farewell, but no more input arrives.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.keys)
}

// OnResize registers fn to run after every Resize. The returned func
// unregisters it; callers that outlive their interest must call it or
// the subscription leaks.
func (s *Screen) OnResize(fn func(width, height int)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeFns = append(s.resizeFns, fn)
	i := len(s.resizeFns) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.resizeFns[i] = nil
	}
}

// Resize changes the grid size, preserving content anchored at the top
// left, then notifies subscribers.
func (s *Screen) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	s.mu.Lock()
	grid := blankGrid(width, height)
	for y := 0; y < height && y < s.height; y++ {
		copy(grid[y], s.cells[y])
	}
	s.cells = grid
	s.width = width
	s.height = height
	s.viewOffset = 0
	if s.cursorX >= width {
		s.cursorX = width - 1
	}
	if s.cursorY >= height {
		s.cursorY = height - 1
	}
	fns := make([]func(int, int), len(s.resizeFns))
	copy(fns, s.resizeFns)
	s.mu.Unlock()

	for _, fn := range fns {
		if fn != nil {
			fn(width, height)
		}
	}
}

// Line returns row y as a plain string with trailing blanks trimmed.
// Used by tests and the dock preview.
func (s *Screen) Line(y int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if y < 0 || y >= s.height {
		return ""
	}
	var b strings.Builder
	for _, c := range s.cells[y] {
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// Write interprets p onto the grid. It implements io.Writer and never
// fails; the application host writes all output through here.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Fresh output snaps the viewport out of history.
	s.viewOffset = 0

	data := p
	if len(s.pending) > 0 {
		data = append(append([]byte{}, s.pending...), p...)
		s.pending = nil
	}

	i := 0
	for i < len(data) {
		switch s.state {
		case stateGround:
			b := data[i]
			if b == 0x1b {
				s.state = stateEscape
				i++
				continue
			}
			if b < 0x20 || b == 0x7f {
				s.control(b)
				i++
				continue
			}
			r, size := decodeRune(data[i:])
			if size == 0 {
				// Partial rune at the end of the chunk.
				s.pending = append(s.pending, data[i:]...)
				return len(p), nil
			}
			s.put(r)
			i += size

		case stateEscape:
			if data[i] == '[' {
				s.state = stateCSI
				s.csi = s.csi[:0]
			} else {
				// Unsupported escape, drop it.
				s.state = stateGround
			}
			i++

		case stateCSI:
			b := data[i]
			i++
			if b >= 0x40 && b <= 0x7e {
				s.dispatchCSI(b)
				s.state = stateGround
			} else {
				s.csi = append(s.csi, b)
			}
		}
	}
	return len(p), nil
}

// decodeRune is utf8.DecodeRune that reports 0 for an incomplete tail so
// the caller can buffer it for the next Write.
func decodeRune(b []byte) (rune, int) {
	if b[0] < 0x80 {
		return rune(b[0]), 1
	}
	var need int
	switch {
	case b[0]&0xe0 == 0xc0:
		need = 2
	case b[0]&0xf0 == 0xe0:
		need = 3
	case b[0]&0xf8 == 0xf0:
		need = 4
	default:
		return '�', 1
	}
	if len(b) < need {
		return 0, 0
	}
	r := rune(b[0] & (0xff >> (need + 1)))
	for i := 1; i < need; i++ {
		if b[i]&0xc0 != 0x80 {
			return '�', 1
		}
		r = r<<6 | rune(b[i]&0x3f)
	}
	return r, need
}

func (s *Screen) control(b byte) {
	switch b {
	case '\r':
		s.cursorX = 0
	case '\n':
		s.lineFeed()
	case '\b':
		if s.cursorX > 0 {
			s.cursorX--
		}
	case '\t':
		next := (s.cursorX/tabWidth + 1) * tabWidth
		if next >= s.width {
			next = s.width - 1
		}
		s.cursorX = next
	}
}

func (s *Screen) lineFeed() {
	if s.cursorY < s.height-1 {
		s.cursorY++
		return
	}
	// Scroll up one line, pushing the top row into history.
	if s.scrollbackMax > 0 {
		s.scrollback = append(s.scrollback, s.cells[0])
		if len(s.scrollback) > s.scrollbackMax {
			s.scrollback = s.scrollback[len(s.scrollback)-s.scrollbackMax:]
		}
	}
	copy(s.cells, s.cells[1:])
	s.cells[s.height-1] = blankRow(s.width)
}

func (s *Screen) put(r rune) {
	if s.cursorX >= s.width {
		s.cursorX = 0
		s.lineFeed()
	}
	s.cells[s.cursorY][s.cursorX] = Cell{
		Rune:    r,
		Bold:    s.bold,
		Inverse: s.inverse,
		Fg:      s.fg,
		Bg:      s.bg,
	}
	s.cursorX++
}

func (s *Screen) dispatchCSI(final byte) {
	params := parseParams(s.csi)
	switch final {
	case 'H', 'f': // CUP: row;col, 1-based
		row := paramAt(params, 0, 1)
		col := paramAt(params, 1, 1)
		s.cursorY = clamp(row-1, 0, s.height-1)
		s.cursorX = clamp(col-1, 0, s.width-1)
	case 'A':
		s.cursorY = clamp(s.cursorY-paramAt(params, 0, 1), 0, s.height-1)
	case 'B':
		s.cursorY = clamp(s.cursorY+paramAt(params, 0, 1), 0, s.height-1)
	case 'C':
		s.cursorX = clamp(s.cursorX+paramAt(params, 0, 1), 0, s.width-1)
	case 'D':
		s.cursorX = clamp(s.cursorX-paramAt(params, 0, 1), 0, s.width-1)
	case 'J':
		s.eraseDisplay(paramAt(params, 0, 0))
	case 'K':
		s.eraseLine(paramAt(params, 0, 0))
	case 'm':
		s.setAttributes(params)
	}
}

func parseParams(raw []byte) []int {
	str := string(raw)
	if str == "" {
		return nil
	}
	// Private-mode sequences are not part of the supported subset.
	if str[0] == '?' {
		return nil
	}
	parts := strings.Split(str, ";")
	params := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		params = append(params, n)
	}
	return params
}

func paramAt(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Screen) eraseDisplay(mode int) {
	switch mode {
	case 0: // cursor to end
		s.eraseLine(0)
		for y := s.cursorY + 1; y < s.height; y++ {
			s.cells[y] = blankRow(s.width)
		}
	case 1: // start to cursor
		s.eraseLine(1)
		for y := 0; y < s.cursorY; y++ {
			s.cells[y] = blankRow(s.width)
		}
	case 2:
		s.cells = blankGrid(s.width, s.height)
	}
}

func (s *Screen) eraseLine(mode int) {
	row := s.cells[s.cursorY]
	switch mode {
	case 0:
		for x := s.cursorX; x < s.width; x++ {
			row[x] = Cell{Rune: ' ', Fg: DefaultFg, Bg: DefaultBg}
		}
	case 1:
		for x := 0; x <= s.cursorX && x < s.width; x++ {
			row[x] = Cell{Rune: ' ', Fg: DefaultFg, Bg: DefaultBg}
		}
	case 2:
		s.cells[s.cursorY] = blankRow(s.width)
	}
}

func (s *Screen) setAttributes(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for _, p := range params {
		switch {
		case p == 0:
			s.bold = false
			s.inverse = false
			s.fg = DefaultFg
			s.bg = DefaultBg
		case p == 1:
			s.bold = true
		case p == 7:
			s.inverse = true
		case p == 22:
			s.bold = false
		case p == 27:
			s.inverse = false
		case p >= 30 && p <= 37:
			s.fg = p - 30
		case p == 39:
			s.fg = DefaultFg
		case p >= 40 && p <= 47:
			s.bg = p - 40
		case p == 49:
			s.bg = DefaultBg
		case p >= 90 && p <= 97:
			s.fg = p - 90 + 8
		case p >= 100 && p <= 107:
			s.bg = p - 100 + 8
		}
	}
}
