package term_test

import (
	"fmt"
	"strings"
	"testing"

	"hackdesk/internal/term"
)

func TestWritePlainText(t *testing.T) {
	s := term.NewScreen(20, 4)
	fmt.Fprint(s, "hello")

	if got := s.Line(0); got != "hello" {
		t.Errorf("Line(0) = %q, want %q", got, "hello")
	}
	x, y := s.Cursor()
	if x != 5 || y != 0 {
		t.Errorf("cursor = (%d, %d), want (5, 0)", x, y)
	}
}

func TestCRLF(t *testing.T) {
	s := term.NewScreen(20, 4)
	fmt.Fprint(s, "one\r\ntwo")

	if got := s.Line(0); got != "one" {
		t.Errorf("Line(0) = %q", got)
	}
	if got := s.Line(1); got != "two" {
		t.Errorf("Line(1) = %q", got)
	}
}

func TestBackspaceAndTab(t *testing.T) {
	s := term.NewScreen(20, 2)
	fmt.Fprint(s, "ab\bc")
	if got := s.Line(0); got != "ac" {
		t.Errorf("after backspace Line(0) = %q, want %q", got, "ac")
	}

	s = term.NewScreen(20, 2)
	fmt.Fprint(s, "a\tb")
	x, _ := s.Cursor()
	if x != 9 {
		t.Errorf("cursor after tab-write = %d, want 9", x)
	}
	if got := s.Line(0); got != "a       b" {
		t.Errorf("Line(0) = %q", got)
	}
}

func TestCursorPositioning(t *testing.T) {
	s := term.NewScreen(20, 5)
	fmt.Fprint(s, "\x1b[3;5HX")

	if got := s.Line(2); got != "    X" {
		t.Errorf("Line(2) = %q", got)
	}

	// Out-of-range coordinates clamp to the grid.
	fmt.Fprint(s, "\x1b[99;99H")
	x, y := s.Cursor()
	if x != 19 || y != 4 {
		t.Errorf("cursor = (%d, %d), want (19, 4)", x, y)
	}
}

func TestCursorMovement(t *testing.T) {
	s := term.NewScreen(20, 5)
	fmt.Fprint(s, "\x1b[3;3H")   // (2,2)
	fmt.Fprint(s, "\x1b[A")      // up
	fmt.Fprint(s, "\x1b[2C")     // right twice
	fmt.Fprint(s, "\x1b[B")      // down
	fmt.Fprint(s, "\x1b[D")      // left

	x, y := s.Cursor()
	if x != 3 || y != 2 {
		t.Errorf("cursor = (%d, %d), want (3, 2)", x, y)
	}
}

func TestEraseDisplay(t *testing.T) {
	s := term.NewScreen(10, 3)
	fmt.Fprint(s, "aaa\r\nbbb\r\nccc")
	fmt.Fprint(s, "\x1b[2J")

	for y := 0; y < 3; y++ {
		if got := s.Line(y); got != "" {
			t.Errorf("Line(%d) = %q after clear, want empty", y, got)
		}
	}
}

func TestEraseDisplayFromCursor(t *testing.T) {
	s := term.NewScreen(10, 3)
	fmt.Fprint(s, "aaa\r\nbbb\r\nccc")
	fmt.Fprint(s, "\x1b[2;2H\x1b[J")

	if got := s.Line(0); got != "aaa" {
		t.Errorf("Line(0) = %q", got)
	}
	if got := s.Line(1); got != "b" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := s.Line(2); got != "" {
		t.Errorf("Line(2) = %q", got)
	}
}

func TestEraseLine(t *testing.T) {
	s := term.NewScreen(10, 2)
	fmt.Fprint(s, "abcdef")
	fmt.Fprint(s, "\x1b[1;4H\x1b[K")

	if got := s.Line(0); got != "abc" {
		t.Errorf("Line(0) = %q, want %q", got, "abc")
	}
}

func TestScrollAtBottom(t *testing.T) {
	s := term.NewScreen(10, 3)
	fmt.Fprint(s, "1\r\n2\r\n3\r\n4")

	want := []string{"2", "3", "4"}
	for y, w := range want {
		if got := s.Line(y); got != w {
			t.Errorf("Line(%d) = %q, want %q", y, got, w)
		}
	}
}

func TestScrollbackKeepsEvictedRows(t *testing.T) {
	s := term.NewScreen(10, 3)
	s.SetScrollbackLimit(2)
	fmt.Fprint(s, "1\r\n2\r\n3\r\n4\r\n5")

	// Rows 1 and 2 scrolled off; only the newest two fit the cap.
	s.ScrollBy(10)
	if got := s.ScrollOffset(); got != 2 {
		t.Fatalf("ScrollOffset = %d, want 2", got)
	}

	s.ScrollBy(-1)
	if got := s.ScrollOffset(); got != 1 {
		t.Errorf("ScrollOffset after -1 = %d, want 1", got)
	}

	// New output snaps the viewport back to the live grid.
	fmt.Fprint(s, "x")
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("ScrollOffset after write = %d, want 0", got)
	}
}

func TestScrollbackDisabledByDefault(t *testing.T) {
	s := term.NewScreen(10, 2)
	fmt.Fprint(s, "1\r\n2\r\n3\r\n4")

	s.ScrollBy(5)
	if got := s.ScrollOffset(); got != 0 {
		t.Errorf("ScrollOffset = %d, want 0 without a scrollback limit", got)
	}
}

func TestRenderScrolledViewport(t *testing.T) {
	s := term.NewScreen(4, 2)
	s.SetScrollbackLimit(10)
	fmt.Fprint(s, "aa\r\nbb\r\ncc\r\ndd")

	live := s.Render(false)
	s.ScrollBy(2)
	back := s.Render(false)
	if live == back {
		t.Error("expected scrolled viewport to render different rows")
	}
	if !strings.Contains(back, "aa") {
		t.Errorf("scrolled render %q missing history row", back)
	}
}

func TestLineWrap(t *testing.T) {
	s := term.NewScreen(5, 3)
	fmt.Fprint(s, "abcdefg")

	if got := s.Line(0); got != "abcde" {
		t.Errorf("Line(0) = %q", got)
	}
	if got := s.Line(1); got != "fg" {
		t.Errorf("Line(1) = %q", got)
	}
}

func TestEscapeAcrossWrites(t *testing.T) {
	s := term.NewScreen(10, 3)
	s.Write([]byte("\x1b[2"))
	s.Write([]byte(";3H"))
	s.Write([]byte("X"))

	if got := s.Line(1); got != "  X" {
		t.Errorf("Line(1) = %q, want %q", got, "  X")
	}
}

func TestUTF8AcrossWrites(t *testing.T) {
	s := term.NewScreen(10, 2)
	raw := []byte("héllo")
	s.Write(raw[:2]) // splits the two-byte é
	s.Write(raw[2:])

	if got := s.Line(0); got != "héllo" {
		t.Errorf("Line(0) = %q", got)
	}
}

func TestResizePreservesContent(t *testing.T) {
	s := term.NewScreen(10, 4)
	fmt.Fprint(s, "keep\r\nme")

	var gotW, gotH int
	s.OnResize(func(w, h int) { gotW, gotH = w, h })
	s.Resize(20, 6)

	if gotW != 20 || gotH != 6 {
		t.Errorf("resize notification = (%d, %d), want (20, 6)", gotW, gotH)
	}
	if got := s.Line(0); got != "keep" {
		t.Errorf("Line(0) = %q after grow", got)
	}

	s.Resize(3, 1)
	if got := s.Line(0); got != "kee" {
		t.Errorf("Line(0) = %q after shrink", got)
	}
	x, y := s.Cursor()
	if x > 2 || y > 0 {
		t.Errorf("cursor (%d, %d) outside shrunk grid", x, y)
	}
}

func TestOnResizeUnsubscribe(t *testing.T) {
	s := term.NewScreen(10, 4)

	calls := 0
	unsubscribe := s.OnResize(func(w, h int) { calls++ })
	s.Resize(20, 6)
	if calls != 1 {
		t.Fatalf("calls = %d before unsubscribe, want 1", calls)
	}

	unsubscribe()
	s.Resize(30, 8)
	if calls != 1 {
		t.Errorf("calls = %d after unsubscribe, want still 1", calls)
	}
}

func TestKeyInput(t *testing.T) {
	s := term.NewScreen(10, 2)
	s.SendKey("a")
	s.SendKey("enter")

	if got := <-s.Keys(); got != "a" {
		t.Errorf("first key = %q", got)
	}
	if got := <-s.Keys(); got != "enter" {
		t.Errorf("second key = %q", got)
	}

	s.Close()
	if _, ok := <-s.Keys(); ok {
		t.Error("expected closed channel after Close")
	}

	// Sends after close are dropped, not panics.
	s.SendKey("x")
	s.Close()
}

func TestRenderShowsCursor(t *testing.T) {
	s := term.NewScreen(4, 2)
	fmt.Fprint(s, "ab")

	plain := s.Render(false)
	withCursor := s.Render(true)
	if plain == withCursor {
		t.Error("expected cursor rendering to differ from plain rendering")
	}
}

func TestSGRAttributes(t *testing.T) {
	s := term.NewScreen(10, 2)
	fmt.Fprint(s, "\x1b[1mB\x1b[22m\x1b[7mR\x1b[27m\x1b[31mc\x1b[0mn")

	// The content itself is unaffected by attributes.
	if got := s.Line(0); got != "BRcn" {
		t.Errorf("Line(0) = %q", got)
	}
	// Rendering must produce distinct runs for the styled cells.
	out := s.Render(false)
	if len(out) <= len("BRcn") {
		t.Error("expected styled output to carry escape sequences")
	}
}
