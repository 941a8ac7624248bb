package shell_test

import (
	"strings"
	"testing"
	"time"

	"hackdesk/internal/apps"
	"hackdesk/internal/proc"
	"hackdesk/internal/shell"
	"hackdesk/internal/term"
	"hackdesk/internal/vfs"
)

// startSession runs a session over a real screen on its own goroutine,
// the way the desktop does.
func startSession(t *testing.T) (*term.Screen, chan struct{}) {
	t.Helper()
	screen := term.NewScreen(80, 24)
	registry := shell.NewRegistry()
	shell.RegisterBuiltins(registry)
	session := shell.NewSession(vfs.Seed(), proc.NewTable(), screen, registry, apps.Default())

	done := make(chan struct{})
	go func() {
		session.Run()
		close(done)
	}()
	return screen, done
}

func typeLine(screen *term.Screen, line string) {
	for _, r := range line {
		screen.SendKey(string(r))
	}
	screen.SendKey("enter")
}

func waitDone(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}
}

func screenText(screen *term.Screen) string {
	_, height := screen.Size()
	var b strings.Builder
	for y := 0; y < height; y++ {
		b.WriteString(screen.Line(y))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestSessionPromptAndEcho(t *testing.T) {
	screen, done := startSession(t)
	typeLine(screen, "echo hi there")
	typeLine(screen, "exit")
	waitDone(t, done)

	text := screenText(screen)
	if !strings.Contains(text, "ghost@gibson") {
		t.Errorf("screen %q missing prompt", text)
	}
	if !strings.Contains(text, "hi there") {
		t.Errorf("screen %q missing echo output", text)
	}
}

func TestSessionHistoryRecall(t *testing.T) {
	screen, done := startSession(t)
	typeLine(screen, "echo marker")
	screen.SendKey("up")
	screen.SendKey("enter")
	typeLine(screen, "exit")
	waitDone(t, done)

	// Two executions: each leaves the command on a prompt line plus its
	// output line.
	if got := strings.Count(screenText(screen), "marker"); got < 3 {
		t.Errorf("marker appears %d times, want the recalled command re-run", got)
	}
}

func TestSessionReportsNonZeroExit(t *testing.T) {
	screen, done := startSession(t)
	typeLine(screen, "cat /nope")
	typeLine(screen, "env")
	typeLine(screen, "exit")
	waitDone(t, done)

	text := screenText(screen)
	if !strings.Contains(text, "exit status 1") {
		t.Errorf("screen %q missing failure status line", text)
	}
	if !strings.Contains(text, "?=1") {
		t.Errorf("screen %q missing last exit code in the environment", text)
	}
}

func TestSessionSuccessHasNoStatusLine(t *testing.T) {
	screen, done := startSession(t)
	typeLine(screen, "echo fine")
	typeLine(screen, "exit")
	waitDone(t, done)

	if strings.Contains(screenText(screen), "exit status") {
		t.Error("successful command printed a failure status")
	}
}

func TestSessionCtrlCCancelsLine(t *testing.T) {
	screen, done := startSession(t)
	for _, r := range "bogus" {
		screen.SendKey(string(r))
	}
	screen.SendKey("ctrl+c")
	typeLine(screen, "exit")
	waitDone(t, done)

	if strings.Contains(screenText(screen), "Command not found") {
		t.Error("cancelled line was executed")
	}
}

func TestSessionEndsWhenScreenCloses(t *testing.T) {
	screen, done := startSession(t)
	screen.Close()
	waitDone(t, done)
}
