package termapp_test

import (
	"errors"
	"testing"
	"time"

	"hackdesk/internal/proc"
	"hackdesk/internal/shell"
	"hackdesk/internal/term"
	"hackdesk/internal/termapp"
	"hackdesk/internal/vfs"
)

// testApp is a scriptable App for exercising the host.
type testApp struct {
	host     *termapp.Host
	onSetup  func(h *termapp.Host)
	setupErr error

	renders int
	exited  int
	unknown []string
}

func (a *testApp) Setup(h *termapp.Host, args []string, ctx *shell.Context) error {
	a.host = h
	if a.onSetup != nil {
		a.onSetup(h)
	}
	return a.setupErr
}

func (a *testApp) HandleKey(token string) { a.unknown = append(a.unknown, token) }
func (a *testApp) Render()                { a.renders++ }
func (a *testApp) OnExit()                { a.exited++ }

// runHost starts Run on its own goroutine the way a session does.
func runHost(t *testing.T, app termapp.App) (*term.Screen, <-chan int) {
	t.Helper()
	screen := term.NewScreen(80, 24)
	ctx := shell.NewContext(vfs.Seed(), proc.NewTable(), screen, screen.Keys())
	ctx.Term = screen

	host := termapp.NewHost(app)
	done := make(chan int, 1)
	go func() { done <- host.Run(nil, ctx) }()
	for host.State() == termapp.StateIdle {
		time.Sleep(time.Millisecond)
	}
	return screen, done
}

func waitCode(t *testing.T, done <-chan int) int {
	t.Helper()
	select {
	case code := <-done:
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("host did not exit")
		return -1
	}
}

func TestRunWithoutSurface(t *testing.T) {
	app := &testApp{}
	host := termapp.NewHost(app)

	ctx := shell.NewContext(vfs.Seed(), proc.NewTable(), nil, nil)
	if code := host.Run(nil, ctx); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if host.State() != termapp.StateTerminated {
		t.Errorf("state = %v, want terminated", host.State())
	}
}

func TestSetupErrorTerminates(t *testing.T) {
	app := &testApp{setupErr: errFake}
	screen, done := runHost(t, app)
	defer screen.Close()

	if code := waitCode(t, done); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if app.exited != 1 {
		t.Errorf("OnExit ran %d times, want 1", app.exited)
	}
}

var errFake = errors.New("setup failed")

func TestBoundKeyAndExitCode(t *testing.T) {
	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("q", func() { h.Exit(7) })
	}
	screen, done := runHost(t, app)

	screen.SendKey("q")
	if code := waitCode(t, done); code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
	if app.exited != 1 {
		t.Errorf("OnExit ran %d times, want 1", app.exited)
	}
}

func TestDoubleExitKeepsFirstCode(t *testing.T) {
	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("q", func() {
			h.Exit(2)
			h.Exit(3)
		})
	}
	screen, done := runHost(t, app)

	screen.SendKey("q")
	if code := waitCode(t, done); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestUnknownKeysReachApp(t *testing.T) {
	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("q", func() { h.Exit(0) })
	}
	screen, done := runHost(t, app)

	screen.SendKey("x")
	screen.SendKey("y")
	screen.SendKey("q")
	waitCode(t, done)

	if len(app.unknown) != 2 || app.unknown[0] != "x" || app.unknown[1] != "y" {
		t.Errorf("unknown keys = %v, want [x y]", app.unknown)
	}
}

func TestSurfaceCloseEndsRun(t *testing.T) {
	app := &testApp{}
	screen, done := runHost(t, app)

	screen.Close()
	if code := waitCode(t, done); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestResizeRerenders(t *testing.T) {
	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("q", func() { h.Exit(0) })
	}
	screen, done := runHost(t, app)

	screen.Resize(100, 30)
	screen.SendKey("q")
	waitCode(t, done)

	if app.renders < 2 {
		t.Errorf("renders = %d, want at least 2 (initial + resize)", app.renders)
	}
	w, h := app.host.Size()
	if w != 100 || h != 30 {
		t.Errorf("host size = %dx%d, want 100x30", w, h)
	}
}

func TestRunDropsResizeSubscriptionOnExit(t *testing.T) {
	first := &testApp{}
	first.onSetup = func(h *termapp.Host) {
		h.Bind("q", func() { h.Exit(0) })
	}
	screen, done := runHost(t, first)
	screen.SendKey("q")
	waitCode(t, done)

	// A second app on the same long-lived screen still sees resizes; the
	// first run's subscription is gone.
	ready := make(chan struct{})
	second := &testApp{}
	second.onSetup = func(h *termapp.Host) {
		h.Bind("q", func() { h.Exit(0) })
		close(ready)
	}
	ctx := shell.NewContext(vfs.Seed(), proc.NewTable(), screen, screen.Keys())
	ctx.Term = screen
	host := termapp.NewHost(second)
	done2 := make(chan int, 1)
	go func() { done2 <- host.Run(nil, ctx) }()
	<-ready

	screen.Resize(100, 30)
	screen.SendKey("q")
	waitCode(t, done2)

	w, h := second.host.Size()
	if w != 100 || h != 30 {
		t.Errorf("second host size = %dx%d, want 100x30", w, h)
	}
}

func TestPromptResolveAndCancel(t *testing.T) {
	type result struct {
		text string
		ok   bool
	}
	results := make(chan result, 2)

	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("p", func() {
			text, ok := h.Prompt("name")
			results <- result{text, ok}
		})
		h.Bind("q", func() { h.Exit(0) })
	}
	screen, done := runHost(t, app)

	// Resolve with Enter.
	for _, k := range []string{"p", "h", "i", "enter"} {
		screen.SendKey(k)
	}
	// Cancel with Esc; typed text is discarded.
	for _, k := range []string{"p", "z", "esc", "q"} {
		screen.SendKey(k)
	}
	waitCode(t, done)

	first := <-results
	if first.text != "hi" || !first.ok {
		t.Errorf("resolved prompt = %+v, want {hi true}", first)
	}
	second := <-results
	if second.text != "" || second.ok {
		t.Errorf("cancelled prompt = %+v, want empty and not ok", second)
	}

	if app.host.Mode() != termapp.ModeNormal {
		t.Errorf("mode = %v after prompts, want normal", app.host.Mode())
	}
}

func TestPromptBackspace(t *testing.T) {
	results := make(chan string, 1)
	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("p", func() {
			text, _ := h.Prompt("name")
			results <- text
			h.Exit(0)
		})
	}
	screen, done := runHost(t, app)

	for _, k := range []string{"p", "a", "b", "backspace", "c", "enter"} {
		screen.SendKey(k)
	}
	waitCode(t, done)

	if got := <-results; got != "ac" {
		t.Errorf("prompt text = %q, want %q", got, "ac")
	}
}

func TestDialogAnswers(t *testing.T) {
	results := make(chan termapp.DialogResult, 3)
	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("d", func() { results <- h.Dialog("sure?") })
		h.Bind("q", func() { h.Exit(0) })
	}
	screen, done := runHost(t, app)

	for _, k := range []string{"d", "y", "d", "n", "d", "esc", "q"} {
		screen.SendKey(k)
	}
	waitCode(t, done)

	want := []termapp.DialogResult{termapp.DialogYes, termapp.DialogNo, termapp.DialogCancel}
	for i, w := range want {
		if got := <-results; got != w {
			t.Errorf("dialog %d = %v, want %v", i, got, w)
		}
	}
}

func TestMessageDismiss(t *testing.T) {
	shown := make(chan struct{}, 1)
	app := &testApp{}
	app.onSetup = func(h *termapp.Host) {
		h.Bind("m", func() {
			h.Message("saved")
			shown <- struct{}{}
			h.Exit(0)
		})
	}
	screen, done := runHost(t, app)

	// Stray keys should not dismiss the message; enter does.
	for _, k := range []string{"m", "x", "y", "enter"} {
		screen.SendKey(k)
	}
	waitCode(t, done)

	select {
	case <-shown:
	default:
		t.Error("message was never dismissed")
	}
}
