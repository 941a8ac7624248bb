package shell_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"hackdesk/internal/proc"
	"hackdesk/internal/shell"
	"hackdesk/internal/vfs"
)

// testContext returns a context over a seeded filesystem with output
// captured in the returned buffer.
func testContext(t *testing.T) (*shell.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	ctx := shell.NewContext(vfs.Seed(), proc.NewTable(), &buf, nil)
	return ctx, &buf
}

func testProcessor() *shell.Processor {
	registry := shell.NewRegistry()
	shell.RegisterBuiltins(registry)
	return shell.NewProcessor(registry)
}

func TestExecuteUnknownCommand(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	code := p.Execute(ctx, "bogus")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(buf.String(), "Command not found: bogus") {
		t.Errorf("output = %q, want command-not-found message", buf.String())
	}
}

func TestExecuteEmptyInput(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	if code := p.Execute(ctx, "   "); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestExecuteAlias(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	if code := p.Execute(ctx, "ll docs"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(buf.String(), "plan.txt") {
		t.Errorf("ll output = %q, want docs listing", buf.String())
	}
}

func TestExecutePanicIsExitCodeOne(t *testing.T) {
	registry := shell.NewRegistry()
	registry.Register(shell.Spec{Name: "boom"}, func(ctx *shell.Context, cmd shell.Command) int {
		panic("kaboom")
	})
	p := shell.NewProcessor(registry)
	ctx, buf := testContext(t)

	if code := p.Execute(ctx, "boom"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Errorf("output = %q, want panic message", buf.String())
	}
}

func TestLastRegistrationWins(t *testing.T) {
	registry := shell.NewRegistry()
	registry.Register(shell.Spec{Name: "x"}, func(ctx *shell.Context, cmd shell.Command) int { return 1 })
	registry.Register(shell.Spec{Name: "x"}, func(ctx *shell.Context, cmd shell.Command) int { return 2 })
	p := shell.NewProcessor(registry)
	ctx, _ := testContext(t)

	if code := p.Execute(ctx, "x"); code != 2 {
		t.Errorf("exit code = %d, want handler registered last", code)
	}
}

func TestCdAndPwd(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	p.Execute(ctx, "cd /etc")
	p.Execute(ctx, "pwd")
	if !strings.Contains(buf.String(), "/etc") {
		t.Errorf("pwd output = %q", buf.String())
	}

	buf.Reset()
	if code := p.Execute(ctx, "cd /no/such/place"); code != 1 {
		t.Errorf("cd to missing dir: exit code = %d, want 1", code)
	}
	if ctx.Cwd() != "/etc" {
		t.Errorf("cwd changed on failed cd: %q", ctx.Cwd())
	}

	// cd with no argument goes home.
	p.Execute(ctx, "cd")
	if ctx.Cwd() != vfs.Home {
		t.Errorf("cwd = %q, want %q", ctx.Cwd(), vfs.Home)
	}
}

func TestCatAndEcho(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	p.Execute(ctx, "echo hello world")
	if !strings.Contains(buf.String(), "hello world") {
		t.Errorf("echo output = %q", buf.String())
	}

	buf.Reset()
	p.Execute(ctx, "cat /etc/motd")
	if !strings.Contains(buf.String(), "hackdesk") {
		t.Errorf("cat output = %q", buf.String())
	}

	buf.Reset()
	if code := p.Execute(ctx, "cat /nope"); code != 1 {
		t.Errorf("cat missing file: exit code = %d, want 1", code)
	}
}

func TestTouchMkdirRmMv(t *testing.T) {
	ctx, _ := testContext(t)
	p := testProcessor()

	p.Execute(ctx, "mkdir work")
	p.Execute(ctx, "touch work/a.txt")
	if !ctx.FS.Exists(vfs.Home + "/work/a.txt") {
		t.Fatal("touch did not create file")
	}

	p.Execute(ctx, "mv work/a.txt work/b.txt")
	if ctx.FS.Exists(vfs.Home+"/work/a.txt") || !ctx.FS.Exists(vfs.Home+"/work/b.txt") {
		t.Error("mv did not rename")
	}

	p.Execute(ctx, "rm work/b.txt")
	p.Execute(ctx, "rm work")
	if ctx.FS.Exists(vfs.Home + "/work") {
		t.Error("rm did not remove directory")
	}

	if code := p.Execute(ctx, "mkdir --parents deep/nested/dir"); code != 0 {
		t.Error("mkdir --parents failed")
	}
	if !ctx.FS.Exists(vfs.Home + "/deep/nested/dir") {
		t.Error("mkdir --parents did not create tree")
	}
}

func TestEnvAndExport(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	p.Execute(ctx, "export TARGET=gibson.internal")
	p.Execute(ctx, "env")
	if !strings.Contains(buf.String(), "TARGET=gibson.internal") {
		t.Errorf("env output = %q", buf.String())
	}

	if code := p.Execute(ctx, "export bad"); code != 1 {
		t.Errorf("export without '=' should fail, got %d", code)
	}
}

func TestPsAndKill(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	killed := false
	pid := ctx.Procs.Spawn("shell", "win-1", func() { killed = true })

	p.Execute(ctx, "ps")
	if !strings.Contains(buf.String(), "shell") {
		t.Errorf("ps output = %q", buf.String())
	}

	buf.Reset()
	if code := p.Execute(ctx, "kill "+strconv.Itoa(pid)); code != 0 {
		t.Errorf("kill exit code = %d", code)
	}
	if !killed {
		t.Error("kill did not run the cancel func")
	}

	if code := p.Execute(ctx, "kill 99999"); code != 1 {
		t.Errorf("kill of unknown pid: exit code = %d, want 1", code)
	}
}

func TestExitRequestsSessionEnd(t *testing.T) {
	ctx, _ := testContext(t)
	p := testProcessor()

	if ctx.ExitRequested() {
		t.Fatal("fresh context already exited")
	}
	p.Execute(ctx, "exit")
	if !ctx.ExitRequested() {
		t.Error("exit did not request session end")
	}
}

func TestEditWithoutTerminal(t *testing.T) {
	ctx, buf := testContext(t)
	p := testProcessor()

	if code := p.Execute(ctx, "edit notes.txt"); code != 1 {
		t.Errorf("edit without terminal: exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "no terminal") {
		t.Errorf("output = %q", buf.String())
	}
}
