package shell

import (
	"strconv"
	"strings"

	"hackdesk/internal/proc"
	"hackdesk/internal/term"
	"hackdesk/internal/vfs"
)

// Session is the interactive shell running inside a terminal window. It
// owns one context over the shared filesystem and process table and
// blocks its goroutine on the surface's input channel.
type Session struct {
	ctx       *Context
	processor *Processor
	screen    *term.Screen

	history []string
}

// NewSession wires a session onto screen. The registry and collaborators
// are injected; nothing here is global.
func NewSession(fsys *vfs.FS, procs *proc.Table, screen *term.Screen, registry *Registry, apps AppRunner) *Session {
	ctx := NewContext(fsys, procs, screen, screen.Keys())
	ctx.Term = screen
	ctx.Apps = apps
	return &Session{
		ctx:       ctx,
		processor: NewProcessor(registry),
		screen:    screen,
	}
}

// Context returns the session's execution context.
func (s *Session) Context() *Context {
	return s.ctx
}

// Run prints the banner and enters the prompt loop. It returns when the
// exit command runs or the surface input closes (window closed).
func (s *Session) Run() {
	if data, err := s.ctx.FS.ReadFile("/etc/motd"); err == nil {
		s.ctx.Stdout.Write(string(data))
	}
	s.ctx.Stdout.WriteLine("Type 'help' for a list of commands.")

	for {
		s.writePrompt()
		line, ok := s.readLine()
		if !ok {
			return
		}
		if strings.TrimSpace(line) != "" {
			s.history = append(s.history, line)
		}
		code := s.processor.Execute(s.ctx, line)
		s.ctx.Env["?"] = strconv.Itoa(code)
		if code != 0 {
			s.ctx.Stderr.WriteLine("exit status " + strconv.Itoa(code))
		}
		if s.ctx.ExitRequested() {
			return
		}
	}
}

func (s *Session) writePrompt() {
	s.ctx.Stdout.Write(s.prompt())
}

func (s *Session) prompt() string {
	cwd := s.ctx.Cwd()
	if cwd == vfs.Home {
		cwd = "~"
	} else if strings.HasPrefix(cwd, vfs.Home+"/") {
		cwd = "~" + cwd[len(vfs.Home):]
	}
	user := s.ctx.Env["USER"]
	host := s.ctx.Env["HOST"]
	return "\x1b[1;32m" + user + "@" + host + "\x1b[0m:\x1b[1;34m" + cwd + "\x1b[0m$ "
}

// readLine is the session's line editor: echo, backspace, ctrl+c to
// cancel, up/down for history. Unlike Input.ReadLine it can repaint the
// whole line, which history recall needs.
func (s *Session) readLine() (string, bool) {
	var buf []rune
	histIdx := len(s.history)
	pendingLine := ""

	redraw := func() {
		s.ctx.Stdout.Write("\r\x1b[2K" + s.prompt() + string(buf))
	}

	for {
		token, ok := s.ctx.Stdin.Read()
		if !ok {
			return "", false
		}
		switch token {
		case "enter":
			s.ctx.Stdout.Write("\n")
			return string(buf), true
		case "backspace":
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				s.ctx.Stdout.Write("\b \b")
			}
		case "ctrl+c":
			s.ctx.Stdout.Write("^C\n")
			return "", true
		case "ctrl+l":
			s.ctx.Stdout.Clear()
			redraw()
		case "up":
			if histIdx > 0 {
				if histIdx == len(s.history) {
					pendingLine = string(buf)
				}
				histIdx--
				buf = []rune(s.history[histIdx])
				redraw()
			}
		case "down":
			if histIdx < len(s.history) {
				histIdx++
				if histIdx == len(s.history) {
					buf = []rune(pendingLine)
				} else {
					buf = []rune(s.history[histIdx])
				}
				redraw()
			}
		default:
			if text := term.TokenText(token); text != "" {
				buf = append(buf, []rune(text)...)
				s.ctx.Stdout.Write(text)
			}
		}
	}
}
