package shell

import (
	"fmt"
	"io"
	"strings"

	"hackdesk/internal/proc"
	"hackdesk/internal/term"
	"hackdesk/internal/vfs"
)

// AppRunner launches a full-screen terminal application on top of the
// session's surface and blocks until it exits. The session wires this up;
// commands reach it through the context.
type AppRunner interface {
	RunApp(name string, args []string, ctx *Context) int
}

// Context is the execution environment handed to every command handler.
type Context struct {
	FS    *vfs.FS
	Procs *proc.Table
	Env   map[string]string

	Stdout *Stream
	Stderr *Stream
	Stdin  *Input

	// Term is the surface the session runs on, nil for detached
	// execution (tests).
	Term *term.Screen

	// Apps is the optional hook for launching terminal applications.
	Apps AppRunner

	cwd    string
	exited bool
}

// NewContext builds a context rooted at the home directory. The output
// streams write to w; stdin reads from keys (nil is fine for commands
// that never read input).
func NewContext(fs *vfs.FS, procs *proc.Table, w io.Writer, keys <-chan string) *Context {
	ctx := &Context{
		FS:    fs,
		Procs: procs,
		Env: map[string]string{
			"USER":  "ghost",
			"HOME":  vfs.Home,
			"HOST":  "gibson",
			"SHELL": "/bin/hsh",
		},
		cwd: vfs.Home,
	}
	ctx.Stdout = &Stream{w: w}
	ctx.Stderr = &Stream{w: w}
	ctx.Stdin = &Input{keys: keys, echo: ctx.Stdout}
	return ctx
}

// Cwd returns the working directory.
func (c *Context) Cwd() string {
	return c.cwd
}

// SetCwd changes the working directory. The path must name an existing
// directory.
func (c *Context) SetCwd(path string) error {
	info, err := c.FS.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir {
		return fmt.Errorf("%s: not a directory", path)
	}
	c.cwd = path
	return nil
}

// Resolve expands path relative to the working directory.
func (c *Context) Resolve(path string) string {
	return vfs.Resolve(c.cwd, path)
}

// RequestExit marks the session as finished; the session loop checks this
// after every command.
func (c *Context) RequestExit() {
	c.exited = true
}

// ExitRequested reports whether a command asked the session to end.
func (c *Context) ExitRequested() bool {
	return c.exited
}

// Stream is a text output stream over the terminal surface. Line feeds
// become CRLF so column zero is where the next line starts.
type Stream struct {
	w io.Writer
}

// NewStream wraps w. Useful in tests with a bytes.Buffer.
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

// Write sends s as-is, normalizing newlines for the surface.
func (s *Stream) Write(text string) {
	if s.w == nil {
		return
	}
	text = strings.ReplaceAll(text, "\n", "\r\n")
	io.WriteString(s.w, text)
}

// WriteLine sends s followed by a newline.
func (s *Stream) WriteLine(text string) {
	s.Write(text + "\n")
}

// Writef formats and writes.
func (s *Stream) Writef(format string, args ...any) {
	s.Write(fmt.Sprintf(format, args...))
}

// Clear wipes the surface and homes the cursor.
func (s *Stream) Clear() {
	if s.w == nil {
		return
	}
	io.WriteString(s.w, "\x1b[2J\x1b[H")
}

// Input reads key tokens from the surface.
type Input struct {
	keys <-chan string
	echo *Stream
}

// NewInput wraps a token channel with echo to out.
func NewInput(keys <-chan string, out *Stream) *Input {
	return &Input{keys: keys, echo: out}
}

// Read returns the next raw input token. ok is false once the surface is
// closed.
func (in *Input) Read() (token string, ok bool) {
	if in.keys == nil {
		return "", false
	}
	token, ok = <-in.keys
	return token, ok
}

// ReadChar blocks for the next printable character, skipping control
// tokens.
func (in *Input) ReadChar() (ch string, ok bool) {
	for {
		token, ok := in.Read()
		if !ok {
			return "", false
		}
		if text := term.TokenText(token); text != "" {
			return text, true
		}
	}
}

// ReadLine reads until Enter with echo and backspace editing. ok is false
// when the surface closes mid-line.
func (in *Input) ReadLine() (line string, ok bool) {
	var buf []rune
	for {
		token, ok := in.Read()
		if !ok {
			return string(buf), false
		}
		switch token {
		case "enter":
			in.echo.Write("\n")
			return string(buf), true
		case "backspace":
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				in.echo.Write("\b \b")
			}
		case "ctrl+c":
			in.echo.Write("^C\n")
			return "", true
		default:
			if text := term.TokenText(token); text != "" {
				buf = append(buf, []rune(text)...)
				in.echo.Write(text)
			}
		}
	}
}
