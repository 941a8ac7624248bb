package shell

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RegisterBuiltins installs the stock command set and its aliases into r.
// Registration is static; commands never register other commands at
// runtime.
func RegisterBuiltins(r *Registry) {
	r.Register(Spec{Name: "help", Usage: "help", Description: "List available commands"}, func(ctx *Context, cmd Command) int {
		ctx.Stdout.WriteLine("Available commands:")
		for _, spec := range r.Specs() {
			ctx.Stdout.Writef("  %-10s %s\n", spec.Name, spec.Description)
		}
		return 0
	})

	r.Register(Spec{Name: "echo", Usage: "echo [text...]", Description: "Print arguments"}, cmdEcho)
	r.Register(Spec{Name: "clear", Usage: "clear", Description: "Clear the screen"}, cmdClear)
	r.Register(Spec{Name: "pwd", Usage: "pwd", Description: "Print working directory"}, cmdPwd)
	r.Register(Spec{Name: "cd", Usage: "cd [dir]", Description: "Change directory"}, cmdCd)
	r.Register(Spec{Name: "ls", Usage: "ls [-l] [dir...]", Description: "List directory contents"}, cmdLs)
	r.Register(Spec{Name: "cat", Usage: "cat <file...>", Description: "Print file contents"}, cmdCat)
	r.Register(Spec{Name: "mkdir", Usage: "mkdir [--parents] <dir...>", Description: "Create directories"}, cmdMkdir)
	r.Register(Spec{Name: "touch", Usage: "touch <file...>", Description: "Create empty files"}, cmdTouch)
	r.Register(Spec{Name: "rm", Usage: "rm <path...>", Description: "Remove files and empty directories"}, cmdRm)
	r.Register(Spec{Name: "mv", Usage: "mv <src> <dst>", Description: "Move or rename"}, cmdMv)
	r.Register(Spec{Name: "env", Usage: "env", Description: "Print environment"}, cmdEnv)
	r.Register(Spec{Name: "export", Usage: "export NAME=value", Description: "Set environment variables"}, cmdExport)
	r.Register(Spec{Name: "whoami", Usage: "whoami", Description: "Print current user"}, cmdWhoami)
	r.Register(Spec{Name: "hostname", Usage: "hostname", Description: "Print host name"}, cmdHostname)
	r.Register(Spec{Name: "date", Usage: "date", Description: "Print the current time"}, cmdDate)
	r.Register(Spec{Name: "ps", Usage: "ps", Description: "List running processes"}, cmdPs)
	r.Register(Spec{Name: "kill", Usage: "kill <pid>", Description: "Kill a process"}, cmdKill)
	r.Register(Spec{Name: "motd", Usage: "motd", Description: "Print the message of the day"}, cmdMotd)
	r.Register(Spec{Name: "edit", Usage: "edit [file]", Description: "Open the text editor"}, cmdEdit)
	r.Register(Spec{Name: "exit", Usage: "exit", Description: "End the session"}, cmdExit)

	r.Alias("ll", "ls")
	r.Alias("dir", "ls")
	r.Alias("cls", "clear")
	r.Alias("quit", "exit")
}

func cmdEcho(ctx *Context, cmd Command) int {
	ctx.Stdout.WriteLine(strings.Join(cmd.Args, " "))
	return 0
}

func cmdClear(ctx *Context, cmd Command) int {
	ctx.Stdout.Clear()
	return 0
}

func cmdPwd(ctx *Context, cmd Command) int {
	ctx.Stdout.WriteLine(ctx.Cwd())
	return 0
}

func cmdCd(ctx *Context, cmd Command) int {
	target := "~"
	if len(cmd.Args) > 0 {
		target = cmd.Args[0]
	}
	path := ctx.Resolve(target)
	if err := ctx.SetCwd(path); err != nil {
		ctx.Stderr.WriteLine("cd: " + err.Error())
		return 1
	}
	return 0
}

func cmdLs(ctx *Context, cmd Command) int {
	targets := cmd.Args
	if len(targets) == 0 {
		targets = []string{"."}
	}
	long := cmd.HasFlag("l") || cmd.HasFlag("long")

	code := 0
	for i, target := range targets {
		path := ctx.Resolve(target)
		info, err := ctx.FS.Stat(path)
		if err != nil {
			ctx.Stderr.WriteLine("ls: " + err.Error())
			code = 1
			continue
		}

		if !info.IsDir {
			ctx.Stdout.WriteLine(info.Name)
			continue
		}

		if len(targets) > 1 {
			if i > 0 {
				ctx.Stdout.WriteLine("")
			}
			ctx.Stdout.WriteLine(target + ":")
		}
		entries, err := ctx.FS.ReadDir(path)
		if err != nil {
			ctx.Stderr.WriteLine("ls: " + err.Error())
			code = 1
			continue
		}
		for _, e := range entries {
			name := e.Name
			if e.IsDir {
				name += "/"
			}
			if long {
				kind := "-"
				if e.IsDir {
					kind = "d"
				}
				ctx.Stdout.Writef("%s %6d %s %s\n", kind, e.Size, e.ModTime.Format("Jan _2 15:04"), name)
			} else {
				ctx.Stdout.WriteLine(name)
			}
		}
	}
	return code
}

func cmdCat(ctx *Context, cmd Command) int {
	if len(cmd.Args) == 0 {
		ctx.Stderr.WriteLine("usage: cat <file...>")
		return 1
	}
	code := 0
	for _, arg := range cmd.Args {
		data, err := ctx.FS.ReadFile(ctx.Resolve(arg))
		if err != nil {
			ctx.Stderr.WriteLine("cat: " + err.Error())
			code = 1
			continue
		}
		ctx.Stdout.Write(string(data))
		if len(data) > 0 && data[len(data)-1] != '\n' {
			ctx.Stdout.Write("\n")
		}
	}
	return code
}

func cmdMkdir(ctx *Context, cmd Command) int {
	if len(cmd.Args) == 0 {
		ctx.Stderr.WriteLine("usage: mkdir [--parents] <dir...>")
		return 1
	}
	code := 0
	for _, arg := range cmd.Args {
		path := ctx.Resolve(arg)
		var err error
		if cmd.HasFlag("parents") || cmd.HasFlag("p") {
			err = ctx.FS.MkdirAll(path)
		} else {
			err = ctx.FS.Mkdir(path)
		}
		if err != nil {
			ctx.Stderr.WriteLine("mkdir: " + err.Error())
			code = 1
		}
	}
	return code
}

func cmdTouch(ctx *Context, cmd Command) int {
	if len(cmd.Args) == 0 {
		ctx.Stderr.WriteLine("usage: touch <file...>")
		return 1
	}
	code := 0
	for _, arg := range cmd.Args {
		path := ctx.Resolve(arg)
		if ctx.FS.Exists(path) {
			continue
		}
		if err := ctx.FS.WriteFile(path, nil); err != nil {
			ctx.Stderr.WriteLine("touch: " + err.Error())
			code = 1
		}
	}
	return code
}

func cmdRm(ctx *Context, cmd Command) int {
	if len(cmd.Args) == 0 {
		ctx.Stderr.WriteLine("usage: rm <path...>")
		return 1
	}
	code := 0
	for _, arg := range cmd.Args {
		if err := ctx.FS.Remove(ctx.Resolve(arg)); err != nil {
			ctx.Stderr.WriteLine("rm: " + err.Error())
			code = 1
		}
	}
	return code
}

func cmdMv(ctx *Context, cmd Command) int {
	if len(cmd.Args) != 2 {
		ctx.Stderr.WriteLine("usage: mv <src> <dst>")
		return 1
	}
	src := ctx.Resolve(cmd.Args[0])
	dst := ctx.Resolve(cmd.Args[1])
	// Moving onto a directory moves into it.
	if info, err := ctx.FS.Stat(dst); err == nil && info.IsDir {
		dst = dst + "/" + baseName(src)
	}
	if err := ctx.FS.Rename(src, dst); err != nil {
		ctx.Stderr.WriteLine("mv: " + err.Error())
		return 1
	}
	return 0
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

func cmdEnv(ctx *Context, cmd Command) int {
	names := make([]string, 0, len(ctx.Env))
	for name := range ctx.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ctx.Stdout.WriteLine(name + "=" + ctx.Env[name])
	}
	return 0
}

func cmdExport(ctx *Context, cmd Command) int {
	if len(cmd.Args) == 0 {
		ctx.Stderr.WriteLine("usage: export NAME=value")
		return 1
	}
	for _, arg := range cmd.Args {
		eq := strings.IndexByte(arg, '=')
		if eq <= 0 {
			ctx.Stderr.WriteLine("export: invalid assignment: " + arg)
			return 1
		}
		ctx.Env[arg[:eq]] = arg[eq+1:]
	}
	return 0
}

func cmdWhoami(ctx *Context, cmd Command) int {
	ctx.Stdout.WriteLine(ctx.Env["USER"])
	return 0
}

func cmdHostname(ctx *Context, cmd Command) int {
	ctx.Stdout.WriteLine(ctx.Env["HOST"])
	return 0
}

func cmdDate(ctx *Context, cmd Command) int {
	ctx.Stdout.WriteLine(time.Now().Format("Mon Jan _2 15:04:05 MST 2006"))
	return 0
}

func cmdPs(ctx *Context, cmd Command) int {
	ctx.Stdout.WriteLine("  PID  TIME     CMD")
	for _, p := range ctx.Procs.List() {
		ctx.Stdout.Writef("%5d  %s  %s\n", p.PID, p.Started.Format("15:04:05"), p.Name)
	}
	return 0
}

func cmdKill(ctx *Context, cmd Command) int {
	if len(cmd.Args) == 0 {
		ctx.Stderr.WriteLine("usage: kill <pid>")
		return 1
	}
	pid, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		ctx.Stderr.WriteLine("kill: invalid pid: " + cmd.Args[0])
		return 1
	}
	if !ctx.Procs.Kill(pid) {
		ctx.Stderr.WriteLine(fmt.Sprintf("kill: no such process: %d", pid))
		return 1
	}
	return 0
}

func cmdMotd(ctx *Context, cmd Command) int {
	data, err := ctx.FS.ReadFile("/etc/motd")
	if err != nil {
		return 0
	}
	ctx.Stdout.Write(string(data))
	return 0
}

func cmdEdit(ctx *Context, cmd Command) int {
	if ctx.Apps == nil {
		ctx.Stderr.WriteLine("edit: no terminal attached")
		return 1
	}
	args := cmd.Args
	if cmd.HasFlag("readonly") {
		args = append([]string{"--readonly"}, args...)
	}
	return ctx.Apps.RunApp("edit", args, ctx)
}

func cmdExit(ctx *Context, cmd Command) int {
	ctx.RequestExit()
	return 0
}
