// Package apps maps application names to launchers for the programs a
// session can run full-screen: commands reach it through the shell
// context's AppRunner hook.
package apps

import (
	"sort"

	"hackdesk/internal/editor"
	"hackdesk/internal/shell"
	"hackdesk/internal/termapp"
)

// Launcher builds a fresh application instance per run.
type Launcher func() termapp.App

// Registry is the name to launcher table. It implements shell.AppRunner.
type Registry struct {
	launchers map[string]Launcher
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{launchers: make(map[string]Launcher)}
}

// Default returns the registry with the stock applications installed.
func Default() *Registry {
	r := NewRegistry()
	r.Register("edit", func() termapp.App { return editor.New() })
	return r
}

// Register installs a launcher; the last registration for a name wins.
func (r *Registry) Register(name string, l Launcher) {
	r.launchers[name] = l
}

// Names returns the registered application names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.launchers))
	for name := range r.launchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunApp launches the named application over the session's surface and
// blocks until it exits.
func (r *Registry) RunApp(name string, args []string, ctx *shell.Context) int {
	l, ok := r.launchers[name]
	if !ok {
		ctx.Stderr.WriteLine("no such application: " + name)
		return 1
	}
	host := termapp.NewHost(l())
	return host.Run(args, ctx)
}
