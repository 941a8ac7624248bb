package shell

import "sort"

// Handler executes one command and returns its exit code.
type Handler func(ctx *Context, cmd Command) int

// Spec describes a registered command for help output.
type Spec struct {
	Name        string
	Usage       string
	Description string
}

type entry struct {
	spec    Spec
	handler Handler
}

// Registry maps command names to handlers and aliases to canonical names.
// It is constructed explicitly and handed to whoever needs it; there is
// no package-level instance. Registration is additive and the last writer
// wins for a duplicate name.
type Registry struct {
	commands map[string]entry
	aliases  map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]entry),
		aliases:  make(map[string]string),
	}
}

// Register adds a command.
func (r *Registry) Register(spec Spec, h Handler) {
	r.commands[spec.Name] = entry{spec: spec, handler: h}
}

// Alias maps alias to canonical. The canonical command does not have to
// exist yet; resolution happens at lookup time.
func (r *Registry) Alias(alias, canonical string) {
	r.aliases[alias] = canonical
}

// Lookup resolves name through the alias table and returns the handler.
// Alias resolution is a single name substitution, never recursive.
func (r *Registry) Lookup(name string) (Handler, bool) {
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	e, ok := r.commands[name]
	if !ok {
		return nil, false
	}
	return e.handler, true
}

// Specs returns all registered commands sorted by name.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.commands))
	for _, e := range r.commands {
		out = append(out, e.spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
