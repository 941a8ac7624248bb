package shell

import "fmt"

// Processor runs parsed commands from a registry against a context.
type Processor struct {
	registry *Registry
}

// NewProcessor returns a processor over the given registry.
func NewProcessor(registry *Registry) *Processor {
	return &Processor{registry: registry}
}

// Registry exposes the underlying registry for help output.
func (p *Processor) Registry() *Registry {
	return p.registry
}

// Execute parses and runs one input line, returning the command's exit
// code. Empty input is a successful no-op. An unknown command prints
// "Command not found" and succeeds; only handler errors and panics
// produce exit code 1.
func (p *Processor) Execute(ctx *Context, input string) (code int) {
	cmd := Parse(input)
	if cmd.Name == "" {
		return 0
	}

	handler, ok := p.registry.Lookup(cmd.Name)
	if !ok {
		ctx.Stderr.WriteLine("Command not found: " + cmd.Name)
		return 0
	}

	// A panicking handler must not take the session down with it.
	defer func() {
		if r := recover(); r != nil {
			ctx.Stderr.WriteLine(fmt.Sprintf("%s: %v", cmd.Name, r))
			code = 1
		}
	}()

	return handler(ctx, cmd)
}
