// Package shell implements the simulated command line: the tokenizer, the
// command registry, the processor that runs handlers against an execution
// context, and the interactive session hosted in every terminal window.
package shell

import "strings"

// Command is the result of parsing one input line.
type Command struct {
	Name  string
	Args  []string
	Flags map[string]string
}

// HasFlag reports whether a flag was present, with or without a value.
func (c Command) HasFlag(name string) bool {
	_, ok := c.Flags[name]
	return ok
}

// Flag returns the flag value; bare flags read as "true".
func (c Command) Flag(name string) string {
	return c.Flags[name]
}

// Parse tokenizes an input line. The grammar is deliberately simple and
// has no quoting: tokens split on spaces, "--opt=val" and "--flag" are
// long flags, and "-s value" consumes the next token as the value when
// that token does not itself start with a dash. Everything else is a
// positional argument. An all-whitespace line parses to an empty Name.
func Parse(input string) Command {
	cmd := Command{Flags: map[string]string{}}

	tokens := strings.Split(strings.TrimSpace(input), " ")
	fields := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			fields = append(fields, t)
		}
	}
	if len(fields) == 0 {
		return cmd
	}

	cmd.Name = fields[0]
	rest := fields[1:]
	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		switch {
		case strings.HasPrefix(tok, "--"):
			body := tok[2:]
			if body == "" {
				continue
			}
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				cmd.Flags[body[:eq]] = body[eq+1:]
			} else {
				cmd.Flags[body] = "true"
			}
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			name := tok[1:]
			if i+1 < len(rest) && !strings.HasPrefix(rest[i+1], "-") {
				cmd.Flags[name] = rest[i+1]
				i++
			} else {
				cmd.Flags[name] = "true"
			}
		default:
			cmd.Args = append(cmd.Args, tok)
		}
	}
	return cmd
}
