package shell_test

import (
	"reflect"
	"testing"

	"hackdesk/internal/shell"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  shell.Command
	}{
		{
			name:  "empty input",
			input: "",
			want:  shell.Command{Flags: map[string]string{}},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  shell.Command{Flags: map[string]string{}},
		},
		{
			name:  "bare command",
			input: "ls",
			want:  shell.Command{Name: "ls", Flags: map[string]string{}},
		},
		{
			name:  "args and every flag form",
			input: "cmd a b --flag --opt=val -s short",
			want: shell.Command{
				Name: "cmd",
				Args: []string{"a", "b"},
				Flags: map[string]string{
					"flag": "true",
					"opt":  "val",
					"s":    "short",
				},
			},
		},
		{
			name:  "short flag before another flag stays boolean",
			input: "cmd -v --all",
			want: shell.Command{
				Name:  "cmd",
				Flags: map[string]string{"v": "true", "all": "true"},
			},
		},
		{
			name:  "short flag at end of line",
			input: "cmd -x",
			want: shell.Command{
				Name:  "cmd",
				Flags: map[string]string{"x": "true"},
			},
		},
		{
			name:  "long flag with empty value",
			input: "cmd --opt=",
			want: shell.Command{
				Name:  "cmd",
				Flags: map[string]string{"opt": ""},
			},
		},
		{
			name:  "leading and trailing whitespace",
			input: "  echo hi  ",
			want: shell.Command{
				Name:  "echo",
				Args:  []string{"hi"},
				Flags: map[string]string{},
			},
		},
		{
			name:  "no quoting: quotes are literal",
			input: `echo "two words"`,
			want: shell.Command{
				Name:  "echo",
				Args:  []string{`"two`, `words"`},
				Flags: map[string]string{},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := shell.Parse(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestCommandFlagHelpers(t *testing.T) {
	cmd := shell.Parse("cmd --verbose --out=x")
	if !cmd.HasFlag("verbose") {
		t.Error("HasFlag(verbose) = false")
	}
	if cmd.HasFlag("quiet") {
		t.Error("HasFlag(quiet) = true")
	}
	if cmd.Flag("out") != "x" {
		t.Errorf("Flag(out) = %q", cmd.Flag("out"))
	}
}
