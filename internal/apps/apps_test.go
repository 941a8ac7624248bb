package apps_test

import (
	"bytes"
	"strings"
	"testing"

	"hackdesk/internal/apps"
	"hackdesk/internal/proc"
	"hackdesk/internal/shell"
	"hackdesk/internal/vfs"
)

func TestDefaultHasEditor(t *testing.T) {
	r := apps.Default()
	names := r.Names()
	found := false
	for _, n := range names {
		if n == "edit" {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() = %v, want edit registered", names)
	}
}

func TestRunUnknownApp(t *testing.T) {
	r := apps.Default()
	var buf bytes.Buffer
	ctx := shell.NewContext(vfs.Seed(), proc.NewTable(), &buf, nil)

	if code := r.RunApp("doom", nil, ctx); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "no such application") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunAppWithoutSurfaceFails(t *testing.T) {
	r := apps.Default()
	var buf bytes.Buffer
	ctx := shell.NewContext(vfs.Seed(), proc.NewTable(), &buf, nil)

	// The editor requires a live surface on the context.
	if code := r.RunApp("edit", nil, ctx); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
