package vfs_test

import (
	"errors"
	"io/fs"
	"testing"

	"hackdesk/internal/vfs"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"/home/ghost", "docs", "/home/ghost/docs"},
		{"/home/ghost", "/etc/motd", "/etc/motd"},
		{"/home/ghost", "..", "/home"},
		{"/home/ghost", "../..", "/"},
		{"/home/ghost/docs", "../loot/passwords.txt", "/home/ghost/loot/passwords.txt"},
		{"/home/ghost", ".", "/home/ghost"},
		{"/home/ghost", "", "/home/ghost"},
		{"/etc", "~", vfs.Home},
		{"/etc", "~/docs", vfs.Home + "/docs"},
		{"/", "../../..", "/"},
		{"/home/ghost", "./docs/./plan.txt", "/home/ghost/docs/plan.txt"},
	}

	for _, tc := range tests {
		if got := vfs.Resolve(tc.base, tc.path); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}

func TestWriteAndReadFile(t *testing.T) {
	f := vfs.New()
	if err := f.MkdirAll("/home/ghost"); err != nil {
		t.Fatal(err)
	}

	if err := f.WriteFile("/home/ghost/note.txt", []byte("hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := f.ReadFile("/home/ghost/note.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q, want %q", data, "hello")
	}

	// Overwrite replaces contents.
	if err := f.WriteFile("/home/ghost/note.txt", []byte("bye")); err != nil {
		t.Fatal(err)
	}
	data, _ = f.ReadFile("/home/ghost/note.txt")
	if string(data) != "bye" {
		t.Errorf("after overwrite got %q, want %q", data, "bye")
	}
}

func TestWriteFileMissingParent(t *testing.T) {
	f := vfs.New()
	err := f.WriteFile("/no/such/dir/file.txt", []byte("x"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestReadDirSorted(t *testing.T) {
	f := vfs.New()
	if err := f.MkdirAll("/d"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"/d/zeta", "/d/alpha", "/d/mid"} {
		if err := f.WriteFile(name, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Mkdir("/d/sub"); err != nil {
		t.Fatal(err)
	}

	entries, err := f.ReadDir("/d")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "sub", "zeta"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Name, want[i])
		}
	}
}

func TestMkdirExisting(t *testing.T) {
	f := vfs.New()
	if err := f.Mkdir("/d"); err != nil {
		t.Fatal(err)
	}
	if err := f.Mkdir("/d"); !errors.Is(err, fs.ErrExist) {
		t.Errorf("expected ErrExist, got %v", err)
	}
	// MkdirAll tolerates existing directories.
	if err := f.MkdirAll("/d/x/y"); err != nil {
		t.Errorf("MkdirAll: %v", err)
	}
}

func TestRemove(t *testing.T) {
	f := vfs.New()
	if err := f.MkdirAll("/d/sub"); err != nil {
		t.Fatal(err)
	}
	if err := f.WriteFile("/d/sub/f", []byte("x")); err != nil {
		t.Fatal(err)
	}

	if err := f.Remove("/d/sub"); err == nil {
		t.Error("expected error removing non-empty directory")
	}
	if err := f.Remove("/d/sub/f"); err != nil {
		t.Errorf("Remove file: %v", err)
	}
	if err := f.Remove("/d/sub"); err != nil {
		t.Errorf("Remove empty dir: %v", err)
	}
	if f.Exists("/d/sub") {
		t.Error("directory still exists after Remove")
	}
}

func TestRename(t *testing.T) {
	f := vfs.New()
	if err := f.MkdirAll("/a"); err != nil {
		t.Fatal(err)
	}
	if err := f.MkdirAll("/b"); err != nil {
		t.Fatal(err)
	}
	if err := f.WriteFile("/a/f", []byte("data")); err != nil {
		t.Fatal(err)
	}

	if err := f.Rename("/a/f", "/b/g"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if f.Exists("/a/f") {
		t.Error("old path still exists")
	}
	data, err := f.ReadFile("/b/g")
	if err != nil || string(data) != "data" {
		t.Errorf("ReadFile after rename = %q, %v", data, err)
	}
}

func TestStat(t *testing.T) {
	f := vfs.New()
	if err := f.MkdirAll("/d"); err != nil {
		t.Fatal(err)
	}
	if err := f.WriteFile("/d/f", []byte("12345")); err != nil {
		t.Fatal(err)
	}

	info, err := f.Stat("/d/f")
	if err != nil {
		t.Fatal(err)
	}
	if info.IsDir || info.Size != 5 || info.Name != "f" {
		t.Errorf("unexpected info %+v", info)
	}

	info, err = f.Stat("/d")
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir {
		t.Error("expected directory")
	}

	if _, err := f.Stat("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	f := vfs.Seed()

	for _, p := range []string{vfs.Home, "/etc/motd", vfs.Home + "/readme.txt", vfs.Home + "/loot/passwords.txt"} {
		if !f.Exists(p) {
			t.Errorf("seeded fs missing %s", p)
		}
	}

	data, err := f.ReadFile("/etc/motd")
	if err != nil || len(data) == 0 {
		t.Errorf("motd unreadable: %v", err)
	}
}
