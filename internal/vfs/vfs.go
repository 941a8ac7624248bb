// Package vfs implements the in-memory filesystem the simulated shell and
// editor operate on. All paths are slash-separated and rooted at "/"; the
// tree is mutex-guarded because applications run on their own goroutines.
package vfs

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// Home is the simulated user's home directory.
const Home = "/home/ghost"

// node is a file or directory in the tree.
type node struct {
	name     string
	dir      bool
	data     []byte
	children map[string]*node
	modTime  time.Time
}

// FileInfo describes a single entry.
type FileInfo struct {
	Name    string
	IsDir   bool
	Size    int
	ModTime time.Time
}

// FS is the virtual filesystem.
type FS struct {
	mu   sync.RWMutex
	root *node
}

// New returns an empty filesystem containing only the root directory.
func New() *FS {
	return &FS{root: &node{name: "/", dir: true, children: map[string]*node{}, modTime: time.Now()}}
}

// Resolve normalizes p against base: "~" expands to the home directory,
// relative paths join onto base, and "."/".." segments collapse. The
// result is always absolute and cleaned. Resolve does not touch the tree,
// so the target does not have to exist.
func Resolve(base, p string) string {
	switch {
	case p == "":
		return path.Clean(base)
	case p == "~":
		return Home
	case strings.HasPrefix(p, "~/"):
		p = Home + p[1:]
	case !strings.HasPrefix(p, "/"):
		p = base + "/" + p
	}
	return path.Clean(p)
}

// lookup walks an absolute cleaned path. Caller holds the lock.
func (f *FS) lookup(p string) (*node, error) {
	if p == "/" {
		return f.root, nil
	}
	cur := f.root
	for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if !cur.dir {
			return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
		}
		next, ok := cur.children[part]
		if !ok {
			return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
		}
		cur = next
	}
	return cur, nil
}

// Exists reports whether p names a file or directory.
func (f *FS) Exists(p string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, err := f.lookup(path.Clean(p))
	return err == nil
}

// Stat returns info for p.
func (f *FS) Stat(p string) (FileInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n, err := f.lookup(path.Clean(p))
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{Name: n.name, IsDir: n.dir, Size: len(n.data), ModTime: n.modTime}, nil
}

// ReadFile returns the contents of the file at p.
func (f *FS) ReadFile(p string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n, err := f.lookup(path.Clean(p))
	if err != nil {
		return nil, err
	}
	if n.dir {
		return nil, fmt.Errorf("%s: is a directory", p)
	}
	out := make([]byte, len(n.data))
	copy(out, n.data)
	return out, nil
}

// WriteFile creates or replaces the file at p. The parent directory must
// already exist.
func (f *FS) WriteFile(p string, data []byte) error {
	p = path.Clean(p)
	f.mu.Lock()
	defer f.mu.Unlock()

	parent, err := f.lookup(path.Dir(p))
	if err != nil {
		return err
	}
	if !parent.dir {
		return fmt.Errorf("%s: not a directory", path.Dir(p))
	}
	name := path.Base(p)
	if existing, ok := parent.children[name]; ok {
		if existing.dir {
			return fmt.Errorf("%s: is a directory", p)
		}
		existing.data = append(existing.data[:0], data...)
		existing.modTime = time.Now()
		return nil
	}
	parent.children[name] = &node{name: name, data: append([]byte(nil), data...), modTime: time.Now()}
	return nil
}

// ReadDir lists the directory at p sorted by name.
func (f *FS) ReadDir(p string) ([]FileInfo, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n, err := f.lookup(path.Clean(p))
	if err != nil {
		return nil, err
	}
	if !n.dir {
		return nil, fmt.Errorf("%s: not a directory", p)
	}
	out := make([]FileInfo, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, FileInfo{Name: c.name, IsDir: c.dir, Size: len(c.data), ModTime: c.modTime})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Mkdir creates a single directory; the parent must exist.
func (f *FS) Mkdir(p string) error {
	p = path.Clean(p)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mkdir(p)
}

func (f *FS) mkdir(p string) error {
	parent, err := f.lookup(path.Dir(p))
	if err != nil {
		return err
	}
	if !parent.dir {
		return fmt.Errorf("%s: not a directory", path.Dir(p))
	}
	name := path.Base(p)
	if _, ok := parent.children[name]; ok {
		return fmt.Errorf("%s: %w", p, fs.ErrExist)
	}
	parent.children[name] = &node{name: name, dir: true, children: map[string]*node{}, modTime: time.Now()}
	return nil
}

// MkdirAll creates p and any missing parents. Existing directories along
// the way are fine; an existing file is an error.
func (f *FS) MkdirAll(p string) error {
	p = path.Clean(p)
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.root
	if p == "/" {
		return nil
	}
	for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		next, ok := cur.children[part]
		if !ok {
			next = &node{name: part, dir: true, children: map[string]*node{}, modTime: time.Now()}
			cur.children[part] = next
		} else if !next.dir {
			return fmt.Errorf("%s: not a directory", part)
		}
		cur = next
	}
	return nil
}

// Remove deletes the entry at p. Directories must be empty.
func (f *FS) Remove(p string) error {
	p = path.Clean(p)
	if p == "/" {
		return fmt.Errorf("cannot remove root")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	parent, err := f.lookup(path.Dir(p))
	if err != nil {
		return err
	}
	name := path.Base(p)
	n, ok := parent.children[name]
	if !ok {
		return fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	if n.dir && len(n.children) > 0 {
		return fmt.Errorf("%s: directory not empty", p)
	}
	delete(parent.children, name)
	return nil
}

// Rename moves the entry at oldPath to newPath. The new parent directory
// must exist; an existing target is replaced when it is a file.
func (f *FS) Rename(oldPath, newPath string) error {
	oldPath = path.Clean(oldPath)
	newPath = path.Clean(newPath)
	if oldPath == "/" {
		return fmt.Errorf("cannot rename root")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	oldParent, err := f.lookup(path.Dir(oldPath))
	if err != nil {
		return err
	}
	n, ok := oldParent.children[path.Base(oldPath)]
	if !ok {
		return fmt.Errorf("%s: %w", oldPath, fs.ErrNotExist)
	}

	newParent, err := f.lookup(path.Dir(newPath))
	if err != nil {
		return err
	}
	if !newParent.dir {
		return fmt.Errorf("%s: not a directory", path.Dir(newPath))
	}
	if target, ok := newParent.children[path.Base(newPath)]; ok && target.dir {
		return fmt.Errorf("%s: %w", newPath, fs.ErrExist)
	}

	delete(oldParent.children, path.Base(oldPath))
	n.name = path.Base(newPath)
	n.modTime = time.Now()
	newParent.children[n.name] = n
	return nil
}

// Seed returns a filesystem populated with the stock hackdesk layout: the
// user's home directory, a few system files, and the flavor text the shell
// commands reference.
func Seed() *FS {
	f := New()
	dirs := []string{
		"/bin",
		"/etc",
		"/tmp",
		"/var/log",
		Home,
		Home + "/docs",
		Home + "/loot",
		Home + "/tools",
	}
	for _, d := range dirs {
		if err := f.MkdirAll(d); err != nil {
			panic(err)
		}
	}

	files := map[string]string{
		"/etc/motd": "hackdesk v1.0 -- unauthorized access is mandatory\n",
		"/etc/hosts": "127.0.0.1 localhost\n" +
			"10.13.37.1 gibson.internal\n",
		"/var/log/auth.log": "Jan 01 00:00:01 gibson sshd[666]: Accepted publickey for root\n",
		Home + "/readme.txt": "Welcome to hackdesk.\n" +
			"\n" +
			"Open a terminal, look around with ls and cat, and keep your\n" +
			"notes in the editor (try: edit notes.txt).\n",
		Home + "/docs/plan.txt": "1. get in\n2. get the files\n3. get out\n",
		Home + "/loot/passwords.txt": "admin:hunter2\n" +
			"root:correct-horse-battery-staple\n",
		Home + "/tools/scan.sh": "#!/bin/sh\necho scanning...\n",
	}
	for p, data := range files {
		if err := f.WriteFile(p, []byte(data)); err != nil {
			panic(err)
		}
	}
	return f
}
