// Package output is the file store renders, project files and logs are written to.
// It is backed by a hackpadfs filesystem: the host OS in normal runs, an in-memory
// filesystem in tests.
package output

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	osfs "github.com/hack-pad/hackpadfs/os"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store writes and inspects files by OS path.
type Store struct {
	fs hackpadfs.FS
}

// NewOS returns a store on the host filesystem.
func NewOS() *Store {
	return &Store{fs: osfs.NewFS()}
}

// NewMem returns a store on an empty in-memory filesystem.
func NewMem() (*Store, error) {
	fs, err := mem.NewFS()
	if err != nil {
		return nil, fmt.Errorf("output: mem fs: %w", err)
	}
	return &Store{fs: fs}, nil
}

// fsPath maps an OS path to the slash-separated, root-relative form hackpadfs uses.
func fsPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	abs = filepath.ToSlash(abs)
	if vol := filepath.VolumeName(abs); vol != "" {
		abs = strings.TrimPrefix(abs, vol)
	}
	abs = strings.TrimPrefix(path.Clean(abs), "/")
	if abs == "" {
		return ".", nil
	}
	return abs, nil
}

// MkdirAll creates dir and its parents.
func (s *Store) MkdirAll(dir string) error {
	p, err := fsPath(dir)
	if err != nil {
		return fmt.Errorf("output: %s: %w", dir, err)
	}
	if err := hackpadfs.MkdirAll(s.fs, p, dirPerm); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", dir, err)
	}
	return nil
}

// Write replaces name with data, creating parent directories.
func (s *Store) Write(name string, data []byte) error {
	p, err := fsPath(name)
	if err != nil {
		return fmt.Errorf("output: %s: %w", name, err)
	}
	if dir := path.Dir(p); dir != "." {
		if err := hackpadfs.MkdirAll(s.fs, dir, dirPerm); err != nil {
			return fmt.Errorf("output: mkdir %s: %w", filepath.Dir(name), err)
		}
	}
	if err := hackpadfs.WriteFullFile(s.fs, p, data, filePerm); err != nil {
		return fmt.Errorf("output: write %s: %w", name, err)
	}
	return nil
}

// Append adds data to the end of name, creating it when missing.
func (s *Store) Append(name string, data []byte) error {
	p, err := fsPath(name)
	if err != nil {
		return fmt.Errorf("output: %s: %w", name, err)
	}
	if dir := path.Dir(p); dir != "." {
		if err := hackpadfs.MkdirAll(s.fs, dir, dirPerm); err != nil {
			return fmt.Errorf("output: mkdir %s: %w", filepath.Dir(name), err)
		}
	}
	f, err := hackpadfs.OpenFile(s.fs, p, hackpadfs.FlagWriteOnly|hackpadfs.FlagCreate|hackpadfs.FlagAppend, filePerm)
	if err != nil {
		return fmt.Errorf("output: open %s: %w", name, err)
	}
	defer f.Close()
	w, ok := f.(io.Writer)
	if !ok {
		return fmt.Errorf("output: append %s: %w", name, hackpadfs.ErrNotImplemented)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("output: append %s: %w", name, err)
	}
	return nil
}

// Read returns the contents of name.
func (s *Store) Read(name string) ([]byte, error) {
	p, err := fsPath(name)
	if err != nil {
		return nil, fmt.Errorf("output: %s: %w", name, err)
	}
	data, err := hackpadfs.ReadFile(s.fs, p)
	if err != nil {
		return nil, fmt.Errorf("output: read %s: %w", name, err)
	}
	return data, nil
}

// Size returns the byte size of name.
func (s *Store) Size(name string) (int64, error) {
	p, err := fsPath(name)
	if err != nil {
		return 0, fmt.Errorf("output: %s: %w", name, err)
	}
	info, err := hackpadfs.Stat(s.fs, p)
	if err != nil {
		return 0, fmt.Errorf("output: stat %s: %w", name, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("output: %s: %w", name, hackpadfs.ErrIsDir)
	}
	return info.Size(), nil
}

// Exists reports whether name exists. Errors other than not-exist count as present.
func (s *Store) Exists(name string) bool {
	p, err := fsPath(name)
	if err != nil {
		return false
	}
	_, err = hackpadfs.Stat(s.fs, p)
	return err == nil || !errors.Is(err, hackpadfs.ErrNotExist)
}
