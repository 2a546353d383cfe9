// Package storage manages the data directory that receives uploaded datasets
// and the generated sample file.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"exovision/internal/common/fsutil"
)

// invalidNameError rejects upload names that do not reduce to a plain file name.
type invalidNameError struct{ name string }

func (e invalidNameError) Error() string { return fmt.Sprintf("invalid file name %q", e.name) }

// IsInvalidName reports whether err rejected a file name.
func IsInvalidName(err error) bool {
	var e invalidNameError
	return errors.As(err, &e)
}

// CleanName reduces an uploaded name to its base name so uploads can never
// escape the data directory.
func CleanName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	switch base {
	case "", ".", "..", "/":
		return "", invalidNameError{name: name}
	}
	return base, nil
}

// Store is a flat directory of data files, created on demand.
type Store struct {
	dir string
}

// New resolves dir (expanding '~') without creating it.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty data dir")
	}
	abs, err := fsutil.Resolve(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: abs}, nil
}

// Dir returns the absolute data directory.
func (s *Store) Dir() string { return s.dir }

// Path returns where name is stored.
func (s *Store) Path(name string) (string, error) {
	base, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, base), nil
}

// Save writes r to name, replacing any existing file of that name.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	p, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := fsutil.EnsureDir(s.dir); err != nil {
		return "", err
	}
	f, err := os.Create(p)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return p, nil
}

// EnsureFile creates name with the output of create unless it already exists.
// It reports whether the file was created by this call.
func (s *Store) EnsureFile(name string, create func(w io.Writer) error) (string, bool, error) {
	p, err := s.Path(name)
	if err != nil {
		return "", false, err
	}
	if fsutil.PathExists(p) {
		return p, false, nil
	}
	if err := fsutil.EnsureDir(s.dir); err != nil {
		return "", false, err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return p, false, nil
	}
	if err != nil {
		return "", false, err
	}
	if err := create(f); err != nil {
		f.Close()
		os.Remove(p)
		return "", false, err
	}
	if err := f.Close(); err != nil {
		return "", false, err
	}
	return p, true, nil
}
