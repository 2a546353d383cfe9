package model

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// Provider hands out the artifact used to serve a request.
type Provider interface {
	Artifact(ctx context.Context) (*Artifact, error)
	Ready() bool
}

// Static serves one artifact loaded up front. It never reloads.
type Static struct {
	a *Artifact
}

// NewStatic wraps an already loaded artifact.
func NewStatic(a *Artifact) *Static { return &Static{a: a} }

// LoadStatic loads path eagerly; callers treat an error as fatal.
func LoadStatic(path string) (*Static, error) {
	a, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(a), nil
}

func (s *Static) Artifact(ctx context.Context) (*Artifact, error) { return s.a, nil }
func (s *Static) Ready() bool                                      { return s.a != nil }

// fingerprint identifies one version of the artifact file on disk.
type fingerprint struct {
	path    string
	modNano int64
	size    int64
}

// defaultCacheSize bounds how many artifact versions a Lazy provider retains.
const defaultCacheSize = 4

// Lazy loads the artifact on first use and caches it per file version, so a
// replaced file is picked up by the next request.
type Lazy struct {
	path  string
	cache *lru.Cache[fingerprint, *Artifact]
	loads atomic.Int64
}

// NewLazy creates a provider for path without touching the file.
func NewLazy(path string, cacheSize int) (*Lazy, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	c, err := lru.New[fingerprint, *Artifact](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Lazy{path: path, cache: c}, nil
}

// Path returns the artifact path this provider serves.
func (l *Lazy) Path() string { return l.path }

// Loads returns how many times the artifact was decoded from disk.
func (l *Lazy) Loads() int64 { return l.loads.Load() }

func (l *Lazy) Artifact(ctx context.Context) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound(l.path)
		}
		return nil, ErrLoad(l.path, err)
	}
	key := fingerprint{path: l.path, modNano: st.ModTime().UnixNano(), size: st.Size()}
	if a, ok := l.cache.Get(key); ok {
		return a, nil
	}
	a, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.loads.Add(1)
	l.cache.Add(key, a)
	log.Debug().Str("model_path", l.path).Int64("size", st.Size()).Msg("model artifact loaded")
	return a, nil
}

// Ready reports whether the artifact file is present.
func (l *Lazy) Ready() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Invalidate drops every cached artifact version.
func (l *Lazy) Invalidate() { l.cache.Purge() }
