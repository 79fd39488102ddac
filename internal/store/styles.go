package store

import (
	"context"
	"sync"

	"github.com/hpungsan/crib/internal/db"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/style"
)

// Styles persists the partial style configuration.
type Styles struct {
	mu      sync.Mutex
	backend Backend
	opts    options
}

// NewStyles returns a Styles backed by backend.
func NewStyles(backend Backend, opts ...Option) *Styles {
	return &Styles{backend: backend, opts: newOptions(opts)}
}

// Partial returns the stored partial configuration. Absent or unreadable
// values yield an empty partial.
func (s *Styles) Partial(ctx context.Context) (style.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partial(ctx)
}

// Load returns the stored partial resolved over the defaults.
func (s *Styles) Load(ctx context.Context) (style.Config, error) {
	p, err := s.Partial(ctx)
	if err != nil {
		return nil, err
	}
	return style.Resolve(p), nil
}

// Save replaces the stored partial with c.
func (s *Styles) Save(ctx context.Context, c style.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, c)
}

// Merge overlays changes on the stored partial, saves it and returns the
// resolved result. The read and write happen in one backend transaction.
func (s *Styles) Merge(ctx context.Context, changes style.Config) (style.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var merged style.Config
	err := s.backend.Update(ctx, db.StylesKey, func(raw string, ok bool) (string, bool, error) {
		merged = s.decode(raw, ok)
		for k, v := range changes {
			merged[k] = v
		}
		data, err := merged.Encode()
		if err != nil {
			return "", false, errors.NewInternal(err)
		}
		return string(data), true, nil
	})
	if err != nil {
		return nil, err
	}
	return style.Resolve(merged), nil
}

// Reset persists the default configuration and returns it.
func (s *Styles) Reset(ctx context.Context) (style.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := style.Defaults()
	if err := s.save(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

func (s *Styles) partial(ctx context.Context) (style.Config, error) {
	raw, ok, err := s.backend.Get(ctx, db.StylesKey)
	if err != nil {
		return nil, err
	}
	return s.decode(raw, ok), nil
}

// decode parses a stored partial. Absent or unreadable values are empty.
func (s *Styles) decode(raw string, ok bool) style.Config {
	if !ok {
		return style.Config{}
	}
	c, err := style.Decode([]byte(raw))
	if err != nil {
		s.opts.log.WithError(err).WithField("key", db.StylesKey).Warn("stored style configuration unreadable, using defaults")
		return style.Config{}
	}
	return c
}

func (s *Styles) save(ctx context.Context, c style.Config) error {
	data, err := c.Encode()
	if err != nil {
		return errors.NewInternal(err)
	}
	return s.backend.Set(ctx, db.StylesKey, string(data))
}
