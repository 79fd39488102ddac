// Package store keeps the cheatsheet collection and the style
// configuration in memory and mirrors every change to a key/value backend.
package store

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Backend is a persistent string key/value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Update atomically replaces the value of key with the result of fn.
	// Nothing is stored when fn returns write == false or an error.
	Update(ctx context.Context, key string, fn func(value string, ok bool) (next string, write bool, err error)) error
}

// options shared by Collection and Styles.
type options struct {
	log logrus.FieldLogger
	now func() time.Time
}

// Option configures a Collection or Styles.
type Option func(*options)

// WithLogger sets the logger used for corruption warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithClock overrides the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = l
	}
	return o
}
