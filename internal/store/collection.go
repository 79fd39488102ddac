package store

import (
	"context"
	"slices"
	"sync"

	"github.com/hpungsan/crib/internal/db"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/sheet"
)

// Collection is the ordered set of cheatsheets. Every successful mutation
// re-serializes the whole collection to the backend.
type Collection struct {
	mu      sync.Mutex
	backend Backend
	opts    options
	sheets  []sheet.Sheet
}

// Open loads the collection from backend. A corrupt stored value is
// logged and treated as an empty collection.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Collection, error) {
	c := &Collection{backend: backend, opts: newOptions(opts)}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh reloads the collection from the backend, discarding in-memory state.
func (c *Collection) Refresh(ctx context.Context) error {
	raw, ok, err := c.backend.Get(ctx, db.SheetsKey)
	if err != nil {
		return err
	}
	sheets := c.decode(raw, ok)

	c.mu.Lock()
	c.sheets = sheets
	c.mu.Unlock()
	return nil
}

// List returns a copy of every sheet in stored order.
func (c *Collection) List() []sheet.Sheet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sheets)
}

// Len returns the number of sheets.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sheets)
}

// Get returns the sheet with id.
func (c *Collection) Get(id string) (sheet.Sheet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := index(c.sheets, id)
	if i < 0 {
		return sheet.Sheet{}, false
	}
	return c.sheets[i], true
}

// Create appends a new sheet with a fresh ID and equal created/modified times.
func (c *Collection) Create(ctx context.Context, title, content string) (sheet.Sheet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s sheet.Sheet
	err := c.mutate(ctx, func(current []sheet.Sheet) ([]sheet.Sheet, bool) {
		now := c.opts.now().UTC()
		id := sheet.NewID()
		for index(current, id) >= 0 {
			id = sheet.NewID()
		}
		s = sheet.Sheet{
			ID:       id,
			Title:    title,
			Content:  content,
			Created:  now,
			Modified: now,
		}
		return append(current, s), true
	})
	if err != nil {
		return sheet.Sheet{}, err
	}
	return s, nil
}

// Update replaces the title and content of the sheet with id and refreshes
// its modified time. An absent id is not an error: found is false and
// nothing is written.
func (c *Collection) Update(ctx context.Context, id, title, content string) (updated sheet.Sheet, found bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.mutate(ctx, func(current []sheet.Sheet) ([]sheet.Sheet, bool) {
		i := index(current, id)
		if i < 0 {
			return current, false
		}
		found = true
		current[i].Title = title
		current[i].Content = content
		current[i].Modified = c.opts.now().UTC()
		updated = current[i]
		return current, true
	})
	if err != nil {
		return sheet.Sheet{}, found, err
	}
	return updated, found, nil
}

// Delete removes the sheet with id. An absent id is a no-op and nothing
// is written.
func (c *Collection) Delete(ctx context.Context, id string) (found bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.mutate(ctx, func(current []sheet.Sheet) ([]sheet.Sheet, bool) {
		i := index(current, id)
		if i < 0 {
			return current, false
		}
		found = true
		return slices.Delete(current, i, i+1), true
	})
	return found, err
}

// mutate applies fn to the collection as currently stored and persists
// the result in one backend transaction, so writes made through other
// handles since the last load are kept. On success, or when fn declines
// to write, the in-memory copy is replaced with what the backend now
// holds. Caller must hold mu.
func (c *Collection) mutate(ctx context.Context, fn func(current []sheet.Sheet) ([]sheet.Sheet, bool)) error {
	var next []sheet.Sheet
	err := c.backend.Update(ctx, db.SheetsKey, func(raw string, ok bool) (string, bool, error) {
		var write bool
		next, write = fn(c.decode(raw, ok))
		if !write {
			return "", false, nil
		}
		data, err := sheet.Marshal(next)
		if err != nil {
			return "", false, errors.NewInternal(err)
		}
		return data, true, nil
	})
	if err != nil {
		return err
	}
	c.sheets = next
	return nil
}

// decode parses a stored collection. Unreadable data is logged and read
// as empty.
func (c *Collection) decode(raw string, ok bool) []sheet.Sheet {
	if !ok {
		return []sheet.Sheet{}
	}
	sheets, err := sheet.Unmarshal(raw)
	if err != nil {
		c.opts.log.WithError(err).WithField("key", db.SheetsKey).Warn("stored cheatsheets unreadable, starting empty")
		return []sheet.Sheet{}
	}
	return sheets
}

// index returns the position of id in sheets or -1.
func index(sheets []sheet.Sheet, id string) int {
	return slices.IndexFunc(sheets, func(s sheet.Sheet) bool { return s.ID == id })
}
