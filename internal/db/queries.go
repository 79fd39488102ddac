package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/crib/internal/errors"
)

// Fixed keys of the persisted state.
const (
	SheetsKey = "cheatsheets"
	StylesKey = "cheatsheet-styles"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetValue returns the raw value stored under key.
// The boolean is false when the key has never been written.
func GetValue(ctx context.Context, db querier, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return value, true, nil
}

// SetValue writes value under key, replacing any previous value.
func SetValue(ctx context.Context, db querier, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// DeleteValue removes key. Removing an absent key is not an error.
func DeleteValue(ctx context.Context, db querier, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// KV adapts a database handle to the key/value interface used by the store.
type KV struct {
	DB *sql.DB
}

// Get implements store.Backend.
func (k KV) Get(ctx context.Context, key string) (string, bool, error) {
	return GetValue(ctx, k.DB, key)
}

// Set implements store.Backend.
func (k KV) Set(ctx context.Context, key, value string) error {
	return SetValue(ctx, k.DB, key, value)
}

// Update reads key, passes the value to fn and stores fn's result, all in
// one transaction. Connections begin transactions IMMEDIATE (see Init), so
// concurrent writers from other processes serialize instead of losing
// updates. When fn reports write == false the transaction is rolled back.
func (k KV) Update(ctx context.Context, key string, fn func(value string, ok bool) (next string, write bool, err error)) error {
	tx, err := k.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	value, ok, err := GetValue(ctx, tx, key)
	if err != nil {
		return err
	}
	next, write, err := fn(value, ok)
	if err != nil || !write {
		return err
	}
	if err := SetValue(ctx, tx, key, next); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
