// Package bindings persists which spreadsheet each chat writes to.
package bindings

import (
	"context"
	"errors"
)

// ErrNotFound reports that a chat has no spreadsheet bound yet.
var ErrNotFound = errors.New("bindings: not found")

// Store maps a chat to its spreadsheet ID. A binding is set only after
// link validation succeeds and is looked up before any writing dialog
// starts.
type Store interface {
	Get(ctx context.Context, chatID int64) (string, error)
	Put(ctx context.Context, chatID int64, spreadsheetID string) error
	Delete(ctx context.Context, chatID int64) error
	Close() error
}
