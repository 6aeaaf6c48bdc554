package bindings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgres wraps an established connection pool; the schema is
// expected to be in place (see migrations/).
func NewPostgres(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(ctx context.Context, chatID int64) (string, error) {
	var spreadsheetID string
	err := s.db.GetContext(ctx, &spreadsheetID,
		`SELECT spreadsheet_id FROM sheet_bindings WHERE chat_id = $1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select binding: %w", err)
	}
	return spreadsheetID, nil
}

func (s *postgresStore) Put(ctx context.Context, chatID int64, spreadsheetID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sheet_bindings (chat_id, spreadsheet_id, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (chat_id) DO UPDATE
		 SET spreadsheet_id = EXCLUDED.spreadsheet_id, updated_at = now()`,
		chatID, spreadsheetID)
	if err != nil {
		return fmt.Errorf("upsert binding: %w", err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_bindings WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("delete binding: %w", err)
	}
	return nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}
