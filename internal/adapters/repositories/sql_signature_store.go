package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the SignatureStore port. One artifact per
// order; re-saving replaces the previous one.
type SQLSignatureStore struct{ DB *sql.DB }

func NewSQLSignatureStore(db *sql.DB) *SQLSignatureStore {
	return &SQLSignatureStore{DB: db}
}

func (s *SQLSignatureStore) SaveSignature(ctx context.Context, orderID int, png []byte) error {
	if s.DB == nil {
		return errors.New("sql signature store: DB is nil")
	}
	if len(png) == 0 {
		return errors.New("save signature: artifact is empty")
	}

	query := `
	INSERT INTO signatures (order_id, png, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (order_id) DO UPDATE
	SET png = EXCLUDED.png,
		created_at = EXCLUDED.created_at;
	`

	if _, err := s.DB.ExecContext(ctx, query, orderID, png, time.Now().UTC()); err != nil {
		return fmt.Errorf("save signature: order %d: %w", orderID, err)
	}

	return nil
}
