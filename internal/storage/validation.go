package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Storage) ConversionExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM conversions WHERE id = ?)",
		id,
	).Scan(&exists)

	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to check conversion existence: %w", err)
	}

	return exists, nil
}
