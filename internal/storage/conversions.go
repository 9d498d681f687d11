package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/misterclayt0n/zwo2erg/internal/models"
)

// Fixed width so that created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var ErrDuplicateConversion = errors.New("conversion already recorded")

// RecordConversion stores c, filling in ID and CreatedAt when empty. A caller
// supplied ID that is already in the history is rejected.
func (s *Storage) RecordConversion(ctx context.Context, c *models.Conversion) error {
	if c.ID == "" {
		c.ID = generateID()
	} else {
		exists, err := s.ConversionExists(ctx, c.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrDuplicateConversion, c.ID)
		}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return insertConversion(ctx, s.DB, c)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertConversion(ctx context.Context, db execer, c *models.Conversion) error {
	warningsJSON, err := json.Marshal(c.Warnings)
	if err != nil {
		return fmt.Errorf("Failed to marshal warnings: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO conversions
         (id, source_path, output_path, title, ftp, segments, samples, duration_seconds, warnings, status, error, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.SourcePath,
		c.OutputPath,
		c.Title,
		c.FTP,
		c.Segments,
		c.Samples,
		c.DurationSeconds,
		string(warningsJSON),
		c.Status,
		c.Error,
		c.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("Failed to record conversion: %w", err)
	}
	return nil
}

type ListFilter struct {
	// Title matches case-insensitively as a substring.
	Title  string
	Status string
	Limit  int
}

// ListConversions returns matching conversions, newest first.
func (s *Storage) ListConversions(ctx context.Context, f ListFilter) ([]models.Conversion, error) {
	query := `
        SELECT id, source_path, output_path, title, ftp, segments, samples, duration_seconds, warnings, status, error, created_at
        FROM conversions
        WHERE 1 = 1`
	var args []any
	if f.Title != "" {
		query += ` AND LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Failed to query conversions: %w", err)
	}
	defer rows.Close()

	var out []models.Conversion
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Failed to iterate conversions: %w", err)
	}
	return out, nil
}

// GetConversion returns the conversion with the given id, or nil if there is none.
func (s *Storage) GetConversion(ctx context.Context, id string) (*models.Conversion, error) {
	row := s.DB.QueryRowContext(ctx, `
        SELECT id, source_path, output_path, title, ftp, segments, samples, duration_seconds, warnings, status, error, created_at
        FROM conversions
        WHERE id = ?`, id)

	c, err := scanConversion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// ClearConversions deletes the whole history and returns the number of rows removed.
func (s *Storage) ClearConversions(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM conversions`)
	if err != nil {
		return 0, fmt.Errorf("Failed to clear conversions: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversion(row scanner) (*models.Conversion, error) {
	var c models.Conversion
	var outputPath, warnings, errText sql.NullString
	var ftp sql.NullFloat64
	var createdAt string

	err := row.Scan(
		&c.ID,
		&c.SourcePath,
		&outputPath,
		&c.Title,
		&ftp,
		&c.Segments,
		&c.Samples,
		&c.DurationSeconds,
		&warnings,
		&c.Status,
		&errText,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to scan conversion: %w", err)
	}

	c.OutputPath = outputPath.String
	c.FTP = ftp.Float64
	c.Error = errText.String
	if warnings.Valid && warnings.String != "" {
		if err := json.Unmarshal([]byte(warnings.String), &c.Warnings); err != nil {
			return nil, fmt.Errorf("Failed to unmarshal warnings: %w", err)
		}
	}
	c.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &c, nil
}

func generateID() string {
	return uuid.New().String()
}
