package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/misterclayt0n/zwo2erg/internal/models"
)

// ExportHistoryToTOML writes every recorded conversion to a single TOML file,
// oldest first.
func (s *Storage) ExportHistoryToTOML(ctx context.Context, outputPath string) (int, error) {
	conversions, err := s.ListConversions(ctx, ListFilter{})
	if err != nil {
		return 0, err
	}

	var dump models.HistoryTOML
	for i := len(conversions) - 1; i >= 0; i-- {
		c := conversions[i]
		dump.Conversions = append(dump.Conversions, models.ConversionTOML{
			ID:              c.ID,
			SourcePath:      c.SourcePath,
			OutputPath:      c.OutputPath,
			Title:           c.Title,
			FTP:             c.FTP,
			Segments:        c.Segments,
			Samples:         c.Samples,
			DurationSeconds: c.DurationSeconds,
			Warnings:        c.Warnings,
			Status:          c.Status,
			Error:           c.Error,
			CreatedAt:       c.CreatedAt.UTC().Format(timeLayout),
		})
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(dump); err != nil {
		return 0, fmt.Errorf("encoding TOML: %w", err)
	}

	// Make the output path absolute relative to the current directory.
	outputPath, err = filepath.Abs(outputPath)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return 0, fmt.Errorf("writing export file: %w", err)
	}

	return len(dump.Conversions), nil
}

// ImportHistoryFromTOML replaces the history with the contents of a dump
// written by ExportHistoryToTOML.
func (s *Storage) ImportHistoryFromTOML(ctx context.Context, filePath string) (int, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("Reading file %s: %w", filePath, err)
	}

	var dump models.HistoryTOML
	if _, err := toml.Decode(string(data), &dump); err != nil {
		return 0, fmt.Errorf("Decoding TOML: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("Begin transaction: %w", err)
	}
	// Roll back on error.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM conversions"); err != nil {
		return 0, fmt.Errorf("Clearing conversions: %w", err)
	}

	for _, row := range dump.Conversions {
		createdAt, err := time.Parse(timeLayout, row.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("conversion %s: invalid created_at %q: %w", row.ID, row.CreatedAt, err)
		}
		c := &models.Conversion{
			ID:              row.ID,
			SourcePath:      row.SourcePath,
			OutputPath:      row.OutputPath,
			Title:           row.Title,
			FTP:             row.FTP,
			Segments:        row.Segments,
			Samples:         row.Samples,
			DurationSeconds: row.DurationSeconds,
			Warnings:        row.Warnings,
			Status:          row.Status,
			Error:           row.Error,
			CreatedAt:       createdAt,
		}
		if c.ID == "" {
			c.ID = generateID()
		}
		if err := insertConversion(ctx, tx, c); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("Committing transaction: %w", err)
	}

	return len(dump.Conversions), nil
}

// GetHistoryExportPath returns the default location of the TOML dump.
func GetHistoryExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "zwo2erg")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history_dump.toml"), nil
}
