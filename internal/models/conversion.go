package models

import "time"

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Conversion is one row of the conversion history.
type Conversion struct {
	ID              string    `json:"id"`
	SourcePath      string    `json:"source_path"`
	OutputPath      string    `json:"output_path"`
	Title           string    `json:"title"`
	FTP             float64   `json:"ftp"`
	Segments        int       `json:"segments"`
	Samples         int       `json:"samples"`
	DurationSeconds int       `json:"duration_seconds"`
	Warnings        []string  `json:"warnings"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

//
// For TOML dumps only
//

type HistoryTOML struct {
	Conversions []ConversionTOML `toml:"conversion"`
}

type ConversionTOML struct {
	ID              string   `toml:"id"`
	SourcePath      string   `toml:"source_path"`
	OutputPath      string   `toml:"output_path,omitempty"`
	Title           string   `toml:"title"`
	FTP             float64  `toml:"ftp,omitempty"`
	Segments        int      `toml:"segments"`
	Samples         int      `toml:"samples"`
	DurationSeconds int      `toml:"duration_seconds"`
	Warnings        []string `toml:"warnings,omitempty"`
	Status          string   `toml:"status"`
	Error           string   `toml:"error,omitempty"`
	CreatedAt       string   `toml:"created_at"`
}
