// Package convert ties the ZWO parser and the ERG emitter together and owns
// the file-level concerns around a single conversion.
package convert

import (
	"github.com/misterclayt0n/zwo2erg/internal/erg"
	"github.com/misterclayt0n/zwo2erg/internal/models"
	"github.com/misterclayt0n/zwo2erg/internal/zwo"
)

type Options struct {
	// FallbackTitle is used when the document has no <name>.
	FallbackTitle string
	// FTP scales powers to watts when positive. Zero keeps the document's FTP, if any.
	FTP float64
	erg.Options
}

type Result struct {
	Metadata        models.Metadata
	Output          string
	Warnings        []models.Warning
	Segments        int
	Samples         int
	DurationSeconds int
	FTP             float64
}

// Convert parses a ZWO document and renders it as ERG text.
func Convert(raw []byte, opts Options) (*Result, error) {
	w, err := zwo.Parse(raw, opts.FallbackTitle)
	if err != nil {
		return nil, err
	}

	course, err := erg.Build(w.Metadata, w.Segments, opts.FTP, opts.Options)
	if err != nil {
		return nil, err
	}

	return &Result{
		Metadata:        w.Metadata,
		Output:          course.Text,
		Warnings:        w.Warnings,
		Segments:        len(w.Segments),
		Samples:         course.Samples,
		DurationSeconds: course.DurationSeconds,
		FTP:             course.FTP,
	}, nil
}
