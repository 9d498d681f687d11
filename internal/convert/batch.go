package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/misterclayt0n/zwo2erg/internal/utils"
)

const DefaultExtension = ".erg"

type BatchOptions struct {
	Options
	// OutputDir receives the converted files. Empty means next to each source.
	OutputDir string
	Extension string
	Workers   int
	Logger    *slog.Logger
}

type FileResult struct {
	Source string
	Output string
	Result *Result
	Err    error
}

// File reads src, converts it and writes the output atomically.
func File(src string, opts BatchOptions) FileResult {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	fr := FileResult{Source: src, Output: utils.OutputPath(src, opts.OutputDir, ext)}

	raw, err := os.ReadFile(src)
	if err != nil {
		fr.Err = fmt.Errorf("read %s: %w", src, err)
		return fr
	}

	co := opts.Options
	co.FallbackTitle = utils.TitleFromPath(src)
	res, err := Convert(raw, co)
	if err != nil {
		fr.Err = err
		return fr
	}

	if err := WriteFile(fr.Output, []byte(res.Output)); err != nil {
		fr.Err = err
		return fr
	}
	fr.Result = res
	return fr
}

// Batch converts files with at most opts.Workers conversions in flight. A
// failing file does not stop the others. Once ctx is done, files not yet
// started are reported with ctx.Err(). Results keep the input order.
func Batch(ctx context.Context, files []string, opts BatchOptions) []FileResult {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	results := make([]FileResult, len(files))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, src := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Source: src, Err: err}
				return nil
			}
			fr := File(src, opts)
			if fr.Err != nil {
				log.Error("conversion failed", "file", src, "error", fr.Err)
			} else {
				log.Info("converted", "file", src, "output", fr.Output, "samples", fr.Result.Samples, "warnings", len(fr.Result.Warnings))
				for _, w := range fr.Result.Warnings {
					log.Warn("workout warning", "file", src, "warning", w.String())
				}
			}
			results[i] = fr
			return nil
		})
	}
	g.Wait()

	return results
}

// FindWorkouts lists the ZWO files directly inside dir, sorted by name.
func FindWorkouts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !utils.IsWorkoutFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
