package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/convert"
	"github.com/misterclayt0n/zwo2erg/internal/erg"
	"github.com/misterclayt0n/zwo2erg/internal/models"
	"github.com/misterclayt0n/zwo2erg/internal/storage"
	"github.com/misterclayt0n/zwo2erg/internal/utils"
)

// Flags shared by the commands that write ERG files.
var (
	flagFTP        float64
	flagOutputDir  string
	flagMinutes    bool
	flagCourseText bool
	flagWorkers    int
	flagNoHistory  bool
)

func addConvertFlags(c *cobra.Command) {
	c.Flags().Float64VarP(&flagFTP, "ftp", "f", 0, "FTP in watts used to scale powers (0 writes percent of FTP)")
	c.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory for the .erg files (default: next to each source)")
	c.Flags().BoolVar(&flagMinutes, "minutes", false, "Write offsets in minutes instead of seconds")
	c.Flags().BoolVar(&flagCourseText, "course-text", false, "Add a [COURSE TEXT] section with labels, cadence and text events")
	c.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "Files converted in parallel (default from config)")
	c.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not record conversions in the history database")
}

// batchOptions merges the config with any flags set on the command line.
func batchOptions(c *cobra.Command) (convert.BatchOptions, error) {
	unit, err := erg.ParseTimeUnit(cfg.TimeUnit)
	if err != nil {
		return convert.BatchOptions{}, err
	}
	opts := convert.BatchOptions{
		Options: convert.Options{
			FTP:     cfg.FTP,
			Options: erg.Options{TimeUnit: unit, CourseText: cfg.CourseText},
		},
		OutputDir: cfg.OutputDir,
		Extension: cfg.Extension,
		Workers:   cfg.Workers,
		Logger:    appLog,
	}

	flags := c.Flags()
	if flags.Changed("ftp") {
		if flagFTP < 0 {
			return opts, fmt.Errorf("--ftp must not be negative")
		}
		opts.FTP = flagFTP
	}
	if flags.Changed("output-dir") {
		opts.OutputDir = flagOutputDir
	}
	if flags.Changed("minutes") {
		opts.TimeUnit = erg.Seconds
		if flagMinutes {
			opts.TimeUnit = erg.Minutes
		}
	}
	if flags.Changed("course-text") {
		opts.CourseText = flagCourseText
	}
	if flags.Changed("workers") && flagWorkers > 0 {
		opts.Workers = flagWorkers
	}
	return opts, nil
}

// openHistory returns nil when history is disabled or the database is unreachable.
func openHistory() *storage.Storage {
	if !cfg.History || flagNoHistory {
		return nil
	}
	st, err := storage.Open(cfg.DB.ConnectionString)
	if err != nil {
		appLog.Warn("history disabled", "error", err)
		return nil
	}
	return st
}

func toConversion(fr convert.FileResult) *models.Conversion {
	c := &models.Conversion{
		SourcePath: fr.Source,
		Title:      utils.TitleFromPath(fr.Source),
		Status:     models.StatusOK,
	}
	if fr.Err != nil {
		c.Status = models.StatusFailed
		c.Error = fr.Err.Error()
		return c
	}
	res := fr.Result
	c.OutputPath = fr.Output
	c.Title = res.Metadata.Title
	c.FTP = res.FTP
	c.Segments = res.Segments
	c.Samples = res.Samples
	c.DurationSeconds = res.DurationSeconds
	for _, w := range res.Warnings {
		c.Warnings = append(c.Warnings, w.String())
	}
	return c
}

// report prints one line per file, records the history and returns an error
// when any file failed.
func report(ctx context.Context, st *storage.Storage, results []convert.FileResult) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	failed := 0
	for _, fr := range results {
		if fr.Err != nil {
			failed++
			fmt.Printf("%s %s: %v\n", red("❌"), fr.Source, fr.Err)
		} else {
			fmt.Printf("%s %s → %s (%d samples, %s)\n",
				green("✅"), fr.Source, fr.Output, fr.Result.Samples, utils.FormatDuration(fr.Result.DurationSeconds))
			for _, w := range fr.Result.Warnings {
				fmt.Printf("   %s %s\n", yellow("warning:"), w)
			}
		}

		if st != nil {
			if err := st.RecordConversion(ctx, toConversion(fr)); err != nil {
				appLog.Warn("failed to record conversion", "file", fr.Source, "error", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(results))
	}
	return nil
}
