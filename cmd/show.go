package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/misterclayt0n/zwo2erg/internal/erg"
	"github.com/misterclayt0n/zwo2erg/internal/models"
	"github.com/misterclayt0n/zwo2erg/internal/utils"
	"github.com/misterclayt0n/zwo2erg/internal/zwo"
)

var (
	showFormat  string
	showSamples bool
	showFTP     float64
)

type segmentView struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Start    int            `json:"start" yaml:"start"`
	Duration int            `json:"duration" yaml:"duration"`
	Detail   models.Segment `json:"detail" yaml:"detail"`
}

type workoutView struct {
	Metadata models.Metadata  `json:"metadata" yaml:"metadata"`
	FTP      float64          `json:"ftp,omitempty" yaml:"ftp,omitempty"`
	Segments []segmentView    `json:"segments" yaml:"segments"`
	Samples  []models.Sample  `json:"samples" yaml:"samples"`
	Warnings []models.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Display the timeline of a .zwo workout without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		w, err := zwo.Parse(raw, utils.TitleFromPath(args[0]))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		ftp := cfg.FTP
		if cmd.Flags().Changed("ftp") {
			ftp = showFTP
		}
		if ftp <= 0 {
			ftp = w.Metadata.FTP
		}
		samples, err := erg.Expand(w.Segments, ftp)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		view := workoutView{Metadata: w.Metadata, FTP: ftp, Samples: samples, Warnings: w.Warnings}
		start := 0
		for _, seg := range w.Segments {
			view.Segments = append(view.Segments, segmentView{
				Kind: models.Label(seg), Start: start, Duration: seg.TotalDuration(), Detail: seg,
			})
			start += seg.TotalDuration()
		}

		switch strings.ToLower(showFormat) {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(view)
		case "", "text":
			printWorkout(view, start)
			return nil
		}
		return fmt.Errorf("unknown format %q (text, json or yaml)", showFormat)
	},
}

func printWorkout(v workoutView, total int) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	unit := "% FTP"
	if v.FTP > 0 {
		unit = "W"
	}

	fmt.Printf("\n%s\n", green(strings.ToUpper(v.Metadata.Title)))
	if v.Metadata.Description != "" {
		fmt.Printf("%s: %s\n", cyan("Description"), v.Metadata.Description)
	}
	if v.Metadata.Author != "" {
		fmt.Printf("%s: %s\n", cyan("Author"), v.Metadata.Author)
	}
	fmt.Printf("%s: %s\n", cyan("Duration"), utils.FormatDuration(total))
	if v.FTP > 0 {
		fmt.Printf("%s: %g W\n", cyan("FTP"), v.FTP)
	}
	fmt.Println(strings.Repeat("=", 60))

	for i, s := range v.Segments {
		fmt.Printf("%2d. %-9s %s  %s  %s\n",
			i+1,
			yellow(s.Kind),
			utils.FormatDuration(s.Start),
			utils.FormatDuration(s.Duration),
			describe(s.Detail, v.FTP, unit),
		)
	}

	if showSamples {
		fmt.Println(strings.Repeat("-", 60))
		for _, s := range v.Samples {
			fmt.Printf("   %6d  %g\n", s.Offset, s.Power)
		}
	}

	for _, w := range v.Warnings {
		fmt.Printf("%s %s\n", yellow("warning:"), w)
	}
	fmt.Println()
}

func describe(seg models.Segment, ftp float64, unit string) string {
	switch s := seg.(type) {
	case models.Steady:
		return fmt.Sprintf("%g%s", erg.Scale(s.Power, ftp), unit)
	case models.Ramp:
		return fmt.Sprintf("%g → %g%s", erg.Scale(s.Start, ftp), erg.Scale(s.End, ftp), unit)
	case models.Intervals:
		return fmt.Sprintf("%d × (%s @ %g%s, %s @ %g%s)",
			s.Repeat,
			utils.FormatDuration(s.OnDuration), erg.Scale(s.OnPower, ftp), unit,
			utils.FormatDuration(s.OffDuration), erg.Scale(s.OffPower, ftp), unit,
		)
	}
	return ""
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showFormat, "format", "text", "Output format: text, json or yaml")
	showCmd.Flags().BoolVarP(&showSamples, "samples", "s", false, "Also list the expanded samples")
	showCmd.Flags().Float64VarP(&showFTP, "ftp", "f", 0, "FTP in watts used to scale powers")
}
