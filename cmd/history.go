package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/models"
	"github.com/misterclayt0n/zwo2erg/internal/storage"
	"github.com/misterclayt0n/zwo2erg/internal/utils"
)

var (
	filterTitle  string
	filterStatus string
	historyLimit int
	clearHistory bool
	historyID    string
)

// historyCmd shows past conversions grouped by day.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display past conversions, optionally filtered by title and/or status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storage.Open(cfg.DB.ConnectionString)
		if err != nil {
			return err
		}
		defer st.Close()

		if clearHistory {
			n, err := st.ClearConversions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("✅ Removed %d conversions from history\n", n)
			return nil
		}

		if historyID != "" {
			c, err := st.GetConversion(cmd.Context(), historyID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("no conversion with id %s", historyID)
			}
			printConversion(c)
			return nil
		}

		switch filterStatus {
		case "", models.StatusOK, models.StatusFailed:
		default:
			return fmt.Errorf("status must be %q or %q", models.StatusOK, models.StatusFailed)
		}

		conversions, err := st.ListConversions(cmd.Context(), storage.ListFilter{
			Title:  filterTitle,
			Status: filterStatus,
			Limit:  historyLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to retrieve conversions: %w", err)
		}
		if len(conversions) == 0 {
			fmt.Println("No conversions recorded yet")
			return nil
		}

		// Group by local day.
		grouped := make(map[string][]models.Conversion)
		for _, c := range conversions {
			day := c.CreatedAt.Local().Format("2006-01-02")
			grouped[day] = append(grouped[day], c)
		}

		var days []string
		for d := range grouped {
			days = append(days, d)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(days)))

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		for _, d := range days {
			fmt.Printf("%s %s\n", cyan("Date:"), d)
			for _, c := range grouped[d] {
				status := green(c.Status)
				if c.Status == models.StatusFailed {
					status = red(c.Status)
				}
				fmt.Printf("  %s | %s | %s | %s | %s\n",
					c.CreatedAt.Local().Format("15:04"),
					status,
					c.Title,
					c.SourcePath,
					c.ID,
				)
				if c.Status == models.StatusFailed {
					fmt.Printf("      %s\n", c.Error)
					continue
				}
				fmt.Printf("      → %s (%d segments, %d samples, %s)\n",
					c.OutputPath, c.Segments, c.Samples, utils.FormatDuration(c.DurationSeconds))
				if len(c.Warnings) > 0 {
					fmt.Printf("      warnings: %s\n", strings.Join(c.Warnings, "; "))
				}
			}
			fmt.Println()
		}

		return nil
	},
}

// printConversion shows every recorded field of a single conversion.
func printConversion(c *models.Conversion) {
	printBoxedHeader(c.Title)
	printMetric("ID", c.ID)
	printMetric("Status", c.Status)
	printMetric("Source", c.SourcePath)
	printMetric("Converted", utils.FormatTimestamp(c.CreatedAt))
	if c.Status == models.StatusFailed {
		printMetric("Error", c.Error)
		fmt.Println()
		return
	}
	printMetric("Output", c.OutputPath)
	printMetric("FTP", ftpForDisplay(c.FTP))
	printMetric("Segments", c.Segments)
	printMetric("Samples", c.Samples)
	printMetric("Duration", utils.FormatDuration(c.DurationSeconds))
	for _, w := range c.Warnings {
		printMetric("Warning", w)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&filterTitle, "title", "t", "", "Filter by workout title (case insensitive substring)")
	historyCmd.Flags().StringVarP(&filterStatus, "status", "s", "", "Filter by status (ok or failed)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Show at most this many conversions (0 for all)")
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "Delete the whole history")
	historyCmd.Flags().StringVar(&historyID, "id", "", "Show the details of one conversion")
}
