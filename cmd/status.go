package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/models"
	"github.com/misterclayt0n/zwo2erg/internal/storage"
	"github.com/misterclayt0n/zwo2erg/internal/utils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show totals from the conversion history: files converted, failures and ride time",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storage.Open(cfg.DB.ConnectionString)
		if err != nil {
			return err
		}
		defer st.Close()

		conversions, err := st.ListConversions(cmd.Context(), storage.ListFilter{})
		if err != nil {
			return fmt.Errorf("failed to retrieve conversions: %w", err)
		}

		var ok, failed, warnings, rideSeconds int
		var last time.Time
		for _, c := range conversions {
			if c.Status == models.StatusFailed {
				failed++
				continue
			}
			ok++
			warnings += len(c.Warnings)
			rideSeconds += c.DurationSeconds
			if c.CreatedAt.After(last) {
				last = c.CreatedAt
			}
		}

		printBoxedHeader("STATUS")

		printMetric("Config", cfgPathForDisplay())
		printMetric("Default FTP", ftpForDisplay(cfg.FTP))
		printMetric("Converted", ok)
		printMetric("Failed", failed)
		printMetric("Warnings", warnings)
		printMetric("Ride time converted", utils.FormatDuration(rideSeconds))
		if !last.IsZero() {
			printMetric("Last conversion", utils.FormatTimestamp(last))
		}
		fmt.Println()

		return nil
	},
}

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func printBoxedHeader(title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Println(cyanBold("╔" + border + "╗"))
	fmt.Println(cyanBold("║" + centerText(title, width) + "║"))
	fmt.Println(cyanBold("╚" + border + "╝"))
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-len(s)-padding)
}

// printMetric prints a label and value using bold yellow for the label.
func printMetric(label string, value interface{}) {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Printf("  %s: %v\n", yellowBold(label), value)
}

func ftpForDisplay(ftp float64) string {
	if ftp <= 0 {
		return "none (percent of FTP)"
	}
	return fmt.Sprintf("%g W", ftp)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
