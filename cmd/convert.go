package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/convert"
	"github.com/misterclayt0n/zwo2erg/internal/utils"
)

var toStdout bool

var convertCmd = &cobra.Command{
	Use:   "convert [file...]",
	Short: "Convert one or more .zwo files to .erg",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := batchOptions(cmd)
		if err != nil {
			return err
		}

		if toStdout {
			if len(args) != 1 {
				return fmt.Errorf("--stdout takes exactly one file")
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			co := opts.Options
			co.FallbackTitle = utils.TitleFromPath(args[0])
			res, err := convert.Convert(raw, co)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, w := range res.Warnings {
				appLog.Warn("workout warning", "file", args[0], "warning", w.String())
			}
			fmt.Print(res.Output)
			return nil
		}

		st := openHistory()
		if st != nil {
			defer st.Close()
		}
		results := convert.Batch(cmd.Context(), args, opts)
		return report(cmd.Context(), st, results)
	},
}

var convertDirCmd = &cobra.Command{
	Use:   "convert-dir [dir]",
	Short: "Convert every .zwo/.xml file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := batchOptions(cmd)
		if err != nil {
			return err
		}

		files, err := convert.FindWorkouts(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Printf("No workout files found in %s\n", args[0])
			return nil
		}

		st := openHistory()
		if st != nil {
			defer st.Close()
		}
		results := convert.Batch(cmd.Context(), files, opts)
		if err := report(cmd.Context(), st, results); err != nil {
			return err
		}
		fmt.Printf("Processed %d files\n", len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(convertDirCmd)

	addConvertFlags(convertCmd)
	addConvertFlags(convertDirCmd)
	convertCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the ERG text instead of writing a file")
}
