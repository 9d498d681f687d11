package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export the conversion history to a TOML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := storage.GetHistoryExportPath()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			outputFile = args[0]
		}

		st, err := storage.Open(cfg.DB.ConnectionString)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.ExportHistoryToTOML(cmd.Context(), outputFile)
		if err != nil {
			return fmt.Errorf("error exporting history: %w", err)
		}

		fmt.Printf("✅ Exported %d conversions to %s\n", n, outputFile)
		return nil
	},
}

var buildDBCmd = &cobra.Command{
	Use:   "build-db [dump-file]",
	Short: "Rebuild the conversion history from a TOML dump file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storage.Open(cfg.DB.ConnectionString)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.ImportHistoryFromTOML(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("Failed to build database: %w", err)
		}
		fmt.Printf("✅ History rebuilt from TOML dump (%d conversions).\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(buildDBCmd)
}
