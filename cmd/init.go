package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/config"
	"github.com/misterclayt0n/zwo2erg/internal/storage"
)

var (
	initForce bool
	initFTP   float64
)

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and create the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPathForDisplay()

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
		}

		c := config.Default()
		c.FTP = initFTP
		if err := config.Save(path, c); err != nil {
			return fmt.Errorf("Failed to write config: %w", err)
		}

		st, err := storage.Open(c.DB.ConnectionString)
		if err != nil {
			return fmt.Errorf("Failed to initialize database: %w", err)
		}
		defer st.Close()

		fmt.Printf("✅ Config written to %s\n", path)
		fmt.Printf("✅ History database ready at %s\n", c.DB.ConnectionString)
		return nil
	},
}

func cfgPathForDisplay() string {
	if cfgFile != "" {
		return cfgFile
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "config.toml"
	}
	return path
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
	initSetupCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initSetupCmd.Flags().Float64Var(&initFTP, "ftp", 0, "FTP in watts to store in the config")
}
