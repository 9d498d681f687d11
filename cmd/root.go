package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/config"
	"github.com/misterclayt0n/zwo2erg/internal/logger"
)

var (
	cfgFile string
	verbose bool

	cfg       *config.Config
	appLog    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "zwo2erg",
	Short:         "Convert Zwift workouts (.zwo) into ERG course files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = c

		l, closer, err := logger.New(logger.Config{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			File:    cfg.Log.File,
			Verbose: verbose,
		})
		if err != nil {
			return err
		}
		appLog, logCloser = l, closer
		slog.SetDefault(l)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/zwo2erg/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
}
