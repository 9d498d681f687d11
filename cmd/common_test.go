package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/zwo2erg/internal/config"
	"github.com/misterclayt0n/zwo2erg/internal/erg"
)

func optionsFor(t *testing.T, c *config.Config, args ...string) (convertOpts, error) {
	t.Helper()
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = c

	cmd := &cobra.Command{Use: "test"}
	addConvertFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	opts, err := batchOptions(cmd)
	return convertOpts{opts.TimeUnit, opts.FTP, opts.Workers}, err
}

type convertOpts struct {
	unit    erg.TimeUnit
	ftp     float64
	workers int
}

func TestBatchOptions_FlagsOverrideConfig(t *testing.T) {
	c := config.Default()
	c.TimeUnit = "minutes"
	c.FTP = 250

	got, err := optionsFor(t, c)
	require.NoError(t, err)
	require.Equal(t, convertOpts{erg.Minutes, 250, 4}, got)

	got, err = optionsFor(t, c, "--minutes=false", "--ftp", "300", "-w", "2")
	require.NoError(t, err)
	require.Equal(t, convertOpts{erg.Seconds, 300, 2}, got)

	c.TimeUnit = "seconds"
	got, err = optionsFor(t, c, "--minutes")
	require.NoError(t, err)
	require.Equal(t, erg.Minutes, got.unit)
}

func TestBatchOptions_RejectsNegativeFTP(t *testing.T) {
	_, err := optionsFor(t, config.Default(), "--ftp=-5")
	require.Error(t, err)
}
