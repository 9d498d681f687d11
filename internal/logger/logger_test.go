package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "warning", "error", "INFO"} {
		_, closer, err := New(Config{Level: lvl})
		require.NoError(t, err, lvl)
		require.NoError(t, closer.Close())
	}

	_, _, err := New(Config{Level: "loud"})
	require.Error(t, err)

	_, _, err = New(Config{Format: "xml"})
	require.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zwo2erg.log")
	log, closer, err := New(Config{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	log.Info("converted", "file", "a.zwo")
	log.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"converted"`)
	require.Contains(t, string(data), `"file":"a.zwo"`)
	require.NotContains(t, string(data), "hidden")
}
