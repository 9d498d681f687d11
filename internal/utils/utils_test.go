package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsWorkoutFile(t *testing.T) {
	require.True(t, IsWorkoutFile("a/b/ride.zwo"))
	require.True(t, IsWorkoutFile("ride.XML"))
	require.False(t, IsWorkoutFile("ride.erg"))
	require.False(t, IsWorkoutFile("zwo"))
}

func TestTitleFromPath(t *testing.T) {
	require.Equal(t, "Sweet Spot 1", TitleFromPath(filepath.Join("dir", "Sweet Spot 1.zwo")))
	require.Equal(t, "noext", TitleFromPath("noext"))
}

func TestOutputPath(t *testing.T) {
	src := filepath.Join("in", "ride.zwo")
	require.Equal(t, filepath.Join("in", "ride.erg"), OutputPath(src, "", ".erg"))
	require.Equal(t, filepath.Join("out", "ride.erg"), OutputPath(src, "out", "erg"))
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "0:45", FormatDuration(45))
	require.Equal(t, "32:15", FormatDuration(1935))
	require.Equal(t, "1:02:03", FormatDuration(3723))
}
