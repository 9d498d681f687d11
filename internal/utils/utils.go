package utils

import (
	"path/filepath"
	"strings"
)

// Extensions accepted as ZWO input.
var WorkoutExtensions = []string{".zwo", ".xml"}

func IsWorkoutFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range WorkoutExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// TitleFromPath derives a workout title from a file name: base name without extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath places the converted file next to src, or in outDir when set.
func OutputPath(src, outDir, ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := TitleFromPath(src) + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	return filepath.Join(outDir, name)
}
