package utils

import (
	"fmt"
	"time"
)

// FormatTimestamp returns t formatted in local time.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(time.RFC1123)
}

// FormatDuration renders seconds as h:mm:ss, or m:ss under an hour.
func FormatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
