package erg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/misterclayt0n/zwo2erg/internal/models"
)

type TimeUnit string

const (
	Seconds TimeUnit = "seconds"
	Minutes TimeUnit = "minutes"
)

// ParseTimeUnit accepts "seconds"/"minutes" and their short forms.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "s", "sec", "seconds":
		return Seconds, nil
	case "m", "min", "minutes":
		return Minutes, nil
	}
	return "", fmt.Errorf("unknown time unit %q", s)
}

type Options struct {
	TimeUnit TimeUnit
	// CourseText adds a [COURSE TEXT] section with segment labels, cadence and text events.
	CourseText bool
}

// How long each course text message stays on screen, in seconds.
const messageSeconds = 5

// Course is a rendered ERG file plus the figures callers report about it.
type Course struct {
	Text string
	// Samples counts the timeline samples, not including the end-of-course line.
	Samples         int
	DurationSeconds int
	// FTP is the value powers were scaled with, zero in percent mode.
	FTP float64
}

// Render expands segments and writes the ERG file. ftp overrides meta.FTP when
// positive; with neither set, powers are written as percent of FTP.
func Render(meta models.Metadata, segments []models.Segment, ftp float64, opts Options) (string, error) {
	c, err := Build(meta, segments, ftp, opts)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

// Build is Render that also returns the sample count, duration and FTP used.
func Build(meta models.Metadata, segments []models.Segment, ftp float64, opts Options) (*Course, error) {
	if ftp < 0 {
		return nil, models.InvalidValue(-1, "render", "ftp", strconv.FormatFloat(ftp, 'f', -1, 64))
	}
	if ftp == 0 {
		ftp = meta.FTP
	}
	unit, err := ParseTimeUnit(string(opts.TimeUnit))
	if err != nil {
		return nil, err
	}

	tl, err := expand(segments, ftp)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("[COURSE HEADER]\n")
	b.WriteString("VERSION = 2\n")
	b.WriteString("UNITS = ENGLISH\n")
	if meta.Description != "" {
		fmt.Fprintf(&b, "DESCRIPTION = %s\n", oneLine(meta.Description))
	}
	fmt.Fprintf(&b, "FILE NAME = %s\n", oneLine(meta.Title))
	powerColumn := "PERCENT"
	if ftp > 0 {
		fmt.Fprintf(&b, "FTP = %s\n", strconv.FormatFloat(ftp, 'f', -1, 64))
		powerColumn = "WATTS"
	}
	fmt.Fprintf(&b, "%s %s\n", strings.ToUpper(string(unit)), powerColumn)
	b.WriteString("[END COURSE HEADER]\n")

	b.WriteString("[COURSE DATA]\n")
	for _, s := range tl.samples {
		fmt.Fprintf(&b, "%s\t%s\n", formatOffset(s.Offset, unit), formatPower(s.Power))
	}
	// End of course: hold the last power until the ride is over.
	if n := len(tl.samples); n > 0 && tl.samples[n-1].Offset < tl.cursor {
		fmt.Fprintf(&b, "%s\t%s\n", formatOffset(tl.cursor, unit), formatPower(tl.samples[n-1].Power))
	}
	b.WriteString("[END COURSE DATA]\n")

	if opts.CourseText {
		if msgs := courseText(segments); len(msgs) > 0 {
			b.WriteString("[COURSE TEXT]\n")
			for _, m := range msgs {
				fmt.Fprintf(&b, "%d\t%s\t%d\n", m.offset, m.text, messageSeconds)
			}
			b.WriteString("[END COURSE TEXT]\n")
		}
	}

	return &Course{
		Text:            b.String(),
		Samples:         len(tl.samples),
		DurationSeconds: tl.cursor,
		FTP:             ftp,
	}, nil
}

type message struct {
	offset int
	text   string
}

// courseText lists the on-screen messages in time order. Offsets are always
// in seconds.
func courseText(segments []models.Segment) []message {
	var msgs []message
	add := func(offset int, text string) {
		if text = oneLine(text); text != "" {
			msgs = append(msgs, message{offset: offset, text: text})
		}
	}
	cadence := func(offset, rpm int) {
		if rpm > 0 {
			add(offset, fmt.Sprintf("Pedal at %d RPM", rpm))
		}
	}

	cursor := 0
	for _, seg := range segments {
		cues := seg.SegmentCues()
		switch s := seg.(type) {
		case models.Ramp:
			if s.Orientation != models.RampPlain {
				add(cursor, models.Label(s))
			}
			cadence(cursor, cues.Cadence)
		case models.Steady:
			cadence(cursor, cues.Cadence)
		case models.Intervals:
			at := cursor
			for r := 1; r <= s.Repeat; r++ {
				add(at, fmt.Sprintf("Interval %d/%d", r, s.Repeat))
				cadence(at, cues.Cadence)
				at += s.OnDuration
				cadence(at, cues.CadenceResting)
				at += s.OffDuration
			}
		}
		for _, ev := range cues.TextEvents {
			add(cursor+ev.Offset, ev.Message)
		}
		cursor += seg.TotalDuration()
	}

	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].offset < msgs[j].offset })
	return msgs
}

func formatOffset(seconds int, unit TimeUnit) string {
	if unit == Minutes {
		return strconv.FormatFloat(float64(seconds)/60, 'f', 2, 64)
	}
	return strconv.Itoa(seconds)
}

func formatPower(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
