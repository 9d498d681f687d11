// Package erg expands a segment list into an absolute power timeline and
// writes it as an ERG course file.
package erg

import (
	"fmt"
	"math"

	"github.com/misterclayt0n/zwo2erg/internal/models"
)

// Scale converts a percent of FTP into the output unit. With a positive ftp the
// result is whole watts, rounded to nearest with halves away from zero. With
// ftp == 0 the percent passes through, rounded to two decimals.
func Scale(pct, ftp float64) float64 {
	if ftp > 0 {
		return math.Round(pct * ftp / 100)
	}
	return math.Round(pct*100) / 100
}

// Expand walks the segments left to right and returns the sample timeline.
// Steady yields one sample at its start, Ramp its two endpoints, Intervals one
// sample per on/off sub-segment. Offsets never decrease; a ramp's closing sample
// and the next segment's opening sample share an offset, which is how ERG marks
// a step change.
func Expand(segments []models.Segment, ftp float64) ([]models.Sample, error) {
	tl, err := expand(segments, ftp)
	if err != nil {
		return nil, err
	}
	return tl.samples, nil
}

type timeline struct {
	cursor  int
	samples []models.Sample
}

func expand(segments []models.Segment, ftp float64) (*timeline, error) {
	tl := &timeline{samples: make([]models.Sample, 0, len(segments)*2)}

	for i, seg := range segments {
		switch s := seg.(type) {
		case models.Steady:
			if err := tl.hold(i, "SteadyState", s.Duration, Scale(s.Power, ftp)); err != nil {
				return nil, err
			}
		case models.Ramp:
			if s.Duration <= 0 {
				return nil, models.DegenerateSegment(i, models.Label(s))
			}
			if err := tl.emit(i, tl.cursor, Scale(s.Start, ftp)); err != nil {
				return nil, err
			}
			tl.cursor += s.Duration
			if err := tl.emit(i, tl.cursor, Scale(s.End, ftp)); err != nil {
				return nil, err
			}
		case models.Intervals:
			if s.Repeat <= 0 {
				return nil, models.DegenerateSegment(i, "IntervalsT")
			}
			on, off := Scale(s.OnPower, ftp), Scale(s.OffPower, ftp)
			for r := 0; r < s.Repeat; r++ {
				if err := tl.hold(i, "IntervalsT", s.OnDuration, on); err != nil {
					return nil, err
				}
				if err := tl.hold(i, "IntervalsT", s.OffDuration, off); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("segment #%d: unknown segment type %T", i, seg)
		}
	}

	return tl, nil
}

func (tl *timeline) hold(index int, element string, duration int, power float64) error {
	if duration <= 0 {
		return models.DegenerateSegment(index, element)
	}
	if err := tl.emit(index, tl.cursor, power); err != nil {
		return err
	}
	tl.cursor += duration
	return nil
}

// emit appends a sample. Offsets may repeat where one segment ends and the next
// begins, but must never go backward.
func (tl *timeline) emit(index, offset int, power float64) error {
	if n := len(tl.samples); n > 0 && offset < tl.samples[n-1].Offset {
		return models.NonMonotonicTimeline(index, tl.samples[n-1].Offset, offset)
	}
	tl.samples = append(tl.samples, models.Sample{Offset: offset, Power: power})
	return nil
}
