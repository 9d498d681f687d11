package erg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/misterclayt0n/zwo2erg/internal/models"
)

func segmentGen(withRamps bool) *rapid.Generator[models.Segment] {
	return rapid.Custom(func(rt *rapid.T) models.Segment {
		kinds := []string{"steady", "intervals"}
		if withRamps {
			kinds = append(kinds, "ramp")
		}
		pct := func(label string) float64 {
			return float64(rapid.IntRange(0, 2000).Draw(rt, label)) / 10
		}
		switch rapid.SampledFrom(kinds).Draw(rt, "kind") {
		case "ramp":
			return models.Ramp{
				Duration: rapid.IntRange(1, 3600).Draw(rt, "duration"),
				Start:    pct("start"),
				End:      pct("end"),
			}
		case "intervals":
			return models.Intervals{
				Repeat:      rapid.IntRange(1, 20).Draw(rt, "repeat"),
				OnDuration:  rapid.IntRange(1, 600).Draw(rt, "on"),
				OnPower:     pct("onPower"),
				OffDuration: rapid.IntRange(1, 600).Draw(rt, "off"),
				OffPower:    pct("offPower"),
			}
		default:
			return models.Steady{
				Duration: rapid.IntRange(1, 3600).Draw(rt, "duration"),
				Power:    pct("power"),
			}
		}
	})
}

func expectedSamples(segs []models.Segment) int {
	n := 0
	for _, seg := range segs {
		switch s := seg.(type) {
		case models.Steady:
			n++
		case models.Ramp:
			n += 2
		case models.Intervals:
			n += 2 * s.Repeat
		}
	}
	return n
}

func TestProperty_RenderIsDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		segs := rapid.SliceOfN(segmentGen(true), 0, 12).Draw(rt, "segments")
		ftp := float64(rapid.IntRange(0, 500).Draw(rt, "ftp"))
		opts := Options{CourseText: rapid.Bool().Draw(rt, "courseText")}

		first, err := Render(models.Metadata{Title: "prop"}, segs, ftp, opts)
		require.NoError(rt, err)
		second, err := Render(models.Metadata{Title: "prop"}, segs, ftp, opts)
		require.NoError(rt, err)
		require.Equal(rt, first, second)
	})
}

func TestProperty_OffsetsNeverGoBackward(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		segs := rapid.SliceOfN(segmentGen(true), 1, 12).Draw(rt, "segments")

		samples, err := Expand(segs, 250)
		require.NoError(rt, err)
		require.Len(rt, samples, expectedSamples(segs))
		require.Equal(rt, 0, samples[0].Offset)
		for i := 1; i < len(samples); i++ {
			require.LessOrEqual(rt, samples[i-1].Offset, samples[i].Offset)
		}
	})
}

func TestProperty_OffsetsStrictlyIncreaseWithoutRamps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		segs := rapid.SliceOfN(segmentGen(false), 1, 12).Draw(rt, "segments")

		samples, err := Expand(segs, 0)
		require.NoError(rt, err)
		require.Equal(rt, 0, samples[0].Offset)
		for i := 1; i < len(samples); i++ {
			require.Less(rt, samples[i-1].Offset, samples[i].Offset)
		}
	})
}

func TestProperty_IntervalCardinality(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 50).Draw(rt, "repeat")
		seg := models.Intervals{Repeat: n, OnDuration: 30, OnPower: 120, OffDuration: 15, OffPower: 50}

		samples, err := Expand([]models.Segment{seg}, 200)
		require.NoError(rt, err)
		require.Len(rt, samples, 2*n)
	})
}

func TestProperty_RampEndpoints(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lead := rapid.IntRange(1, 5000).Draw(rt, "lead")
		ramp := models.Ramp{
			Duration: rapid.IntRange(1, 5000).Draw(rt, "duration"),
			Start:    float64(rapid.IntRange(0, 200).Draw(rt, "start")),
			End:      float64(rapid.IntRange(0, 200).Draw(rt, "end")),
		}
		ftp := float64(rapid.IntRange(1, 500).Draw(rt, "ftp"))

		samples, err := Expand([]models.Segment{models.Steady{Duration: lead, Power: 50}, ramp}, ftp)
		require.NoError(rt, err)
		require.Equal(rt, []models.Sample{
			{Offset: lead, Power: Scale(ramp.Start, ftp)},
			{Offset: lead + ramp.Duration, Power: Scale(ramp.End, ftp)},
		}, samples[1:])
	})
}

func TestProperty_ScaleIsLinear(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ftp := float64(rapid.IntRange(1, 1000).Draw(rt, "ftp"))
		require.Equal(rt, ftp, Scale(100, ftp))
		require.Equal(rt, 0.0, Scale(0, ftp))

		p := float64(rapid.IntRange(0, 300).Draw(rt, "p"))
		k := float64(rapid.IntRange(0, 5).Draw(rt, "k"))
		// Rounding to whole watts keeps the error within half a watt of the exact value.
		require.LessOrEqual(rt, math.Abs(Scale(p, ftp)-p*ftp/100), 0.5)
		require.LessOrEqual(rt, math.Abs(Scale(k*p, ftp)-k*p*ftp/100), 0.5)
		require.Equal(rt, k*p, Scale(k*p, 0))
	})
}

func TestProperty_PercentModeRoundsToHundredths(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := rapid.Float64Range(0, 300).Draw(rt, "p")
		got := Scale(p, 0)
		require.InDelta(rt, p, got, 0.005+1e-9)
		require.InDelta(rt, math.Round(got*100), got*100, 1e-6, "at most two decimals")
	})
}
