package models

import "fmt"

// Metadata describes a parsed workout. FTP is zero when the document does not carry one.
type Metadata struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string  `json:"author,omitempty" yaml:"author,omitempty"`
	FTP         float64 `json:"ftp,omitempty" yaml:"ftp,omitempty"`
}

// Workout is the parser's output: metadata plus the segments in document order.
type Workout struct {
	Metadata Metadata  `json:"metadata" yaml:"metadata"`
	Segments []Segment `json:"segments" yaml:"segments"`
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Segment is one of Steady, Ramp or Intervals. The set is closed.
type Segment interface {
	// TotalDuration is the number of seconds the segment adds to the ride.
	TotalDuration() int
	SegmentCues() Cues
	isSegment()
}

type RampOrientation string

const (
	RampPlain    RampOrientation = "ramp"
	RampWarmup   RampOrientation = "warmup"
	RampCooldown RampOrientation = "cooldown"
)

// Powers are percent of FTP.
type Steady struct {
	Duration int     `json:"duration" yaml:"duration"`
	Power    float64 `json:"power" yaml:"power"`
	Cues     Cues    `json:"cues,omitempty" yaml:"cues,omitempty"`
}

type Ramp struct {
	Duration    int             `json:"duration" yaml:"duration"`
	Start       float64         `json:"start" yaml:"start"`
	End         float64         `json:"end" yaml:"end"`
	Orientation RampOrientation `json:"orientation" yaml:"orientation"`
	Cues        Cues            `json:"cues,omitempty" yaml:"cues,omitempty"`
}

type Intervals struct {
	Repeat      int     `json:"repeat" yaml:"repeat"`
	OnDuration  int     `json:"on_duration" yaml:"on_duration"`
	OnPower     float64 `json:"on_power" yaml:"on_power"`
	OffDuration int     `json:"off_duration" yaml:"off_duration"`
	OffPower    float64 `json:"off_power" yaml:"off_power"`
	Cues        Cues    `json:"cues,omitempty" yaml:"cues,omitempty"`
}

func (s Steady) TotalDuration() int { return s.Duration }
func (r Ramp) TotalDuration() int   { return r.Duration }
func (i Intervals) TotalDuration() int {
	return i.Repeat * (i.OnDuration + i.OffDuration)
}

func (s Steady) SegmentCues() Cues    { return s.Cues }
func (r Ramp) SegmentCues() Cues      { return r.Cues }
func (i Intervals) SegmentCues() Cues { return i.Cues }

func (Steady) isSegment()    {}
func (Ramp) isSegment()      {}
func (Intervals) isSegment() {}

// Label is a short human readable name for the segment, used in course text and CLI output.
func Label(seg Segment) string {
	switch s := seg.(type) {
	case Steady:
		return "Steady"
	case Ramp:
		switch s.Orientation {
		case RampWarmup:
			return "Warmup"
		case RampCooldown:
			return "Cooldown"
		}
		return "Ramp"
	case Intervals:
		return "Intervals"
	}
	return "Unknown"
}

// Cues carry cosmetic information for the course text section. They never
// change the power timeline.
type Cues struct {
	Cadence        int         `json:"cadence,omitempty" yaml:"cadence,omitempty"`
	CadenceResting int         `json:"cadence_resting,omitempty" yaml:"cadence_resting,omitempty"`
	TextEvents     []TextEvent `json:"text_events,omitempty" yaml:"text_events,omitempty"`
}

func (c Cues) Empty() bool {
	return c.Cadence == 0 && c.CadenceResting == 0 && len(c.TextEvents) == 0
}

// TextEvent is a message shown Offset seconds after its segment starts.
type TextEvent struct {
	Offset  int    `json:"offset" yaml:"offset"`
	Message string `json:"message" yaml:"message"`
}

// Sample is one (offset, power) point of the expanded timeline.
type Sample struct {
	Offset int     `json:"offset" yaml:"offset"`
	Power  float64 `json:"power" yaml:"power"`
}

// Warning is a non-fatal note recorded while parsing.
type Warning struct {
	Index   int    `json:"index" yaml:"index"`
	Element string `json:"element" yaml:"element"`
	Message string `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	if w.Index < 0 {
		return fmt.Sprintf("%s: %s", w.Element, w.Message)
	}
	return fmt.Sprintf("#%d %s: %s", w.Index, w.Element, w.Message)
}
