// Package zwo decodes Zwift workout files into the segment model.
package zwo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/misterclayt0n/zwo2erg/internal/models"
)

// FreeRidePower is the percent of FTP used for blocks that have no target power.
const FreeRidePower = 40

type zwoFile struct {
	XMLName     xml.Name
	Name        string      `xml:"name"`
	Description string      `xml:"description"`
	Author      string      `xml:"author"`
	FTP         *string     `xml:"ftp"`
	Workout     *zwoWorkout `xml:"workout"`
}

type zwoWorkout struct {
	Steps []zwoStep `xml:",any"`
}

type zwoStep struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []zwoStep  `xml:",any"`
}

// Parse decodes raw ZWO markup. fallbackTitle is used when the document has no <name>.
func Parse(raw []byte, fallbackTitle string) (*models.Workout, error) {
	var doc zwoFile
	d := xml.NewDecoder(bytes.NewReader(raw))
	if err := d.Decode(&doc); err != nil {
		return nil, models.MalformedDocument(err)
	}
	if err := checkTrailing(d); err != nil {
		return nil, models.MalformedDocument(err)
	}
	if doc.XMLName.Local != "workout_file" {
		return nil, models.MalformedDocument(fmt.Errorf("root element is <%s>, want <workout_file>", doc.XMLName.Local))
	}
	if doc.Workout == nil {
		return nil, models.MalformedDocument(fmt.Errorf("no <workout> element"))
	}

	w := &models.Workout{
		Metadata: models.Metadata{
			Title:       strings.TrimSpace(doc.Name),
			Description: strings.Join(strings.Fields(doc.Description), " "),
			Author:      strings.TrimSpace(doc.Author),
		},
		Segments: make([]models.Segment, 0, len(doc.Workout.Steps)),
	}
	if w.Metadata.Title == "" {
		w.Metadata.Title = fallbackTitle
	}
	if doc.FTP != nil {
		text := strings.TrimSpace(*doc.FTP)
		ftp, err := strconv.ParseFloat(text, 64)
		if err != nil || ftp <= 0 || math.IsInf(ftp, 0) || math.IsNaN(ftp) {
			return nil, models.InvalidValue(-1, "workout_file", "ftp", text)
		}
		w.Metadata.FTP = ftp
	}

	for i, step := range doc.Workout.Steps {
		seg, err := parseStep(i, step, &w.Warnings)
		if err != nil {
			return nil, err
		}
		if seg != nil {
			w.Segments = append(w.Segments, seg)
		}
	}
	if len(w.Segments) == 0 {
		w.Warnings = append(w.Warnings, models.Warning{Index: -1, Element: "workout", Message: "workout has no segments"})
	}

	return w, nil
}

func parseStep(index int, step zwoStep, warnings *[]models.Warning) (models.Segment, error) {
	r := stepReader{index: index, element: step.XMLName.Local, attrs: step.Attrs}

	switch step.XMLName.Local {
	case "SteadyState", "SolidState":
		return r.steady(step.Children, warnings)
	case "Warmup":
		return r.ramp(models.RampWarmup, step.Children, warnings)
	case "Cooldown":
		return r.ramp(models.RampCooldown, step.Children, warnings)
	case "Ramp":
		return r.ramp(models.RampPlain, step.Children, warnings)
	case "IntervalsT":
		return r.intervals(step.Children, warnings)
	case "FreeRide", "MaxEffort":
		d, err := r.duration("Duration")
		if err != nil {
			return nil, err
		}
		*warnings = append(*warnings, r.warn(fmt.Sprintf("no target power, rendered as steady %d%% FTP", FreeRidePower)))
		return models.Steady{Duration: d, Power: FreeRidePower, Cues: r.cues(step.Children, warnings)}, nil
	}

	if r.has("Duration") || r.has("OnDuration") || r.has("OffDuration") {
		return nil, models.UnsupportedElement(index, r.element)
	}
	*warnings = append(*warnings, r.warn("element ignored"))
	return nil, nil
}

func (r stepReader) steady(children []zwoStep, warnings *[]models.Warning) (models.Segment, error) {
	d, err := r.duration("Duration")
	if err != nil {
		return nil, err
	}

	power, ok, err := r.zone()
	if err != nil {
		return nil, err
	}
	if !ok {
		power, err = r.powerOrMean("Power", "PowerLow", "PowerHigh")
		if err != nil {
			return nil, err
		}
	}

	return models.Steady{Duration: d, Power: power, Cues: r.cues(children, warnings)}, nil
}

func (r stepReader) ramp(orientation models.RampOrientation, children []zwoStep, warnings *[]models.Warning) (models.Segment, error) {
	d, err := r.duration("Duration")
	if err != nil {
		return nil, err
	}

	seg := models.Ramp{Duration: d, Orientation: orientation, Cues: r.cues(children, warnings)}
	if power, ok, err := r.zone(); err != nil {
		return nil, err
	} else if ok {
		seg.Start, seg.End = power, power
		return seg, nil
	}

	// PowerLow is the start power and PowerHigh the end power, also for cooldowns.
	if seg.Start, err = r.power("PowerLow"); err != nil {
		return nil, err
	}
	if seg.End, err = r.power("PowerHigh"); err != nil {
		return nil, err
	}
	return seg, nil
}

func (r stepReader) intervals(children []zwoStep, warnings *[]models.Warning) (models.Segment, error) {
	seg := models.Intervals{Repeat: 1}
	var err error

	if r.has("Repeat") {
		if seg.Repeat, err = r.duration("Repeat"); err != nil {
			return nil, err
		}
	}
	if seg.OnDuration, err = r.duration("OnDuration"); err != nil {
		return nil, err
	}
	if seg.OffDuration, err = r.duration("OffDuration"); err != nil {
		return nil, err
	}
	if seg.OnPower, err = r.powerOrMean("OnPower", "PowerOnLow", "PowerOnHigh"); err != nil {
		return nil, err
	}
	if seg.OffPower, err = r.powerOrMean("OffPower", "PowerOffLow", "PowerOffHigh"); err != nil {
		return nil, err
	}

	seg.Cues = r.cues(children, warnings)
	if resting, ok := r.cadence("CadenceResting", warnings); ok {
		seg.Cues.CadenceResting = resting
	}
	return seg, nil
}

type stepReader struct {
	index   int
	element string
	attrs   []xml.Attr
}

func (r stepReader) raw(field string) (string, bool) {
	for _, a := range r.attrs {
		if strings.EqualFold(a.Name.Local, field) {
			return strings.TrimSpace(a.Value), true
		}
	}
	return "", false
}

func (r stepReader) has(field string) bool {
	_, ok := r.raw(field)
	return ok
}

func (r stepReader) warn(msg string) models.Warning {
	return models.Warning{Index: r.index, Element: r.element, Message: msg}
}

// duration reads a required strictly positive whole number.
func (r stepReader) duration(field string) (int, error) {
	text, ok := r.raw(field)
	if !ok {
		return 0, models.MissingField(r.index, r.element, field)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, models.InvalidValue(r.index, r.element, field, text)
	}
	return int(v), nil
}

// checkTrailing reads the rest of the document. Only whitespace, comments and
// processing instructions may follow the root element.
func checkTrailing(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text after root element")
			}
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root element", t.Name.Local)
		default:
			return fmt.Errorf("unexpected %T after root element", tok)
		}
	}
}

// power reads a required FTP fraction and returns it as percent.
func (r stepReader) power(field string) (float64, error) {
	text, ok := r.raw(field)
	if !ok {
		return 0, models.MissingField(r.index, r.element, field)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, models.InvalidValue(r.index, r.element, field, text)
	}
	return toPercent(v), nil
}

// powerOrMean returns the mean of the low/high pair when both are positive,
// otherwise the single value in field.
func (r stepReader) powerOrMean(field, low, high string) (float64, error) {
	if r.has(low) && r.has(high) {
		lo, err := r.power(low)
		if err != nil {
			return 0, err
		}
		hi, err := r.power(high)
		if err != nil {
			return 0, err
		}
		if lo > 0 && hi > 0 {
			return normalize((lo + hi) / 2), nil
		}
	}
	return r.power(field)
}

func (r stepReader) zone() (float64, bool, error) {
	text, ok := r.raw("Zone")
	if !ok {
		return 0, false, nil
	}
	z, err := strconv.Atoi(text)
	if err != nil {
		return 0, false, models.InvalidValue(r.index, r.element, "Zone", text)
	}
	if z == 0 {
		return 0, false, nil
	}
	power, ok := ZonePower(z)
	if !ok {
		return 0, false, models.InvalidValue(r.index, r.element, "Zone", text)
	}
	return power, true, nil
}

// cadence reads an optional cadence attribute. Bad values only produce a warning.
func (r stepReader) cadence(field string, warnings *[]models.Warning) (int, bool) {
	text, ok := r.raw(field)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		*warnings = append(*warnings, r.warn(fmt.Sprintf("ignoring %s=%q", field, text)))
		return 0, false
	}
	return int(math.Round(v)), true
}

func (r stepReader) cues(children []zwoStep, warnings *[]models.Warning) models.Cues {
	var c models.Cues
	if v, ok := r.cadence("Cadence", warnings); ok {
		c.Cadence = v
	} else if r.has("CadenceLow") && r.has("CadenceHigh") {
		lo, okLo := r.cadence("CadenceLow", warnings)
		hi, okHi := r.cadence("CadenceHigh", warnings)
		if okLo && okHi {
			c.Cadence = (lo + hi) / 2
		}
	}

	for _, child := range children {
		if !strings.EqualFold(child.XMLName.Local, "textevent") {
			*warnings = append(*warnings, r.warn(fmt.Sprintf("nested <%s> ignored", child.XMLName.Local)))
			continue
		}
		cr := stepReader{index: r.index, element: r.element, attrs: child.Attrs}
		msg, _ := cr.raw("message")
		if msg == "" {
			*warnings = append(*warnings, r.warn("textevent without message ignored"))
			continue
		}
		offset := 0
		if text, ok := cr.raw("timeoffset"); ok {
			v, err := strconv.Atoi(text)
			if err != nil || v < 0 {
				*warnings = append(*warnings, r.warn(fmt.Sprintf("textevent timeoffset %q ignored", text)))
				continue
			}
			offset = v
		}
		c.TextEvents = append(c.TextEvents, models.TextEvent{Offset: offset, Message: msg})
	}
	return c
}

func toPercent(fraction float64) float64 {
	return normalize(fraction * 100)
}

// normalize trims float noise so that 0.65*100 is exactly 65.
func normalize(pct float64) float64 {
	return math.Round(pct*1e6) / 1e6
}
