package models

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is against a *ConversionError.
var (
	ErrMalformedDocument    = errors.New("malformed document")
	ErrUnsupportedElement   = errors.New("unsupported element")
	ErrMissingField         = errors.New("missing field")
	ErrInvalidValue         = errors.New("invalid value")
	ErrDegenerateSegment    = errors.New("degenerate segment")
	ErrNonMonotonicTimeline = errors.New("non-monotonic timeline")
)

// ConversionError identifies where a conversion failed. Index is the segment
// position in document order, or -1 when the failure is not tied to a segment.
type ConversionError struct {
	Kind    error
	Element string
	Field   string
	Raw     string
	Index   int
	Err     error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Index >= 0 {
		fmt.Fprintf(&b, " at segment #%d", e.Index)
	}
	if e.Element != "" {
		fmt.Fprintf(&b, " <%s>", e.Element)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	if e.Raw != "" {
		fmt.Fprintf(&b, " (got %q)", e.Raw)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func MalformedDocument(err error) error {
	return &ConversionError{Kind: ErrMalformedDocument, Index: -1, Err: err}
}

func UnsupportedElement(index int, element string) error {
	return &ConversionError{Kind: ErrUnsupportedElement, Index: index, Element: element}
}

func MissingField(index int, element, field string) error {
	return &ConversionError{Kind: ErrMissingField, Index: index, Element: element, Field: field}
}

func InvalidValue(index int, element, field, raw string) error {
	return &ConversionError{Kind: ErrInvalidValue, Index: index, Element: element, Field: field, Raw: raw}
}

func DegenerateSegment(index int, element string) error {
	return &ConversionError{Kind: ErrDegenerateSegment, Index: index, Element: element}
}

func NonMonotonicTimeline(index int, prev, next int) error {
	return &ConversionError{
		Kind:  ErrNonMonotonicTimeline,
		Index: index,
		Err:   fmt.Errorf("offset %d after %d", next, prev),
	}
}
