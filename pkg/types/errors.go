package types

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat matches any *FormatError via errors.Is.
	ErrFormat = errors.New("malformed label")
	// ErrDimension matches any *DimensionError via errors.Is.
	ErrDimension = errors.New("invalid dimensions")
)

// FormatError reports a label line that cannot be parsed.
type FormatError struct {
	Line   int // 1-based line number
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// DimensionError reports image or target sizes that make cropping impossible.
type DimensionError struct {
	Reason string
}

func (e *DimensionError) Error() string {
	return "invalid dimensions: " + e.Reason
}

func (e *DimensionError) Is(target error) bool {
	return target == ErrDimension
}

// NewDimensionError formats a DimensionError.
func NewDimensionError(format string, args ...interface{}) *DimensionError {
	return &DimensionError{Reason: fmt.Sprintf(format, args...)}
}
