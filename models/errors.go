package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownView       = errors.New("unknown view")
	ErrLoadInProgress    = errors.New("track load in progress")
	ErrUnsupportedFormat = errors.New("unsupported track format")
	ErrNoRecords         = errors.New("no records loaded")
)

// RangeError reports a slice request outside the current sequence.
// Callers clamp before slicing; seeing one of these is a bug upstream.
type RangeError struct {
	Start, End, Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range [%d,%d) outside sequence of length %d", e.Start, e.End, e.Length)
}

// InvalidRangeError reports window bounds that violate start <= end, or
// percentages that are not numbers. Nothing is mutated when it is returned.
type InvalidRangeError struct {
	Start, End float64
	Reason     string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%g,%g): %s", e.Start, e.End, e.Reason)
}

// ParseStructureError reports a track document that could not be walked.
// The store keeps its previous contents when one is returned.
type ParseStructureError struct {
	Format string
	Offset int64
	Err    error
}

func (e *ParseStructureError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("malformed %s document near byte %d: %v", e.Format, e.Offset, e.Err)
	}
	return fmt.Sprintf("malformed %s document: %v", e.Format, e.Err)
}

func (e *ParseStructureError) Unwrap() error { return e.Err }
