package services

import (
	"errors"
	"fmt"
)

var (
	// ErrTrackNotFound is returned when an operation references an unknown id
	ErrTrackNotFound = errors.New("track not found")

	// ErrDurationUnavailable is returned by probers that found no usable timing data
	ErrDurationUnavailable = errors.New("duration unavailable")

	// ErrUnsupportedFormat is returned when an upload is not an audio file
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidSourcePath is returned when an upload path is empty, relative or a directory
	ErrInvalidSourcePath = errors.New("invalid source path")
)

// ExtractionError is returned when a tag reader cannot parse a file
type ExtractionError struct {
	Extractor string
	Path      string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s extractor failed: %v", e.Path, e.Extractor, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrTrackNotFound, id)
}
