package ptouch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedMedia is returned when the loaded tape width has no
	// entry in the media margin table.
	ErrUnsupportedMedia = errors.New("unsupported media width")

	// ErrJobTooShort is returned when a job has fewer columns than the
	// printer can physically feed and cut.
	ErrJobTooShort = errors.New("job shorter than minimum printable length")

	// ErrProtocol is returned when the device sends a malformed status frame.
	ErrProtocol = errors.New("protocol error")

	// ErrUninitialized is returned by state accessors before the first
	// status frame has been read from the device.
	ErrUninitialized = errors.New("printer state not read yet")

	// ErrTimeout is returned when completion polling exceeds its bound.
	ErrTimeout = errors.New("timed out waiting for printer")
)

// ColumnWidthError reports a pixel column whose length matches neither the
// printable width of the loaded tape nor the full head width.
type ColumnWidthError struct {
	Got  int
	Want int
}

func (e *ColumnWidthError) Error() string {
	return fmt.Sprintf("column is %d pixels, want %d or %d", e.Got, e.Want, HeadPins)
}

// PrintError is a fault reported by the device itself, decoded from the
// error bitflags of a status frame.
type PrintError struct {
	Reasons []string
}

func (e *PrintError) Error() string {
	return fmt.Sprintf("printer reported an error: %s", strings.Join(e.Reasons, ", "))
}
