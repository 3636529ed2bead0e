// This file implements packing of pixel columns into the fixed-width bit
// lines streamed to the print head, one line per column of the label.

package ptouch

import (
	"fmt"
)

const (
	// LineBytes is the size of one packed raster line: 128 head pins, one
	// bit each, MSB first within each byte.
	LineBytes = HeadPins / 8

	// MinJobColumns is the shortest label the printer will feed and cut,
	// one inch of tape at 180 dpi.
	MinJobColumns = 174
)

// RasterLine holds the pin states for one column. Bit i of the line (bit 7
// of byte 0 being bit 0) decides whether pin i fires.
type RasterLine [LineBytes]byte

// Bit returns the state of pin i in the line, either 0 or 1.
func (l RasterLine) Bit(i int) byte {
	return (l[i/8] >> (7 - i%8)) & 1
}

func (l RasterLine) String() string {
	return fmt.Sprintf("RasterLine(%x)", l[:])
}

// EncodeColumn packs one pixel column into a raster line. The column must be
// either the printable width implied by the margin, in which case margin
// zero bits are placed before the pixel data, or the full head width, in
// which case the margin is ignored. A nonzero pixel fires the pin.
func EncodeColumn(pixels []byte, margin int) (RasterLine, error) {
	var line RasterLine

	offset := margin
	switch len(pixels) {
	case HeadPins:
		offset = 0
	case HeadPins - 2*margin:
	default:
		return line, &ColumnWidthError{Got: len(pixels), Want: HeadPins - 2*margin}
	}

	for i, p := range pixels {
		if p != 0 {
			bit := offset + i
			line[bit/8] |= 0x80 >> (bit % 8)
		}
	}
	return line, nil
}

// EncodeJob packs every column of a job, centring printable-width columns
// between equal margins. Jobs shorter than MinJobColumns are rejected.
func EncodeJob(columns [][]byte, printableWidth int) ([]RasterLine, error) {
	if len(columns) < MinJobColumns {
		return nil, fmt.Errorf("%w: job has %d columns, need at least %d",
			ErrJobTooShort, len(columns), MinJobColumns)
	}

	margin := (HeadPins - printableWidth) / 2
	lines := make([]RasterLine, len(columns))
	for i, column := range columns {
		line, err := EncodeColumn(column, margin)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		lines[i] = line
	}
	return lines, nil
}
