package ptouch

import "fmt"

// The print head has 128 pins; tape narrower than the head leaves unused
// pins split evenly between both edges.
const HeadPins = 128

// mediaMargins maps the media width byte from a status frame to the number
// of unused pins on each side of the printable area. The 3.5mm tape is
// reported by the device as width 4.
var mediaMargins = map[byte]int{
	4:  52,
	6:  48,
	9:  39,
	12: 29,
	19: 8,
	24: 0,
}

// PrintableWidth returns the number of head pins usable for image data on
// tape of the given width.
func PrintableWidth(mediaWidth byte) (int, error) {
	margin, ok := mediaMargins[mediaWidth]
	if !ok {
		return 0, fmt.Errorf("%w: %dmm", ErrUnsupportedMedia, mediaWidth)
	}
	return HeadPins - 2*margin, nil
}
