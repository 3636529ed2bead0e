// This file implements the Brother P-touch raster command byte sequences
// written to PT-P300BT and similar label printers.

package ptouch

// Control characters
const (
	Esc = 0x1B
)

// Flushes any partial command the device may be holding after a previous
// aborted session. The device treats a long run of zero bytes as a no-op.
func invalidate() []byte {
	return make([]byte, 100)
}

// Resets the device to its power-on command state.
func initialize() []byte {
	return []byte{Esc, 0x40}
}

// Asks the device to send back one 32-byte status frame.
func requestStatus() []byte {
	return []byte{Esc, 0x69, 0x53}
}

// Switches the device into dynamic command mode, required before any raster
// data is streamed.
func enterDynamicMode() []byte {
	return []byte{Esc, 0x69, 0x61, 0x01}
}

// Makes the device push status frames of its own accord while printing, so
// completion and faults can be observed without polling requests.
func enableStatusNotify() []byte {
	return []byte{Esc, 0x69, 0x21, 0x00}
}

// Declares the media the job expects and the total amount of raster data
// about to be sent, counted in 16-byte lines, little-endian.
func printInfo(mediaWidth byte, rasterLines uint32) []byte {
	return []byte{
		Esc, 0x69, 0x7A,
		0x84, 0x00,
		mediaWidth, 0x00,
		byte(rasterLines), byte(rasterLines >> 8), byte(rasterLines >> 16), byte(rasterLines >> 24),
		0x00, 0x00,
	}
}

// Selects auto-cut without mirror printing.
func setMode() []byte {
	return []byte{Esc, 0x69, 0x4D, 0x40}
}

// Enables the advanced raster features the dynamic mode stream relies on.
func setAdvancedMode() []byte {
	return []byte{Esc, 0x69, 0x4B, 0x08}
}

// Sets the feed margin to zero.
func setMargin() []byte {
	return []byte{Esc, 0x69, 0x64, 0x00, 0x00}
}

// Disables run-length compression; every raster command carries a full line.
func setNoCompression() []byte {
	return []byte{0x4D, 0x00}
}

// Wraps one packed raster line in its transfer command.
func rasterLine(line RasterLine) []byte {
	d := make([]byte, 0, 3+LineBytes)
	d = append(d, 0x47, LineBytes, 0x00)
	return append(d, line[:]...)
}

// Ends the raster stream: print and cut for the last page of a job, print
// and hold the tape otherwise.
func finalize(lastPage bool) []byte {
	if lastPage {
		return []byte{0x1A}
	}
	return []byte{0x0C}
}
