// This file turns a row-major bitmap into the column-per-raster-line order
// a tape printer consumes: the image's x axis runs along the tape, so each
// image column becomes one line of head pin states.

package bitmap

// Columns reads the bitmap column by column, top to bottom. Pin 0 is the top
// of the image. Jobs shorter than minColumns are padded with trailing blank
// columns so the printer can still feed and cut them.
func Columns(b Bitmap, minColumns int) [][]byte {
	width, height := b.Width(), b.Height()

	total := width
	if total < minColumns {
		total = minColumns
	}

	columns := make([][]byte, total)
	for x := range total {
		column := make([]byte, height)
		if x < width {
			for y := range height {
				column[y] = b.GetBit(x, y) & 1
			}
		}
		columns[x] = column
	}
	return columns
}
