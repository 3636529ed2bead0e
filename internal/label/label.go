// Package label renders text into an image sized for the printable width of
// the loaded tape, ready for dithering and column packing.
package label

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

func getFontData(name string) ([]byte, error) {
	switch name {
	case "gomono":
		return gomono.TTF, nil
	case "", "goregular":
		return goregular.TTF, nil
	default:
		return nil, fmt.Errorf(`Unrecognised built-in font "%s"`, name)
	}
}

func loadFace(name string, size int) (font.Face, error) {
	fontData, err := getFontData(name)
	if err != nil {
		return nil, err
	}
	parsedFont, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("Couldn't parse font %s:\n%w", name, err)
	}

	fontFace, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("Couldn't create font face:\n%w", err)
	}

	return fontFace, nil
}

// RenderText draws one line of text, black on white, scaled so the glyphs
// fill the given pixel height. The returned image's x axis runs along the
// tape.
func RenderText(text string, fontName string, heightPixels int) (image.Image, error) {
	if len(text) == 0 {
		return nil, fmt.Errorf("Nothing to render")
	}

	// faces are sized in points; pick a size whose line height lands close
	// to the requested pixel height, then measure with the real metrics
	face, err := loadFace(fontName, heightPixels*3/4)
	if err != nil {
		return nil, err
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := ascent + metrics.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()

	bounds := image.Rect(0, 0, width, lineHeight)
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(ascent)},
	}
	d.DrawString(text)

	return canvas, nil
}
