package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

type Bitmap interface {
	Width() int
	Height() int
	GetBit(x int, y int) byte
}

// PixelBitmap stores one byte per pixel, 1 meaning the head pin fires.
type PixelBitmap struct {
	pixels        [][]byte
	width, height int
}

func NewPixelBitmap(pixels [][]byte, width, height int) *PixelBitmap {
	return &PixelBitmap{pixels: pixels, width: width, height: height}
}

func (b *PixelBitmap) Width() int {
	return b.width
}

func (b *PixelBitmap) Height() int {
	return b.height
}

func (b *PixelBitmap) GetBit(x int, y int) byte {
	return b.pixels[y][x]
}

func (b *PixelBitmap) String() string {
	return fmt.Sprintf("PixelBitmap(%d,%d)", b.width, b.height)
}

// FromRows builds a PixelBitmap from a flat row-major pixel buffer.
func FromRows(data []byte, width, height int) (*PixelBitmap, error) {
	if len(data) != width*height {
		return nil, fmt.Errorf("Bitmap pixels not consistent with provided width and height (got %v, expecting %v*%v=%v)",
			len(data), width, height, width*height)
	}

	pixels := make([][]byte, height)
	for y := range height {
		pixels[y] = data[y*width : (y+1)*width]
	}
	return &PixelBitmap{pixels: pixels, width: width, height: height}, nil
}

// ImageBitmap adapts a two-colour paletted image.
type ImageBitmap struct {
	image *image.Paletted
	// colorMap[i] represents the bit value of the palette colour at index i.
	// If the first colour in the image is black, and a high bit fires the
	// pin (prints in the text colour), then colorMap[0] == 1.
	colorMap [2]byte
}

func (b *ImageBitmap) Width() int {
	return b.image.Rect.Dx()
}

func (b *ImageBitmap) Height() int {
	return b.image.Rect.Dy()
}

func (b *ImageBitmap) GetBit(x int, y int) byte {
	return b.colorMap[b.image.ColorIndexAt(x, y)]
}

func FromPaletted(i *image.Paletted) (*ImageBitmap, error) {
	if len(i.Palette) != 2 {
		return nil, fmt.Errorf("Image passed to FromPaletted must have only 2 colours in palette")
	}

	var colorMap [2]byte

	// Whichever of the two palette colours is closest to white stays unprinted.
	if i.Palette.Index(color.White) == 0 {
		colorMap = [2]byte{0, 1}
	} else {
		colorMap = [2]byte{1, 0}
	}

	return &ImageBitmap{
		image:    i,
		colorMap: colorMap,
	}, nil
}

// RenderForTape scales an image so its height fills the printable width of
// the loaded tape and dithers it down to black and white. Labels print
// sideways: the image's x axis runs along the tape.
func RenderForTape(i image.Image, printableWidth int) *image.Paletted {
	newHeight := printableWidth
	scaledBounds := image.Rect(0, 0, i.Bounds().Dx()*newHeight/i.Bounds().Dy(), newHeight)
	scaledImage := image.NewRGBA(scaledBounds)
	draw.CatmullRom.Scale(scaledImage, scaledBounds, i, i.Bounds(), draw.Over, nil)

	// turn full colour image into monochrome pixel by pixel
	monochromeImage := image.NewGray16(scaledBounds)
	for y := scaledBounds.Min.Y; y < scaledBounds.Max.Y; y++ {
		for x := scaledBounds.Min.X; x < scaledBounds.Max.X; x++ {
			originalColor := scaledImage.At(x, y)
			grayColor := color.Gray16Model.Convert(originalColor).(color.Gray16)
			grayValue := float64(grayColor.Y) / float64(0xFFFF)

			// thermal transfer tape darkens quickly, so lighten with a 0.5
			// gamma before dithering
			scaledGrayValue := math.Pow(grayValue, 0.5)
			scaledGrayColor := color.Gray16{Y: uint16(scaledGrayValue * float64(0xFFFF))}
			monochromeImage.Set(x, y, scaledGrayColor)
		}
	}

	palette := []color.Color{color.Black, color.White}
	ditherer := dither.NewDitherer(palette)
	ditherer.Matrix = dither.FloydSteinberg
	ditherer.Serpentine = true

	return ditherer.DitherPaletted(monochromeImage)
}
