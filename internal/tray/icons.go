package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	iconIdle     []byte
	iconUpdating []byte
	iconError    []byte
)

func init() {
	iconIdle = createIcon(color.RGBA{R: 66, G: 133, B: 244, A: 255})    // blue
	iconUpdating = createIcon(color.RGBA{R: 255, G: 193, B: 7, A: 255}) // amber
	iconError = createIcon(color.RGBA{R: 244, G: 67, B: 54, A: 255})    // red
}

// createIcon renders a 64x64 PNG badge: a disc of color c with a white "L"
// glyph. The edge of the disc is anti-aliased; the background is transparent.
func createIcon(c color.Color) []byte {
	const (
		size   = 64
		radius = 28.0
		center = size / 2
	)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	base := color.RGBAModel.Convert(c).(color.RGBA)
	glyph := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x-center) + 0.5
			dy := float64(y-center) + 0.5
			cover := radius + 0.5 - math.Sqrt(dx*dx+dy*dy)
			if cover <= 0 {
				continue
			}
			px := base
			if cover < 1 {
				// image.RGBA is alpha-premultiplied.
				px = color.RGBA{
					R: uint8(float64(base.R) * cover),
					G: uint8(float64(base.G) * cover),
					B: uint8(float64(base.B) * cover),
					A: uint8(float64(base.A) * cover),
				}
			}
			if inGlyph(x, y) {
				px = glyph
			}
			img.SetRGBA(x, y, px)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// inGlyph reports whether (x, y) lies on the "L" stroke.
func inGlyph(x, y int) bool {
	stem := x >= 22 && x < 28 && y >= 16 && y < 46
	foot := x >= 22 && x < 42 && y >= 40 && y < 46
	return stem || foot
}
