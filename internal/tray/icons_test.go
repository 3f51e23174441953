package tray

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIcon_ValidPNG(t *testing.T) {
	icon := createIcon(color.RGBA{R: 255, G: 0, B: 0, A: 255})
	require.NotEmpty(t, icon)

	img, err := png.Decode(bytes.NewReader(icon))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 64, bounds.Dx())
	assert.Equal(t, 64, bounds.Dy())
}

func TestIcons_AreInitialized(t *testing.T) {
	icons := map[string][]byte{
		"idle":     iconIdle,
		"updating": iconUpdating,
		"error":    iconError,
	}

	for name, icon := range icons {
		t.Run(name, func(t *testing.T) {
			require.NotEmpty(t, icon)
			_, err := png.Decode(bytes.NewReader(icon))
			require.NoError(t, err)
		})
	}
}

func TestCreateIcon_Pixels(t *testing.T) {
	icon := createIcon(color.RGBA{R: 100, G: 150, B: 200, A: 255})

	img, err := png.Decode(bytes.NewReader(icon))
	require.NoError(t, err)

	r, g, b, a := img.At(32, 32).RGBA()
	assert.Equal(t, uint32(100), r>>8)
	assert.Equal(t, uint32(150), g>>8)
	assert.Equal(t, uint32(200), b>>8)
	assert.Equal(t, uint32(255), a>>8)

	// glyph stroke
	r, g, b, _ = img.At(24, 30).RGBA()
	assert.Equal(t, []uint32{255, 255, 255}, []uint32{r >> 8, g >> 8, b >> 8})

	// outside the disc
	_, _, _, a = img.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestInGlyph(t *testing.T) {
	assert.True(t, inGlyph(22, 16))
	assert.True(t, inGlyph(41, 45))
	assert.False(t, inGlyph(32, 32))
	assert.False(t, inGlyph(42, 45))
}
