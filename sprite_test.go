package chessprite

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSprite() *Sprite {
	img := image.NewPaletted(image.Rect(0, 0, 4, 2), color.Palette{
		color.NRGBA{R: 0x26, G: 0x24, B: 0x21, A: 0xff},
		color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x00},
		color.NRGBA{R: 0xba, G: 0xba, B: 0xba, A: 0x80},
	})
	img.Pix = []uint8{0, 2, 0, 1, 2, 0, 2, 0}
	return &Sprite{Image: img, Transparent: 1}
}

func TestSpriteEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testSprite().Encode(&buf))

	cfg, err := gif.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, 2, cfg.Height)

	img, err := gif.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	paletted := img.(*image.Paletted)

	// the color table is padded to a power of two
	require.GreaterOrEqual(t, len(paletted.Palette), 3)
	assert.Equal(t, color.RGBA{R: 0x26, G: 0x24, B: 0x21, A: 0xff}, paletted.Palette[0])
	assert.Equal(t, color.RGBA{}, paletted.Palette[1])
	// partial alpha is not representable and is dropped
	assert.Equal(t, color.RGBA{R: 0xba, G: 0xba, B: 0xba, A: 0xff}, paletted.Palette[2])

	assert.Equal(t, uint8(1), paletted.ColorIndexAt(3, 0))
	_, _, _, a := paletted.At(3, 0).RGBA()
	assert.Zero(t, a)
}

func TestSpriteEncodeQuantizedPalette(t *testing.T) {
	// quantizer palettes hold straight components in color.RGBA
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.RGBA{},
		color.RGBA{R: 0x80, G: 0x40, B: 0x20, A: 0x80},
	})
	img.Pix = []uint8{0, 1}

	var buf bytes.Buffer
	require.NoError(t, (&Sprite{Image: img}).Encode(&buf))

	decoded, err := gif.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	palette := decoded.(*image.Paletted).Palette
	require.GreaterOrEqual(t, len(palette), 2)
	assert.Equal(t, color.RGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xff}, palette[1])
}

func TestSpriteEncodeBadTransparent(t *testing.T) {
	s := testSprite()
	s.Transparent = 3
	assert.Error(t, s.Encode(new(bytes.Buffer)))

	assert.Error(t, (&Sprite{}).Encode(new(bytes.Buffer)))
}

func TestWriteSprite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteSprite(dir, "brown-cburnett.gif", testSprite()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "brown-cburnett.gif", entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	f, err := os.Open(filepath.Join(dir, "brown-cburnett.gif"))
	require.NoError(t, err)
	defer f.Close()
	_, err = gif.Decode(f)
	assert.NoError(t, err)
}

func TestWriteSpriteCleansUp(t *testing.T) {
	dir := t.TempDir()

	s := testSprite()
	s.Transparent = 7
	assert.Error(t, WriteSprite(dir, "brown-cburnett.gif", s))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, WriteSprite(filepath.Join(dir, "missing"), "brown-cburnett.gif", testSprite()))
}
