package chessprite

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"path/filepath"
)

// Sprite is a quantized sprite sheet ready to be written out.
type Sprite struct {
	Image *image.Paletted
	// Transparent is the palette index encoded as the transparent color.
	Transparent uint8
}

// opaque drops the alpha of a palette entry. imagequant fills color.RGBA
// entries with straight, not premultiplied, components so those are taken
// as given.
func opaque(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		rgba.A = 0xff
		return rgba
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xff}
}

// gifPalette returns the output palette: every entry opaque except the
// transparent index. The GIF encoder picks the first fully transparent entry
// as the transparent color index.
func (s *Sprite) gifPalette() color.Palette {
	palette := make(color.Palette, len(s.Image.Palette))
	for i, c := range s.Image.Palette {
		if i == int(s.Transparent) {
			palette[i] = color.RGBA{}
			continue
		}
		// entries are kept opaque, alpha is not representable
		palette[i] = opaque(c)
	}
	return palette
}

// Encode writes the sprite as a non-interlaced GIF.
func (s *Sprite) Encode(w io.Writer) error {
	if s.Image == nil {
		return errors.New("chessprite: Encode: sprite has no image")
	}
	if int(s.Transparent) >= len(s.Image.Palette) {
		return fmt.Errorf("chessprite: Encode: transparent index %d outside palette of %d",
			s.Transparent, len(s.Image.Palette))
	}

	img := &image.Paletted{
		Pix:     s.Image.Pix,
		Stride:  s.Image.Stride,
		Rect:    s.Image.Rect,
		Palette: s.gifPalette(),
	}

	wr := bufio.NewWriter(w)
	if err := gif.Encode(wr, img, &gif.Options{NumColors: len(img.Palette)}); err != nil {
		return err
	}
	return wr.Flush()
}

// WriteSprite writes the sprite to dir/name. The file only appears once it
// has been written completely.
func WriteSprite(dir, name string, s *Sprite) (err error) {
	tmp, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("chessprite: WriteSprite: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = s.Encode(tmp); err != nil {
		return fmt.Errorf("chessprite: WriteSprite: %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("chessprite: WriteSprite: %s: %w", name, err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chessprite: WriteSprite: %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("chessprite: WriteSprite: %w", err)
	}

	return nil
}
