package chessprite

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/fs"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
)

// MaxCount is the highest pocket count with a glyph.
const MaxCount = 8

// DefaultNumeralSize fits a glyph between NumeralOffset and the square edge.
const DefaultNumeralSize = SquareSize - NumeralOffset

// Numerals holds the count glyphs 1 through MaxCount.
type Numerals struct {
	glyphs [MaxCount + 1]image.Image
}

// Get returns the glyph for count, or nil when there is none.
func (n *Numerals) Get(count int) image.Image {
	if count < 1 || count > MaxCount {
		return nil
	}
	return n.glyphs[count]
}

// LoadNumerals reads 1.png through 8.png from fsys.
func LoadNumerals(fsys fs.FS) (*Numerals, error) {
	n := new(Numerals)
	for count := 1; count <= MaxCount; count++ {
		name := strconv.Itoa(count) + ".png"
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("chessprite: LoadNumerals: %w", err)
		}

		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("chessprite: LoadNumerals: %s: %w", name, err)
		}

		n.glyphs[count] = img
	}

	return n, nil
}

// DrawNumerals draws every count as a light digit on a dark disc of the given
// pixel size.
func DrawNumerals(size int) (*Numerals, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chessprite: DrawNumerals: bad size %d", size)
	}

	source, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("chessprite: DrawNumerals: %w", err)
	}
	defer source.Close()

	face := source.Face(float64(size) * 0.6)
	r := float64(size) / 2

	n := new(Numerals)
	for count := 1; count <= MaxCount; count++ {
		dc := gg.NewContext(size, size)

		dc.SetColor(BackgroundColor.NRGBA())
		dc.DrawCircle(r, r, r)
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("chessprite: DrawNumerals: %w", err)
		}

		dc.SetColor(TextColor.NRGBA())
		dc.SetFont(face)
		dc.DrawStringAnchored(strconv.Itoa(count), r, r, 0.5, 0.35)

		glyph := image.NewNRGBA(image.Rect(0, 0, size, size))
		draw.Draw(glyph, glyph.Bounds(), dc.Image(), image.Point{}, draw.Src)
		dc.Close()

		n.glyphs[count] = glyph
	}

	return n, nil
}

// dataURI returns the glyph for count as an inline PNG.
func (n *Numerals) dataURI(count int) (string, error) {
	glyph := n.Get(count)
	if glyph == nil {
		return "", fmt.Errorf("no numeral for count %d", count)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, glyph); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
