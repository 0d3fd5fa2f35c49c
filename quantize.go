package chessprite

import (
	"errors"
	"fmt"
	"image"

	"github.com/1lann/imagequant"
)

// DefaultMaxColors is the palette size of an output sprite.
const DefaultMaxColors = 64

// quantizeSpeed trades speed for quality; 1 is slowest and best. The value is
// fixed so that output is reproducible.
const quantizeSpeed = 3

// Quantize reduces img to at most maxColors colors, mapping every pixel to
// its nearest palette entry without dithering. The palette index of the top
// right pixel becomes the transparent index of the sprite.
func Quantize(img image.Image, maxColors int) (*Sprite, error) {
	if maxColors < 2 || maxColors > 256 {
		return nil, fmt.Errorf("chessprite: Quantize: max colors must be within 2 and 256, got %d", maxColors)
	}
	if img.Bounds().Empty() {
		return nil, errors.New("chessprite: Quantize: empty image")
	}

	attr, err := getAttributes(quantizeSpeed, maxColors)
	if err != nil {
		return nil, fmt.Errorf("chessprite: Quantize: attributes: %s", err.Error())
	}
	defer attr.Release()

	quant, err := imagequant.NewImage(attr, imagequant.GoImageToRgba32(img),
		img.Bounds().Dx(), img.Bounds().Dy(), 0)
	if err != nil {
		return nil, fmt.Errorf("chessprite: Quantize: NewImage: %s", err.Error())
	}
	defer quant.Release()

	res, err := quant.Quantize(attr)
	if err != nil {
		return nil, fmt.Errorf("chessprite: Quantize: %s", err.Error())
	}

	err = res.SetDitheringLevel(0)
	if err != nil {
		return nil, fmt.Errorf("chessprite: Quantize: SetDitheringLevel: %s", err.Error())
	}

	rgb8data, err := res.WriteRemappedImage()
	if err != nil {
		return nil, fmt.Errorf("chessprite: Quantize: WriteRemappedImage: %s", err.Error())
	}

	remapped := imagequant.Rgb8PaletteToGoImage(res.GetImageWidth(),
		res.GetImageHeight(), rgb8data, res.GetPalette())
	paletted, ok := remapped.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("chessprite: Quantize: unexpected image type %T", remapped)
	}

	if len(paletted.Palette) > maxColors {
		return nil, fmt.Errorf("chessprite: Quantize: palette has %d colors, want at most %d",
			len(paletted.Palette), maxColors)
	}

	b := paletted.Bounds()
	return &Sprite{
		Image:       paletted,
		Transparent: paletted.ColorIndexAt(b.Max.X-1, b.Min.Y),
	}, nil
}

func getAttributes(speed, maxColors int) (*imagequant.Attributes, error) {
	attr, err := imagequant.NewAttributes()
	if err != nil {
		return nil, fmt.Errorf("NewAttributes: %s", err.Error())
	}

	err = attr.SetSpeed(speed)
	if err != nil {
		attr.Release()
		return nil, fmt.Errorf("SetSpeed: %s", err.Error())
	}

	err = attr.SetMaxColors(maxColors)
	if err != nil {
		attr.Release()
		return nil, fmt.Errorf("SetMaxColors: %s", err.Error())
	}

	return attr, nil
}
