package raster

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Native renders in process with oksvg. It needs no external tool but only
// understands vector content: embedded raster images are not drawn.
type Native struct{}

func parseViewBox(s string) ([4]float64, error) {
	var v [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) != 4 {
		return v, fmt.Errorf("native: bad viewBox %q", s)
	}

	for i, f := range fields {
		var err error
		v[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return v, fmt.Errorf("native: bad viewBox %q", s)
		}
	}
	return v, nil
}

// viewBox reads the view box of the root element.
func viewBox(svg []byte) (x, y, w, h float64, err error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		tok, err := dec.RawToken()
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("native: no root element: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		value, ok := attrValue(start.Attr, "viewBox")
		if !ok {
			return 0, 0, 0, 0, errors.New("native: root element has no viewBox")
		}

		v, err := parseViewBox(value)
		return v[0], v[1], v[2], v[3], err
	}
}

// Render rasterizes svg at the given zoom and returns it PNG encoded.
func (Native) Render(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		return nil, fmt.Errorf("native: bad zoom %v", zoom)
	}

	vx, vy, vw, vh, err := viewBox(svg)
	if err != nil {
		return nil, err
	}

	svg, err = inlineNestedSVG(svg)
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}

	icon.ViewBox.X, icon.ViewBox.Y, icon.ViewBox.W, icon.ViewBox.H = vx, vy, vw, vh

	w := int(math.Round(vw * zoom))
	h := int(math.Round(vh * zoom))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("native: empty target %dx%d", w, h)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("native: %w", err)
	}

	return buf.Bytes(), nil
}
