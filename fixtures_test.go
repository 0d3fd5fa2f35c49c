package chessprite

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testPieceSVG is a small piece document using every construct the
// namespacer rewrites: ids, classes, a style sheet, url() and href refs.
func testPieceSVG(p Piece) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!-- %[1]s -->
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" id="root" width="45" height="45">
<style>.body { fill: #fff; stroke: url(#grad); } #outline { stroke-width: 1.5 }</style>
<defs>
<linearGradient id="grad"><stop offset="0" stop-color="#000"/></linearGradient>
<path id="shape" d="M 10 10 L 35 10 L 35 35 Z"/>
</defs>
<g class="body outline-group" fill="url(#grad)">
<use xlink:href="#shape" id="outline"/>
</g>
</svg>
`, p.Code())
}

func addPieceSet(fsys fstest.MapFS, name string) {
	for _, p := range AllPieces {
		fsys[name+"/"+p.Code()+".svg"] = &fstest.MapFile{Data: []byte(testPieceSVG(p))}
	}
}

func testPieceFS(sets ...string) fstest.MapFS {
	fsys := make(fstest.MapFS)
	for _, name := range sets {
		addPieceSet(fsys, name)
	}
	return fsys
}

func testPieceSet(t *testing.T, name string) *PieceSet {
	t.Helper()
	set, err := NewLoader(testPieceFS(name), nil).Load(name)
	require.NoError(t, err)
	return set
}

// testNumerals loads solid squares of distinct gray levels as numerals.
func testNumerals(t *testing.T) *Numerals {
	t.Helper()

	fsys := make(fstest.MapFS)
	for count := 1; count <= MaxCount; count++ {
		img := image.NewNRGBA(image.Rect(0, 0, DefaultNumeralSize, DefaultNumeralSize))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: uint8(count * 30)}), image.Point{}, draw.Src)

		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		fsys[strconv.Itoa(count)+".png"] = &fstest.MapFile{Data: buf.Bytes()}
	}

	n, err := LoadNumerals(fsys)
	require.NoError(t, err)
	return n
}

// rectRenderer paints the top level <rect> elements of a document and
// ignores everything else. It stands in for a real SVG renderer where only
// the board squares matter.
type rectRenderer struct{}

func rectAttr(start xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func rectInt(start xml.StartElement, name string, zoom float64) int {
	v, _ := strconv.Atoi(rectAttr(start, name))
	return int(math.Round(float64(v) * zoom))
}

func (rectRenderer) Render(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))

	var dst *image.NRGBA
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				w := rectInt(t, "width", zoom)
				h := rectInt(t, "height", zoom)
				dst = image.NewNRGBA(image.Rect(0, 0, w, h))
				continue
			}
			if depth != 2 || t.Name.Local != "rect" {
				continue
			}

			fill := rectAttr(t, "fill")
			if strings.HasPrefix(fill, "url(") {
				fill = "#ff0000"
			}
			paint, err := ParsePaint(fill)
			if err != nil {
				return nil, err
			}
			if op := rectAttr(t, "fill-opacity"); op != "" {
				paint.Alpha, _ = strconv.ParseFloat(op, 64)
			}

			x, y := rectInt(t, "x", zoom), rectInt(t, "y", zoom)
			r := image.Rect(x, y, x+rectInt(t, "width", zoom), y+rectInt(t, "height", zoom))
			draw.Draw(dst, r, image.NewUniform(paint.NRGBA()), image.Point{}, draw.Over)
		case xml.EndElement:
			depth--
		}
	}

	if dst == nil {
		return nil, fmt.Errorf("rect renderer: no root element")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	args := m.Called(ctx, svg, zoom)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// closeTo reports whether two colors are within tol on every channel.
func closeTo(a, b color.NRGBA, tol int) bool {
	diff := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d >= -tol && d <= tol
	}
	return diff(a.R, b.R) && diff(a.G, b.G) && diff(a.B, b.B) && diff(a.A, b.A)
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
