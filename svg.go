package chessprite

import (
	"bytes"
	"fmt"
	"strconv"
)

const (
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// checkGradientDef is a red glow fading out towards the square edges.
const checkGradientDef = `<radialGradient id="` + CheckGradient + `" cx="0.5" cy="0.5" r="0.5">` +
	`<stop offset="0" stop-color="#ff0000" stop-opacity="1"/>` +
	`<stop offset="0.25" stop-color="#e70000" stop-opacity="1"/>` +
	`<stop offset="0.89" stop-color="#a90000" stop-opacity="0"/>` +
	`<stop offset="1" stop-color="#9e0000" stop-opacity="0"/>` +
	`</radialGradient>`

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func numeralID(count int) string {
	return "numeral-" + strconv.Itoa(count)
}

// MarshalSVG encodes the scene as a standalone SVG document. Only the pieces,
// gradients and numerals the scene uses are defined.
func (s *Scene) MarshalSVG() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var usedPieces ByPiece[bool]
	var usedCounts [MaxCount + 1]bool
	usesGradient := false
	for _, d := range s.Items {
		switch d.Kind {
		case PieceInstance:
			usedPieces.Set(d.Piece, true)
		case NumeralOverlay:
			usedCounts[d.Count] = true
		default:
			if d.Gradient == CheckGradient {
				usesGradient = true
			} else if d.Gradient != "" {
				return nil, fmt.Errorf("chessprite: MarshalSVG: unknown gradient %q", d.Gradient)
			}
		}
	}

	size := s.Size()
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="%s" version="1.1" xmlns:xlink="%s" viewBox="0 0 %d %d" width="%d" height="%d">`,
		svgNamespace, xlinkNamespace, size.X, size.Y, size.X, size.Y)

	buf.WriteString("<defs>")
	for _, p := range AllPieces {
		if usedPieces.Get(p) {
			buf.Write(s.Pieces.Def(p).Markup)
		}
	}
	if usesGradient {
		buf.WriteString(checkGradientDef)
	}
	for count, used := range usedCounts {
		if !used {
			continue
		}
		uri, err := s.Numerals.dataURI(count)
		if err != nil {
			return nil, fmt.Errorf("chessprite: MarshalSVG: %w", err)
		}
		glyph := s.Numerals.Get(count).Bounds().Size()
		fmt.Fprintf(&buf, `<image id="%s" width="%d" height="%d" xlink:href="%s"/>`,
			numeralID(count), glyph.X, glyph.Y, uri)
	}
	buf.WriteString("</defs>")

	for _, d := range s.Items {
		switch d.Kind {
		case TileFill, OverlayFill:
			fill := d.Fill.Hex()
			if d.Gradient != "" {
				fill = "url(#" + d.Gradient + ")"
			}
			fmt.Fprintf(&buf, `<rect x="%d" y="%d" width="%d" height="%d" stroke="none" fill="%s"`,
				d.Rect.Min.X, d.Rect.Min.Y, d.Rect.Dx(), d.Rect.Dy(), fill)
			if d.Opacity < 1 {
				fmt.Fprintf(&buf, ` fill-opacity="%s"`, formatFloat(d.Opacity))
			}
			buf.WriteString("/>")
		case PieceInstance, NumeralOverlay:
			ref := d.Piece.Code()
			if d.Kind == NumeralOverlay {
				ref = numeralID(d.Count)
			}
			fmt.Fprintf(&buf, `<use xlink:href="#%s" transform="translate(%d, %d)"`,
				ref, d.Rect.Min.X, d.Rect.Min.Y)
			if d.Opacity < 1 {
				fmt.Fprintf(&buf, ` opacity="%s"`, formatFloat(d.Opacity))
			}
			buf.WriteString("/>")
		}
	}

	buf.WriteString("</svg>")
	return buf.Bytes(), nil
}
