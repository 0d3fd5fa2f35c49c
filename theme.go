package chessprite

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// SquareSize is the size of a board square in pixels.
const SquareSize = 90

// Paint is a color with straight alpha.
type Paint struct {
	colorful.Color
	Alpha float64
}

// ParsePaint parses a "#rrggbb" or "#rrggbbaa" color.
func ParsePaint(s string) (Paint, error) {
	switch len(s) {
	case 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return Paint{}, fmt.Errorf("chessprite: ParsePaint: %w", err)
		}
		return Paint{Color: c, Alpha: 1}, nil
	case 9:
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return Paint{}, fmt.Errorf("chessprite: ParsePaint: %w", err)
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Paint{}, fmt.Errorf("chessprite: ParsePaint: bad alpha in %q", s)
		}
		return Paint{Color: c, Alpha: float64(a) / 255}, nil
	default:
		return Paint{}, fmt.Errorf("chessprite: ParsePaint: bad color %q", s)
	}
}

// MustParsePaint is like ParsePaint but panics on malformed input. It is
// meant for the fixed catalogs below.
func MustParsePaint(s string) Paint {
	p, err := ParsePaint(s)
	if err != nil {
		panic(err)
	}
	return p
}

// NRGBA returns the paint as a non-premultiplied color.
func (p Paint) NRGBA() color.NRGBA {
	r, g, b := p.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(p.Alpha*255 + 0.5)}
}

// Theme is a named light/dark square color pair.
type Theme struct {
	Name  string
	Light Paint
	Dark  Paint
}

// Themes is the board theme catalog in output order.
var Themes = []Theme{
	{Name: "blue", Light: MustParsePaint("#dee3e6"), Dark: MustParsePaint("#8ca2ad")},
	{Name: "brown", Light: MustParsePaint("#f0d9b5"), Dark: MustParsePaint("#b58863")},
	{Name: "green", Light: MustParsePaint("#ffffdd"), Dark: MustParsePaint("#86a666")},
	{Name: "ic", Light: MustParsePaint("#ececec"), Dark: MustParsePaint("#c1c18e")},
	{Name: "pink", Light: MustParsePaint("#f1f1c9"), Dark: MustParsePaint("#f07272")},
	{Name: "purple", Light: MustParsePaint("#9f90b0"), Dark: MustParsePaint("#7d4a8d")},
}

// ThemeByName looks a theme up in the catalog.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Reference colors drawn into the swatch strip of every standard sprite.
var (
	BackgroundColor    = MustParsePaint("#262421")
	TextColor          = MustParsePaint("#bababa")
	TitleColor         = MustParsePaint("#bf811d")
	AccentColor        = MustParsePaint("#b72fc6")
	SecondaryTextColor = MustParsePaint("#706f6e")
)

// ReferenceColors is the swatch order.
var ReferenceColors = [5]Paint{
	BackgroundColor,
	TextColor,
	TitleColor,
	AccentColor,
	SecondaryTextColor,
}

// HighlightColor is the translucent legal move highlight.
var HighlightColor = MustParsePaint("#9bc70069")

// PieceSets is the piece set catalog in output order.
var PieceSets = []string{
	"alpha",
	"anarcandy",
	"caliente",
	"california",
	"cardinal",
	"cburnett",
	"celtic",
	"chess7",
	"chessnut",
	"companion",
	"cooke",
	"disguised",
	"dubrovny",
	"fantasy",
	"fresca",
	"gioco",
	"governor",
	"horsey",
	"icpieces",
	"kiwen-suwi",
	"kosal",
	"leipzig",
	"letter",
	"libra",
	"maestro",
	"merida",
	"monarchy",
	"mpchess",
	"pirouetti",
	"pixel",
	"reillycraig",
	"riohacha",
	"shapes",
	"spatial",
	"staunty",
	"tatiana",
}

// IsPieceSet reports whether name is in the catalog.
func IsPieceSet(name string) bool {
	for _, s := range PieceSets {
		if s == name {
			return true
		}
	}
	return false
}
