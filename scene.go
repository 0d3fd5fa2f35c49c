package chessprite

import (
	"errors"
	"fmt"
	"image"
)

// DrawableKind is the kind of a scene element. Kinds are also the paint
// phases of a scene, in order.
type DrawableKind uint8

// Possible drawable kinds.
const (
	TileFill DrawableKind = iota
	OverlayFill
	PieceInstance
	NumeralOverlay
)

func (k DrawableKind) String() string {
	switch k {
	case TileFill:
		return "tile"
	case OverlayFill:
		return "overlay"
	case PieceInstance:
		return "piece"
	case NumeralOverlay:
		return "numeral"
	default:
		return fmt.Sprintf("DrawableKind(%d)", uint8(k))
	}
}

// CheckGradient is the id of the radial gradient painted behind a king in
// check.
const CheckGradient = "check-gradient"

// Drawable is one element of a scene.
type Drawable struct {
	Kind DrawableKind
	// Rect is in scene pixels.
	Rect    image.Rectangle
	Opacity float64

	// Fill is used by tiles and overlays unless Gradient is set.
	Fill     Paint
	Gradient string

	Piece Piece
	Count int
}

// Scene is an ordered list of drawables. Later elements are painted over
// earlier ones.
type Scene struct {
	Name   string
	Cols   int
	Rows   int
	Square int

	Pieces   *PieceSet
	Numerals *Numerals

	Items []Drawable
}

func newScene(name string, cols, rows int) *Scene {
	return &Scene{
		Name:   name,
		Cols:   cols,
		Rows:   rows,
		Square: SquareSize,
	}
}

// Size returns the pixel size of the scene.
func (s *Scene) Size() image.Point {
	return image.Pt(s.Cols*s.Square, s.Rows*s.Square)
}

// squareRect returns the pixel rectangle of the square at col, row.
func (s *Scene) squareRect(col, row int) image.Rectangle {
	return image.Rect(col*s.Square, row*s.Square, (col+1)*s.Square, (row+1)*s.Square)
}

func (s *Scene) add(d Drawable) {
	s.Items = append(s.Items, d)
}

func (s *Scene) fillSquare(kind DrawableKind, col, row int, fill Paint) {
	s.add(Drawable{
		Kind:    kind,
		Rect:    s.squareRect(col, row),
		Opacity: fill.Alpha,
		Fill:    fill,
	})
}

func (s *Scene) placePiece(p Piece, col, row int, opacity float64) {
	s.add(Drawable{
		Kind:    PieceInstance,
		Rect:    s.squareRect(col, row),
		Opacity: opacity,
		Piece:   p,
	})
}

// Count returns how many drawables of the given kind the scene holds.
func (s *Scene) Count(kind DrawableKind) int {
	n := 0
	for _, d := range s.Items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// At returns the drawables of the given kind whose rectangle starts at the
// given square, in paint order.
func (s *Scene) At(kind DrawableKind, col, row int) []Drawable {
	var found []Drawable
	origin := image.Pt(col*s.Square, row*s.Square)
	for _, d := range s.Items {
		if d.Kind == kind && d.Rect.Min == origin {
			found = append(found, d)
		}
	}
	return found
}

// Validate checks the paint order and the placement invariants of the scene.
func (s *Scene) Validate() error {
	if s.Cols <= 0 || s.Rows <= 0 || s.Square <= 0 {
		return errors.New("chessprite: Validate: empty scene")
	}

	bounds := image.Rectangle{Max: s.Size()}
	var last DrawableKind

	for i, d := range s.Items {
		if d.Kind < last {
			return fmt.Errorf("chessprite: Validate: %s at %d painted after %s", d.Kind, i, last)
		}
		last = d.Kind

		if !d.Rect.In(bounds) || d.Rect.Empty() {
			return fmt.Errorf("chessprite: Validate: %s at %d outside scene: %v", d.Kind, i, d.Rect)
		}

		if d.Opacity < 0 || d.Opacity > 1 {
			return fmt.Errorf("chessprite: Validate: %s at %d has opacity %v", d.Kind, i, d.Opacity)
		}

		full := d.Rect.Dx() == s.Square && d.Rect.Dy() == s.Square
		if d.Kind == PieceInstance || (d.Kind != NumeralOverlay && full) {
			if !full || d.Rect.Min.X%s.Square != 0 || d.Rect.Min.Y%s.Square != 0 {
				return fmt.Errorf("chessprite: Validate: %s at %d not on the grid: %v", d.Kind, i, d.Rect)
			}
		}

		switch d.Kind {
		case PieceInstance:
			if s.Pieces == nil {
				return errors.New("chessprite: Validate: scene has pieces but no piece set")
			}
		case NumeralOverlay:
			if s.Numerals == nil || s.Numerals.Get(d.Count) == nil {
				return fmt.Errorf("chessprite: Validate: no numeral for count %d", d.Count)
			}
		}
	}

	return nil
}
