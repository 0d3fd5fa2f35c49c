package chessprite

import (
	"errors"
	"image"
)

// Standard board geometry.
const (
	BoardCols = 8
	BoardRows = 8

	// swatchSlots is the number of slots in the reference strip; the last one
	// stays empty so the top right pixel is transparent.
	swatchSlots = len(ReferenceColors) + 1
	swatchCol   = 4
	checkRow    = 7
)

// spriteRoles is the piece role hosted by each sprite row, starting at row 1.
// The king is repeated on the check row.
var spriteRoles = [...]Role{Pawn, Knight, Bishop, Rook, Queen, King, King}

// IsHighlightColumn reports whether column x carries the highlight overlay.
func IsHighlightColumn(x int) bool {
	return x == 2 || x == 3 || x == 6 || x == 7
}

// SwatchSlot returns the pixel rectangle of reference color slot i of a
// standard sprite. Slot len(ReferenceColors) is the transparency key.
func SwatchSlot(i int) image.Rectangle {
	width := swatchCol * SquareSize / swatchSlots
	x := swatchCol*SquareSize + i*width
	return image.Rect(x, 0, x+width, SquareSize)
}

func inSwatchStrip(col, row int) bool {
	return row == 0 && col >= swatchCol
}

// BoardLayout lays out the standard themed sprite: every square color,
// highlighted or not, and every piece of both colors.
type BoardLayout struct{}

// Compose builds the scene of theme with the pieces of set.
func (BoardLayout) Compose(theme Theme, set *PieceSet) (*Scene, error) {
	if set == nil {
		return nil, errors.New("chessprite: BoardLayout: piece set must be specified")
	}

	s := newScene(theme.Name+"-"+set.Name, BoardCols, BoardRows)
	s.Pieces = set

	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardCols; col++ {
			if inSwatchStrip(col, row) {
				continue
			}
			if col%2 == 0 {
				s.fillSquare(TileFill, col, row, theme.Light)
			} else {
				s.fillSquare(TileFill, col, row, theme.Dark)
			}
		}
	}

	for i, c := range ReferenceColors {
		s.add(Drawable{
			Kind:    TileFill,
			Rect:    SwatchSlot(i),
			Opacity: c.Alpha,
			Fill:    c,
		})
	}

	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardCols; col++ {
			if IsHighlightColumn(col) && !inSwatchStrip(col, row) {
				s.fillSquare(OverlayFill, col, row, HighlightColor)
			}
		}
	}

	for col := 0; col < BoardCols; col++ {
		s.add(Drawable{
			Kind:     OverlayFill,
			Rect:     s.squareRect(col, checkRow),
			Opacity:  1,
			Gradient: CheckGradient,
		})
	}

	for i, role := range spriteRoles {
		row := i + 1
		for col := 0; col < BoardCols; col++ {
			color := Black
			if col >= BoardCols/2 {
				color = White
			}
			s.placePiece(Piece{Color: color, Role: role}, col, row, 1)
		}
	}

	return s, nil
}
