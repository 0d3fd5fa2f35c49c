package chessprite

import (
	"errors"
	"image"
)

// Crazyhouse board geometry.
const (
	CrazyhouseCols = 8
	CrazyhouseRows = 9

	// GhostOpacity is the opacity of the empty pocket preview row.
	GhostOpacity = 0.1
	// NumeralOffset is where a count glyph starts inside its square.
	NumeralOffset = 55

	countedRows  = 6
	whitePawnRow = 7
	blackPawnRow = 8
)

var pocketRoles = [...]Role{Knight, Bishop, Rook, Queen}

// CrazyhouseLayout lays out the pocket sprite: a faded preview row for empty
// pockets, pieces with counts, and pawns with counts up to eight.
type CrazyhouseLayout struct {
	Numerals *Numerals
}

// pocketPiece returns the piece shown in column col of a piece row: white on
// the left half, black on the right.
func pocketPiece(col int) Piece {
	if col < len(pocketRoles) {
		return Piece{Color: White, Role: pocketRoles[col]}
	}
	return Piece{Color: Black, Role: pocketRoles[col-len(pocketRoles)]}
}

// RowCount returns the pocket count illustrated by a numbered piece row.
func RowCount(row int) int {
	return row + 1
}

// Compose builds the crazyhouse scene with the pieces of set.
func (c CrazyhouseLayout) Compose(set *PieceSet) (*Scene, error) {
	if set == nil {
		return nil, errors.New("chessprite: CrazyhouseLayout: piece set must be specified")
	}
	if c.Numerals == nil {
		return nil, errors.New("chessprite: CrazyhouseLayout: numerals must be specified")
	}

	s := newScene("crazyhouse-"+set.Name, CrazyhouseCols, CrazyhouseRows)
	s.Pieces = set
	s.Numerals = c.Numerals

	for row := 0; row < CrazyhouseRows; row++ {
		for col := 0; col < CrazyhouseCols; col++ {
			s.fillSquare(TileFill, col, row, BackgroundColor)
		}
	}

	type numeral struct {
		col, row, count int
	}
	var numerals []numeral

	// ghost row: translated by column only
	for col := 0; col < CrazyhouseCols; col++ {
		s.placePiece(pocketPiece(col), col, 0, GhostOpacity)
	}

	for row := 1; row <= countedRows; row++ {
		for col := 0; col < CrazyhouseCols; col++ {
			s.placePiece(pocketPiece(col), col, row, 1)
			numerals = append(numerals, numeral{col: col, row: row, count: RowCount(row)})
		}
	}

	for _, pawns := range []struct {
		row   int
		color Color
	}{{whitePawnRow, White}, {blackPawnRow, Black}} {
		for col := 0; col < CrazyhouseCols; col++ {
			s.placePiece(Piece{Color: pawns.color, Role: Pawn}, col, pawns.row, 1)
			numerals = append(numerals, numeral{col: col, row: pawns.row, count: col + 1})
		}
	}

	for _, n := range numerals {
		glyph := c.Numerals.Get(n.count)
		if glyph == nil {
			return nil, errors.New("chessprite: CrazyhouseLayout: missing numeral glyph")
		}

		min := image.Pt(n.col*s.Square+NumeralOffset, n.row*s.Square+NumeralOffset)
		size := glyph.Bounds().Size()
		s.add(Drawable{
			Kind:    NumeralOverlay,
			Rect:    image.Rectangle{Min: min, Max: min.Add(size)},
			Opacity: 1,
			Count:   n.count,
		})
	}

	return s, nil
}
