package chessprite

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func composeCrazyhouse(t *testing.T) *Scene {
	t.Helper()
	scene, err := CrazyhouseLayout{Numerals: testNumerals(t)}.Compose(testPieceSet(t, "staunty"))
	require.NoError(t, err)
	require.NoError(t, scene.Validate())
	return scene
}

func TestCrazyhouseLayoutGrid(t *testing.T) {
	scene := composeCrazyhouse(t)

	assert.Equal(t, "crazyhouse-staunty", scene.Name)
	assert.Equal(t, image.Pt(720, 810), scene.Size())
	assert.Equal(t, 72, scene.Count(TileFill))
	assert.Equal(t, 72, scene.Count(PieceInstance))
	assert.Equal(t, 64, scene.Count(NumeralOverlay))
	assert.Zero(t, scene.Count(OverlayFill))

	for _, d := range scene.Items {
		if d.Kind == TileFill {
			assert.Equal(t, BackgroundColor, d.Fill)
		}
	}
}

func TestCrazyhouseGhostRow(t *testing.T) {
	scene := composeCrazyhouse(t)

	for col := 0; col < CrazyhouseCols; col++ {
		pieces := scene.At(PieceInstance, col, 0)
		require.Len(t, pieces, 1)
		assert.Equal(t, GhostOpacity, pieces[0].Opacity)
		assert.Equal(t, 0, pieces[0].Rect.Min.Y)
		assert.Equal(t, col*SquareSize, pieces[0].Rect.Min.X)
	}

	for _, d := range scene.Items {
		if d.Kind == NumeralOverlay {
			assert.GreaterOrEqual(t, d.Rect.Min.Y, SquareSize, "numeral in ghost row")
		}
	}
}

func numeralAt(t *testing.T, s *Scene, col, row int) Drawable {
	t.Helper()
	min := image.Pt(col*SquareSize+NumeralOffset, row*SquareSize+NumeralOffset)
	for _, d := range s.Items {
		if d.Kind == NumeralOverlay && d.Rect.Min == min {
			return d
		}
	}
	require.Fail(t, "no numeral", "square %d,%d", col, row)
	return Drawable{}
}

func TestCrazyhouseCountedRows(t *testing.T) {
	scene := composeCrazyhouse(t)

	roles := []Role{Knight, Bishop, Rook, Queen}
	for row := 1; row <= 6; row++ {
		for col := 0; col < CrazyhouseCols; col++ {
			pieces := scene.At(PieceInstance, col, row)
			require.Len(t, pieces, 1)

			want := Piece{Color: White, Role: roles[col%4]}
			if col >= 4 {
				want.Color = Black
			}
			assert.Equal(t, want, pieces[0].Piece)
			assert.Equal(t, 1.0, pieces[0].Opacity)

			n := numeralAt(t, scene, col, row)
			assert.Equal(t, row+1, n.Count)
			assert.Equal(t, RowCount(row), n.Count)
		}
	}
}

func TestCrazyhousePawnRows(t *testing.T) {
	scene := composeCrazyhouse(t)

	for _, row := range []int{7, 8} {
		color := White
		if row == 8 {
			color = Black
		}
		for col := 0; col < CrazyhouseCols; col++ {
			pieces := scene.At(PieceInstance, col, row)
			require.Len(t, pieces, 1)
			assert.Equal(t, Piece{Color: color, Role: Pawn}, pieces[0].Piece)

			n := numeralAt(t, scene, col, row)
			assert.Equal(t, col+1, n.Count, "square %d,%d", col, row)
			assert.Equal(t, image.Pt(col*90+55, row*90+55), n.Rect.Min)
		}
	}
}

func TestCrazyhouseNumeralsInsideSquare(t *testing.T) {
	scene := composeCrazyhouse(t)

	for _, d := range scene.Items {
		if d.Kind != NumeralOverlay {
			continue
		}
		square := image.Rect(0, 0, SquareSize, SquareSize).Add(image.Pt(
			d.Rect.Min.X/SquareSize*SquareSize, d.Rect.Min.Y/SquareSize*SquareSize))
		assert.True(t, d.Rect.In(square), "numeral %v leaves its square", d.Rect)
	}
}

func TestCrazyhouseMissingNumerals(t *testing.T) {
	_, err := CrazyhouseLayout{}.Compose(testPieceSet(t, "staunty"))
	assert.Error(t, err)
}
