package chessprite

// Color is the side a piece belongs to.
type Color uint8

// Possible piece colors.
const (
	White Color = iota
	Black
)

// Char returns the single letter used in piece codes.
func (c Color) Char() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Role is the type of a piece.
type Role uint8

// Possible piece roles, in sprite row order.
const (
	Pawn Role = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var roleChars = [...]byte{'P', 'N', 'B', 'R', 'Q', 'K'}

var roleNames = [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}

// Char returns the upper case letter used in piece codes.
func (r Role) Char() byte {
	return roleChars[r]
}

func (r Role) String() string {
	return roleNames[r]
}

// Piece is a colored piece role.
type Piece struct {
	Color Color
	Role  Role
}

// NumPieces is the number of distinct pieces.
const NumPieces = 12

// AllPieces lists every piece in table order: white pawn through white king,
// then black pawn through black king.
var AllPieces = func() [NumPieces]Piece {
	var all [NumPieces]Piece
	for i := range all {
		all[i] = Piece{Color: Color(i / 6), Role: Role(i % 6)}
	}
	return all
}()

// Index returns the slot of the piece in a ByPiece table.
func (p Piece) Index() int {
	return int(p.Color)*6 + int(p.Role)
}

// Code returns the two letter piece code, e.g. "wN" or "bK".
func (p Piece) Code() string {
	return string([]byte{p.Color.Char(), p.Role.Char()})
}

func (p Piece) String() string {
	return p.Code()
}

// ByPiece is a fixed size table keyed by piece.
type ByPiece[T any] [NumPieces]T

// Get returns the entry for p.
func (b *ByPiece[T]) Get(p Piece) T {
	return b[p.Index()]
}

// Set stores the entry for p.
func (b *ByPiece[T]) Set(p Piece, v T) {
	b[p.Index()] = v
}
