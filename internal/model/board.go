package model

type Team int

const (
	TeamNone Team = iota
	White
	Black
	TeamAll
)

func (t Team) String() string {
	switch t {
	case White:
		return "white"
	case Black:
		return "black"
	case TeamAll:
		return "all"
	}
	return "none"
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Opponent returns the other side, or TeamNone for anything that is not a playing team.
func (t Team) Opponent() Team {
	switch t {
	case White:
		return Black
	case Black:
		return White
	}
	return TeamNone
}

type PieceRole int

const (
	RoleNone PieceRole = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (r PieceRole) String() string {
	switch r {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	}
	return "none"
}

func (r PieceRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Notation is the algebraic letter of the role, empty for pawns.
func (r PieceRole) Notation() string {
	switch r {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

type Piece struct {
	Team      Team      `json:"team"`
	Role      PieceRole `json:"role"`
	MoveCount int       `json:"moveCount"`
}

// Square is one board cell. Piece is only meaningful while Occupied is set.
type Square struct {
	Occupied bool
	Piece    Piece
}

const BoardSize = 8

// Board holds the 64 cells in x + y*8 order. It is an array, so assigning a
// Board copies every square.
type Board [BoardSize * BoardSize]Square

func Index(x, y int) int {
	return x + y*BoardSize
}

func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// At returns the cell at (x, y). Callers must check InBounds first.
func (b *Board) At(x, y int) *Square {
	return &b[Index(x, y)]
}

func (b *Board) Clone() Board {
	return *b
}

func (b *Board) place(x, y int, role PieceRole, team Team) {
	b[Index(x, y)] = Square{Occupied: true, Piece: Piece{Team: team, Role: role}}
}

// NewBoard returns the standard opening setup, White on ranks 0 and 1.
func NewBoard() Board {
	var b Board
	backRank := [BoardSize]PieceRole{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, role := range backRank {
		b.place(x, 0, role, White)
		b.place(x, 7, role, Black)
		b.place(x, 1, Pawn, White)
		b.place(x, 6, Pawn, Black)
	}
	return b
}
