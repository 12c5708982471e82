package model

// GameView is the read-only JSON snapshot sent to clients.
type GameView struct {
	ID         string      `json:"id"`
	Round      int         `json:"round"`
	Turn       Team        `json:"turn"`
	IsFinished bool        `json:"isFinished"`
	Winner     Team        `json:"winner"`
	Result     string      `json:"result"`
	Pieces     []PieceView `json:"pieces"`
	Players    struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastCommand  string    `json:"lastCommand,omitempty"`
	LastResponse *Response `json:"lastResponse,omitempty"`
}

type PieceView struct {
	X int `json:"x"`
	Y int `json:"y"`
	Piece
}

func piecesOf(b Board) []PieceView {
	pieces := make([]PieceView, 0, 32)
	for i, sq := range b {
		if sq.Occupied {
			pieces = append(pieces, PieceView{X: i % BoardSize, Y: i / BoardSize, Piece: sq.Piece})
		}
	}
	return pieces
}
