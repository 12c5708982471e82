package model

import (
	"errors"
	"fmt"
	"io"

	"github.com/notnil/chess"
)

// GameState is the authoritative state of one game. It is only mutated by
// Execute and is not safe for concurrent use.
type GameState struct {
	round      int
	isFinished bool
	winner     Team
	turn       Team
	board      Board
}

func NewGameState() *GameState {
	return &GameState{
		round: 1,
		turn:  White,
		board: NewBoard(),
	}
}

var (
	ErrInvalidTurn     = errors.New("turn must be white or black")
	ErrKingCount       = errors.New("each side needs exactly one king")
	ErrPieceTeam       = errors.New("pieces must be white or black")
	ErrOpponentInCheck = errors.New("side not to move is in check")
)

// NewGameStateFrom starts a game from an arbitrary position with turn to move.
// Every piece must be white or black, each side needs one king, and the side
// not to move must not be in check.
func NewGameStateFrom(board Board, turn Team) (*GameState, error) {
	if turn != White && turn != Black {
		return nil, ErrInvalidTurn
	}
	for i, sq := range board {
		if sq.Occupied && sq.Piece.Team != White && sq.Piece.Team != Black {
			return nil, fmt.Errorf("x:%d y:%d: %w", i%BoardSize, i/BoardSize, ErrPieceTeam)
		}
	}
	for _, team := range []Team{White, Black} {
		if n := countKings(&board, team); n != 1 {
			return nil, fmt.Errorf("%s has %d: %w", team, n, ErrKingCount)
		}
	}
	if isKingInCheck(&board, turn.Opponent()) {
		return nil, ErrOpponentInCheck
	}
	return &GameState{
		round: 1,
		turn:  turn,
		board: board,
	}, nil
}

func (s *GameState) Round() int       { return s.round }
func (s *GameState) IsFinished() bool { return s.isFinished }
func (s *GameState) Winner() Team     { return s.winner }
func (s *GameState) Turn() Team       { return s.turn }

// Board returns a copy of the current position.
func (s *GameState) Board() Board { return s.board }

// PieceAt returns the piece on (x, y) and whether the square is occupied.
func (s *GameState) PieceAt(x, y int) (Piece, bool) {
	if !InBounds(x, y) {
		return Piece{}, false
	}
	sq := s.board.At(x, y)
	return sq.Piece, sq.Occupied
}

// Clone returns an independent copy for what-if evaluation.
func (s *GameState) Clone() *GameState {
	c := *s
	return &c
}

// Execute runs one text command against the game. Any Response other than
// Success leaves the state untouched.
func (s *GameState) Execute(command string) Response {
	cmd, err := ParseCmd(command)
	if err != nil || cmd.Kind != CmdMove {
		return ErrParseCmd
	}
	if s.isFinished {
		return ErrAlreadyFinish
	}
	if !cmd.inBounds() {
		return ErrWrongPos
	}

	origin := s.board.At(cmd.OldX, cmd.OldY)
	if !origin.Occupied {
		return ErrNoPieceThere
	}
	if origin.Piece.Team != s.turn {
		return ErrNotYourTurn
	}

	var changes ChangeList
	if res := selectRule(origin.Piece.Role)(&s.board, cmd, &changes); res != Success {
		return res
	}

	// try the move on a copy first so a suicide leaves nothing behind
	trial := s.board.Clone()
	applyChanges(&trial, &changes)
	if isKingInCheck(&trial, s.turn) {
		return ErrSucide
	}

	applyChanges(&s.board, &changes)

	opponent := s.turn.Opponent()
	if isKingInCheck(&s.board, opponent) {
		if !hasAnyReply(&s.board, opponent) {
			s.isFinished = true
			s.winner = TeamNone
		}
		// runs regardless of the draw verdict above and wins ties with it
		if isCheckmateFor(&s.board, opponent) {
			s.isFinished = true
			s.winner = s.turn
		}
	}

	if s.turn == Black {
		s.round++
	}
	s.turn = opponent
	return Success
}

// Debug writes the occupied squares followed by a board diagram.
func (s *GameState) Debug(w io.Writer) error {
	for i, sq := range s.board {
		if !sq.Occupied {
			continue
		}
		if _, err := fmt.Fprintf(w, "x:%d y:%d %s %s %d\n",
			i%BoardSize, i/BoardSize, sq.Piece.Role, sq.Piece.Team, sq.Piece.MoveCount); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, s.diagram().Draw())
	return err
}

func (s *GameState) diagram() *chess.Board {
	pieces := make(map[chess.Square]chess.Piece)
	for i, sq := range s.board {
		if !sq.Occupied {
			continue
		}
		if p := diagramPiece(sq.Piece); p != chess.NoPiece {
			pieces[chess.Square(i)] = p
		}
	}
	return chess.NewBoard(pieces)
}

func diagramPiece(p Piece) chess.Piece {
	white := p.Team == White
	switch p.Role {
	case King:
		if white {
			return chess.WhiteKing
		}
		return chess.BlackKing
	case Queen:
		if white {
			return chess.WhiteQueen
		}
		return chess.BlackQueen
	case Rook:
		if white {
			return chess.WhiteRook
		}
		return chess.BlackRook
	case Bishop:
		if white {
			return chess.WhiteBishop
		}
		return chess.BlackBishop
	case Knight:
		if white {
			return chess.WhiteKnight
		}
		return chess.BlackKnight
	case Pawn:
		if white {
			return chess.WhitePawn
		}
		return chess.BlackPawn
	}
	return chess.NoPiece
}
