package model

// Response is the outcome of a single Execute call.
type Response int

const (
	Success Response = iota
	ErrParseCmd
	ErrNoPieceThere
	ErrWrongPos
	ErrAlreadyFinish
	ErrNotYourTurn
	ErrPieceRule
	ErrPawnMove
	ErrKingMove
	ErrBishopMove
	ErrKnightMove
	ErrQueenMove
	ErrRookMove
	ErrBlocked
	ErrKillSame
	ErrSucide
)

func (r Response) String() string {
	switch r {
	case Success:
		return "Success"
	case ErrParseCmd:
		return "ErrParseCmd"
	case ErrNoPieceThere:
		return "ErrNoPieceThere"
	case ErrWrongPos:
		return "ErrWrongPos"
	case ErrAlreadyFinish:
		return "ErrAlreadyFinish"
	case ErrNotYourTurn:
		return "ErrNotYourTurn"
	case ErrPieceRule:
		return "ErrPieceRule"
	case ErrPawnMove:
		return "ErrPawnMove"
	case ErrKingMove:
		return "ErrKingMove"
	case ErrBishopMove:
		return "ErrBishopMove"
	case ErrKnightMove:
		return "ErrKnightMove"
	case ErrQueenMove:
		return "ErrQueenMove"
	case ErrRookMove:
		return "ErrRookMove"
	case ErrBlocked:
		return "ErrBlocked"
	case ErrKillSame:
		return "ErrKillSame"
	case ErrSucide:
		return "ErrSucide"
	}
	return "WrongTypeResponse"
}

func (r Response) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r Response) OK() bool {
	return r == Success
}
