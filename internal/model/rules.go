package model

// rule decides whether cmd is geometrically legal for the piece on its origin
// square and, when out is non-nil, records the resulting edits. Rules never
// look at check; that is the caller's job.
type rule func(b *Board, cmd Cmd, out *ChangeList) Response

func selectRule(role PieceRole) rule {
	switch role {
	case Pawn:
		return pawnRule
	case King:
		return kingRule
	case Queen:
		return queenRule
	case Rook:
		return rookRule
	case Bishop:
		return bishopRule
	case Knight:
		return knightRule
	}
	return unknownRule
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func deltas(cmd Cmd) (dx, dy int) {
	return cmd.NewX - cmd.OldX, cmd.NewY - cmd.OldY
}

// finish runs the checks shared by every role once the geometry is accepted.
func finish(b *Board, cmd Cmd, out *ChangeList) Response {
	mover := b.At(cmd.OldX, cmd.OldY).Piece
	if dst := b.At(cmd.NewX, cmd.NewY); dst.Occupied && dst.Piece.Team == mover.Team {
		return ErrKillSame
	}
	out.recordMove(b, cmd)
	return Success
}

// pathClear walks the squares strictly between origin and destination along
// a straight or diagonal line.
func pathClear(b *Board, cmd Cmd) bool {
	dx, dy := deltas(cmd)
	stepX, stepY := sign(dx), sign(dy)
	x, y := cmd.OldX+stepX, cmd.OldY+stepY
	for x != cmd.NewX || y != cmd.NewY {
		if b.At(x, y).Occupied {
			return false
		}
		x += stepX
		y += stepY
	}
	return true
}

func unknownRule(b *Board, cmd Cmd, out *ChangeList) Response {
	if !b.At(cmd.OldX, cmd.OldY).Occupied {
		return ErrNoPieceThere
	}
	return ErrPieceRule
}

func pawnRule(b *Board, cmd Cmd, out *ChangeList) Response {
	origin := b.At(cmd.OldX, cmd.OldY)
	if !origin.Occupied {
		return ErrNoPieceThere
	}

	forward := 1
	if origin.Piece.Team == Black {
		forward = -1
	}

	dx, dy := deltas(cmd)
	if dy == 0 || sign(dy) != forward {
		return ErrPawnMove
	}

	dst := b.At(cmd.NewX, cmd.NewY)
	switch {
	case dx == 0 && abs(dy) <= 2:
		if dst.Occupied {
			return ErrPawnMove
		}
		// TODO: reject a double step over an occupied square.
		if abs(dy) == 2 && origin.Piece.MoveCount != 0 {
			return ErrPawnMove
		}
	case abs(dx) == 1 && abs(dy) == 1:
		if !dst.Occupied {
			return ErrPawnMove
		}
	default:
		// en passant shaped moves land here as well
		return ErrPawnMove
	}
	return finish(b, cmd, out)
}

func kingRule(b *Board, cmd Cmd, out *ChangeList) Response {
	if !b.At(cmd.OldX, cmd.OldY).Occupied {
		return ErrNoPieceThere
	}
	dx, dy := deltas(cmd)
	if max(abs(dx), abs(dy)) != 1 {
		return ErrKingMove
	}
	return finish(b, cmd, out)
}

func knightRule(b *Board, cmd Cmd, out *ChangeList) Response {
	if !b.At(cmd.OldX, cmd.OldY).Occupied {
		return ErrNoPieceThere
	}
	dx, dy := deltas(cmd)
	if abs(dx)*abs(dy) != 2 {
		return ErrKnightMove
	}
	return finish(b, cmd, out)
}

func isDiagonal(cmd Cmd) bool {
	dx, dy := deltas(cmd)
	return dx != 0 && abs(dx) == abs(dy)
}

func isStraight(cmd Cmd) bool {
	dx, dy := deltas(cmd)
	return (dx == 0) != (dy == 0)
}

func bishopRule(b *Board, cmd Cmd, out *ChangeList) Response {
	if !b.At(cmd.OldX, cmd.OldY).Occupied {
		return ErrNoPieceThere
	}
	if !isDiagonal(cmd) {
		return ErrBishopMove
	}
	if !pathClear(b, cmd) {
		return ErrBlocked
	}
	return finish(b, cmd, out)
}

func rookRule(b *Board, cmd Cmd, out *ChangeList) Response {
	if !b.At(cmd.OldX, cmd.OldY).Occupied {
		return ErrNoPieceThere
	}
	if !isStraight(cmd) {
		return ErrRookMove
	}
	if !pathClear(b, cmd) {
		return ErrBlocked
	}
	return finish(b, cmd, out)
}

// queenRule hands the move to whichever of the rook or bishop rules matches
// its shape, so a blocked queen reports ErrBlocked.
func queenRule(b *Board, cmd Cmd, out *ChangeList) Response {
	if !b.At(cmd.OldX, cmd.OldY).Occupied {
		return ErrNoPieceThere
	}
	switch {
	case isStraight(cmd):
		return rookRule(b, cmd, out)
	case isDiagonal(cmd):
		return bishopRule(b, cmd, out)
	}
	return ErrQueenMove
}
