package model

type ChangeKind int

const (
	NoChange ChangeKind = iota
	Add
	Delete
)

// Change is one atomic board edit. Piece is only used by Add.
type Change struct {
	Kind  ChangeKind
	X     int
	Y     int
	Piece Piece
}

const maxChanges = 5

// ChangeList is the bounded edit list produced by one move evaluation. The
// first NoChange entry ends the list.
type ChangeList struct {
	changes [maxChanges]Change
	n       int
}

// push appends c, reporting false instead of growing past maxChanges.
func (l *ChangeList) push(c Change) bool {
	if l.n == maxChanges {
		return false
	}
	l.changes[l.n] = c
	l.n++
	return true
}

func (l *ChangeList) reset() {
	*l = ChangeList{}
}

// Changes returns the edits up to, not including, the terminator.
func (l *ChangeList) Changes() []Change {
	for i := 0; i < l.n; i++ {
		if l.changes[i].Kind == NoChange {
			return l.changes[:i]
		}
	}
	return l.changes[:l.n]
}

// recordMove fills l with the edits relocating the piece at (x0, y0) to
// (x1, y1), removing whatever stood on the destination first.
func (l *ChangeList) recordMove(b *Board, cmd Cmd) {
	if l == nil {
		return
	}
	l.reset()
	moved := b.At(cmd.OldX, cmd.OldY).Piece
	moved.MoveCount++

	l.push(Change{Kind: Delete, X: cmd.OldX, Y: cmd.OldY, Piece: b.At(cmd.OldX, cmd.OldY).Piece})
	if dst := b.At(cmd.NewX, cmd.NewY); dst.Occupied {
		l.push(Change{Kind: Delete, X: cmd.NewX, Y: cmd.NewY, Piece: dst.Piece})
	}
	l.push(Change{Kind: Add, X: cmd.NewX, Y: cmd.NewY, Piece: moved})
	l.push(Change{Kind: NoChange})
}

// applyChanges commits the list to b. A list must be applied at most once
// per board.
func applyChanges(b *Board, l *ChangeList) {
	for _, c := range l.Changes() {
		if !InBounds(c.X, c.Y) {
			continue
		}
		sq := b.At(c.X, c.Y)
		switch c.Kind {
		case Add:
			sq.Occupied = true
			sq.Piece = c.Piece
		case Delete:
			sq.Occupied = false
			sq.Piece = Piece{}
		}
	}
}
