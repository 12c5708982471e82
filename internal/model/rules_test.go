package model

import "testing"

// put places a fresh piece on b.
func put(b *Board, x, y int, role PieceRole, team Team) {
	b.place(x, y, role, team)
}

func mv(x0, y0, x1, y1 int) Cmd {
	return Cmd{Kind: CmdMove, OldX: x0, OldY: y0, NewX: x1, NewY: y1}
}

func TestRulesFromOpening(t *testing.T) {
	tests := []struct {
		name string
		cmd  Cmd
		want Response
	}{
		{"pawn single step", mv(4, 1, 4, 2), Success},
		{"pawn double step", mv(4, 1, 4, 3), Success},
		{"black pawn double step", mv(4, 6, 4, 4), Success},
		{"pawn triple step", mv(4, 1, 4, 4), ErrPawnMove},
		{"pawn backwards", mv(4, 6, 4, 7), ErrPawnMove},
		{"pawn sideways", mv(4, 1, 5, 1), ErrPawnMove},
		{"pawn diagonal onto empty", mv(4, 1, 5, 2), ErrPawnMove},
		{"pawn en passant shape", mv(4, 1, 5, 3), ErrPawnMove},
		{"pawn standing still", mv(4, 1, 4, 1), ErrPawnMove},
		{"knight jump", mv(1, 0, 2, 2), Success},
		{"knight straight", mv(1, 0, 1, 2), ErrKnightMove},
		{"knight onto own pawn", mv(1, 0, 3, 1), ErrKillSame},
		{"king onto own pawn", mv(4, 0, 4, 1), ErrKillSame},
		{"king two squares", mv(4, 0, 4, 2), ErrKingMove},
		{"bishop through pawn", mv(2, 0, 4, 2), ErrBlocked},
		{"bishop straight", mv(2, 0, 2, 3), ErrBishopMove},
		{"rook through pawn", mv(0, 0, 0, 4), ErrBlocked},
		{"rook diagonal", mv(0, 0, 2, 2), ErrRookMove},
		{"queen straight blocked", mv(3, 0, 3, 3), ErrBlocked},
		{"queen diagonal blocked", mv(3, 0, 5, 2), ErrBlocked},
		{"queen knight shape", mv(3, 0, 4, 2), ErrQueenMove},
		{"empty origin", mv(4, 4, 4, 5), ErrNoPieceThere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			var role PieceRole
			if sq := b.At(tt.cmd.OldX, tt.cmd.OldY); sq.Occupied {
				role = sq.Piece.Role
			} else {
				role = Pawn
			}
			var out ChangeList
			if got := selectRule(role)(&b, tt.cmd, &out); got != tt.want {
				t.Errorf("%v on %v = %v, want %v", role, tt.cmd, got, tt.want)
			}
		})
	}
}

func TestKingMovesOneSquareInEveryDirection(t *testing.T) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			var b Board
			put(&b, 4, 4, King, White)
			if got := kingRule(&b, mv(4, 4, 4+dx, 4+dy), nil); got != Success {
				t.Errorf("king step (%d,%d) = %v, want Success", dx, dy, got)
			}
		}
	}
}

func TestSlidersOnOpenBoard(t *testing.T) {
	tests := []struct {
		name string
		role PieceRole
		cmd  Cmd
		want Response
	}{
		{"rook across the rank", Rook, mv(0, 3, 7, 3), Success},
		{"rook down the file", Rook, mv(5, 7, 5, 0), Success},
		{"bishop long diagonal", Bishop, mv(0, 0, 7, 7), Success},
		{"bishop anti diagonal", Bishop, mv(7, 0, 0, 7), Success},
		{"queen as rook", Queen, mv(3, 3, 3, 7), Success},
		{"queen as bishop", Queen, mv(3, 3, 6, 0), Success},
		{"queen standing still", Queen, mv(3, 3, 3, 3), ErrQueenMove},
		{"rook standing still", Rook, mv(3, 3, 3, 3), ErrRookMove},
		{"bishop standing still", Bishop, mv(3, 3, 3, 3), ErrBishopMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			put(&b, tt.cmd.OldX, tt.cmd.OldY, tt.role, White)
			if got := selectRule(tt.role)(&b, tt.cmd, nil); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSliderBlockedByEnemyBeforeDestination(t *testing.T) {
	var b Board
	put(&b, 0, 0, Rook, White)
	put(&b, 0, 3, Pawn, Black)
	if got := rookRule(&b, mv(0, 0, 0, 3), nil); got != Success {
		t.Fatalf("capture on the first enemy = %v, want Success", got)
	}
	if got := rookRule(&b, mv(0, 0, 0, 5), nil); got != ErrBlocked {
		t.Fatalf("move past the enemy = %v, want ErrBlocked", got)
	}
}

func TestPawnCaptures(t *testing.T) {
	var b Board
	put(&b, 3, 3, Pawn, White)
	put(&b, 4, 4, Pawn, Black)
	put(&b, 2, 4, Knight, White)

	var out ChangeList
	if got := pawnRule(&b, mv(3, 3, 4, 4), &out); got != Success {
		t.Fatalf("capture = %v, want Success", got)
	}
	changes := out.Changes()
	if len(changes) != 3 {
		t.Fatalf("capture produced %d changes, want 3", len(changes))
	}
	want := []Change{
		{Kind: Delete, X: 3, Y: 3, Piece: Piece{Team: White, Role: Pawn}},
		{Kind: Delete, X: 4, Y: 4, Piece: Piece{Team: Black, Role: Pawn}},
		{Kind: Add, X: 4, Y: 4, Piece: Piece{Team: White, Role: Pawn, MoveCount: 1}},
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, changes[i], want[i])
		}
	}

	if got := pawnRule(&b, mv(3, 3, 2, 4), nil); got != ErrKillSame {
		t.Fatalf("capture of own knight = %v, want ErrKillSame", got)
	}
}

func TestPawnDoubleStepNeedsFreshPawn(t *testing.T) {
	var b Board
	b[Index(2, 6)] = Square{Occupied: true, Piece: Piece{Team: Black, Role: Pawn, MoveCount: 1}}
	if got := pawnRule(&b, mv(2, 6, 2, 4), nil); got != ErrPawnMove {
		t.Fatalf("double step of moved pawn = %v, want ErrPawnMove", got)
	}
	if got := pawnRule(&b, mv(2, 6, 2, 5), nil); got != Success {
		t.Fatalf("single step of moved pawn = %v, want Success", got)
	}
}

func TestUnknownRole(t *testing.T) {
	var b Board
	b[Index(1, 1)] = Square{Occupied: true, Piece: Piece{Team: White, Role: RoleNone}}
	if got := selectRule(RoleNone)(&b, mv(1, 1, 1, 2), nil); got != ErrPieceRule {
		t.Fatalf("got %v, want ErrPieceRule", got)
	}
	if got := selectRule(PieceRole(42))(&b, mv(5, 5, 5, 6), nil); got != ErrNoPieceThere {
		t.Fatalf("got %v, want ErrNoPieceThere", got)
	}
}
