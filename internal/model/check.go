package model

import "fmt"

// findKing returns the index of team's king. A board without exactly one
// king for team is corrupt and panics.
func findKing(b *Board, team Team) int {
	index, found := -1, 0
	for i, sq := range b {
		if sq.Occupied && sq.Piece.Role == King && sq.Piece.Team == team {
			index = i
			found++
		}
	}
	if found != 1 {
		panic(fmt.Sprintf("model: board has %d %s kings, want 1", found, team))
	}
	return index
}

func countKings(b *Board, team Team) int {
	n := 0
	for _, sq := range b {
		if sq.Occupied && sq.Piece.Role == King && sq.Piece.Team == team {
			n++
		}
	}
	return n
}

// isKingInCheck reports whether any piece of the other side could move onto
// team's king. Only geometry is consulted.
func isKingInCheck(b *Board, team Team) bool {
	king := findKing(b, team)
	attacker := team.Opponent()
	for i, sq := range b {
		if !sq.Occupied || sq.Piece.Team != attacker {
			continue
		}
		if selectRule(sq.Piece.Role)(b, cmdFromIndex(i, king), nil) == Success {
			return true
		}
	}
	return false
}

// enumerateReplies returns every board reachable by one geometrically legal
// move of the piece at index. Whether the mover's king ends up attacked is
// not considered.
func enumerateReplies(b *Board, index int) []Board {
	if !b[index].Occupied {
		return nil
	}
	check := selectRule(b[index].Piece.Role)

	var boards []Board
	var changes ChangeList
	for to := range b {
		if to == index {
			continue
		}
		if check(b, cmdFromIndex(index, to), &changes) != Success {
			continue
		}
		next := b.Clone()
		applyChanges(&next, &changes)
		boards = append(boards, next)
	}
	return boards
}

func hasAnyReply(b *Board, team Team) bool {
	for i, sq := range b {
		if sq.Occupied && sq.Piece.Team == team && len(enumerateReplies(b, i)) > 0 {
			return true
		}
	}
	return false
}

// isCheckmateFor reports whether every reply of every piece of team still
// leaves team's king in check. A side without replies is vacuously mated.
func isCheckmateFor(b *Board, team Team) bool {
	for i, sq := range b {
		if !sq.Occupied || sq.Piece.Team != team {
			continue
		}
		for _, next := range enumerateReplies(b, i) {
			if !isKingInCheck(&next, team) {
				return false
			}
		}
	}
	return true
}
