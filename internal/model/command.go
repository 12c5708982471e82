package model

import (
	"errors"
	"fmt"
)

type CmdKind int

const (
	CmdNone CmdKind = iota
	CmdMove
	CmdSurrender
	CmdPromotion
)

// Cmd is a parsed text command. Only CmdMove is produced by ParseCmd today.
type Cmd struct {
	Kind CmdKind
	OldX int
	OldY int
	NewX int
	NewY int
}

const (
	maxTokens   = 10
	maxTokenLen = 10
)

var (
	ErrTooManyTokens  = errors.New("too many tokens")
	ErrTokenTooLong   = errors.New("token too long")
	ErrUnknownCommand = errors.New("unknown command")
	ErrTokenCount     = errors.New("wrong number of arguments")
	ErrBadCoordinate  = errors.New("coordinate must be a single digit")
)

// tokenize splits s on runs of spaces, rejecting input with more than
// maxTokens tokens or any token longer than maxTokenLen bytes.
func tokenize(s string) ([]string, error) {
	tokens := make([]string, 0, maxTokens)
	start := -1
	flush := func(end int) error {
		if start < 0 {
			return nil
		}
		if len(tokens) == maxTokens {
			return fmt.Errorf("at byte %d: %w", start, ErrTooManyTokens)
		}
		if end-start > maxTokenLen {
			return fmt.Errorf("at byte %d: %w", start+maxTokenLen, ErrTokenTooLong)
		}
		tokens = append(tokens, s[start:end])
		start = -1
		return nil
	}

	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			if err := flush(i); err != nil {
				return nil, err
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if err := flush(len(s)); err != nil {
		return nil, err
	}
	return tokens, nil
}

func parseDigit(tok string) (int, error) {
	if len(tok) != 1 || tok[0] < '0' || tok[0] > '9' {
		return 0, fmt.Errorf("%q: %w", tok, ErrBadCoordinate)
	}
	return int(tok[0] - '0'), nil
}

// ParseCmd turns "move x0 y0 x1 y1" into a Cmd. Coordinates are single
// digits and are not checked against the board here.
func ParseCmd(s string) (Cmd, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return Cmd{}, err
	}
	if len(tokens) == 0 || tokens[0] != "move" {
		return Cmd{}, ErrUnknownCommand
	}
	if len(tokens) != 5 {
		return Cmd{}, fmt.Errorf("move takes 4 coordinates, got %d: %w", len(tokens)-1, ErrTokenCount)
	}

	var coords [4]int
	for i := range coords {
		if coords[i], err = parseDigit(tokens[i+1]); err != nil {
			return Cmd{}, err
		}
	}

	return Cmd{
		Kind: CmdMove,
		OldX: coords[0],
		OldY: coords[1],
		NewX: coords[2],
		NewY: coords[3],
	}, nil
}

func cmdFromIndex(from, to int) Cmd {
	return Cmd{
		Kind: CmdMove,
		OldX: from % BoardSize,
		OldY: from / BoardSize,
		NewX: to % BoardSize,
		NewY: to / BoardSize,
	}
}

func (c Cmd) inBounds() bool {
	return InBounds(c.OldX, c.OldY) && InBounds(c.NewX, c.NewY)
}

func (c Cmd) String() string {
	return fmt.Sprintf("move %d %d %d %d", c.OldX, c.OldY, c.NewX, c.NewY)
}
