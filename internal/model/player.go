package model

type Player struct {
	ID    string
	Color PlayerColor
}

type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    PlayerColor `json:"color"`
	TimeLeft int         `json:"timeLeft"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) Team() Team {
	switch c {
	case PlayerColorWhite:
		return White
	case PlayerColorBlack:
		return Black
	}
	return TeamNone
}

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}
