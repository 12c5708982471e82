package model

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

var (
	ErrGameFull        = errors.New("game is full")
	ErrPlayerNotInGame = errors.New("player not in game")
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// peer serialises writes to one connection; websocket conns allow a single
// concurrent writer.
type peer struct {
	mu   sync.Mutex
	conn Conn
}

func (p *peer) writeJSON(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteJSON(v)
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*peer // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*peer),
	}
}

// Game wraps one engine instance with its seats, clocks and observers. All
// engine access goes through the game's mutex.
type Game struct {
	ID           string
	mu           sync.Mutex
	state        *GameState
	white        string
	black        string
	lastCommand  string
	lastResponse *Response
	connections  *GameConnections
	whiteClock   *Clock
	blackClock   *Clock
}

func NewGame(id string, clockTime time.Duration) *Game {
	return &Game{
		ID:          id,
		state:       NewGameState(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
	}
}

func (g *Game) log() *logrus.Entry {
	return logrus.WithField("game", g.ID)
}

// AddPlayer seats playerID, white first. Seating an already seated player
// returns their colour again.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color := g.seatOf(playerID); color != "" {
		return color, nil
	}
	switch {
	case g.white == "":
		g.white = playerID
		g.log().WithField("player", playerID).Info("white seated")
		return PlayerColorWhite, nil
	case g.black == "":
		g.black = playerID
		g.log().WithField("player", playerID).Info("black seated")
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) seatOf(playerID string) PlayerColor {
	switch {
	case playerID == "":
		return ""
	case playerID == g.white:
		return PlayerColorWhite
	case playerID == g.black:
		return PlayerColorBlack
	}
	return ""
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seatOf(playerID) != ""
}

// Execute runs command for playerID. Only the seated player whose side is to
// move reaches the engine; the other seat gets ErrNotYourTurn.
func (g *Game) Execute(playerID, command string) (Response, error) {
	g.mu.Lock()

	color := g.seatOf(playerID)
	if color == "" {
		g.mu.Unlock()
		return ErrNotYourTurn, ErrPlayerNotInGame
	}

	mover := g.state.Turn()
	var res Response
	if !g.state.IsFinished() && color.Team() != mover {
		res = ErrNotYourTurn
	} else {
		res = g.state.Execute(command)
	}

	entry := g.log().WithFields(logrus.Fields{
		"player":   playerID,
		"command":  command,
		"response": res,
	})
	if !res.OK() {
		entry.Debug("command rejected")
		g.mu.Unlock()
		return res, nil
	}

	g.clockFor(mover).Stop()
	if g.state.IsFinished() {
		g.clockFor(mover.Opponent()).Stop()
		entry.WithField("winner", g.state.Winner()).Info("game finished")
	} else {
		g.clockFor(mover.Opponent()).Start()
		entry.Debug("command accepted")
	}
	g.lastCommand = command
	g.lastResponse = &res
	g.mu.Unlock()

	g.broadcastState()
	return res, nil
}

func (g *Game) clockFor(t Team) *Clock {
	if t == Black {
		return g.blackClock
	}
	return g.whiteClock
}

// View returns a snapshot of the game for clients.
func (g *Game) View() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view()
}

func (g *Game) view() GameView {
	v := GameView{
		ID:           g.ID,
		Round:        g.state.Round(),
		Turn:         g.state.Turn(),
		IsFinished:   g.state.IsFinished(),
		Winner:       g.state.Winner(),
		Pieces:       piecesOf(g.state.Board()),
		LastCommand:  g.lastCommand,
		LastResponse: g.lastResponse,
	}
	if v.IsFinished {
		v.Result = "draw"
		if v.Winner != TeamNone {
			v.Result = v.Winner.String()
		}
	}
	v.Players.White = ClientPlayer{ID: g.white, Color: PlayerColorWhite, TimeLeft: deciseconds(g.whiteClock.TimeLeft())}
	v.Players.Black = ClientPlayer{ID: g.black, Color: PlayerColorBlack, TimeLeft: deciseconds(g.blackClock.TimeLeft())}
	return v
}

func deciseconds(d time.Duration) int {
	return int(d.Milliseconds() / 100)
}

// Debug writes the engine's diagnostic dump.
func (g *Game) Debug(w io.Writer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Debug(w)
}

// RegisterConnection attaches conn as playerID's observer connection. Anyone
// may watch; a second connection for the same player is closed.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = conn.Close()
		g.log().WithField("player", playerID).Debug("duplicate connection rejected")
		return nil
	}
	p := &peer{conn: conn}
	g.connections.connections[playerID] = p
	g.connections.mu.Unlock()
	g.log().WithField("player", playerID).Debug("connection registered")

	g.mu.Lock()
	v := g.view()
	g.mu.Unlock()
	if err := g.sendView(p, v); err != nil {
		g.UnregisterConnection(playerID, conn)
		return err
	}
	return nil
}

// UnregisterConnection removes playerID's connection if it is still conn.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if p, exists := g.connections.connections[playerID]; exists && p.conn == conn {
		delete(g.connections.connections, playerID)
		g.log().WithField("player", playerID).Debug("connection unregistered")
	}
}

// SendTo writes msg to playerID's connection, if any.
func (g *Game) SendTo(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	p, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return nil
	}
	return p.writeJSON(msg)
}

func (g *Game) sendView(p *peer, v GameView) error {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, v)
	if err != nil {
		return err
	}
	return p.writeJSON(msg)
}

// broadcastState sends the current view to every observer, dropping
// connections that fail.
func (g *Game) broadcastState() {
	g.mu.Lock()
	v := g.view()
	g.mu.Unlock()

	g.connections.mu.RLock()
	active := make(map[string]*peer, len(g.connections.connections))
	for playerID, p := range g.connections.connections {
		active[playerID] = p
	}
	g.connections.mu.RUnlock()

	for playerID, p := range active {
		if err := g.sendView(p, v); err != nil {
			g.log().WithError(err).WithField("player", playerID).Warn("failed to send state")
			g.UnregisterConnection(playerID, p.conn)
		}
	}
}
