package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	pendingMatches   map[string]string
	clockTime        time.Duration
	mu               sync.RWMutex
}

func NewGameManager(clockTime time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		pendingMatches:   make(map[string]string),
		clockTime:        clockTime,
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchOnce() {
			}
		}
	}
}

// matchOnce pairs the two longest waiting players, reporting whether a game
// was created.
func (gm *GameManager) matchOnce() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.NextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID, gm.clockTime)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		logrus.WithError(err).Error("seating first matched player")
		return false
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		logrus.WithError(err).Error("seating second matched player")
		return false
	}
	gm.games[gameID] = game
	logrus.WithFields(logrus.Fields{
		"game":  gameID,
		"white": player1.ID,
		"black": player2.ID,
	}).Info("match found")

	gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	return true
}

// notifyMatch sends the event on the player's channel and retires the
// channel. Players queued without a channel get the event when they register
// one. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		logrus.WithField("player", playerID).Debug("match held until the player connects")
		gm.pendingMatches[playerID] = mustJSON(event)
		return
	}
	delete(gm.matchingChannels, playerID)
	deliver(playerID, ch, mustJSON(event))
}

func deliver(playerID string, ch chan string, event string) {
	select {
	case ch <- event:
	default:
		logrus.WithField("player", playerID).Warn("match channel full")
	}
	close(ch)
}

// RegisterMatchmakingChannel makes ch the player's match channel. If a match
// was already found for the player it is delivered on ch at once and matched
// is true; ch is then closed and not kept.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) (matched bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// Remove from map first to prevent any new writes, then close
	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	if event, ok := gm.pendingMatches[playerID]; ok {
		delete(gm.pendingMatches, playerID)
		deliver(playerID, ch, event)
		return true
	}
	gm.matchingChannels[playerID] = ch
	return false
}

// UnregisterMatchmakingChannel forgets playerID's channel and takes them out
// of the queue. The channel is not closed.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.Remove(playerID)
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID, gm.clockTime)
	logrus.WithField("game", gameID).Info("game created")
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) GetGameView(gameID string) (model.GameView, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameView{}, err
	}
	return game.View(), nil
}

func (gm *GameManager) ExecuteCommand(gameID, playerID, command string) (model.Response, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.ErrParseCmd, err
	}
	return game.Execute(playerID, command)
}

func (gm *GameManager) DebugGame(gameID string, w io.Writer) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Debug(w)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
