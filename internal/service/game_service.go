package service

import (
	"fmt"
	"io"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameView(gameID string) (model.GameView, error) {
	return gs.gameManager.GetGameView(gameID)
}

// HandleCommand runs a text command and returns the engine's answer with the
// resulting view.
func (gs *GameService) HandleCommand(gameID, playerID, command string) (model.Response, model.GameView, error) {
	res, err := gs.gameManager.ExecuteCommand(gameID, playerID, command)
	if err != nil {
		return res, model.GameView{}, err
	}
	view, err := gs.gameManager.GetGameView(gameID)
	return res, view, err
}

func (gs *GameService) DebugGame(gameID string, w io.Writer) error {
	return gs.gameManager.DebugGame(gameID, w)
}

// SendTo delivers msg on playerID's game connection.
func (gs *GameService) SendTo(gameID, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.SendTo(playerID, msg)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) bool {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
