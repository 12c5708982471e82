package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

func playerOf(c *websocket.Conn) string {
	id, _ := c.Locals(middleware.PlayerIDKey).(string)
	return id
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := playerOf(c)
	log := logrus.WithFields(logrus.Fields{"game": gameID, "player": playerID})

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.WithError(err).Warn("failed to register connection")
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("read loop finished")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, playerID, fmt.Errorf("parse message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.WithError(err).Debug("message failed")
			wsc.sendError(gameID, playerID, err)
		}
	}
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeCommand:
		var payload ws.CommandPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("parse command: %w", err)
		}
		res, _, err := wsc.gameService.HandleCommand(gameID, playerID, payload.Command)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeResult, ws.ResultPayload{
			Command:  payload.Command,
			Response: res.String(),
		})
		if err != nil {
			return err
		}
		return wsc.gameService.SendTo(gameID, playerID, reply)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID, playerID string, cause error) {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: cause.Error()})
	if err == nil {
		err = wsc.gameService.SendTo(gameID, playerID, msg)
	}
	if err != nil {
		logrus.WithError(err).WithField("player", playerID).Warn("failed to send error")
	}
}

// enterMatchmaking registers ch for playerID and queues them unless a match
// is already waiting. Players queued earlier over REST stay queued.
func (wsc *WebSocketController) enterMatchmaking(playerID string, ch chan string) error {
	if wsc.gameService.RegisterMatchmakingChannel(playerID, ch) {
		return nil
	}
	err := wsc.gameService.JoinMatchmaking(playerID)
	if errors.Is(err, model.ErrAlreadyQueued) {
		return nil
	}
	return err
}

// HandleMatchmaking queues the player and forwards the match once found.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := playerOf(c)
	log := logrus.WithField("player", playerID)

	ch := make(chan string, 1)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.enterMatchmaking(playerID, ch); err != nil {
		msg, _ := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
		_ = c.WriteJSON(msg)
		return
	}

	// the read side only tells us when the client goes away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			log.Debug("matchmaking channel replaced")
			return
		}
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}); err != nil {
			log.WithError(err).Warn("failed to send match")
		}
	case <-gone:
		log.Debug("left matchmaking")
	}
}
