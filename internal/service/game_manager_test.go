package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func readMatch(t *testing.T, ch chan string) model.MatchFoundEvent {
	t.Helper()
	select {
	case raw, ok := <-ch:
		if !ok {
			t.Fatal("channel closed without a match")
		}
		var event model.MatchFoundEvent
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a match")
	}
	return model.MatchFoundEvent{}
}

func TestCreateAndLookup(t *testing.T) {
	gm := NewGameManager(time.Minute)
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatal(err)
	}
	if err := gm.CreateGame("g1"); !errors.Is(err, ErrGameExists) {
		t.Fatalf("second CreateGame = %v, want ErrGameExists", err)
	}

	if _, err := gm.GetGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("GetGame(missing) = %v", err)
	}
	if res, err := gm.ExecuteCommand("missing", "alice", "move 0 1 0 3"); res != model.ErrParseCmd || !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("ExecuteCommand(missing) = %s, %v", res, err)
	}
	if _, err := gm.AddPlayerToGame("missing", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("AddPlayerToGame(missing) = %v", err)
	}
	if err := gm.DebugGame("missing", &strings.Builder{}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("DebugGame(missing) = %v", err)
	}
}

func TestMatchOnce(t *testing.T) {
	gm := NewGameManager(time.Minute)
	alice, bob := make(chan string, 1), make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", alice)
	gm.RegisterMatchmakingChannel("bob", bob)

	if err := gm.JoinMatchmaking("alice"); err != nil {
		t.Fatal(err)
	}
	if gm.matchOnce() {
		t.Fatal("matched a lone player")
	}
	if err := gm.JoinMatchmaking("bob"); err != nil {
		t.Fatal(err)
	}
	if !gm.matchOnce() {
		t.Fatal("two queued players were not matched")
	}

	first, second := readMatch(t, alice), readMatch(t, bob)
	if first.GameID == "" || first.GameID != second.GameID {
		t.Fatalf("game IDs %q and %q", first.GameID, second.GameID)
	}
	if first.Color != model.PlayerColorWhite || second.Color != model.PlayerColorBlack {
		t.Fatalf("colours %s and %s", first.Color, second.Color)
	}
	if _, ok := <-alice; ok {
		t.Fatal("channel left open after the match")
	}

	game, err := gm.GetGame(first.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if !game.IsPlayerInGame("alice") || !game.IsPlayerInGame("bob") {
		t.Fatal("matched players are not seated")
	}
	if gm.queue.Size() != 0 {
		t.Fatalf("queue size %d after match", gm.queue.Size())
	}
}

func TestRunMatchmaking(t *testing.T) {
	gm := NewGameManager(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gm.RunMatchmaking(ctx, 5*time.Millisecond)

	channels := map[string]chan string{}
	for _, id := range []string{"a", "b", "c", "d"} {
		channels[id] = make(chan string, 1)
		gm.RegisterMatchmakingChannel(id, channels[id])
		if err := gm.JoinMatchmaking(id); err != nil {
			t.Fatal(err)
		}
	}

	if readMatch(t, channels["a"]).GameID != readMatch(t, channels["b"]).GameID {
		t.Fatal("a and b should share a game")
	}
	if readMatch(t, channels["c"]).GameID != readMatch(t, channels["d"]).GameID {
		t.Fatal("c and d should share a game")
	}
}

func TestMatchmakingChannels(t *testing.T) {
	gm := NewGameManager(time.Minute)

	old, current := make(chan string, 1), make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", old)
	gm.RegisterMatchmakingChannel("alice", current)
	if _, ok := <-old; ok {
		t.Fatal("replaced channel was not closed")
	}

	if err := gm.JoinMatchmaking("alice"); err != nil {
		t.Fatal(err)
	}
	gm.UnregisterMatchmakingChannel("alice", old)
	if gm.queue.Size() != 1 {
		t.Fatal("a stale channel took the player out of the queue")
	}
	gm.UnregisterMatchmakingChannel("alice", current)
	if gm.queue.Size() != 0 {
		t.Fatal("player still queued after leaving")
	}
}

func TestGameServiceHandleCommand(t *testing.T) {
	gs := NewGameService(NewGameManager(time.Minute))
	gameID, err := gs.CreateGame()
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"alice", "bob"} {
		if _, err := gs.JoinGame(gameID, id); err != nil {
			t.Fatal(err)
		}
	}

	res, view, err := gs.HandleCommand(gameID, "alice", "move 6 0 5 2")
	if err != nil || res != model.Success {
		t.Fatalf("HandleCommand = %s, %v", res, err)
	}
	if view.Turn != model.Black || view.ID != gameID {
		t.Fatalf("view = turn %s id %s", view.Turn, view.ID)
	}

	if _, _, err := gs.HandleCommand(gameID, "carol", "move 1 6 1 5"); !errors.Is(err, model.ErrPlayerNotInGame) {
		t.Fatalf("spectator command = %v", err)
	}

	var sb strings.Builder
	if err := gs.DebugGame(gameID, &sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "x:5 y:2 knight white 1\n") {
		t.Fatalf("debug output:\n%s", sb.String())
	}
}

func TestMatchHeldForPlayerWithoutChannel(t *testing.T) {
	gm := NewGameManager(time.Minute)
	bob := make(chan string, 1)
	gm.RegisterMatchmakingChannel("bob", bob)

	// alice queued without a channel, as the REST route does
	for _, id := range []string{"alice", "bob"} {
		if err := gm.JoinMatchmaking(id); err != nil {
			t.Fatal(err)
		}
	}
	if !gm.matchOnce() {
		t.Fatal("two queued players were not matched")
	}
	second := readMatch(t, bob)

	alice := make(chan string, 1)
	if !gm.RegisterMatchmakingChannel("alice", alice) {
		t.Fatal("held match was not reported")
	}
	first := readMatch(t, alice)
	if first.GameID != second.GameID || first.Color != model.PlayerColorWhite {
		t.Fatalf("held event = %+v, bob's = %+v", first, second)
	}
	if _, ok := <-alice; ok {
		t.Fatal("channel left open after delivering the held match")
	}

	again := make(chan string, 1)
	if gm.RegisterMatchmakingChannel("alice", again) {
		t.Fatal("held match delivered twice")
	}
}
