package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", EnsurePlayerID(), func(c *fiber.Ctx) error {
		return c.SendString(PlayerID(c))
	})
	app.Get("/ws", EnsurePlayerID(), WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendString("upgraded")
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"header", "/whoami", "alice", http.StatusOK, "alice"},
		{"query", "/whoami?playerId=bob", "", http.StatusOK, "bob"},
		{"header wins", "/whoami?playerId=bob", "alice", http.StatusOK, "alice"},
		{"missing", "/whoami", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body == "" {
				return
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.body {
				t.Fatalf("body %q, want %q", body, tt.body)
			}
		})
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	app := newTestApp()

	plain := httptest.NewRequest(http.MethodGet, "/ws?playerId=alice", nil)
	resp, err := app.Test(plain, -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("plain request status %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}

	upgrade := httptest.NewRequest(http.MethodGet, "/ws?playerId=alice", nil)
	upgrade.Header.Set("Connection", "Upgrade")
	upgrade.Header.Set("Upgrade", "websocket")
	resp, err = app.Test(upgrade, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "upgraded" {
		t.Fatalf("upgrade request: status %d body %q", resp.StatusCode, body)
	}
}
