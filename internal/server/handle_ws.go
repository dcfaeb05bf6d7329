package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/bastaclub/basta/internal/game"
)

// handleWS streams room events over a websocket. The first frame is a
// full state snapshot so a reconnecting client does not have to replay
// anything.
func handleWS(logger *slog.Logger, manager *game.Manager, broker *Broker) http.HandlerFunc {
	type frame struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		token := r.URL.Query().Get("token")
		if _, err := manager.PlayerFromToken(code, token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 4*time.Hour)
		defer cancel()

		writeFrame := func(event string, payload any) error {
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			raw, _ := json.Marshal(frame{Event: event, Data: data})
			return conn.Write(ctx, websocket.MessageText, raw)
		}

		snap, err := manager.Snapshot(code)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "room gone")
			return
		}
		if err := writeFrame("state", snap); err != nil {
			return
		}

		ch := broker.Subscribe(code)
		defer broker.Unsubscribe(code, ch)

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				raw, _ := json.Marshal(frame{Event: msg.Event, Data: msg.Data})
				if err := conn.Write(ctx, websocket.MessageText, raw); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
