package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/starkwolf-lobby/internal/hub"
	"github.com/DoyleJ11/starkwolf-lobby/internal/lobby"
	"github.com/DoyleJ11/starkwolf-lobby/internal/logging"
	"github.com/DoyleJ11/starkwolf-lobby/internal/session"
	"github.com/DoyleJ11/starkwolf-lobby/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 30 * time.Second
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	log = logging.OrNop(log)
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		lb := h.Lookup(r.Context(), code)
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()
		clog := log.With(zap.String("code", code), zap.String("client", clientID))

		select {
		case lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}:
		case <-lb.Done():
			return
		}
		defer func() {
			select {
			case lb.Inbox() <- lobby.Leave{ClientID: clientID}:
			case <-lb.Done():
			}
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			// Lobby closed (started or abandoned): nothing more to say.
			defer conn.Close(websocket.StatusNormalClosure, "lobby closed")
			forward := func(snap lobby.Snapshot) {
				view := types.NewLobbyView(snap.Title, snap.Version, snap.State)
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &view}
				if err := write(writeCtx, conn, msg); err != nil {
					clog.Debug("snapshot write failed", zap.Error(err))
				}
			}
			for {
				select {
				case snap, ok := <-out:
					if !ok {
						return
					}
					forward(snap)
				case <-lb.Done():
					// A Join that raced the shutdown is never answered; flush
					// whatever was queued and stop.
					for {
						select {
						case snap, ok := <-out:
							if !ok {
								return
							}
							forward(snap)
						default:
							return
						}
					}
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				clog.Debug("read failed", zap.Error(err))
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			cmd, ok := toSessionCommand(cm)
			if !ok {
				_ = write(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "unknown type"})
				continue
			}

			if _, err := lb.Do(r.Context(), cmd); err != nil {
				_ = write(r.Context(), conn, types.ServerMessage{Type: "Error", Error: err.Error()})
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

func toSessionCommand(m types.ClientMessage) (session.Command, bool) {
	switch m.Type {
	case "SetReady":
		return session.Command{Type: session.CmdSetReady, PlayerID: m.PlayerID, Ready: m.Ready}, true
	case "SetCapacity":
		return session.Command{Type: session.CmdSetCapacity, Capacity: m.Capacity}, true
	case "Start":
		return session.Command{Type: session.CmdStart}, true
	case "Leave":
		return session.Command{Type: session.CmdLeave, PlayerID: m.PlayerID}, true
	default:
		return session.Command{}, false
	}
}
