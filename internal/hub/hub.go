package hub

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/starkwolf-lobby/internal/launch"
	"github.com/DoyleJ11/starkwolf-lobby/internal/lobby"
	"github.com/DoyleJ11/starkwolf-lobby/internal/logging"
	"github.com/DoyleJ11/starkwolf-lobby/internal/session"
)

type HubMsg interface{ isHubMsg() }

// CreateLobby replies nil when the code is invalid or already taken.
type CreateLobby struct {
	Code  string
	Title string
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type EnsureLobby struct {
	Code  string
	Title string // only used if creation happens
	Reply chan *lobby.Lobby
}

// RemoveLobby drops the lobby and shuts it down.
type RemoveLobby struct {
	Code string
}

type ListLobbies struct {
	Reply chan map[string]*lobby.Lobby
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ListLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Options struct {
	TickInterval  time.Duration
	Launcher      launch.Launcher
	LaunchTimeout time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	opts    Options
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, opts Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Launcher == nil {
		opts.Launcher = launch.LogLauncher{Logger: opts.Logger}
	}
	if opts.LaunchTimeout <= 0 {
		opts.LaunchTimeout = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		opts:    opts,
		log:     logging.OrNop(opts.Logger),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if lb := h.lobbies[key(msg.Code)]; lb != nil {
					msg.Reply <- nil
					break
				}
				msg.Reply <- h.create(msg.Code, msg.Title)

			case GetLobby:
				msg.Reply <- h.lobbies[key(msg.Code)] // May be nil

			case EnsureLobby:
				if lb := h.lobbies[key(msg.Code)]; lb != nil {
					msg.Reply <- lb
					break
				}
				msg.Reply <- h.create(msg.Code, msg.Title)

			case RemoveLobby:
				if lb := h.lobbies[key(msg.Code)]; lb != nil {
					delete(h.lobbies, key(msg.Code))
					go lb.Close()
					h.log.Info("lobby removed", zap.String("code", msg.Code))
				}

			case ListLobbies:
				out := make(map[string]*lobby.Lobby, len(h.lobbies))
				for code, lb := range h.lobbies {
					out[code] = lb
				}
				msg.Reply <- out

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// key is the form codes are stored under; session.New trims the same way.
func key(code string) string { return strings.TrimSpace(code) }

func (h *Hub) create(code, title string) *lobby.Lobby {
	s, err := session.New(code)
	if err != nil {
		return nil
	}
	if strings.TrimSpace(title) == "" {
		title = s.Code
	}
	lb := lobby.NewLobby(h.ctx, *s, lobby.Options{
		Title:        title,
		TickInterval: h.opts.TickInterval,
		OnStart:      h.handOff,
		Logger:       h.log,
	})
	h.lobbies[s.Code] = lb
	h.log.Info("lobby created", zap.String("code", s.Code), zap.String("title", title))
	return lb
}

// handOff runs on the started lobby's goroutine: pass the game on, then retire
// the lobby.
func (h *Hub) handOff(code string, capacity int, roster []session.Player) {
	ctx, cancel := context.WithTimeout(h.ctx, h.opts.LaunchTimeout)
	defer cancel()

	g := launch.Game{Code: code, Capacity: capacity, Players: roster, StartedAt: h.opts.Now()}
	if err := h.opts.Launcher.Launch(ctx, g); err != nil {
		h.log.Error("launch failed", zap.String("code", code), zap.Error(err))
	}

	select {
	case h.inbox <- RemoveLobby{Code: code}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		go lb.Close()
	}
	clear(h.lobbies)
	h.cancel()
}

// Lookup is the request/reply form of GetLobby.
func (h *Hub) Lookup(ctx context.Context, code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	if !h.send(ctx, GetLobby{Code: code, Reply: reply}) {
		return nil
	}
	return h.wait(ctx, reply)
}

func (h *Hub) Create(ctx context.Context, code, title string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	if !h.send(ctx, CreateLobby{Code: code, Title: title, Reply: reply}) {
		return nil
	}
	return h.wait(ctx, reply)
}

func (h *Hub) Remove(ctx context.Context, code string) {
	h.send(ctx, RemoveLobby{Code: code})
}

// Listing is one entry of the open-games board.
type Listing struct {
	Code             string `json:"code"`
	Title            string `json:"title"`
	Players          int    `json:"players"`
	Capacity         int    `json:"capacity"`
	SecondsRemaining int    `json:"seconds_remaining"`
	Started          bool   `json:"started"`
}

// Listings returns every live lobby sorted by code. Lobbies that close while
// being queried are skipped.
func (h *Hub) Listings(ctx context.Context) []Listing {
	reply := make(chan map[string]*lobby.Lobby, 1)
	if !h.send(ctx, ListLobbies{Reply: reply}) {
		return nil
	}
	var all map[string]*lobby.Lobby
	select {
	case all = <-reply:
	case <-ctx.Done():
		return nil
	}

	out := make([]Listing, 0, len(all))
	for _, lb := range all {
		v, err := lb.State(ctx)
		if err != nil {
			continue
		}
		out = append(out, Listing{
			Code:             v.State.Code,
			Title:            v.Title,
			Players:          len(v.State.Players),
			Capacity:         v.State.Capacity,
			SecondsRemaining: v.State.SecondsRemaining,
			Started:          v.State.Started,
		})
	}
	slices.SortFunc(out, func(a, b Listing) int { return strings.Compare(a.Code, b.Code) })
	return out
}

func (h *Hub) send(ctx context.Context, m HubMsg) bool {
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) wait(ctx context.Context, reply chan *lobby.Lobby) *lobby.Lobby {
	select {
	case lb := <-reply:
		return lb
	case <-h.ctx.Done():
		return nil
	case <-ctx.Done():
		return nil
	}
}
