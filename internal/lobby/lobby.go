package lobby

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/starkwolf-lobby/internal/logging"
	"github.com/DoyleJ11/starkwolf-lobby/internal/session"
)

var ErrClosed = errors.New("lobby closed")

// ErrNoPlayers rejects a start request for a lobby nobody has joined.
var ErrNoPlayers = errors.New("lobby has no players")

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	Cmd   session.Command
	Reply chan Result // optional, must be buffered
}

// Result is the outcome of one FromClient command and the state right after it.
type Result struct {
	View View
	Err  error
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Snapshot struct {
	Version int
	Title   string
	State   session.Session
}

type View struct {
	Version    int
	NumClients int
	Title      string
	State      session.Session
}

// StartFunc hands a started game to whatever runs the actual match. It runs
// on the lobby goroutine and must not send back into the same lobby.
type StartFunc func(code string, capacity int, roster []session.Player)

type Options struct {
	Title        string
	TickInterval time.Duration
	OnStart      StartFunc
	Logger       *zap.Logger
}

// Lobby owns one session and serializes every change to it.
type Lobby struct {
	inbox   chan Msg
	state   session.Session
	version int
	clients map[string]chan Snapshot

	title   string
	tick    time.Duration
	onStart StartFunc
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLobby(parent context.Context, initial session.Session, opts Options) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial.Clone(),
		version: 0,
		clients: make(map[string]chan Snapshot),
		title:   opts.Title,
		tick:    opts.TickInterval,
		onStart: opts.OnStart,
		log:     logging.OrNop(opts.Logger).With(zap.String("code", initial.Code)),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	defer close(l.done)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	ticks := ticker.C
	if l.countdownOver() {
		ticks = nil
	}

	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case <-ticks:
			// One decrement per fire; late or missed fires are not made up.
			if err := l.apply(session.Command{Type: session.CmdTick}); err != nil {
				l.log.Debug("tick rejected", zap.Error(err))
			}
			if l.countdownOver() {
				ticker.Stop()
				ticks = nil
			}

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				snap := l.snapshot()
				select {
				case msg.Outbox <- snap:
					l.clients[msg.ClientID] = msg.Outbox
				default:
					close(msg.Outbox)
				}

			case Leave:
				if ch, ok := l.clients[msg.ClientID]; ok {
					close(ch)
					delete(l.clients, msg.ClientID)
				}

			case FromClient:
				err := l.apply(msg.Cmd)
				if err != nil {
					l.log.Debug("command rejected", zap.String("cmd", string(msg.Cmd.Type)), zap.Error(err))
				}
				if msg.Reply != nil {
					msg.Reply <- Result{View: l.view(), Err: err}
				}
				if l.countdownOver() {
					ticker.Stop()
					ticks = nil
				}

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- l.view()

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// apply runs cmd through the session reducer. Commands that change nothing
// do not bump the version.
func (l *Lobby) apply(cmd session.Command) error {
	if cmd.Type == session.CmdStart && !l.state.Started && !l.state.CanStart() {
		return ErrNoPlayers
	}
	events, next, err := session.Apply(l.state, cmd)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	l.state = next
	l.version++
	l.broadcast(l.snapshot())

	if session.ContainsEvent(events, session.EvtCountdownExpired) {
		l.log.Info("invitation window expired", zap.Int("players", len(l.state.Players)))
	}
	if session.ContainsEvent(events, session.EvtGameStarted) {
		l.log.Info("game started",
			zap.Int("capacity", l.state.Capacity),
			zap.Int("players", len(l.state.Players)),
			zap.Int("version", l.version))
		if l.onStart != nil {
			final := l.state.Clone()
			l.onStart(final.Code, final.Capacity, final.Players)
		}
	}
	return nil
}

func (l *Lobby) countdownOver() bool {
	return l.state.Started || l.state.Expired()
}

func (l *Lobby) view() View {
	return View{
		Version:    l.version,
		NumClients: len(l.clients),
		Title:      l.title,
		State:      l.state.Clone(),
	}
}

func (l *Lobby) snapshot() Snapshot {
	return Snapshot{Version: l.version, Title: l.title, State: l.state.Clone()}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			l.log.Debug("dropping slow client", zap.String("client", id))
			close(ch)
			delete(l.clients, id)
		}
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Done is closed once the lobby goroutine has exited.
func (l *Lobby) Done() <-chan struct{} { return l.done }

func (l *Lobby) Title() string { return l.title }

// Do sends cmd, waits for the lobby to apply it and returns the state that
// followed. On a rejected command the view is the unchanged state.
func (l *Lobby) Do(ctx context.Context, cmd session.Command) (View, error) {
	reply := make(chan Result, 1)
	if err := l.send(ctx, FromClient{Cmd: cmd, Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case res := <-reply:
		return res.View, res.Err
	case <-l.done:
		select {
		case res := <-reply:
			return res.View, res.Err
		default:
			return View{}, ErrClosed
		}
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// State returns a consistent copy of the lobby's current state.
func (l *Lobby) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Close asks the lobby to stop and waits for it.
func (l *Lobby) Close() {
	select {
	case l.inbox <- Shutdown{}:
	case <-l.done:
		return
	}
	<-l.done
}

func (l *Lobby) send(ctx context.Context, m Msg) error {
	select {
	case l.inbox <- m:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
