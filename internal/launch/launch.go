// Package launch hands started lobbies to the game-entry side.
package launch

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/starkwolf-lobby/internal/logging"
	"github.com/DoyleJ11/starkwolf-lobby/internal/session"
)

// Game is everything the game-entry side needs from a started lobby.
type Game struct {
	Code      string
	Capacity  int
	Players   []session.Player
	StartedAt time.Time
}

type Launcher interface {
	Launch(ctx context.Context, g Game) error
}

type LauncherFunc func(ctx context.Context, g Game) error

func (f LauncherFunc) Launch(ctx context.Context, g Game) error { return f(ctx, g) }

type LogLauncher struct {
	Logger *zap.Logger
}

func (l LogLauncher) Launch(_ context.Context, g Game) error {
	logging.OrNop(l.Logger).Info("handing off game",
		zap.String("code", g.Code),
		zap.Int("capacity", g.Capacity),
		zap.Int("players", len(g.Players)),
		zap.Time("started_at", g.StartedAt))
	return nil
}

// Multi calls every launcher, even after one fails.
type Multi []Launcher

func (m Multi) Launch(ctx context.Context, g Game) error {
	var err error
	for _, l := range m {
		err = multierr.Append(err, l.Launch(ctx, g))
	}
	return err
}
