package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	MinCapacity      = 6
	MaxCapacity      = 10
	DefaultCapacity  = 8
	CountdownSeconds = 300

	DefaultAvatar = "default-avatar.png"
)

var ErrInvalidCode = errors.New("invalid lobby code")
var ErrCapacityTooLow = errors.New("capacity below current roster size")
var ErrSessionFull = errors.New("session is full")
var ErrSessionStarted = errors.New("session already started")
var ErrPlayerNotFound = errors.New("player not found")
var ErrInvalidPlayer = errors.New("player id is required")
var ErrDuplicatePlayer = errors.New("player already in session")

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Ready  bool   `json:"ready"`
}

// Session is one pending game room. It is not safe for concurrent use; the
// lobby actor serializes access to it.
type Session struct {
	Code             string   `json:"code"`
	Capacity         int      `json:"capacity"`
	Players          []Player `json:"players"`
	SecondsRemaining int      `json:"seconds_remaining"`
	Started          bool     `json:"started"`
}

func New(code string) (*Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}
	return &Session{
		Code:             code,
		Capacity:         DefaultCapacity,
		Players:          []Player{},
		SecondsRemaining: CountdownSeconds,
	}, nil
}

// ClampCapacity pulls n into [MinCapacity, MaxCapacity].
func ClampCapacity(n int) int {
	return max(MinCapacity, min(MaxCapacity, n))
}

// SetCapacity clamps n into range, then refuses values that would strand
// already admitted players.
func (s *Session) SetCapacity(n int) error {
	if s.Started {
		return ErrSessionStarted
	}
	n = ClampCapacity(n)
	if n < len(s.Players) {
		return fmt.Errorf("%w: %d < %d", ErrCapacityTooLow, n, len(s.Players))
	}
	s.Capacity = n
	return nil
}

// Tick counts the invitation window down by one second. It never goes below
// zero and stops once the session has started.
func (s *Session) Tick() int {
	if s.Started || s.SecondsRemaining <= 0 {
		return s.SecondsRemaining
	}
	s.SecondsRemaining--
	return s.SecondsRemaining
}

// Expired reports whether the invitation window has run out. Expiry does not
// close the session.
func (s *Session) Expired() bool {
	return s.SecondsRemaining <= 0
}

func (s *Session) AdmitPlayer(p Player) error {
	if s.Started {
		return ErrSessionStarted
	}
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return ErrInvalidPlayer
	}
	if s.indexOf(p.ID) >= 0 {
		return ErrDuplicatePlayer
	}
	if len(s.Players) >= s.Capacity {
		return ErrSessionFull
	}
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	s.Players = append(s.Players, p)
	return nil
}

// RemovePlayer drops the player with the given id. Unknown ids are ignored.
func (s *Session) RemovePlayer(id string) error {
	if s.Started {
		return ErrSessionStarted
	}
	if i := s.indexOf(id); i >= 0 {
		s.Players = slices.Delete(s.Players, i, i+1)
	}
	return nil
}

func (s *Session) SetReady(id string, ready bool) error {
	if s.Started {
		return ErrSessionStarted
	}
	i := s.indexOf(id)
	if i < 0 {
		return ErrPlayerNotFound
	}
	s.Players[i].Ready = ready
	return nil
}

// CanStart does not require every player to be ready; a single admitted
// player is enough.
func (s *Session) CanStart() bool {
	return len(s.Players) >= 1 && !s.Started
}

func (s *Session) Start() error {
	if s.Started {
		return ErrSessionStarted
	}
	s.Started = true
	return nil
}

func (s *Session) Player(id string) (Player, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i], true
}

func (s *Session) ReadyCount() int {
	n := 0
	for _, p := range s.Players {
		if p.Ready {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so snapshots never alias the live roster.
func (s Session) Clone() Session {
	s.Players = slices.Clone(s.Players)
	if s.Players == nil {
		s.Players = []Player{}
	}
	return s
}

func (s *Session) indexOf(id string) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

// FormatRemaining renders a countdown as m:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
