package types

import "github.com/DoyleJ11/starkwolf-lobby/internal/session"

type ClientMessage struct {
	Type     string `json:"type"` // "SetReady" | "SetCapacity" | "Start" | "Leave"
	PlayerID string `json:"player_id,omitempty"`
	Ready    bool   `json:"ready,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

type ServerMessage struct {
	Type    string     `json:"type"` // "StateSnapshot" | "Error"
	Version int        `json:"version,omitempty"`
	State   *LobbyView `json:"state,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// LobbyView is the render-ready form of a session.
type LobbyView struct {
	Code             string           `json:"code"`
	Title            string           `json:"title"`
	Version          int              `json:"version"`
	Capacity         int              `json:"capacity"`
	Players          []session.Player `json:"players"`
	ReadyCount       int              `json:"ready_count"`
	SecondsRemaining int              `json:"seconds_remaining"`
	Countdown        string           `json:"countdown"`
	Expired          bool             `json:"expired"`
	Started          bool             `json:"started"`
	CanStart         bool             `json:"can_start"`
	Slots            []session.Slot   `json:"slots"`
}

func NewLobbyView(title string, version int, s session.Session) LobbyView {
	s = s.Clone()
	return LobbyView{
		Code:             s.Code,
		Title:            title,
		Version:          version,
		Capacity:         s.Capacity,
		Players:          s.Players,
		ReadyCount:       s.ReadyCount(),
		SecondsRemaining: s.SecondsRemaining,
		Countdown:        session.FormatRemaining(s.SecondsRemaining),
		Expired:          s.Expired(),
		Started:          s.Started,
		CanStart:         s.CanStart(),
		Slots:            session.Slots(s.Players, s.Capacity),
	}
}
