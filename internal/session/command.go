package session

import "errors"

var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdJoin        CommandType = "Join"
	CmdLeave       CommandType = "Leave"
	CmdSetReady    CommandType = "SetReady"
	CmdSetCapacity CommandType = "SetCapacity"
	CmdTick        CommandType = "Tick"
	CmdStart       CommandType = "Start"
)

/*
	CmdJoin        -> EvtPlayerJoined
	CmdLeave       -> EvtPlayerLeft (nothing if the player was not there)
	CmdSetReady    -> EvtReadyChanged
	CmdSetCapacity -> EvtCapacityChanged
	CmdTick        -> EvtTicked, plus EvtCountdownExpired on the tick that reaches 0
	CmdStart       -> EvtGameStarted
*/

type Command struct {
	Type     CommandType
	Player   Player // CmdJoin
	PlayerID string // CmdLeave, CmdSetReady
	Ready    bool
	Capacity int
}

type EventType string

const (
	EvtPlayerJoined     EventType = "PlayerJoined"
	EvtPlayerLeft       EventType = "PlayerLeft"
	EvtReadyChanged     EventType = "ReadyChanged"
	EvtCapacityChanged  EventType = "CapacityChanged"
	EvtTicked           EventType = "Ticked"
	EvtCountdownExpired EventType = "CountdownExpired"
	EvtGameStarted      EventType = "GameStarted"
)

type Event struct {
	Type     EventType
	Player   Player
	PlayerID string
	Ready    bool
	Capacity int
}

// Apply runs cmd against a copy of s. On error the original session is
// returned untouched.
func Apply(s Session, cmd Command) ([]Event, Session, error) {
	next := s.Clone()

	switch cmd.Type {
	case CmdJoin:
		if err := next.AdmitPlayer(cmd.Player); err != nil {
			return nil, s, err
		}
		joined := next.Players[len(next.Players)-1]
		return []Event{{Type: EvtPlayerJoined, Player: joined, PlayerID: joined.ID}}, next, nil

	case CmdLeave:
		if _, ok := next.Player(cmd.PlayerID); !ok {
			if next.Started {
				return nil, s, ErrSessionStarted
			}
			return nil, s, nil
		}
		if err := next.RemovePlayer(cmd.PlayerID); err != nil {
			return nil, s, err
		}
		return []Event{{Type: EvtPlayerLeft, PlayerID: cmd.PlayerID}}, next, nil

	case CmdSetReady:
		if err := next.SetReady(cmd.PlayerID, cmd.Ready); err != nil {
			return nil, s, err
		}
		return []Event{{Type: EvtReadyChanged, PlayerID: cmd.PlayerID, Ready: cmd.Ready}}, next, nil

	case CmdSetCapacity:
		if err := next.SetCapacity(cmd.Capacity); err != nil {
			return nil, s, err
		}
		return []Event{{Type: EvtCapacityChanged, Capacity: next.Capacity}}, next, nil

	case CmdTick:
		if next.Started {
			return nil, s, ErrSessionStarted
		}
		if next.Expired() {
			// Idempotent at zero: nothing to report twice.
			return nil, s, nil
		}
		events := []Event{{Type: EvtTicked}}
		if next.Tick() == 0 {
			events = append(events, Event{Type: EvtCountdownExpired})
		}
		return events, next, nil

	case CmdStart:
		if err := next.Start(); err != nil {
			return nil, s, err
		}
		return []Event{{Type: EvtGameStarted, Capacity: next.Capacity}}, next, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// Reduce rebuilds a session from its event history.
func Reduce(code string, events []Event) (Session, error) {
	s, err := New(code)
	if err != nil {
		return Session{}, err
	}
	for _, event := range events {
		switch event.Type {
		case EvtPlayerJoined:
			s.Players = append(s.Players, event.Player)
		case EvtPlayerLeft:
			if i := s.indexOf(event.PlayerID); i >= 0 {
				s.Players = append(s.Players[:i], s.Players[i+1:]...)
			}
		case EvtReadyChanged:
			if i := s.indexOf(event.PlayerID); i >= 0 {
				s.Players[i].Ready = event.Ready
			}
		case EvtCapacityChanged:
			s.Capacity = event.Capacity
		case EvtTicked:
			if s.SecondsRemaining > 0 {
				s.SecondsRemaining--
			}
		case EvtGameStarted:
			s.Started = true
		}
	}
	return *s, nil
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
