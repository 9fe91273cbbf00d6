package session

const (
	LabelReady     = "Ready"
	LabelWaiting   = "Waiting..."
	LabelEmptySlot = "Waiting for player..."
)

type Slot struct {
	Index  int     `json:"index"`
	Player *Player `json:"player,omitempty"`
	Label  string  `json:"label"`
}

func (s Slot) Empty() bool { return s.Player == nil }

// Slots lays the roster out over capacity seats: players first in join order,
// then empty seats. Players beyond capacity are not shown.
func Slots(players []Player, capacity int) []Slot {
	if capacity < 0 {
		capacity = 0
	}
	slots := make([]Slot, capacity)
	for i := range slots {
		slots[i].Index = i
		if i >= len(players) {
			slots[i].Label = LabelEmptySlot
			continue
		}
		p := players[i]
		if p.Avatar == "" {
			p.Avatar = DefaultAvatar
		}
		slots[i].Player = &p
		if p.Ready {
			slots[i].Label = LabelReady
		} else {
			slots[i].Label = LabelWaiting
		}
	}
	return slots
}
