package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots_MockLobby(t *testing.T) {
	s, err := New("WOLF-7829")
	require.NoError(t, err)
	require.NoError(t, s.SetCapacity(8))

	roster := []Player{
		{ID: "1", Name: "Emma Thompson", Ready: true},
		{ID: "2", Name: "Marcus Chen", Ready: true},
		{ID: "3", Name: "Luna Black"},
		{ID: "4", Name: "Alex Hunt"},
	}
	for _, p := range roster {
		require.NoError(t, s.AdmitPlayer(p))
	}

	slots := Slots(s.Players, s.Capacity)
	require.Len(t, slots, 8)

	wantLabels := []string{LabelReady, LabelReady, LabelWaiting, LabelWaiting,
		LabelEmptySlot, LabelEmptySlot, LabelEmptySlot, LabelEmptySlot}
	for i, slot := range slots {
		assert.Equal(t, i, slot.Index)
		assert.Equal(t, wantLabels[i], slot.Label, "slot %d", i)
		if i < len(roster) {
			require.False(t, slot.Empty())
			assert.Equal(t, roster[i].Name, slot.Player.Name)
			assert.Equal(t, DefaultAvatar, slot.Player.Avatar)
		} else {
			assert.True(t, slot.Empty())
		}
	}
}

func TestSlots_DoesNotAliasInput(t *testing.T) {
	players := []Player{{ID: "1", Name: "Emma"}}
	slots := Slots(players, 6)
	slots[0].Player.Name = "changed"
	assert.Equal(t, "Emma", players[0].Name)
	assert.Equal(t, "", players[0].Avatar)
}

func TestSlots_ZeroCapacity(t *testing.T) {
	assert.Empty(t, Slots(nil, 0))
	assert.Empty(t, Slots(nil, -1))
}
