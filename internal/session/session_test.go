package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New("WOLF-7829")
	require.NoError(t, err)
	return s
}

func player(id string) Player {
	return Player{ID: id, Name: "Player " + id}
}

func TestNew_Defaults(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, "WOLF-7829", s.Code)
	assert.Equal(t, DefaultCapacity, s.Capacity)
	assert.Equal(t, CountdownSeconds, s.SecondsRemaining)
	assert.Empty(t, s.Players)
	assert.False(t, s.Started)
}

func TestNew_RejectsEmptyCode(t *testing.T) {
	for _, code := range []string{"", "   "} {
		_, err := New(code)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
}

func TestCapacity_FillsExactly(t *testing.T) {
	for n := MinCapacity; n <= MaxCapacity; n++ {
		t.Run(fmt.Sprintf("capacity %d", n), func(t *testing.T) {
			s := newSession(t)
			require.NoError(t, s.SetCapacity(n))
			for i := 1; i <= n; i++ {
				require.NoError(t, s.AdmitPlayer(player(fmt.Sprint(i))), "admit #%d", i)
			}
			err := s.AdmitPlayer(player("overflow"))
			assert.ErrorIs(t, err, ErrSessionFull)
			assert.Len(t, s.Players, n)
		})
	}
}

func TestSetCapacity_ClampsOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{name: "below min", in: 2, want: MinCapacity},
		{name: "above max", in: 42, want: MaxCapacity},
		{name: "in range", in: 7, want: 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSession(t)
			require.NoError(t, s.SetCapacity(tc.in))
			assert.Equal(t, tc.want, s.Capacity)
		})
	}
}

func TestSetCapacity_RejectsBelowRoster(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetCapacity(10))
	for i := 0; i < 9; i++ {
		require.NoError(t, s.AdmitPlayer(player(fmt.Sprint(i))))
	}

	err := s.SetCapacity(8)
	assert.ErrorIs(t, err, ErrCapacityTooLow)
	assert.Equal(t, 10, s.Capacity, "capacity must not change on rejection")

	require.NoError(t, s.SetCapacity(9))
	assert.Equal(t, 9, s.Capacity)
}

func TestTick_CountsDownToZeroAndStays(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.Expired())
	for i := 0; i < CountdownSeconds; i++ {
		s.Tick()
	}
	assert.Equal(t, 0, s.SecondsRemaining)
	assert.True(t, s.Expired())

	assert.Equal(t, 0, s.Tick())
	assert.Equal(t, 0, s.SecondsRemaining)
}

func TestExpiry_DoesNotCloseSession(t *testing.T) {
	s := newSession(t)
	s.SecondsRemaining = 0
	require.NoError(t, s.AdmitPlayer(player("1")))
	assert.True(t, s.CanStart())
}

func TestAdmitPlayer(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.AdmitPlayer(Player{ID: "1", Name: "Emma Thompson"}))
	assert.Equal(t, DefaultAvatar, s.Players[0].Avatar)

	assert.ErrorIs(t, s.AdmitPlayer(Player{ID: "1", Name: "Again"}), ErrDuplicatePlayer)
	assert.ErrorIs(t, s.AdmitPlayer(Player{Name: "Nobody"}), ErrInvalidPlayer)

	require.NoError(t, s.AdmitPlayer(Player{ID: "2", Name: "Marcus Chen", Avatar: "marcus.png"}))
	assert.Equal(t, "marcus.png", s.Players[1].Avatar)
	assert.Equal(t, []string{"1", "2"}, []string{s.Players[0].ID, s.Players[1].ID})
}

func TestRemovePlayer(t *testing.T) {
	s := newSession(t)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.AdmitPlayer(player(id)))
	}

	require.NoError(t, s.RemovePlayer("b"))
	require.NoError(t, s.RemovePlayer("missing"))

	require.Len(t, s.Players, 2)
	assert.Equal(t, "a", s.Players[0].ID)
	assert.Equal(t, "c", s.Players[1].ID)
}

func TestSetReady(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AdmitPlayer(player("a")))

	require.NoError(t, s.SetReady("a", true))
	assert.Equal(t, 1, s.ReadyCount())
	require.NoError(t, s.SetReady("a", false))
	assert.Equal(t, 0, s.ReadyCount())

	assert.ErrorIs(t, s.SetReady("ghost", true), ErrPlayerNotFound)
}

func TestCanStart_IsPermissive(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.CanStart(), "empty roster cannot start")

	require.NoError(t, s.AdmitPlayer(player("a")))
	require.NoError(t, s.AdmitPlayer(player("b")))
	require.NoError(t, s.SetReady("a", true))
	assert.True(t, s.CanStart(), "partial readiness is enough")
}

func TestStart_SecondCallFails(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AdmitPlayer(player("a")))
	require.NoError(t, s.AdmitPlayer(player("b")))
	roster := s.Clone().Players

	require.NoError(t, s.Start())
	assert.True(t, s.Started)
	assert.Equal(t, roster, s.Players)

	assert.ErrorIs(t, s.Start(), ErrSessionStarted)
	assert.Equal(t, roster, s.Players)
	assert.False(t, s.CanStart())
}

func TestStart_EmptyRosterIsAllowed(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.CanStart())
	require.NoError(t, s.Start())
	assert.True(t, s.Started)
	assert.ErrorIs(t, s.Start(), ErrSessionStarted)
}

func TestStarted_FreezesSession(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AdmitPlayer(player("a")))
	s.Tick()
	require.NoError(t, s.Start())
	before := s.Clone()

	assert.ErrorIs(t, s.SetCapacity(6), ErrSessionStarted)
	assert.ErrorIs(t, s.AdmitPlayer(player("b")), ErrSessionStarted)
	assert.ErrorIs(t, s.RemovePlayer("a"), ErrSessionStarted)
	assert.ErrorIs(t, s.SetReady("a", true), ErrSessionStarted)
	s.Tick()

	assert.Equal(t, before, s.Clone())
}

func TestClone_DoesNotAliasRoster(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AdmitPlayer(player("a")))

	c := s.Clone()
	c.Players[0].Name = "changed"
	assert.Equal(t, "Player a", s.Players[0].Name)
}

func TestFormatRemaining(t *testing.T) {
	cases := map[int]string{300: "5:00", 299: "4:59", 61: "1:01", 9: "0:09", 0: "0:00", -4: "0:00"}
	for in, want := range cases {
		assert.Equal(t, want, FormatRemaining(in), "seconds=%d", in)
	}
}
