package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_Transform(t *testing.T) {
	l := DefaultLayout
	cases := []struct {
		position int
		offset   float64
		scale    float64
		z        int
	}{
		{position: 0, offset: 0, scale: 1, z: 10},
		{position: 1, offset: 220, scale: 0.85, z: 9},
		{position: -2, offset: -440, scale: 0.70, z: 8},
		{position: 3, offset: 660, scale: 0.55, z: 7},
		{position: -5, offset: -1100, scale: 0.55, z: 5},
	}

	for _, tc := range cases {
		got := l.Transform(tc.position)
		assert.InDelta(t, tc.offset, got.OffsetX, 1e-9, "offset p=%d", tc.position)
		assert.InDelta(t, tc.scale, got.Scale, 1e-9, "scale p=%d", tc.position)
		assert.Equal(t, tc.z, got.ZIndex, "z p=%d", tc.position)
	}
}

func TestLayout_SymmetricAroundCenter(t *testing.T) {
	l := DefaultLayout
	for p := 1; p <= 4; p++ {
		left, right := l.Transform(-p), l.Transform(p)
		assert.Equal(t, left.Scale, right.Scale)
		assert.Equal(t, left.ZIndex, right.ZIndex)
		assert.Equal(t, -left.OffsetX, right.OffsetX)
		assert.Less(t, right.ZIndex, l.Transform(0).ZIndex)
	}
}

func TestTransitionSides(t *testing.T) {
	assert.Equal(t, Right, EnterSide(Forward))
	assert.Equal(t, Left, ExitSide(Forward))
	assert.Equal(t, Left, EnterSide(Backward))
	assert.Equal(t, Right, ExitSide(Backward))

	l := DefaultLayout
	assert.Equal(t, 880.0, l.EnterOffset(Forward, 3))
	assert.Equal(t, -880.0, l.ExitOffset(Forward, 3))
	assert.Equal(t, -880.0, l.EnterOffset(Backward, 3))
	assert.Equal(t, 220.0, l.EnterOffset(Forward, -1))
}
