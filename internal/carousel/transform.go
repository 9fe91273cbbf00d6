package carousel

type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Layout turns a relative position into render parameters.
type Layout struct {
	SlotWidth float64
	ScaleStep float64
	MinScale  float64
	BaseZ     int
}

var DefaultLayout = Layout{
	SlotWidth: 220,
	ScaleStep: 0.15,
	MinScale:  0.55,
	BaseZ:     10,
}

type Transform struct {
	OffsetX float64 `json:"offset_x"`
	Scale   float64 `json:"scale"`
	ZIndex  int     `json:"z_index"`
}

func (l Layout) Transform(position int) Transform {
	dist := abs(position)
	return Transform{
		OffsetX: float64(position) * l.SlotWidth,
		Scale:   max(l.MinScale, 1-float64(dist)*l.ScaleStep),
		ZIndex:  l.BaseZ - dist,
	}
}

// EnterSide is where new items come from: the side the carousel is moving
// toward.
func EnterSide(d Direction) Side {
	if d == Backward {
		return Left
	}
	return Right
}

// ExitSide is always opposite EnterSide.
func ExitSide(d Direction) Side {
	if EnterSide(d) == Left {
		return Right
	}
	return Left
}

// EnterOffset is the horizontal start position of an entering item, one slot
// beyond the window edge.
func (l Layout) EnterOffset(d Direction, radius int) float64 {
	return sideOffset(EnterSide(d), radius, l.SlotWidth)
}

func (l Layout) ExitOffset(d Direction, radius int) float64 {
	return sideOffset(ExitSide(d), radius, l.SlotWidth)
}

func sideOffset(s Side, radius int, width float64) float64 {
	x := float64(max(radius, 0)+1) * width
	if s == Left {
		return -x
	}
	return x
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
