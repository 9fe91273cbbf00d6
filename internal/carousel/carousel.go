// Package carousel navigates a fixed catalog as a circular sequence.
package carousel

import "errors"

var ErrEmptyCatalog = errors.New("carousel catalog is empty")

// DefaultRadius is how many items are shown on each side of the cursor.
const DefaultRadius = 3

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Entry is one visible item. Position is relative to the cursor: 0 is the
// focal item, negative values sit before it.
type Entry[T any] struct {
	Item     T   `json:"item"`
	Index    int `json:"index"`
	Position int `json:"position"`
}

// Navigator holds a cursor over an immutable catalog. It is not safe for
// concurrent use.
type Navigator[T any] struct {
	items     []T
	cursor    int
	direction Direction
}

func New[T any](items []T) (*Navigator[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	own := make([]T, len(items))
	copy(own, items)
	return &Navigator[T]{items: own, direction: Forward}, nil
}

// NewAt is New with the cursor already at index (wrapped). The direction is
// Forward, as if no move had been made.
func NewAt[T any](items []T, index int) (*Navigator[T], error) {
	n, err := New(items)
	if err != nil {
		return nil, err
	}
	n.cursor = n.wrap(index)
	return n, nil
}

func (n *Navigator[T]) Len() int             { return len(n.items) }
func (n *Navigator[T]) Cursor() int          { return n.cursor }
func (n *Navigator[T]) Direction() Direction { return n.direction }
func (n *Navigator[T]) Current() T           { return n.items[n.cursor] }

// Step moves the cursor by delta positions, wrapping in both directions.
// A zero delta leaves both cursor and direction alone.
func (n *Navigator[T]) Step(delta int) {
	if delta == 0 {
		return
	}
	if delta > 0 {
		n.direction = Forward
	} else {
		n.direction = Backward
	}
	n.cursor = n.wrap(n.cursor + delta%len(n.items))
}

func (n *Navigator[T]) Next() { n.Step(1) }
func (n *Navigator[T]) Prev() { n.Step(-1) }

// JumpToOffset handles a click on a visible item at the given relative
// position.
func (n *Navigator[T]) JumpToOffset(offset int) {
	n.Step(offset)
}

// VisibleWindow returns the items at positions -radius..radius around the
// cursor, in ascending position order. Small catalogs repeat items.
func (n *Navigator[T]) VisibleWindow(radius int) []Entry[T] {
	if radius < 0 {
		radius = 0
	}
	window := make([]Entry[T], 0, 2*radius+1)
	for p := -radius; p <= radius; p++ {
		i := n.wrap(n.cursor + p)
		window = append(window, Entry[T]{Item: n.items[i], Index: i, Position: p})
	}
	return window
}

func (n *Navigator[T]) wrap(i int) int {
	size := len(n.items)
	return ((i % size) + size) % size
}
