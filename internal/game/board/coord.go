package board

import "fmt"

// Coord identifies a board intersection on the axial grid. All coordinate
// math is exact integer arithmetic; there is no floating point anywhere in
// the board model.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// adjacentOffsets are the eight Chebyshev-distance-1 neighbors.
var adjacentOffsets = [8]Coord{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Adjacent returns the eight candidate neighbor coordinates. The result is
// not filtered for board membership; callers that need existing
// intersections use Board.AdjacentIntersections.
func (c Coord) Adjacent() [8]Coord {
	var out [8]Coord
	for i, off := range adjacentOffsets {
		out[i] = Coord{c.X + off.X, c.Y + off.Y}
	}
	return out
}

// IsAdjacent reports whether other is exactly one king-move away.
func (c Coord) IsAdjacent(other Coord) bool {
	if c == other {
		return false
	}
	dx := abs(c.X - other.X)
	dy := abs(c.Y - other.Y)
	return dx <= 1 && dy <= 1
}

// RayDirection returns the unit step from c toward other when the two
// coordinates lie on an exact horizontal, vertical or diagonal ray. The
// second return value is false for any other relative position (including
// c == other).
func (c Coord) RayDirection(other Coord) (Coord, bool) {
	dx := other.X - c.X
	dy := other.Y - c.Y
	if dx == 0 && dy == 0 {
		return Coord{}, false
	}
	if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
		return Coord{}, false
	}
	return Coord{sign(dx), sign(dy)}, true
}

// Add returns c translated by the given step.
func (c Coord) Add(step Coord) Coord {
	return Coord{c.X + step.X, c.Y + step.Y}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
