package board

import (
	"fmt"
	"sort"
)

// Intersection is a snapshot of a single board position.
type Intersection struct {
	Coords  Coord
	Golden  bool
	PieceID string // empty when unoccupied
}

// geometry holds the immutable facts of the board: which intersections
// exist, which belong to the golden-line network and how the golden lines
// are linked. It is constructed once per Definition and shared by every
// Board value derived from it.
type geometry struct {
	intersections map[Coord]struct{}
	golden        map[Coord][]Coord
}

// Board is an immutable value: geometry is shared, occupancy is
// copied-on-write. Every mutator returns a new Board and leaves the
// receiver untouched, so older GameState snapshots stay valid.
type Board struct {
	geo       *geometry
	occupancy map[Coord]string
}

// New validates a Definition and builds an empty board from it.
func New(def Definition) (Board, error) {
	geo := &geometry{
		intersections: make(map[Coord]struct{}, len(def.Intersections)),
		golden:        make(map[Coord][]Coord),
	}

	for _, c := range def.Intersections {
		if _, dup := geo.intersections[c]; dup {
			return Board{}, fmt.Errorf("duplicate intersection %s", c)
		}
		geo.intersections[c] = struct{}{}
	}

	for _, link := range def.GoldenLinks {
		a, b := link[0], link[1]
		if a == b {
			return Board{}, fmt.Errorf("golden link %s connects to itself", a)
		}
		for _, c := range link {
			if _, ok := geo.intersections[c]; !ok {
				return Board{}, fmt.Errorf("golden link endpoint %s is not an intersection", c)
			}
		}
		// Links are stored symmetrically regardless of declaration order.
		geo.addGoldenLink(a, b)
		geo.addGoldenLink(b, a)
	}

	for c, conns := range geo.golden {
		sort.Slice(conns, func(i, j int) bool {
			if conns[i].X != conns[j].X {
				return conns[i].X < conns[j].X
			}
			return conns[i].Y < conns[j].Y
		})
		geo.golden[c] = conns
	}

	return Board{geo: geo, occupancy: make(map[Coord]string)}, nil
}

func (g *geometry) addGoldenLink(from, to Coord) {
	for _, existing := range g.golden[from] {
		if existing == to {
			return
		}
	}
	g.golden[from] = append(g.golden[from], to)
}

// IsValidCoords reports whether the coordinate is an intersection of this
// board.
func (b Board) IsValidCoords(c Coord) bool {
	_, ok := b.geo.intersections[c]
	return ok
}

// IntersectionAt returns the intersection snapshot at c.
func (b Board) IntersectionAt(c Coord) (Intersection, bool) {
	if !b.IsValidCoords(c) {
		return Intersection{}, false
	}
	return Intersection{
		Coords:  c,
		Golden:  b.IsGoldenLine(c),
		PieceID: b.occupancy[c],
	}, true
}

// IsOccupied reports whether a piece stands on c.
func (b Board) IsOccupied(c Coord) bool {
	_, ok := b.occupancy[c]
	return ok
}

// PieceAt returns the id of the piece occupying c, if any.
func (b Board) PieceAt(c Coord) (string, bool) {
	id, ok := b.occupancy[c]
	return id, ok
}

// AdjacentIntersections returns only the 8-neighbors that exist on the
// board.
func (b Board) AdjacentIntersections(c Coord) []Coord {
	out := make([]Coord, 0, 8)
	for _, n := range c.Adjacent() {
		if b.IsValidCoords(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsGoldenLine reports whether c belongs to the golden-line network.
func (b Board) IsGoldenLine(c Coord) bool {
	_, ok := b.geo.golden[c]
	return ok
}

// GoldenConnections returns the golden coordinates directly linked to c.
// The result is empty when c is not a golden intersection. The returned
// slice is a copy; callers may keep or modify it freely.
func (b Board) GoldenConnections(c Coord) []Coord {
	conns := b.geo.golden[c]
	if len(conns) == 0 {
		return nil
	}
	out := make([]Coord, len(conns))
	copy(out, conns)
	return out
}

// Intersections returns every coordinate of the board. The order is
// deterministic (sorted by X, then Y) so enumeration-based callers behave
// identically run to run.
func (b Board) Intersections() []Coord {
	out := make([]Coord, 0, len(b.geo.intersections))
	for c := range b.geo.intersections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// cloneOccupancy copies the occupancy map for a derived board.
func (b Board) cloneOccupancy() map[Coord]string {
	out := make(map[Coord]string, len(b.occupancy)+1)
	for c, id := range b.occupancy {
		out[c] = id
	}
	return out
}

// WithPiece returns a new board with pieceID placed at c.
func (b Board) WithPiece(c Coord, pieceID string) (Board, error) {
	if !b.IsValidCoords(c) {
		return Board{}, fmt.Errorf("no intersection at %s", c)
	}
	if occupant, ok := b.occupancy[c]; ok {
		return Board{}, fmt.Errorf("intersection %s already occupied by %s", c, occupant)
	}
	occ := b.cloneOccupancy()
	occ[c] = pieceID
	return Board{geo: b.geo, occupancy: occ}, nil
}

// WithoutPiece returns a new board with the occupant of c removed.
func (b Board) WithoutPiece(c Coord) (Board, error) {
	if _, ok := b.occupancy[c]; !ok {
		return Board{}, fmt.Errorf("no piece at %s", c)
	}
	occ := b.cloneOccupancy()
	delete(occ, c)
	return Board{geo: b.geo, occupancy: occ}, nil
}

// WithMovedPiece returns a new board with the occupant of from relocated
// to to. Remove-then-place semantics: the destination must be empty.
func (b Board) WithMovedPiece(from, to Coord) (Board, error) {
	id, ok := b.occupancy[from]
	if !ok {
		return Board{}, fmt.Errorf("no piece at %s", from)
	}
	if !b.IsValidCoords(to) {
		return Board{}, fmt.Errorf("no intersection at %s", to)
	}
	if occupant, occupied := b.occupancy[to]; occupied {
		return Board{}, fmt.Errorf("intersection %s already occupied by %s", to, occupant)
	}
	occ := b.cloneOccupancy()
	delete(occ, from)
	occ[to] = id
	return Board{geo: b.geo, occupancy: occ}, nil
}

// WithSwappedPieces returns a new board with the occupants of a and b
// exchanged directly, with no intermediate empty state.
func (bd Board) WithSwappedPieces(a, b Coord) (Board, error) {
	first, ok := bd.occupancy[a]
	if !ok {
		return Board{}, fmt.Errorf("no piece at %s", a)
	}
	second, ok := bd.occupancy[b]
	if !ok {
		return Board{}, fmt.Errorf("no piece at %s", b)
	}
	occ := bd.cloneOccupancy()
	occ[a] = second
	occ[b] = first
	return Board{geo: bd.geo, occupancy: occ}, nil
}

// OccupiedCount returns the number of pieces on the board.
func (b Board) OccupiedCount() int {
	return len(b.occupancy)
}
