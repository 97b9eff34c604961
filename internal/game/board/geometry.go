package board

import (
	"encoding/json"
	"fmt"
	"os"
)

// standardRadius bounds the canonical diamond board: every intersection
// satisfies |x|+|y| <= standardRadius.
const standardRadius = 6

// Definition is the external geometry contract: the intersection set, the
// golden-line connection graph and the per-player starting areas. It is
// loaded once before game start and treated as immutable for the session.
type Definition struct {
	Intersections []Coord
	GoldenLinks   [][2]Coord
	// Starting areas are where setup-phase placements are legal.
	CirclesStartingArea []Coord
	SquaresStartingArea []Coord
}

// rayDirections are the eight rays from the board center along which the
// golden lines run.
var rayDirections = [8]Coord{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// StandardDefinition returns the canonical board: a diamond of
// intersections with golden lines along both axes and both main
// diagonals, linked between consecutive intersections of each ray.
func StandardDefinition() Definition {
	var def Definition

	for x := -standardRadius; x <= standardRadius; x++ {
		for y := -standardRadius; y <= standardRadius; y++ {
			if abs(x)+abs(y) <= standardRadius {
				def.Intersections = append(def.Intersections, Coord{x, y})
			}
		}
	}

	inBoard := func(c Coord) bool { return abs(c.X)+abs(c.Y) <= standardRadius }

	for _, dir := range rayDirections {
		prev := Coord{0, 0}
		for {
			next := prev.Add(dir)
			if !inBoard(next) {
				break
			}
			def.GoldenLinks = append(def.GoldenLinks, [2]Coord{prev, next})
			prev = next
		}
	}

	def.CirclesStartingArea = startingBand(1)
	def.SquaresStartingArea = startingBand(-1)

	return def
}

// startingBand returns the setup placement band on one side of the board:
// rows 2..4 away from the center line, minus the coordinates reserved for
// pre-placed pieces.
func startingBand(side int) []Coord {
	reserved := map[Coord]struct{}{
		{0, 4 * side}:  {}, // Void start
		{2, 2 * side}:  {}, // Portal start
		{-2, 2 * side}: {}, // Portal start
	}
	var out []Coord
	for y := 2; y <= 4; y++ {
		row := y * side
		for x := -standardRadius; x <= standardRadius; x++ {
			c := Coord{x, row}
			if abs(c.X)+abs(c.Y) > standardRadius {
				continue
			}
			if _, skip := reserved[c]; skip {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// fileDefinition is the on-disk JSON shape of a Definition. Coordinates
// are [x, y] pairs.
type fileDefinition struct {
	Intersections       [][2]int    `json:"intersections"`
	GoldenLinks         [][2][2]int `json:"golden_links"`
	CirclesStartingArea [][2]int    `json:"circles_starting_area"`
	SquaresStartingArea [][2]int    `json:"squares_starting_area"`
}

// LoadDefinition reads a board definition from a JSON file. This is the
// boundary to the external geometry collaborator; the loaded data gets the
// same validation as the built-in definition when New is called on it.
func LoadDefinition(path string) (Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read board definition: %w", err)
	}

	var fd fileDefinition
	if err := json.Unmarshal(raw, &fd); err != nil {
		return Definition{}, fmt.Errorf("parse board definition: %w", err)
	}
	if len(fd.Intersections) == 0 {
		return Definition{}, fmt.Errorf("board definition %s has no intersections", path)
	}

	def := Definition{
		Intersections:       coordsFromPairs(fd.Intersections),
		CirclesStartingArea: coordsFromPairs(fd.CirclesStartingArea),
		SquaresStartingArea: coordsFromPairs(fd.SquaresStartingArea),
	}
	for _, link := range fd.GoldenLinks {
		def.GoldenLinks = append(def.GoldenLinks, [2]Coord{
			{link[0][0], link[0][1]},
			{link[1][0], link[1][1]},
		})
	}
	return def, nil
}

func coordsFromPairs(pairs [][2]int) []Coord {
	out := make([]Coord, len(pairs))
	for i, p := range pairs {
		out[i] = Coord{p[0], p[1]}
	}
	return out
}
