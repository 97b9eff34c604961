package rules

import (
	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
)

// FormationType tags the ability formations.
type FormationType string

const (
	FormationNexus     FormationType = "nexus"
	FormationFireball  FormationType = "fireball"
	FormationTidalWave FormationType = "tidal_wave"
	FormationSap       FormationType = "sap"
	FormationLaunch    FormationType = "launch"
)

// Formation is an ability-eligible arrangement of friendly pieces.
// Coords lists the participating coordinates in detection order; for
// launch the third entry is the piece to be launched. Amplified is set
// when a friendly Void stands adjacent to any member.
type Formation struct {
	Type      FormationType `json:"type"`
	Coords    []board.Coord `json:"coords"`
	Amplified bool          `json:"amplified"`
}

// DetectFormations enumerates every ability formation the player
// currently has. Detection is a pure scan over the piece registry; it
// surfaces available abilities, the resolution of which (direction and
// target choices) belongs to the caller.
func DetectFormations(state GameState, player PlayerID) []Formation {
	pieces := state.PiecesOf(player)

	var out []Formation
	out = append(out, nexusFormations(state, player)...)
	out = append(out, pairFormations(state, pieces, FormationFireball, PieceRuby)...)
	out = append(out, pairFormations(state, pieces, FormationTidalWave, PiecePearl)...)
	out = append(out, sapFormations(state, pieces)...)
	out = append(out, launchFormations(state, pieces)...)

	for i := range out {
		out[i].Amplified = isAmplified(state, player, out[i].Coords)
	}
	return out
}

// nexusFormations finds adjacent friendly pairs drawn from Pearl, Amber
// and Amalgam. The two members must be of different types: the three
// valid unordered combinations are Pearl+Amber, Pearl+Amalgam and
// Amber+Amalgam.
func nexusFormations(state GameState, player PlayerID) []Formation {
	pieces := state.PiecesOf(player)
	var members []Piece
	for _, p := range pieces {
		switch p.Type {
		case PiecePearl, PieceAmber, PieceAmalgam:
			members = append(members, p)
		}
	}

	var out []Formation
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i], members[j]
			if a.Type == b.Type {
				continue
			}
			if !a.Coords.IsAdjacent(b.Coords) {
				continue
			}
			out = append(out, Formation{
				Type:   FormationNexus,
				Coords: []board.Coord{a.Coords, b.Coords},
			})
		}
	}
	return out
}

// pairFormations finds adjacent colinear pairs where both members are
// either the given gem type or the Amalgam. Unlike nexus, same-type
// pairs qualify.
func pairFormations(state GameState, pieces []Piece, typ FormationType, gem PieceType) []Formation {
	var members []Piece
	for _, p := range pieces {
		if p.Type == gem || p.Type == PieceAmalgam {
			members = append(members, p)
		}
	}

	var out []Formation
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i], members[j]
			if !a.Coords.IsAdjacent(b.Coords) {
				continue
			}
			out = append(out, Formation{
				Type:   typ,
				Coords: []board.Coord{a.Coords, b.Coords},
			})
		}
	}
	return out
}

// sapFormations finds Amber/Amalgam pairs colinear at arbitrary distance.
// The line between the two members must be clear of other pieces.
func sapFormations(state GameState, pieces []Piece) []Formation {
	var members []Piece
	for _, p := range pieces {
		if p.Type == PieceAmber || p.Type == PieceAmalgam {
			members = append(members, p)
		}
	}

	var out []Formation
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i], members[j]
			if !clearRayBetween(state, a.Coords, b.Coords) {
				continue
			}
			out = append(out, Formation{
				Type:   FormationSap,
				Coords: []board.Coord{a.Coords, b.Coords},
			})
		}
	}
	return out
}

// launchFormations finds an adjacent Jade/Amalgam pair plus a third
// friendly piece continuing the pair's line on either end. The third
// piece is the one eligible to be launched and is listed last.
func launchFormations(state GameState, pieces []Piece) []Formation {
	var members []Piece
	for _, p := range pieces {
		if p.Type == PieceJade || p.Type == PieceAmalgam {
			members = append(members, p)
		}
	}

	var out []Formation
	for i := 0; i < len(members); i++ {
		for j := 0; j < len(members); j++ {
			if i == j {
				continue
			}
			a, b := members[i], members[j]
			if !a.Coords.IsAdjacent(b.Coords) {
				continue
			}
			dir, ok := a.Coords.RayDirection(b.Coords)
			if !ok {
				continue
			}
			// Ordered pairs scan each line from both ends; only extend
			// past b to avoid reporting the same triple twice.
			ext := b.Coords.Add(dir)
			launched, occupied := state.PieceAt(ext)
			if !occupied || launched.Owner != a.Owner {
				continue
			}
			out = append(out, Formation{
				Type:   FormationLaunch,
				Coords: []board.Coord{a.Coords, b.Coords, launched.Coords},
			})
		}
	}
	return out
}

// clearRayBetween reports whether a and b lie on an exact straight ray
// with no occupied intersection strictly between them.
func clearRayBetween(state GameState, a, b board.Coord) bool {
	dir, ok := a.RayDirection(b)
	if !ok {
		return false
	}
	for cur := a.Add(dir); cur != b; cur = cur.Add(dir) {
		if !state.Board.IsValidCoords(cur) {
			return false
		}
		if state.Board.IsOccupied(cur) {
			return false
		}
	}
	return true
}

// isAmplified reports whether any friendly Void piece is 8-adjacent to a
// member coordinate.
func isAmplified(state GameState, player PlayerID, members []board.Coord) bool {
	for _, p := range state.PiecesOf(player) {
		if p.Type != PieceVoid {
			continue
		}
		for _, member := range members {
			if p.Coords.IsAdjacent(member) {
				return true
			}
		}
	}
	return false
}
