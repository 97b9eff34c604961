package rules

import (
	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
)

// LegalMoves enumerates every legal move for the player on the given
// state: all setup placements during setup, and during gameplay every
// destination of all seven movement variants for each owned piece.
// Enumeration is pure; two calls on the same state agree.
func LegalMoves(state GameState, player PlayerID, defs PieceDefinitions) []Move {
	if state.Decided() || player != state.CurrentPlayer {
		return nil
	}
	table, ok := defs.ForPlayer(player)
	if !ok {
		return nil
	}

	if state.Phase == PhaseSetup {
		return legalPlacements(state, player, table)
	}
	return legalMovements(state, player, defs)
}

// HasLegalMoves reports whether the player has at least one legal move.
func HasLegalMoves(state GameState, player PlayerID, defs PieceDefinitions) bool {
	return len(LegalMoves(state, player, defs)) > 0
}

func legalPlacements(state GameState, player PlayerID, table PieceDefinitionTable) []Move {
	var unplaced []string
	for _, id := range sortedIDs(table) {
		if table[id].PrePlaced {
			continue
		}
		if _, placed := state.Pieces[id]; placed {
			continue
		}
		unplaced = append(unplaced, id)
	}

	var out []Move
	for _, id := range unplaced {
		for _, c := range state.startingArea(player) {
			if state.Board.IsOccupied(c) {
				continue
			}
			out = append(out, Move{Type: MovePlace, Player: player, PieceID: id, To: c})
		}
	}
	return out
}

func legalMovements(state GameState, player PlayerID, defs PieceDefinitions) []Move {
	var out []Move
	nexusTargets := nexusDestinations(state, player)

	for _, piece := range state.PiecesOf(player) {
		out = append(out, standardMoves(state, piece)...)
		out = append(out, phasingMoves(state, piece)...)

		if piece.Type == PiecePortal {
			out = append(out, portalStandardMoves(state, piece)...)
			out = append(out, portalLineMoves(state, piece)...)
		} else {
			out = append(out, portalSwapMoves(state, piece)...)
		}

		out = append(out, nexusMoves(state, piece, nexusTargets)...)
	}

	// Enumeration mirrors the validator rather than duplicating its edge
	// cases: anything it produced must pass Validate.
	legal := out[:0]
	for _, m := range out {
		if Validate(state, m, defs).Valid {
			legal = append(legal, m)
		}
	}
	return legal
}

func standardMoves(state GameState, piece Piece) []Move {
	var out []Move
	for _, to := range state.Board.AdjacentIntersections(piece.Coords) {
		if state.Board.IsOccupied(to) {
			continue
		}
		if piece.Type == PiecePortal && !state.Board.IsGoldenLine(to) {
			continue
		}
		out = append(out, Move{Type: MoveStandard, Player: piece.Owner, From: piece.Coords, To: to})
	}
	return out
}

func portalStandardMoves(state GameState, piece Piece) []Move {
	var out []Move
	for _, to := range state.Board.AdjacentIntersections(piece.Coords) {
		if state.Board.IsOccupied(to) || !state.Board.IsGoldenLine(to) {
			continue
		}
		out = append(out, Move{Type: MovePortalStandard, Player: piece.Owner, From: piece.Coords, To: to})
	}
	return out
}

func portalLineMoves(state GameState, piece Piece) []Move {
	if !state.Board.IsGoldenLine(piece.Coords) {
		return nil
	}
	reachable, _ := goldenReachable(state, piece.Coords)
	var out []Move
	for _, to := range state.Board.Intersections() {
		if to == piece.Coords || !reachable[to] || state.Board.IsOccupied(to) {
			continue
		}
		out = append(out, Move{Type: MovePortalLine, Player: piece.Owner, From: piece.Coords, To: to})
	}
	return out
}

func portalSwapMoves(state GameState, piece Piece) []Move {
	if !state.Board.IsGoldenLine(piece.Coords) {
		return nil
	}
	var out []Move
	for _, other := range state.PiecesOf(piece.Owner) {
		if other.Type != PiecePortal {
			continue
		}
		out = append(out, Move{Type: MovePortalSwap, Player: piece.Owner, From: piece.Coords, To: other.Coords})
	}
	return out
}

func phasingMoves(state GameState, piece Piece) []Move {
	var out []Move
	for _, dir := range rayDirections() {
		for cur := piece.Coords.Add(dir); state.Board.IsValidCoords(cur); cur = cur.Add(dir) {
			occupant, occupied := state.PieceAt(cur)
			if !occupied {
				if piece.Type != PiecePortal || state.Board.IsGoldenLine(cur) {
					out = append(out, Move{Type: MovePortalPhasing, Player: piece.Owner, From: piece.Coords, To: cur})
				}
				continue
			}
			// Occupied: transparent for Portal movers, and for non-Portal
			// movers passing a Portal; otherwise the ray ends here.
			if piece.Type != PiecePortal && occupant.Type != PiecePortal {
				break
			}
		}
	}
	return out
}

func nexusMoves(state GameState, piece Piece, targets []board.Coord) []Move {
	if len(targets) == 0 {
		return nil
	}
	formations := nexusFormations(state, piece.Owner)
	if !adjacentToAnyFormation(formations, piece.Coords) {
		return nil
	}
	var out []Move
	for _, to := range targets {
		if to == piece.Coords {
			continue
		}
		if piece.Type == PiecePortal && !state.Board.IsGoldenLine(to) {
			continue
		}
		out = append(out, Move{Type: MoveNexus, Player: piece.Owner, From: piece.Coords, To: to})
	}
	return out
}

// nexusDestinations collects every empty intersection adjacent to a
// member of any of the player's nexus formations.
func nexusDestinations(state GameState, player PlayerID) []board.Coord {
	formations := nexusFormations(state, player)
	if len(formations) == 0 {
		return nil
	}
	seen := make(map[board.Coord]bool)
	var out []board.Coord
	for _, f := range formations {
		for _, member := range f.Coords {
			for _, c := range state.Board.AdjacentIntersections(member) {
				if seen[c] || state.Board.IsOccupied(c) {
					continue
				}
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func rayDirections() [8]board.Coord {
	return [8]board.Coord{
		{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
		{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
	}
}
