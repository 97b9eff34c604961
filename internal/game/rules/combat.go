package rules

import (
	"fmt"
	"sort"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
)

// canDestroy is the attacker/target immunity matrix. Portals only touch
// opposing Portals; Void destroys anything; every other type destroys
// anything except Portals.
func canDestroy(attacker, target PieceType) bool {
	switch attacker {
	case PiecePortal:
		return target == PiecePortal
	case PieceVoid:
		return true
	default:
		return target != PiecePortal
	}
}

// resolveCombat runs automatic combat at the mover's new coordinate and
// returns the ids of destroyed pieces. All qualifying adjacent opposing
// pieces are destroyed simultaneously; the attacker is never harmed.
// The state is the in-progress successor snapshot and is mutated in
// place by the applier before it is published.
func resolveCombat(state *GameState, moved board.Coord) ([]string, error) {
	attacker, ok := state.PieceAt(moved)
	if !ok {
		return nil, fmt.Errorf("%w: no attacker at %s", ErrBoardMismatch, moved)
	}

	// Collect targets first: destruction must key off piece ids captured
	// before any board cell is cleared.
	var destroyed []string
	for _, c := range state.Board.AdjacentIntersections(moved) {
		target, occupied := state.PieceAt(c)
		if !occupied || target.Owner == attacker.Owner {
			continue
		}
		if canDestroy(attacker.Type, target.Type) {
			destroyed = append(destroyed, target.ID)
		}
	}
	sort.Strings(destroyed)

	for _, id := range destroyed {
		piece, ok := state.Pieces[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPiece, id)
		}
		b, err := state.Board.WithoutPiece(piece.Coords)
		if err != nil {
			return nil, fmt.Errorf("%w: %s at %s", ErrBoardMismatch, id, piece.Coords)
		}
		state.Board = b
		delete(state.Pieces, id)
	}
	return destroyed, nil
}
