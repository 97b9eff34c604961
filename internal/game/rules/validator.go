package rules

import (
	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
)

// Validate checks a move against the current state. Turn ownership and
// "game already decided" are checked once before dispatching on the move
// variant. The result is always a structured acceptance or rejection;
// Validate never mutates state.
func Validate(state GameState, move Move, defs PieceDefinitions) ValidationResult {
	if state.Decided() {
		return rejected(ReasonGameOver)
	}
	if !move.Player.Valid() {
		return rejected(ReasonUnknownPlayer)
	}
	if move.Player != state.CurrentPlayer {
		return rejected(ReasonNotYourTurn)
	}
	if _, ok := defs.ForPlayer(move.Player); !ok {
		return rejected(ReasonMissingDefinitions)
	}

	if state.Phase == PhaseSetup {
		if move.Type != MovePlace {
			return rejected(ReasonSetupOnly)
		}
		return validatePlace(state, move, defs)
	}

	switch move.Type {
	case MovePlace:
		return rejected(ReasonGameplayOnly)
	case MoveStandard:
		return validateStandard(state, move)
	case MoveNexus:
		return validateNexus(state, move)
	case MovePortalSwap:
		return validatePortalSwap(state, move)
	case MovePortalLine:
		return validatePortalLine(state, move)
	case MovePortalStandard:
		return validatePortalStandard(state, move)
	case MovePortalPhasing:
		return validatePortalPhasing(state, move)
	default:
		return rejected(ReasonUnknownMove)
	}
}

func validatePlace(state GameState, move Move, defs PieceDefinitions) ValidationResult {
	def, ok := defs.Lookup(move.Player, move.PieceID)
	if !ok {
		return rejected(ReasonUnknownPieceID)
	}
	if def.PrePlaced {
		return rejected(ReasonPrePlacedPiece)
	}
	if _, placed := state.Pieces[move.PieceID]; placed {
		return rejected(ReasonPieceAlreadyPlaced)
	}
	if !inStartingArea(state, move.Player, move.To) {
		return rejected(ReasonInvalidStartingArea)
	}
	if state.Board.IsOccupied(move.To) {
		return rejected(ReasonPositionOccupied)
	}
	return accepted()
}

// inStartingArea checks the player's starting-area membership for a
// placement destination. The area sets are carried on the board
// definition; the state keeps them resolved on the board value.
func inStartingArea(state GameState, player PlayerID, c board.Coord) bool {
	area := state.startingArea(player)
	for _, a := range area {
		if a == c {
			return true
		}
	}
	return false
}

func validateStandard(state GameState, move Move) ValidationResult {
	mover, res := movingPiece(state, move)
	if !res.Valid {
		return res
	}
	if !state.Board.IsValidCoords(move.To) {
		return rejected(ReasonInvalidPosition)
	}
	if !move.From.IsAdjacent(move.To) {
		return rejected(ReasonNotAdjacent)
	}
	if state.Board.IsOccupied(move.To) {
		return rejected(ReasonDestinationOccupied)
	}
	if mover.Type == PiecePortal && !state.Board.IsGoldenLine(move.To) {
		return rejected(ReasonPortalGoldenOnly)
	}
	return accepted()
}

func validateNexus(state GameState, move Move) ValidationResult {
	mover, res := movingPiece(state, move)
	if !res.Valid {
		return res
	}
	if !state.Board.IsValidCoords(move.To) {
		return rejected(ReasonInvalidPosition)
	}
	if state.Board.IsOccupied(move.To) {
		return rejected(ReasonDestinationOccupied)
	}
	if mover.Type == PiecePortal && !state.Board.IsGoldenLine(move.To) {
		return rejected(ReasonPortalGoldenOnly)
	}

	formations := nexusFormations(state, move.Player)
	if len(formations) == 0 {
		return rejected(ReasonNoNexusFormation)
	}
	// Source and destination each need some formation nearby; they are
	// not required to reference the same one.
	if !adjacentToAnyFormation(formations, move.From) {
		return rejected(ReasonSourceNotNearNexus)
	}
	if !adjacentToAnyFormation(formations, move.To) {
		return rejected(ReasonTargetNotNearNexus)
	}
	return accepted()
}

func adjacentToAnyFormation(formations []Formation, c board.Coord) bool {
	for _, f := range formations {
		for _, member := range f.Coords {
			if c.IsAdjacent(member) {
				return true
			}
		}
	}
	return false
}

func validatePortalSwap(state GameState, move Move) ValidationResult {
	mover, res := movingPiece(state, move)
	if !res.Valid {
		return res
	}
	if mover.Type == PiecePortal {
		return rejected(ReasonSwapSourceIsPortal)
	}
	if !state.Board.IsGoldenLine(move.From) {
		return rejected(ReasonSwapSourceNotGolden)
	}
	target, ok := state.PieceAt(move.To)
	if !ok || target.Owner != move.Player || target.Type != PiecePortal {
		return rejected(ReasonSwapTargetNotPortal)
	}
	return accepted()
}

func validatePortalLine(state GameState, move Move) ValidationResult {
	mover, res := movingPiece(state, move)
	if !res.Valid {
		return res
	}
	if mover.Type != PiecePortal {
		return rejected(ReasonPortalOnly)
	}
	if !state.Board.IsGoldenLine(move.From) {
		return rejected(ReasonNotOnGoldenLine)
	}
	if !state.Board.IsValidCoords(move.To) {
		return rejected(ReasonInvalidPosition)
	}
	if !state.Board.IsGoldenLine(move.To) {
		return rejected(ReasonPortalGoldenOnly)
	}
	if state.Board.IsOccupied(move.To) {
		return rejected(ReasonDestinationOccupied)
	}

	reachable, sawBlock := goldenReachable(state, move.From)
	if reachable[move.To] {
		return accepted()
	}
	if sawBlock {
		return rejected(ReasonGoldenPathBlocked)
	}
	return rejected(ReasonNoGoldenPath)
}

// goldenReachable walks the golden-line network from src. Traversal may
// pass through golden intersections that are empty or adjacent to the
// source; an occupied, non-adjacent intersection blocks that branch. The
// second result reports whether any branch was cut off that way, which
// distinguishes "blocked" from "no path at all" in rejections.
func goldenReachable(state GameState, src board.Coord) (map[board.Coord]bool, bool) {
	reachable := map[board.Coord]bool{src: true}
	queue := []board.Coord{src}
	sawBlock := false

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range state.Board.GoldenConnections(cur) {
			if reachable[next] {
				continue
			}
			if state.Board.IsOccupied(next) && !next.IsAdjacent(src) {
				sawBlock = true
				continue
			}
			reachable[next] = true
			queue = append(queue, next)
		}
	}
	return reachable, sawBlock
}

func validatePortalStandard(state GameState, move Move) ValidationResult {
	mover, res := movingPiece(state, move)
	if !res.Valid {
		return res
	}
	if mover.Type != PiecePortal {
		return rejected(ReasonPortalOnly)
	}
	if !state.Board.IsValidCoords(move.To) {
		return rejected(ReasonInvalidPosition)
	}
	if !move.From.IsAdjacent(move.To) {
		return rejected(ReasonNotAdjacent)
	}
	if state.Board.IsOccupied(move.To) {
		return rejected(ReasonDestinationOccupied)
	}
	if !state.Board.IsGoldenLine(move.To) {
		return rejected(ReasonPortalGoldenOnly)
	}
	return accepted()
}

func validatePortalPhasing(state GameState, move Move) ValidationResult {
	mover, res := movingPiece(state, move)
	if !res.Valid {
		return res
	}
	dir, onRay := move.From.RayDirection(move.To)
	if !onRay {
		return rejected(ReasonNotOnRay)
	}
	if !state.Board.IsValidCoords(move.To) {
		return rejected(ReasonInvalidPosition)
	}
	if state.Board.IsOccupied(move.To) {
		return rejected(ReasonDestinationOccupied)
	}
	if mover.Type == PiecePortal && !state.Board.IsGoldenLine(move.To) {
		return rejected(ReasonPortalGoldenOnly)
	}

	// The mover travels through every intersection on the ray. Portal
	// movers treat everything as transparent; other movers pass through
	// Portal pieces only.
	for cur := move.From.Add(dir); cur != move.To; cur = cur.Add(dir) {
		if !state.Board.IsValidCoords(cur) {
			return rejected(ReasonRayLeavesBoard)
		}
		occupant, occupied := state.PieceAt(cur)
		if !occupied {
			continue
		}
		if mover.Type == PiecePortal {
			continue
		}
		if occupant.Type == PiecePortal {
			continue
		}
		return rejected(ReasonRayBlocked)
	}
	return accepted()
}

// movingPiece resolves and checks the piece at the move's source
// position: it must exist and belong to the acting player.
func movingPiece(state GameState, move Move) (Piece, ValidationResult) {
	if !state.Board.IsValidCoords(move.From) {
		return Piece{}, rejected(ReasonInvalidPosition)
	}
	piece, ok := state.PieceAt(move.From)
	if !ok {
		return Piece{}, rejected(ReasonNoPieceAtSource)
	}
	if piece.Owner != move.Player {
		return Piece{}, rejected(ReasonNotYourPiece)
	}
	return piece, accepted()
}
