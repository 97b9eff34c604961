package rules

import (
	"fmt"
)

// ApplyOutcome reports the side effects of a successful move: pieces
// destroyed by automatic combat, ability formations now available to the
// acting player, and the winner when the move decided the game.
type ApplyOutcome struct {
	DestroyedPieceIDs []string
	Abilities         []Formation
	Winner            PlayerID
	Victory           VictoryType
}

// MoveResult is the full answer to a move submission: either a rejection
// with a reason, or the successor state plus outcome.
type MoveResult struct {
	Valid     bool
	Reason    string
	NextState GameState
	Outcome   ApplyOutcome
}

// ApplyMove validates and applies a move in one step. Rule violations
// come back as a rejection inside MoveResult; an error return means an
// invariant violation (caller bug), never an illegal move.
func ApplyMove(state GameState, move Move, defs PieceDefinitions) (MoveResult, error) {
	if res := Validate(state, move, defs); !res.Valid {
		return MoveResult{Valid: false, Reason: res.Reason}, nil
	}
	next, outcome, err := Apply(state, move, defs)
	if err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Valid: true, NextState: next, Outcome: outcome}, nil
}

// Apply produces the successor state for a move that has already been
// validated. Applying an unvalidated move may return an invariant error.
func Apply(state GameState, move Move, defs PieceDefinitions) (GameState, ApplyOutcome, error) {
	switch move.Type {
	case MovePlace:
		return applyPlace(state, move, defs)
	case MoveStandard, MoveNexus, MovePortalLine, MovePortalStandard, MovePortalPhasing:
		return applyMovement(state, move, defs)
	case MovePortalSwap:
		return applySwap(state, move, defs)
	default:
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: %q", ErrUnknownMoveType, move.Type)
	}
}

func applyPlace(state GameState, move Move, defs PieceDefinitions) (GameState, ApplyOutcome, error) {
	def, ok := defs.Lookup(move.Player, move.PieceID)
	if !ok {
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: %s", ErrUnknownPiece, move.PieceID)
	}

	next := state.clone()
	b, err := next.Board.WithPiece(move.To, move.PieceID)
	if err != nil {
		return GameState{}, ApplyOutcome{}, err
	}
	next.Board = b
	next.Pieces[move.PieceID] = Piece{
		ID:     move.PieceID,
		Type:   def.Type,
		Owner:  move.Player,
		Coords: move.To,
	}
	next.History = append(next.History, move)

	if next.Phase == PhaseSetup {
		next.SetupTurn++
		if next.SetupTurn > SetupTurns {
			next.Phase = PhaseGameplay
			next.CurrentPlayer = FirstGameplayPlayer
		} else {
			next.CurrentPlayer = next.CurrentPlayer.Opponent()
		}
	}

	return next, ApplyOutcome{}, nil
}

func applyMovement(state GameState, move Move, defs PieceDefinitions) (GameState, ApplyOutcome, error) {
	next := state.clone()

	pieceID, ok := next.Board.PieceAt(move.From)
	if !ok {
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: nothing at %s", ErrUnknownPiece, move.From)
	}
	piece, ok := next.Pieces[pieceID]
	if !ok {
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: %s", ErrBoardMismatch, pieceID)
	}

	b, err := next.Board.WithMovedPiece(move.From, move.To)
	if err != nil {
		return GameState{}, ApplyOutcome{}, err
	}
	next.Board = b
	piece.Coords = move.To
	next.Pieces[pieceID] = piece
	next.History = append(next.History, move)

	destroyed, err := resolveCombat(&next, move.To)
	if err != nil {
		return GameState{}, ApplyOutcome{}, err
	}

	outcome := ApplyOutcome{
		DestroyedPieceIDs: destroyed,
		Abilities:         DetectFormations(next, move.Player),
	}

	next.CurrentPlayer = next.CurrentPlayer.Opponent()
	finishGameplayMove(&next, defs, &outcome)

	return next, outcome, nil
}

func applySwap(state GameState, move Move, defs PieceDefinitions) (GameState, ApplyOutcome, error) {
	next := state.clone()

	srcID, ok := next.Board.PieceAt(move.From)
	if !ok {
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: nothing at %s", ErrUnknownPiece, move.From)
	}
	dstID, ok := next.Board.PieceAt(move.To)
	if !ok {
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: nothing at %s", ErrUnknownPiece, move.To)
	}

	b, err := next.Board.WithSwappedPieces(move.From, move.To)
	if err != nil {
		return GameState{}, ApplyOutcome{}, err
	}
	next.Board = b

	src, ok := next.Pieces[srcID]
	if !ok {
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: %s", ErrBoardMismatch, srcID)
	}
	dst, ok := next.Pieces[dstID]
	if !ok {
		return GameState{}, ApplyOutcome{}, fmt.Errorf("%w: %s", ErrBoardMismatch, dstID)
	}
	src.Coords, dst.Coords = dst.Coords, src.Coords
	next.Pieces[srcID] = src
	next.Pieces[dstID] = dst
	next.History = append(next.History, move)

	// Swaps trigger no combat; formations and victory are still
	// re-evaluated on the new arrangement.
	outcome := ApplyOutcome{
		Abilities: DetectFormations(next, move.Player),
	}

	next.CurrentPlayer = next.CurrentPlayer.Opponent()
	finishGameplayMove(&next, defs, &outcome)

	return next, outcome, nil
}

// finishGameplayMove records a winner on the successor state when a win
// condition is now satisfied. Further moves are rejected at the
// pre-dispatch check once a winner is set.
func finishGameplayMove(next *GameState, defs PieceDefinitions, outcome *ApplyOutcome) {
	winner, victory, decided := CheckVictory(*next, defs)
	if !decided {
		return
	}
	next.Winner = winner
	next.Victory = victory
	outcome.Winner = winner
	outcome.Victory = victory
}
