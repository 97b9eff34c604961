package rules

import (
	"testing"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
	"github.com/stretchr/testify/require"
)

// sparseState builds a mid-gameplay state on the standard board holding
// only the given pieces. Most kernel tests want a hand-picked arrangement
// rather than a full game replayed from setup.
func sparseState(t *testing.T, current PlayerID, pieces ...Piece) GameState {
	t.Helper()
	def := board.StandardDefinition()
	b, err := board.New(def)
	require.NoError(t, err)

	state := GameState{
		Board:         b,
		Pieces:        make(map[string]Piece, len(pieces)),
		CurrentPlayer: current,
		Phase:         PhaseGameplay,
		SetupTurn:     SetupTurns + 1,
		startingAreas: map[PlayerID][]board.Coord{
			PlayerCircles: def.CirclesStartingArea,
			PlayerSquares: def.SquaresStartingArea,
		},
	}
	for _, p := range pieces {
		b, err = state.Board.WithPiece(p.Coords, p.ID)
		require.NoError(t, err)
		state.Board = b
		state.Pieces[p.ID] = p
	}
	return state
}

func pieceAt(id string, typ PieceType, owner PlayerID, x, y int) Piece {
	return Piece{ID: id, Type: typ, Owner: owner, Coords: board.Coord{X: x, Y: y}}
}

func at(x, y int) board.Coord {
	return board.Coord{X: x, Y: y}
}
