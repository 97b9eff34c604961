package rules

import (
	"testing"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalMovesSetupEnumeratesPlacements(t *testing.T) {
	defs := StandardPieceDefinitions()
	state, err := NewInitialState(board.StandardDefinition(), defs)
	require.NoError(t, err)

	moves := LegalMoves(state, PlayerSquares, defs)
	require.NotEmpty(t, moves)

	area := board.StandardDefinition().SquaresStartingArea
	// Eight unplaced gems times every free starting-area cell.
	assert.Len(t, moves, 8*len(area))
	for _, m := range moves {
		assert.Equal(t, MovePlace, m.Type)
		assert.True(t, Validate(state, m, defs).Valid)
	}

	// Nothing for the player whose turn it is not.
	assert.Nil(t, LegalMoves(state, PlayerCircles, defs))
}

func TestLegalMovesAllPassValidation(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 0, 0),
		pieceAt("C_Amber1", PieceAmber, PlayerCircles, 1, 0),
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 1, 1),
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 2, 2),
		pieceAt("S_Ruby1", PieceRuby, PlayerSquares, 0, -3),
		pieceAt("S_Portal1", PiecePortal, PlayerSquares, -2, -2),
	)

	moves := LegalMoves(state, PlayerCircles, defs)
	require.NotEmpty(t, moves)
	for _, m := range moves {
		res := Validate(state, m, defs)
		assert.True(t, res.Valid, "enumerated move %+v rejected: %s", m, res.Reason)
	}
}

func TestLegalMovesIsIdempotent(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 0, 0),
		pieceAt("C_Amber1", PieceAmber, PlayerCircles, 1, 0),
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 2, 2),
	)

	first := LegalMoves(state, PlayerCircles, defs)
	second := LegalMoves(state, PlayerCircles, defs)
	assert.Equal(t, first, second)
}

func TestLegalMovesPortalDestinationsAreGolden(t *testing.T) {
	defs := StandardPieceDefinitions()
	// The Pearl+Amber pair next to the Portal gives it nexus relocations
	// on top of the portal movement variants.
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 1, 1),
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 2, 1),
		pieceAt("C_Amber1", PieceAmber, PlayerCircles, 2, 2),
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, -2, 4),
		pieceAt("S_Ruby1", PieceRuby, PlayerSquares, 2, -4),
	)

	moves := LegalMoves(state, PlayerCircles, defs)
	require.NotEmpty(t, moves)
	sawNexus := false
	for _, m := range moves {
		if m.From != at(1, 1) {
			continue
		}
		if m.Type == MoveNexus {
			sawNexus = true
		}
		assert.True(t, state.Board.IsGoldenLine(m.To),
			"portal move %s to non-golden %s", m.Type, m.To)
	}
	assert.True(t, sawNexus, "portal should have nexus relocations to check")
}

func TestLegalMovesCoverAllVariants(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 0, 2),
		pieceAt("C_Amber1", PieceAmber, PlayerCircles, 1, 2),
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 2, 2),
		pieceAt("S_Ruby1", PieceRuby, PlayerSquares, 0, -3),
	)

	moves := LegalMoves(state, PlayerCircles, defs)
	byType := map[MoveType]int{}
	for _, m := range moves {
		byType[m.Type]++
	}

	assert.Positive(t, byType[MoveStandard])
	assert.Positive(t, byType[MovePortalPhasing])
	assert.Positive(t, byType[MovePortalStandard])
	assert.Positive(t, byType[MovePortalLine])
	assert.Positive(t, byType[MovePortalSwap], "pearl stands on a golden line")
	assert.Positive(t, byType[MoveNexus], "pearl and amber form a nexus")
	assert.Zero(t, byType[MovePlace])
}

func TestLegalMovesEmptyWhenDecided(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 0, 0),
	)
	state.Winner = PlayerSquares
	state.Victory = VictoryElimination

	assert.Nil(t, LegalMoves(state, PlayerCircles, defs))
	assert.False(t, HasLegalMoves(state, PlayerCircles, defs))
}
