package rules

import (
	"testing"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
)

func expectRejection(t *testing.T, res ValidationResult, reason string) {
	t.Helper()
	if res.Valid {
		t.Fatalf("expected rejection %q, move was accepted", reason)
	}
	if res.Reason != reason {
		t.Fatalf("expected reason %q, got %q", reason, res.Reason)
	}
}

func expectAccepted(t *testing.T, res ValidationResult) {
	t.Helper()
	if !res.Valid {
		t.Fatalf("expected acceptance, got rejection: %s", res.Reason)
	}
}

func TestValidateRejectsAfterGameDecided(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 0, 0),
	)
	state.Winner = PlayerCircles
	state.Victory = VictoryObjective

	res := Validate(state, Move{Type: MoveStandard, Player: PlayerCircles, From: at(0, 0), To: at(1, 0)}, defs)
	expectRejection(t, res, ReasonGameOver)
}

func TestValidateRejectsWrongTurn(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("S_Ruby1", PieceRuby, PlayerSquares, 0, 0),
	)

	res := Validate(state, Move{Type: MoveStandard, Player: PlayerSquares, From: at(0, 0), To: at(1, 0)}, defs)
	expectRejection(t, res, ReasonNotYourTurn)

	res = Validate(state, Move{Type: MoveStandard, Player: "triangles", From: at(0, 0), To: at(1, 0)}, defs)
	expectRejection(t, res, ReasonUnknownPlayer)
}

func TestValidateSetupAllowsOnlyPlacement(t *testing.T) {
	defs := StandardPieceDefinitions()
	state, err := NewInitialState(board.StandardDefinition(), defs)
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}

	res := Validate(state, Move{Type: MoveStandard, Player: PlayerSquares, From: at(0, -4), To: at(1, -4)}, defs)
	expectRejection(t, res, ReasonSetupOnly)
}

func TestValidatePlacement(t *testing.T) {
	defs := StandardPieceDefinitions()
	state, err := NewInitialState(board.StandardDefinition(), defs)
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}

	place := func(player PlayerID, pieceID string, to board.Coord) Move {
		return Move{Type: MovePlace, Player: player, PieceID: pieceID, To: to}
	}

	expectAccepted(t, Validate(state, place(PlayerSquares, "S_Ruby1", at(0, -3)), defs))
	expectRejection(t, Validate(state, place(PlayerSquares, "S_Dragon", at(0, -3)), defs), ReasonUnknownPieceID)
	expectRejection(t, Validate(state, place(PlayerSquares, "S_Void", at(0, -3)), defs), ReasonPrePlacedPiece)
	expectRejection(t, Validate(state, place(PlayerSquares, "S_Ruby1", at(0, 0)), defs), ReasonInvalidStartingArea)
	// Circles' band is forbidden ground for squares.
	expectRejection(t, Validate(state, place(PlayerSquares, "S_Ruby1", at(0, 3)), defs), ReasonInvalidStartingArea)

	// Walk two placements so an occupied cell and a consumed piece exist.
	result, err := ApplyMove(state, place(PlayerSquares, "S_Ruby1", at(0, -3)), defs)
	if err != nil || !result.Valid {
		t.Fatalf("placement failed: err=%v reason=%s", err, result.Reason)
	}
	state = result.NextState
	result, err = ApplyMove(state, place(PlayerCircles, "C_Ruby1", at(0, 3)), defs)
	if err != nil || !result.Valid {
		t.Fatalf("placement failed: err=%v reason=%s", err, result.Reason)
	}
	state = result.NextState

	expectRejection(t, Validate(state, place(PlayerSquares, "S_Ruby2", at(0, -3)), defs), ReasonPositionOccupied)
	expectRejection(t, Validate(state, place(PlayerSquares, "S_Ruby1", at(1, -3)), defs), ReasonPieceAlreadyPlaced)
}

func TestValidateStandardMove(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 0, 0),
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 1, 0),
		pieceAt("S_Ruby1", PieceRuby, PlayerSquares, 6, 0),
	)

	move := func(from, to board.Coord) Move {
		return Move{Type: MoveStandard, Player: PlayerCircles, From: from, To: to}
	}

	expectAccepted(t, Validate(state, move(at(0, 0), at(0, 1)), defs))
	expectRejection(t, Validate(state, move(at(0, 0), at(2, 0)), defs), ReasonNotAdjacent)
	expectRejection(t, Validate(state, move(at(0, 0), at(1, 0)), defs), ReasonDestinationOccupied)
	expectRejection(t, Validate(state, move(at(3, 3), at(3, 2)), defs), ReasonNoPieceAtSource)
	expectRejection(t, Validate(state, move(at(6, 0), at(5, 0)), defs), ReasonNotYourPiece)
	expectRejection(t, Validate(state, move(at(0, 0), at(7, 0)), defs), ReasonInvalidPosition)
	expectRejection(t, Validate(state, move(at(9, 9), at(8, 9)), defs), ReasonInvalidPosition)
}

func TestValidatePortalMustLandOnGoldenLine(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 1, 1),
	)

	// (2,1) is a valid adjacent intersection but not on a golden line.
	for _, typ := range []MoveType{MoveStandard, MovePortalStandard} {
		res := Validate(state, Move{Type: typ, Player: PlayerCircles, From: at(1, 1), To: at(2, 1)}, defs)
		expectRejection(t, res, ReasonPortalGoldenOnly)
	}

	// (2,2) continues the diagonal golden line.
	for _, typ := range []MoveType{MoveStandard, MovePortalStandard} {
		res := Validate(state, Move{Type: typ, Player: PlayerCircles, From: at(1, 1), To: at(2, 2)}, defs)
		expectAccepted(t, res)
	}
}

func TestValidatePortalSwap(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 0, 2),
		pieceAt("C_Amber1", PieceAmber, PlayerCircles, 1, 2),
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 2, 2),
		pieceAt("S_Portal1", PiecePortal, PlayerSquares, 3, 3),
	)

	swap := func(from, to board.Coord) Move {
		return Move{Type: MovePortalSwap, Player: PlayerCircles, From: from, To: to}
	}

	// Pearl on the vertical golden line exchanges with the friendly Portal
	// at any distance.
	expectAccepted(t, Validate(state, swap(at(0, 2), at(2, 2)), defs))

	expectRejection(t, Validate(state, swap(at(2, 2), at(0, 2)), defs), ReasonSwapSourceIsPortal)
	expectRejection(t, Validate(state, swap(at(1, 2), at(2, 2)), defs), ReasonSwapSourceNotGolden)
	expectRejection(t, Validate(state, swap(at(0, 2), at(1, 2)), defs), ReasonSwapTargetNotPortal)
	expectRejection(t, Validate(state, swap(at(0, 2), at(3, 3)), defs), ReasonSwapTargetNotPortal)
	expectRejection(t, Validate(state, swap(at(0, 2), at(0, 1)), defs), ReasonSwapTargetNotPortal)
}

func TestValidatePortalLine(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 0, 2),
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 0, -2),
	)

	line := func(from, to board.Coord) Move {
		return Move{Type: MovePortalLine, Player: PlayerCircles, From: from, To: to}
	}

	// Free run down the vertical line through the center.
	expectAccepted(t, Validate(state, line(at(0, 2), at(0, -1)), defs))
	// Onto another golden line entirely, crossing at the center.
	expectAccepted(t, Validate(state, line(at(0, 2), at(3, 3)), defs))

	expectRejection(t, Validate(state, line(at(0, 2), at(0, -2)), defs), ReasonDestinationOccupied)
	expectRejection(t, Validate(state, line(at(0, 2), at(1, 2)), defs), ReasonPortalGoldenOnly)
	expectRejection(t, Validate(state, line(at(0, -2), at(0, 1)), defs), ReasonPortalOnly)
}

func TestValidatePortalLineBlocked(t *testing.T) {
	defs := StandardPieceDefinitions()

	// A non-adjacent piece on the only route cuts the network in two.
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 0, 3),
		pieceAt("S_Ruby1", PieceRuby, PlayerSquares, 0, 1),
	)
	res := Validate(state, Move{Type: MovePortalLine, Player: PlayerCircles, From: at(0, 3), To: at(0, -1)}, defs)
	expectRejection(t, res, ReasonGoldenPathBlocked)

	// The same blocker adjacent to the source is passed through.
	state = sparseState(t, PlayerCircles,
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 0, 2),
		pieceAt("S_Ruby1", PieceRuby, PlayerSquares, 0, 1),
	)
	res = Validate(state, Move{Type: MovePortalLine, Player: PlayerCircles, From: at(0, 2), To: at(0, -1)}, defs)
	expectAccepted(t, res)
}

func TestValidatePortalLineDisconnectedNetwork(t *testing.T) {
	// Custom geometry with two golden islands: no path exists at all, as
	// opposed to a path cut off by a piece.
	def := board.Definition{
		Intersections: []board.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 0}, {X: 6, Y: 0}},
		GoldenLinks: [][2]board.Coord{
			{{X: 0, Y: 0}, {X: 1, Y: 0}},
			{{X: 5, Y: 0}, {X: 6, Y: 0}},
		},
	}
	b, err := board.New(def)
	if err != nil {
		t.Fatalf("build board: %v", err)
	}
	b, err = b.WithPiece(at(0, 0), "C_Portal1")
	if err != nil {
		t.Fatalf("place portal: %v", err)
	}
	state := GameState{
		Board: b,
		Pieces: map[string]Piece{
			"C_Portal1": pieceAt("C_Portal1", PiecePortal, PlayerCircles, 0, 0),
		},
		CurrentPlayer: PlayerCircles,
		Phase:         PhaseGameplay,
	}

	defs := StandardPieceDefinitions()
	res := Validate(state, Move{Type: MovePortalLine, Player: PlayerCircles, From: at(0, 0), To: at(5, 0)}, defs)
	expectRejection(t, res, ReasonNoGoldenPath)
}

func TestValidatePortalPhasing(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, -3, 0),
		pieceAt("S_Pearl1", PiecePearl, PlayerSquares, -1, 0),
		pieceAt("S_Portal1", PiecePortal, PlayerSquares, 0, 0),
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 0, -2),
	)

	phase := func(from, to board.Coord) Move {
		return Move{Type: MovePortalPhasing, Player: PlayerCircles, From: from, To: to}
	}

	// The enemy Pearl at (-1,0) stops a gem ray cold.
	expectRejection(t, Validate(state, phase(at(-3, 0), at(1, 0)), defs), ReasonRayBlocked)
	// A ray ending just before the blocker is fine.
	expectAccepted(t, Validate(state, phase(at(-3, 0), at(-2, 0)), defs))
	// Along the clear diagonal, the gem phases freely.
	expectAccepted(t, Validate(state, phase(at(-3, 0), at(0, 3)), defs))
	expectRejection(t, Validate(state, phase(at(-3, 0), at(-1, 3)), defs), ReasonNotOnRay)

	// Portal movers pass through everything but must land golden:
	// (0,-2) -> (0,1) passes the enemy Pearl's row and the enemy Portal.
	expectAccepted(t, Validate(state, phase(at(0, -2), at(0, 1)), defs))
	expectRejection(t, Validate(state, phase(at(0, -2), at(1, -2)), defs), ReasonPortalGoldenOnly)
}

func TestValidatePortalPhasingGemPassesPortals(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Jade1", PieceJade, PlayerCircles, -2, 0),
		pieceAt("S_Portal1", PiecePortal, PlayerSquares, 0, 0),
	)

	res := Validate(state, Move{Type: MovePortalPhasing, Player: PlayerCircles, From: at(-2, 0), To: at(2, 0)}, defs)
	expectAccepted(t, res)
}

func TestValidatePortalPhasingRayLeavesBoard(t *testing.T) {
	def := board.Definition{
		Intersections: []board.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}},
	}
	b, err := board.New(def)
	if err != nil {
		t.Fatalf("build board: %v", err)
	}
	b, err = b.WithPiece(at(0, 0), "C_Ruby1")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	state := GameState{
		Board: b,
		Pieces: map[string]Piece{
			"C_Ruby1": pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 0, 0),
		},
		CurrentPlayer: PlayerCircles,
		Phase:         PhaseGameplay,
	}

	defs := StandardPieceDefinitions()
	res := Validate(state, Move{Type: MovePortalPhasing, Player: PlayerCircles, From: at(0, 0), To: at(2, 0)}, defs)
	expectRejection(t, res, ReasonRayLeavesBoard)
}

func TestValidateNexusMove(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 0, 0),
		pieceAt("C_Amber1", PieceAmber, PlayerCircles, 1, 0),
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 1, 1),
		pieceAt("C_Jade1", PieceJade, PlayerCircles, 4, 1),
	)

	nexus := func(from, to board.Coord) Move {
		return Move{Type: MoveNexus, Player: PlayerCircles, From: from, To: to}
	}

	// Ruby sits next to the Pearl+Amber pair and may relocate to any empty
	// intersection adjacent to it.
	expectAccepted(t, Validate(state, nexus(at(1, 1), at(0, -1)), defs))
	expectRejection(t, Validate(state, nexus(at(1, 1), at(3, 1)), defs), ReasonTargetNotNearNexus)
	expectRejection(t, Validate(state, nexus(at(4, 1), at(0, -1)), defs), ReasonSourceNotNearNexus)
	expectRejection(t, Validate(state, nexus(at(1, 1), at(1, 0)), defs), ReasonDestinationOccupied)
}

func TestValidateNexusMovePortalStaysGolden(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 2, 1),
		pieceAt("C_Amber1", PieceAmber, PlayerCircles, 2, 2),
		pieceAt("C_Portal1", PiecePortal, PlayerCircles, 1, 1),
	)

	nexus := func(from, to board.Coord) Move {
		return Move{Type: MoveNexus, Player: PlayerCircles, From: from, To: to}
	}

	// (1,2) sits next to the Pearl+Amber pair but off the golden lines;
	// the Portal may only relocate along them.
	expectRejection(t, Validate(state, nexus(at(1, 1), at(1, 2)), defs), ReasonPortalGoldenOnly)
	expectAccepted(t, Validate(state, nexus(at(1, 1), at(3, 3)), defs))
}

func TestValidateNexusWithoutFormation(t *testing.T) {
	defs := StandardPieceDefinitions()
	state := sparseState(t, PlayerCircles,
		pieceAt("C_Pearl1", PiecePearl, PlayerCircles, 0, 0),
		pieceAt("C_Ruby1", PieceRuby, PlayerCircles, 1, 1),
	)

	res := Validate(state, Move{Type: MoveNexus, Player: PlayerCircles, From: at(1, 1), To: at(0, 1)}, defs)
	expectRejection(t, res, ReasonNoNexusFormation)
}
