package rules

import (
	"fmt"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
)

// PlayerID identifies one of the two sides.
type PlayerID string

const (
	PlayerCircles PlayerID = "circles"
	PlayerSquares PlayerID = "squares"
)

// Opponent returns the other side.
func (p PlayerID) Opponent() PlayerID {
	if p == PlayerCircles {
		return PlayerSquares
	}
	return PlayerCircles
}

// Valid reports whether p is one of the two known players.
func (p PlayerID) Valid() bool {
	return p == PlayerCircles || p == PlayerSquares
}

// PieceType is one of the seven piece types.
type PieceType string

const (
	PieceRuby    PieceType = "ruby"
	PiecePearl   PieceType = "pearl"
	PieceAmber   PieceType = "amber"
	PieceJade    PieceType = "jade"
	PieceAmalgam PieceType = "amalgam"
	PiecePortal  PieceType = "portal"
	PieceVoid    PieceType = "void"
)

// IsGem reports whether t is one of the four gem types. Amalgam, Portal
// and Void are not gems for elimination purposes.
func (t PieceType) IsGem() bool {
	switch t {
	case PieceRuby, PiecePearl, PieceAmber, PieceJade:
		return true
	default:
		return false
	}
}

// Phase is the game phase: alternating setup placements, then gameplay.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseGameplay Phase = "gameplay"
)

// VictoryType records how a game was won.
type VictoryType string

const (
	VictoryObjective   VictoryType = "objective"
	VictoryElimination VictoryType = "elimination"
)

// SetupTurns is the number of alternating placement turns before gameplay
// begins (eight placements per player).
const SetupTurns = 16

// FirstSetupPlayer places first during setup.
const FirstSetupPlayer = PlayerSquares

// FirstGameplayPlayer moves first once setup completes.
const FirstGameplayPlayer = PlayerCircles

// Piece is a piece instance on the board.
type Piece struct {
	ID        string
	Type      PieceType
	Owner     PlayerID
	Coords    board.Coord
	PrePlaced bool
}

// PieceDefinition describes one piece a player owns: its type, whether it
// starts on the board, and where (pre-placed pieces only).
type PieceDefinition struct {
	Type        PieceType
	PrePlaced   bool
	StartCoords board.Coord
}

// PieceDefinitionTable maps a player's piece ids to their definitions.
type PieceDefinitionTable map[string]PieceDefinition

// PieceDefinitions is the enum-indexed per-player definition lookup.
// Invalid player lookups are unrepresentable; piece-id misses surface as
// explicit rejections during validation.
type PieceDefinitions struct {
	Circles PieceDefinitionTable
	Squares PieceDefinitionTable
}

// ForPlayer returns the definition table for a player.
func (d PieceDefinitions) ForPlayer(p PlayerID) (PieceDefinitionTable, bool) {
	switch p {
	case PlayerCircles:
		return d.Circles, d.Circles != nil
	case PlayerSquares:
		return d.Squares, d.Squares != nil
	default:
		return nil, false
	}
}

// Lookup resolves a single piece definition.
func (d PieceDefinitions) Lookup(p PlayerID, pieceID string) (PieceDefinition, bool) {
	table, ok := d.ForPlayer(p)
	if !ok {
		return PieceDefinition{}, false
	}
	def, ok := table[pieceID]
	return def, ok
}

// AmalgamHome returns the fixed home coordinate of a player's pre-placed
// Amalgam. The opposing Void reaching this coordinate is the objective
// win condition.
func (d PieceDefinitions) AmalgamHome(p PlayerID) (board.Coord, bool) {
	table, ok := d.ForPlayer(p)
	if !ok {
		return board.Coord{}, false
	}
	for _, def := range table {
		if def.Type == PieceAmalgam && def.PrePlaced {
			return def.StartCoords, true
		}
	}
	return board.Coord{}, false
}

// StandardPieceDefinitions returns the canonical piece set for the
// standard board: per player two of each gem placed during setup, plus a
// pre-placed Amalgam, Void and two Portals. Ids are player-prefixed.
func StandardPieceDefinitions() PieceDefinitions {
	return PieceDefinitions{
		Circles: standardTable("C_", 1),
		Squares: standardTable("S_", -1),
	}
}

func standardTable(prefix string, side int) PieceDefinitionTable {
	table := PieceDefinitionTable{
		prefix + "Amalgam": {Type: PieceAmalgam, PrePlaced: true, StartCoords: board.Coord{X: 0, Y: 5 * side}},
		prefix + "Void":    {Type: PieceVoid, PrePlaced: true, StartCoords: board.Coord{X: 0, Y: 4 * side}},
		prefix + "Portal1": {Type: PiecePortal, PrePlaced: true, StartCoords: board.Coord{X: 2, Y: 2 * side}},
		prefix + "Portal2": {Type: PiecePortal, PrePlaced: true, StartCoords: board.Coord{X: -2, Y: 2 * side}},
	}
	gems := []struct {
		name string
		typ  PieceType
	}{
		{"Ruby", PieceRuby},
		{"Pearl", PiecePearl},
		{"Amber", PieceAmber},
		{"Jade", PieceJade},
	}
	for _, g := range gems {
		for i := 1; i <= 2; i++ {
			table[fmt.Sprintf("%s%s%d", prefix, g.name, i)] = PieceDefinition{Type: g.typ}
		}
	}
	return table
}
