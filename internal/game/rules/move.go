package rules

import "github.com/amalgamgame/amalgam-server-go/internal/game/board"

// MoveType tags the seven move variants.
type MoveType string

const (
	MovePlace          MoveType = "place"
	MoveStandard       MoveType = "standard"
	MoveNexus          MoveType = "nexus"
	MovePortalSwap     MoveType = "portal_swap"
	MovePortalLine     MoveType = "portal_line"
	MovePortalStandard MoveType = "portal_standard"
	MovePortalPhasing  MoveType = "portal_phasing"
)

// Move is a single move request. Each variant uses the subset of fields
// it needs: place carries PieceID and To; the movement variants carry
// From and To; portal_swap's From is the friendly non-Portal piece and To
// the friendly Portal it exchanges with.
type Move struct {
	Type    MoveType    `json:"type"`
	Player  PlayerID    `json:"player"`
	PieceID string      `json:"piece_id,omitempty"`
	From    board.Coord `json:"from"`
	To      board.Coord `json:"to"`
}

// ValidationResult is the structured answer to "is this move legal".
// Illegal moves are expected, frequent, user-triggered input; they are
// never surfaced as errors.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func accepted() ValidationResult {
	return ValidationResult{Valid: true}
}

func rejected(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

// Rejection reasons. The validator returns these verbatim so callers and
// tests can match on them.
const (
	ReasonGameOver            = "game already decided"
	ReasonNotYourTurn         = "not your turn"
	ReasonUnknownPlayer       = "unknown player"
	ReasonMissingDefinitions  = "piece definitions unavailable"
	ReasonUnknownPieceID      = "unknown piece id"
	ReasonSetupOnly           = "only placements are allowed during setup"
	ReasonGameplayOnly        = "placements are not allowed during gameplay"
	ReasonNotYourPiece        = "piece does not belong to player"
	ReasonPieceAlreadyPlaced  = "piece already placed"
	ReasonPrePlacedPiece      = "pre-placed pieces cannot be placed"
	ReasonInvalidStartingArea = "invalid starting area position"
	ReasonPositionOccupied    = "position already occupied"
	ReasonInvalidPosition     = "position is not on the board"
	ReasonNoPieceAtSource     = "no piece at source position"
	ReasonDestinationOccupied = "destination position is occupied"
	ReasonNotAdjacent         = "destination is not adjacent to source"
	ReasonPortalGoldenOnly    = "Portal pieces can only move to golden line intersections"
	ReasonNoNexusFormation    = "no nexus formation available"
	ReasonSourceNotNearNexus  = "source is not adjacent to a nexus formation"
	ReasonTargetNotNearNexus  = "destination is not adjacent to a nexus formation"
	ReasonSwapSourceIsPortal  = "portal swap source must not be a Portal"
	ReasonSwapSourceNotGolden = "portal swap source must stand on a golden line intersection"
	ReasonSwapTargetNotPortal = "portal swap target must be a friendly Portal"
	ReasonPortalOnly          = "only Portal pieces can make this move"
	ReasonNotOnGoldenLine     = "source is not on a golden line intersection"
	ReasonGoldenPathBlocked   = "golden line path is blocked"
	ReasonNoGoldenPath        = "no golden line path to destination"
	ReasonNotOnRay            = "destination is not on a straight line from source"
	ReasonRayBlocked          = "path is blocked by a piece"
	ReasonRayLeavesBoard      = "path leaves the board"
	ReasonUnknownMove         = "unknown move type"
)
