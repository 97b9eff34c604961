package rules

import "errors"

// Invariant-violation errors. These indicate a caller bug (applying a
// move that was never validated, or state that lost a piece the board
// still references) and are returned loudly instead of being folded into
// rule rejections.
var (
	ErrUnknownPiece     = errors.New("piece id not present in registry")
	ErrUnknownMoveType  = errors.New("unknown move type")
	ErrBoardMismatch    = errors.New("board occupancy disagrees with piece registry")
	ErrMissingPieceDefs = errors.New("piece definitions missing for player")
)
