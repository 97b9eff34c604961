package rules

import (
	"fmt"
	"sort"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
)

// GameState is an immutable snapshot of one game. Every transition
// produces a new value; holders of older snapshots keep a consistent
// view. The zero value is not usable; build one with NewInitialState.
type GameState struct {
	Board         board.Board
	Pieces        map[string]Piece // piece id -> piece; treated as read-only
	CurrentPlayer PlayerID
	Phase         Phase
	SetupTurn     int // 1..SetupTurns during setup
	History       []Move
	Winner        PlayerID    // empty while undecided
	Victory       VictoryType // empty while undecided

	// startingAreas is immutable geometry resolved at game start and
	// shared across snapshots.
	startingAreas map[PlayerID][]board.Coord
}

// NewInitialState builds the game-start snapshot: pre-placed pieces on
// the board, setup phase at turn 1, the designated setup player to move.
func NewInitialState(def board.Definition, defs PieceDefinitions) (GameState, error) {
	b, err := board.New(def)
	if err != nil {
		return GameState{}, fmt.Errorf("build board: %w", err)
	}

	state := GameState{
		Board:         b,
		Pieces:        make(map[string]Piece),
		CurrentPlayer: FirstSetupPlayer,
		Phase:         PhaseSetup,
		SetupTurn:     1,
		startingAreas: map[PlayerID][]board.Coord{
			PlayerCircles: append([]board.Coord(nil), def.CirclesStartingArea...),
			PlayerSquares: append([]board.Coord(nil), def.SquaresStartingArea...),
		},
	}

	for _, player := range []PlayerID{PlayerCircles, PlayerSquares} {
		table, ok := defs.ForPlayer(player)
		if !ok {
			return GameState{}, fmt.Errorf("%w: %s", ErrMissingPieceDefs, player)
		}
		for _, id := range sortedIDs(table) {
			pieceDef := table[id]
			if !pieceDef.PrePlaced {
				continue
			}
			b, err = b.WithPiece(pieceDef.StartCoords, id)
			if err != nil {
				return GameState{}, fmt.Errorf("pre-place %s: %w", id, err)
			}
			state.Pieces[id] = Piece{
				ID:        id,
				Type:      pieceDef.Type,
				Owner:     player,
				Coords:    pieceDef.StartCoords,
				PrePlaced: true,
			}
		}
	}
	state.Board = b

	return state, nil
}

// Decided reports whether the game already has a winner.
func (s GameState) Decided() bool {
	return s.Winner != ""
}

// PieceByID looks up a piece in the registry.
func (s GameState) PieceByID(id string) (Piece, bool) {
	p, ok := s.Pieces[id]
	return p, ok
}

// PieceAt resolves the piece standing on c, if any.
func (s GameState) PieceAt(c board.Coord) (Piece, bool) {
	id, ok := s.Board.PieceAt(c)
	if !ok {
		return Piece{}, false
	}
	p, ok := s.Pieces[id]
	return p, ok
}

// PiecesOf returns a player's surviving pieces sorted by id, so every
// enumeration over them is deterministic.
func (s GameState) PiecesOf(player PlayerID) []Piece {
	var out []Piece
	for _, p := range s.Pieces {
		if p.Owner == player {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// clone copies the mutable members so the successor state shares nothing
// with its predecessor. The board is a value type with copy-on-write
// occupancy and needs no help here.
func (s GameState) clone() GameState {
	next := s
	next.Pieces = make(map[string]Piece, len(s.Pieces))
	for id, p := range s.Pieces {
		next.Pieces[id] = p
	}
	next.History = make([]Move, len(s.History), len(s.History)+1)
	copy(next.History, s.History)
	return next
}

// startingArea returns the player's setup placement coordinates. The
// returned slice is shared, read-only geometry.
func (s GameState) startingArea(player PlayerID) []board.Coord {
	return s.startingAreas[player]
}

func sortedIDs(table PieceDefinitionTable) []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
