package game

import (
	"fmt"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
	"github.com/amalgamgame/amalgam-server-go/internal/game/rules"
)

// Replay steps through the successive snapshots of a game, reconstructed
// by reapplying its move history from the initial state. Snapshots are
// immutable, so the replay holds them directly with no copying.
type Replay struct {
	GameID string

	states []rules.GameState
	index  int
}

// NewReplay rebuilds every state of a game from its recorded moves. An
// error means the history is corrupt: a recorded move no longer validates
// against the state it was recorded on.
func NewReplay(gameID string, def board.Definition, defs rules.PieceDefinitions, moves []rules.Move) (*Replay, error) {
	state, err := rules.NewInitialState(def, defs)
	if err != nil {
		return nil, fmt.Errorf("replay initial state: %w", err)
	}

	states := make([]rules.GameState, 0, len(moves)+1)
	states = append(states, state)
	for i, mv := range moves {
		result, err := rules.ApplyMove(state, mv, defs)
		if err != nil {
			return nil, fmt.Errorf("replay move %d: %w", i, err)
		}
		if !result.Valid {
			return nil, fmt.Errorf("replay move %d (%s) rejected: %s", i, mv.Type, result.Reason)
		}
		state = result.NextState
		states = append(states, state)
	}

	return &Replay{GameID: gameID, states: states}, nil
}

// Size returns the number of snapshots, one more than the move count.
func (r *Replay) Size() int {
	return len(r.states)
}

// Start rewinds to the initial state and returns it.
func (r *Replay) Start() rules.GameState {
	r.index = 0
	return r.states[0]
}

// Next advances one snapshot. ok is false at the end of the game.
func (r *Replay) Next() (rules.GameState, bool) {
	if r.index+1 >= len(r.states) {
		return rules.GameState{}, false
	}
	r.index++
	return r.states[r.index], true
}

// Previous steps one snapshot back. ok is false at the initial state.
func (r *Replay) Previous() (rules.GameState, bool) {
	if r.index == 0 {
		return rules.GameState{}, false
	}
	r.index--
	return r.states[r.index], true
}

// Skip jumps forward or backward by count snapshots, clamped to the
// recorded range, and returns the state landed on.
func (r *Replay) Skip(count int) rules.GameState {
	r.index += count
	if r.index < 0 {
		r.index = 0
	}
	if r.index >= len(r.states) {
		r.index = len(r.states) - 1
	}
	return r.states[r.index]
}

// StateAt returns the snapshot after the first n moves.
func (r *Replay) StateAt(n int) (rules.GameState, bool) {
	if n < 0 || n >= len(r.states) {
		return rules.GameState{}, false
	}
	return r.states[n], true
}

// Final returns the last snapshot.
func (r *Replay) Final() rules.GameState {
	return r.states[len(r.states)-1]
}

// ReplayGame rebuilds the full replay of a hosted game from its history.
func (e *Engine) ReplayGame(gameID string) (*Replay, error) {
	sess, err := e.session(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	history := sess.state.History
	sess.mu.Unlock()

	return NewReplay(gameID, e.boardDef, e.pieceDefs, history)
}
