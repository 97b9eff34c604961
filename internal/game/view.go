package game

import (
	"sort"

	"github.com/amalgamgame/amalgam-server-go/internal/game/rules"
)

// View is the wire-facing snapshot of a game.
type View struct {
	GameID        string         `json:"game_id"`
	Phase         string         `json:"phase"`
	SetupTurn     int            `json:"setup_turn,omitempty"`
	CurrentPlayer string         `json:"current_player"`
	Winner        string         `json:"winner,omitempty"`
	VictoryType   string         `json:"victory_type,omitempty"`
	Pieces        []PieceView    `json:"pieces"`
	MoveCount     int            `json:"move_count"`
	LastMove      *rules.Move    `json:"last_move,omitempty"`
}

// PieceView is one piece in a View.
type PieceView struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Owner     string `json:"owner"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	PrePlaced bool   `json:"pre_placed,omitempty"`
}

func buildView(gameID string, state rules.GameState) View {
	view := View{
		GameID:        gameID,
		Phase:         string(state.Phase),
		CurrentPlayer: string(state.CurrentPlayer),
		Winner:        string(state.Winner),
		VictoryType:   string(state.Victory),
		MoveCount:     len(state.History),
	}
	if state.Phase == rules.PhaseSetup {
		view.SetupTurn = state.SetupTurn
	}
	if n := len(state.History); n > 0 {
		last := state.History[n-1]
		view.LastMove = &last
	}

	for _, p := range state.Pieces {
		view.Pieces = append(view.Pieces, PieceView{
			ID:        p.ID,
			Type:      string(p.Type),
			Owner:     string(p.Owner),
			X:         p.Coords.X,
			Y:         p.Coords.Y,
			PrePlaced: p.PrePlaced,
		})
	}
	sort.Slice(view.Pieces, func(i, j int) bool { return view.Pieces[i].ID < view.Pieces[j].ID })

	return view
}
