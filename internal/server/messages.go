package server

import (
	"github.com/amalgamgame/amalgam-server-go/internal/game"
	"github.com/amalgamgame/amalgam-server-go/internal/game/rules"
	"github.com/amalgamgame/amalgam-server-go/internal/repository"
)

// Client-to-server message types.
const (
	msgConnect    = "connect"
	msgCreateGame = "create_game"
	msgJoinGame   = "join_game"
	msgMove       = "move"
	msgLegalMoves = "legal_moves"
	msgGameState  = "game_state"
	msgEndGame    = "end_game"
	msgRecent     = "recent_matches"
)

// Server-to-client message types.
const (
	msgConnected   = "connected"
	msgGameCreated = "game_created"
	msgGameJoined  = "game_joined"
	msgMoveResult  = "move_result"
	msgLegalList   = "legal_moves"
	msgStateUpdate = "game_state"
	msgGameOver    = "game_over"
	msgMatchList   = "recent_matches"
	msgError       = "error"
)

// clientMessage is what clients send over the socket.
type clientMessage struct {
	Type          string      `json:"type"`
	SessionID     string      `json:"session_id,omitempty"`
	PlayerName    string      `json:"player_name,omitempty"`
	GameID        string      `json:"game_id,omitempty"`
	Player        string      `json:"player,omitempty"`
	Move          *rules.Move `json:"move,omitempty"`
	AdminPassword string      `json:"admin_password,omitempty"`
	Limit         int         `json:"limit,omitempty"`
}

// serverMessage is what the server sends back.
type serverMessage struct {
	Type      string                   `json:"type"`
	SessionID string                   `json:"session_id,omitempty"`
	GameID    string                   `json:"game_id,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Valid     *bool                    `json:"valid,omitempty"`
	Reason    string                   `json:"reason,omitempty"`
	View      *game.View               `json:"view,omitempty"`
	Moves     []rules.Move             `json:"moves,omitempty"`
	Destroyed []string                 `json:"destroyed,omitempty"`
	Abilities []rules.Formation        `json:"abilities,omitempty"`
	Winner    string                   `json:"winner,omitempty"`
	Victory   string                   `json:"victory_type,omitempty"`
	Matches   []repository.MatchRecord `json:"matches,omitempty"`
}

func errorMessage(text string) serverMessage {
	return serverMessage{Type: msgError, Error: text}
}
