package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/amalgamgame/amalgam-server-go/internal/game/board"
	"github.com/amalgamgame/amalgam-server-go/internal/game/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is pushed to UI/websocket clients when a game changes.
type Notification struct {
	Type      string // e.g. "MOVE_APPLIED", "GAME_OVER"
	GameID    string
	PlayerID  string // target player, empty for broadcast
	Timestamp time.Time
	Data      map[string]interface{}
}

// NotificationHandler receives engine notifications.
type NotificationHandler func(n Notification)

// Engine hosts one authoritative game state per session and serializes
// move processing per game. The rules kernel itself is silent and pure;
// all logging and notification fan-out happens here.
type Engine struct {
	logger *zap.Logger

	mu    sync.RWMutex
	games map[string]*gameSession

	notifyMu sync.RWMutex
	notify   NotificationHandler

	boardDef  board.Definition
	pieceDefs rules.PieceDefinitions
}

type gameSession struct {
	// mu serializes moves within one game. Cross-game calls never
	// contend: each session carries its own lock.
	mu        sync.Mutex
	id        string
	state     rules.GameState
	defs      rules.PieceDefinitions
	createdAt time.Time
}

// NewEngine creates an engine that starts games on the given geometry and
// piece definitions.
func NewEngine(def board.Definition, defs rules.PieceDefinitions, logger *zap.Logger) *Engine {
	return &Engine{
		logger:    logger,
		games:     make(map[string]*gameSession),
		boardDef:  def,
		pieceDefs: defs,
	}
}

// SetNotificationHandler installs the handler used for game updates.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.notify = handler
}

func (e *Engine) emit(n Notification) {
	e.notifyMu.RLock()
	handler := e.notify
	e.notifyMu.RUnlock()
	if handler != nil {
		n.Timestamp = time.Now()
		handler(n)
	}
}

// CreateGame starts a new game and returns its id.
func (e *Engine) CreateGame() (string, error) {
	state, err := rules.NewInitialState(e.boardDef, e.pieceDefs)
	if err != nil {
		return "", fmt.Errorf("create initial state: %w", err)
	}

	gameID := uuid.NewString()
	sess := &gameSession{
		id:        gameID,
		state:     state,
		defs:      e.pieceDefs,
		createdAt: time.Now(),
	}

	e.mu.Lock()
	e.games[gameID] = sess
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("game created",
			zap.String("game_id", gameID),
			zap.String("first_player", string(state.CurrentPlayer)),
		)
	}
	return gameID, nil
}

// ErrGameNotFound is returned for operations on unknown game ids.
var ErrGameNotFound = fmt.Errorf("game not found")

func (e *Engine) session(gameID string) (*gameSession, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	sess, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return sess, nil
}

// SubmitMove validates and applies a move against a game. Rule
// violations come back inside the MoveResult; an error means an unknown
// game or an engine invariant failure.
func (e *Engine) SubmitMove(gameID string, move rules.Move) (rules.MoveResult, error) {
	sess, err := e.session(gameID)
	if err != nil {
		return rules.MoveResult{}, err
	}

	sess.mu.Lock()
	result, err := rules.ApplyMove(sess.state, move, sess.defs)
	if err != nil {
		sess.mu.Unlock()
		if e.logger != nil {
			e.logger.Error("move application invariant failure",
				zap.String("game_id", gameID),
				zap.String("move_type", string(move.Type)),
				zap.Error(err),
			)
		}
		return rules.MoveResult{}, err
	}

	if !result.Valid {
		sess.mu.Unlock()
		if e.logger != nil {
			e.logger.Debug("move rejected",
				zap.String("game_id", gameID),
				zap.String("player", string(move.Player)),
				zap.String("move_type", string(move.Type)),
				zap.String("reason", result.Reason),
			)
		}
		return result, nil
	}

	sess.state = result.NextState
	// Release before emitting: notification handlers may call back into
	// the engine for a fresh view.
	sess.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("move applied",
			zap.String("game_id", gameID),
			zap.String("player", string(move.Player)),
			zap.String("move_type", string(move.Type)),
			zap.Int("destroyed", len(result.Outcome.DestroyedPieceIDs)),
			zap.Int("abilities", len(result.Outcome.Abilities)),
		)
	}

	e.emit(Notification{
		Type:   "MOVE_APPLIED",
		GameID: gameID,
		Data: map[string]interface{}{
			"move":      move,
			"destroyed": result.Outcome.DestroyedPieceIDs,
		},
	})

	if result.NextState.Decided() {
		if e.logger != nil {
			e.logger.Info("game decided",
				zap.String("game_id", gameID),
				zap.String("winner", string(result.NextState.Winner)),
				zap.String("victory_type", string(result.NextState.Victory)),
			)
		}
		e.emit(Notification{
			Type:   "GAME_OVER",
			GameID: gameID,
			Data: map[string]interface{}{
				"winner":       result.NextState.Winner,
				"victory_type": result.NextState.Victory,
			},
		})
	}

	return result, nil
}

// ValidateMove checks a move without applying it.
func (e *Engine) ValidateMove(gameID string, move rules.Move) (rules.ValidationResult, error) {
	sess, err := e.session(gameID)
	if err != nil {
		return rules.ValidationResult{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return rules.Validate(sess.state, move, sess.defs), nil
}

// LegalMoves enumerates the legal moves for a player.
func (e *Engine) LegalMoves(gameID string, player rules.PlayerID) ([]rules.Move, error) {
	sess, err := e.session(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return rules.LegalMoves(sess.state, player, sess.defs), nil
}

// GameView returns a snapshot view of a game.
func (e *Engine) GameView(gameID string) (View, error) {
	sess, err := e.session(gameID)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return buildView(gameID, sess.state), nil
}

// State returns the current authoritative snapshot; the returned value is
// immutable and safe to hold.
func (e *Engine) State(gameID string) (rules.GameState, error) {
	sess, err := e.session(gameID)
	if err != nil {
		return rules.GameState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}

// EndGame removes a game from the engine and returns its final snapshot.
func (e *Engine) EndGame(gameID string) (rules.GameState, error) {
	e.mu.Lock()
	sess, ok := e.games[gameID]
	if ok {
		delete(e.games, gameID)
	}
	e.mu.Unlock()

	if !ok {
		return rules.GameState{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	sess.mu.Lock()
	final := sess.state
	sess.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("game ended",
			zap.String("game_id", gameID),
			zap.String("winner", string(final.Winner)),
		)
	}
	return final, nil
}

// ActiveGames returns the ids of all hosted games.
func (e *Engine) ActiveGames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.games))
	for id := range e.games {
		out = append(out, id)
	}
	return out
}
