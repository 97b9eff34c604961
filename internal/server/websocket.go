package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/amalgamgame/amalgam-server-go/internal/auth"
	"github.com/amalgamgame/amalgam-server-go/internal/config"
	"github.com/amalgamgame/amalgam-server-go/internal/game"
	"github.com/amalgamgame/amalgam-server-go/internal/game/rules"
	"github.com/amalgamgame/amalgam-server-go/internal/repository"
	"github.com/amalgamgame/amalgam-server-go/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server is the WebSocket front end: it upgrades connections, tracks
// which clients watch which game and relays kernel results verbatim.
// All game logic stays in the engine; rejections from the rules kernel
// are forwarded to the submitting client, never dropped.
type Server struct {
	cfg        config.ServerConfig
	authCfg    config.AuthConfig
	logger     *zap.Logger
	sessionMgr *session.Manager
	engine     *game.Engine
	matches    *repository.MatchRepository // nil when archiving disabled

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]bool
}

// New creates the WebSocket server. matches may be nil.
func New(
	cfg config.ServerConfig,
	authCfg config.AuthConfig,
	sessionMgr *session.Manager,
	engine *game.Engine,
	matches *repository.MatchRepository,
	logger *zap.Logger,
) *Server {
	s := &Server{
		cfg:        cfg,
		authCfg:    authCfg,
		logger:     logger,
		sessionMgr: sessionMgr,
		engine:     engine,
		matches:    matches,
		clients:    make(map[*client]bool),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	engine.SetNotificationHandler(s.handleNotification)
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.WebSocket.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.WebSocket.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Start serves the /ws endpoint until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)

	httpServer := &http.Server{
		Addr:    s.cfg.WebSocket.Address,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("websocket server listening", zap.String("address", s.cfg.WebSocket.Address))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	gameID    string
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	go c.writePump()
	go s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.dropClient(c)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendTo(c, errorMessage("malformed message"))
			continue
		}
		s.handleMessage(c, msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()

	if c.sessionID != "" {
		s.sessionMgr.Remove(c.sessionID)
	}
}

func (s *Server) sendTo(c *client, msg serverMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode server message", zap.Error(err))
		return
	}
	select {
	case c.send <- raw:
	default:
		// Slow consumer; the write pump will notice the closed socket.
	}
}

func (s *Server) broadcastToGame(gameID string, msg serverMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode broadcast message", zap.Error(err))
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		if c.gameID != gameID {
			continue
		}
		select {
		case c.send <- raw:
		default:
		}
	}
}

func (s *Server) handleMessage(c *client, msg clientMessage) {
	switch msg.Type {
	case msgConnect:
		s.handleConnect(c, msg)
	case msgCreateGame:
		s.handleCreateGame(c, msg)
	case msgJoinGame:
		s.handleJoinGame(c, msg)
	case msgMove:
		s.handleMove(c, msg)
	case msgLegalMoves:
		s.handleLegalMoves(c, msg)
	case msgGameState:
		s.handleGameState(c, msg)
	case msgEndGame:
		s.handleEndGame(c, msg)
	case msgRecent:
		s.handleRecentMatches(c, msg)
	default:
		s.sendTo(c, errorMessage("unknown message type"))
	}
}

func (s *Server) handleConnect(c *client, msg clientMessage) {
	name := strings.TrimSpace(msg.PlayerName)
	if name == "" {
		s.sendTo(c, errorMessage("player_name is required"))
		return
	}
	if s.sessionMgr.Count() >= s.cfg.MaxSessions {
		s.sendTo(c, errorMessage("server is full"))
		return
	}

	admin := msg.AdminPassword != "" && auth.CheckPassword(s.authCfg.AdminPasswordHash, msg.AdminPassword)
	sess := s.sessionMgr.Create(name, admin)
	c.sessionID = sess.ID

	s.sendTo(c, serverMessage{Type: msgConnected, SessionID: sess.ID})
}

// requireSession resolves the client's session, replying with an error
// when it is missing or expired.
func (s *Server) requireSession(c *client, msg clientMessage) (*session.Session, bool) {
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = c.sessionID
	}
	sess, ok := s.sessionMgr.Get(sessionID)
	if !ok {
		s.sendTo(c, errorMessage("session not found"))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateGame(c *client, msg clientMessage) {
	sess, ok := s.requireSession(c, msg)
	if !ok {
		return
	}

	gameID, err := s.engine.CreateGame()
	if err != nil {
		s.logger.Error("create game failed", zap.Error(err))
		s.sendTo(c, errorMessage("could not create game"))
		return
	}

	c.gameID = gameID
	s.sessionMgr.BindGame(sess.ID, gameID)

	view, err := s.engine.GameView(gameID)
	if err != nil {
		s.sendTo(c, errorMessage(err.Error()))
		return
	}
	s.sendTo(c, serverMessage{Type: msgGameCreated, GameID: gameID, View: &view})
}

func (s *Server) handleJoinGame(c *client, msg clientMessage) {
	sess, ok := s.requireSession(c, msg)
	if !ok {
		return
	}
	view, err := s.engine.GameView(msg.GameID)
	if err != nil {
		s.sendTo(c, errorMessage("game not found"))
		return
	}

	c.gameID = msg.GameID
	s.sessionMgr.BindGame(sess.ID, msg.GameID)
	s.sendTo(c, serverMessage{Type: msgGameJoined, GameID: msg.GameID, View: &view})
}

func (s *Server) handleMove(c *client, msg clientMessage) {
	if _, ok := s.requireSession(c, msg); !ok {
		return
	}
	if msg.Move == nil {
		s.sendTo(c, errorMessage("move is required"))
		return
	}
	gameID := msg.GameID
	if gameID == "" {
		gameID = c.gameID
	}

	result, err := s.engine.SubmitMove(gameID, *msg.Move)
	if err != nil {
		s.sendTo(c, errorMessage(err.Error()))
		return
	}

	valid := result.Valid
	reply := serverMessage{
		Type:   msgMoveResult,
		GameID: gameID,
		Valid:  &valid,
		Reason: result.Reason,
	}
	if result.Valid {
		reply.Destroyed = result.Outcome.DestroyedPieceIDs
		reply.Abilities = result.Outcome.Abilities
	}
	s.sendTo(c, reply)

	if !result.Valid {
		return
	}

	// State updates reach watchers through the engine notification
	// relay; only the terminal result is broadcast here.
	if result.NextState.Decided() {
		s.broadcastToGame(gameID, serverMessage{
			Type:    msgGameOver,
			GameID:  gameID,
			Winner:  string(result.NextState.Winner),
			Victory: string(result.NextState.Victory),
		})
		s.archiveMatch(gameID, result.NextState)
	}
}

func (s *Server) handleLegalMoves(c *client, msg clientMessage) {
	if _, ok := s.requireSession(c, msg); !ok {
		return
	}
	gameID := msg.GameID
	if gameID == "" {
		gameID = c.gameID
	}

	moves, err := s.engine.LegalMoves(gameID, rules.PlayerID(msg.Player))
	if err != nil {
		s.sendTo(c, errorMessage(err.Error()))
		return
	}
	s.sendTo(c, serverMessage{Type: msgLegalList, GameID: gameID, Moves: moves})
}

func (s *Server) handleGameState(c *client, msg clientMessage) {
	if _, ok := s.requireSession(c, msg); !ok {
		return
	}
	gameID := msg.GameID
	if gameID == "" {
		gameID = c.gameID
	}
	view, err := s.engine.GameView(gameID)
	if err != nil {
		s.sendTo(c, errorMessage(err.Error()))
		return
	}
	s.sendTo(c, serverMessage{Type: msgStateUpdate, GameID: gameID, View: &view})
}

func (s *Server) handleEndGame(c *client, msg clientMessage) {
	sess, ok := s.requireSession(c, msg)
	if !ok {
		return
	}
	if !sess.Admin {
		s.sendTo(c, errorMessage("admin session required"))
		return
	}

	final, err := s.engine.EndGame(msg.GameID)
	if err != nil {
		s.sendTo(c, errorMessage(err.Error()))
		return
	}

	s.broadcastToGame(msg.GameID, serverMessage{
		Type:    msgGameOver,
		GameID:  msg.GameID,
		Winner:  string(final.Winner),
		Victory: string(final.Victory),
	})
	if final.Decided() {
		s.archiveMatch(msg.GameID, final)
	}
}

func (s *Server) handleRecentMatches(c *client, msg clientMessage) {
	if _, ok := s.requireSession(c, msg); !ok {
		return
	}
	if s.matches == nil {
		s.sendTo(c, errorMessage("match archive is not enabled"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	records, err := s.matches.RecentMatches(ctx, msg.Limit)
	if err != nil {
		s.logger.Warn("recent matches query failed", zap.Error(err))
		s.sendTo(c, errorMessage("could not load match history"))
		return
	}
	s.sendTo(c, serverMessage{Type: msgMatchList, Matches: records})
}

// archiveMatch persists a finished game. Failures are logged, not
// surfaced to players; archiving is best effort.
func (s *Server) archiveMatch(gameID string, final rules.GameState) {
	if s.matches == nil {
		return
	}
	rec := repository.MatchRecord{
		GameID:      gameID,
		Winner:      final.Winner,
		VictoryType: final.Victory,
		Moves:       final.History,
		FinishedAt:  time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.matches.SaveMatch(ctx, rec); err != nil {
			s.logger.Warn("archive match failed",
				zap.String("game_id", gameID),
				zap.Error(err),
			)
		}
	}()
}

// handleNotification relays engine notifications to game watchers.
func (s *Server) handleNotification(n game.Notification) {
	if n.Type != "GAME_OVER" && n.Type != "MOVE_APPLIED" {
		return
	}
	view, err := s.engine.GameView(n.GameID)
	if err != nil {
		return
	}
	s.broadcastToGame(n.GameID, serverMessage{Type: msgStateUpdate, GameID: n.GameID, View: &view})
}
