// Partynight Game Session
//
// Every $path/:gameid is one run through the evening's three stages: the
// matching board, the password gate and the sequencing puzzle. The game
// itself lives in package games; this file hosts it.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Any number of browsers may watch and play the same game (host screen plus phones)
// - One goroutine per game applies commands, clock ticks and alert expiry in order
// - Players identified by cookie (playerID)
// - Errors are sent only to the client that caused them
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/partynight/games"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`               // "select", "continue", "submit_password", "pick", "retry", "restart"
	Side     string `json:"side,omitempty"`     // select: "avatar" or "icon"
	Item     string `json:"item,omitempty"`     // select / pick
	Password string `json:"password,omitempty"` // submit_password
}

// StateMessage carries the full game view after every change.
type StateMessage struct {
	Type    string         `json:"type"` // "state"
	Session string         `json:"session"`
	Viewers int            `json:"viewers"`
	Outcome string         `json:"outcome,omitempty"` // what the last command did, if this follows one
	State   games.Snapshot `json:"state"`
}

// SimpleMessage is for generic notifications ("error").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type commandRequest struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id    string
	cfg   *Config
	clock games.Clock
	game  *games.Game

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	commands chan commandRequest
	quit     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newHub(cfg *Config, gameID string, clock games.Clock) *Hub {
	now := clock.Now()
	return &Hub{
		id:    gameID,
		cfg:   cfg,
		clock: clock,
		game: games.NewGame(games.Options{
			Clock:         clock,
			MismatchAlert: cfg.mismatchAlert,
			PasswordAlert: cfg.passwordAlert,
		}),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		commands:   make(chan commandRequest),
		quit:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

// run owns the game and the client set. Nothing else touches either.
func (h *Hub) run() {
	ticker := time.NewTicker(h.cfg.tick())
	defer ticker.Stop()

	var expiry <-chan time.Time

	for {
		select {
		case <-h.quit:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
				if c.conn != nil {
					_ = c.conn.Close()
				}
			}
			return

		case c := <-h.register:
			h.touch()
			h.clients[c] = true
			h.broadcast("")

		case c := <-h.unreg:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.broadcast("")

		case req := <-h.commands:
			h.touch()
			stage := h.game.Stage()

			// A new stage instance counts its first second from now.
			outcome := h.handleCommand(req)
			if outcome == games.OutcomeRestarted || outcome == games.OutcomeAdvanced || h.game.Stage() != stage {
				ticker.Reset(h.cfg.tick())
			}

			expiry = h.nextExpiry()

		case <-ticker.C:
			if h.game.Tick() {
				h.broadcast("")
			}

		case <-expiry:
			expiry = h.nextExpiry()
			h.broadcast("")
		}
	}
}

// stop ends run; safe to call more than once.
func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.quit)
	})
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = h.clock.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastActive
}

func (h *Hub) nextExpiry() <-chan time.Time {
	now := h.clock.Now()

	at, ok := h.game.NextExpiry(now)
	if !ok {
		return nil
	}

	return time.After(at.Sub(now))
}

func toCommand(m ClientMessage) (games.Command, error) {
	cmd := games.Command{
		Type:     games.CommandType(m.Type),
		ItemID:   m.Item,
		Password: m.Password,
	}

	if cmd.Type == games.CmdSelect {
		side, err := games.ParseSide(m.Side)
		if err != nil {
			return games.Command{}, err
		}
		cmd.Side = side
	}

	return cmd, nil
}

// handleCommand applies one client command and returns its outcome. Bad
// input is reported only to the sender; everything else is broadcast.
func (h *Hub) handleCommand(req commandRequest) games.Outcome {
	cmd, err := toCommand(req.msg)
	if err == nil {
		var outcome games.Outcome

		outcome, err = h.game.Apply(cmd)
		if err == nil {
			log.Info().
				Str("session", h.id).
				Str("command", string(cmd.Type)).
				Str("outcome", string(outcome)).
				Str("stage", string(h.game.Stage())).
				Msg("GAMES: command applied")

			if outcome == games.OutcomeWon && h.game.Finished() {
				logf(h.cfg, "GAMES: %s cleared every stage", h.id)
			}

			h.broadcast(outcome)

			return outcome
		}
	}

	h.sendTo(req.client, SimpleMessage{
		Type:    "error",
		Message: err.Error(),
	})

	return games.OutcomeIgnored
}

func (h *Hub) sendTo(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(outcome games.Outcome) {
	msg := StateMessage{
		Type:    "state",
		Session: h.id,
		Viewers: len(h.clients),
		Outcome: string(outcome),
		State:   h.game.Snapshot(h.clock.Now()),
	}

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "partynight_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	cfg         *Config
	hubs        map[string]*Hub
	idleTimeout time.Duration
}

func newGameManager(ctx context.Context, cfg *Config) *GameManager {
	gm := &GameManager{
		cfg:         cfg,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
	}
	go gm.reaperLoop(ctx)
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gameID, games.SystemClock)
	gm.hubs[gameID] = hub
	go hub.run()
	return hub
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.hubs)
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap stops and forgets hubs idle since before now minus idleTimeout.
func (gm *GameManager) reap(now time.Time) {
	cutoff := now.Add(-gm.idleTimeout)

	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(gm.hubs, id)
			hub.stop()
			logf(gm.cfg, "GAMES: Reaped idle game %s", id)
		}
	}
}

func (gm *GameManager) stopAll() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.stop()
	}
}

// reaperLoop periodically removes idle hubs, and all of them once ctx ends.
func (gm *GameManager) reaperLoop(ctx context.Context) {
	if gm.idleTimeout <= 0 {
		<-ctx.Done()
		gm.stopAll()
		return
	}

	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			gm.stopAll()
			return
		case now := <-ticker.C:
			gm.reap(now)
		}
	}
}

func validGameID(id string) bool {
	if id == "" || len(id) > 32 {
		return false
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(errors.Wrap(err, "upgrade")).Str("session", gameID).Str("client", realIP(r)).Msg("SERVE: websocket refused")
			return
		}

		// The server's read/write timeouts still apply to the hijacked connection.
		_ = conn.NetConn().SetDeadline(time.Time{})

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: Player %s joined %s from %s", playerID, gameID, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.quit:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.commands <- commandRequest{client: c, msg: msg}:
		case <-h.quit:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if !validGameID(gameID) {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		page, err := assets.ReadFile("assets/index.html")
		if err != nil {
			http.Error(w, "page missing", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write(page)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerPartyGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerPartyGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router) *GameManager {
	gm := newGameManager(ctx, cfg)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}
