/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Jeopardy Board
//
// Builds a board of trivia categories from a public trivia API and lets
// everyone looking at the board reveal clues by clicking them: the first
// click shows the question, the second shows the answer.
//
// Features:
// - WebSockets per board ID: /path/:gameid and /path/:gameid/ws
// - Everyone connected to a board shares one game; late joiners get the
//   board as it currently stands
// - Start/restart from any viewer; a restart during loading supersedes the
//   earlier load, whose result is discarded when it arrives
// - Loading indicator and load errors pushed to every viewer
// - A new board starts loading as soon as its first viewer connects
// - Boards auto-reaped once unwatched for the configurable idle timeout
// - Random 8-char board IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current board, backed by go-qrcode

package main

import (
	"bytes"
	"context"
	"crypto/rand"
	_ "embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/jeopardy/games/jeopardy"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`               // "start", "restart", "reveal"
	Category *int   `json:"category,omitempty"` // reveal
	Clue     *int   `json:"clue,omitempty"`     // reveal
}

// PhaseMessage drives the loading indicator and the start/restart button.
type PhaseMessage struct {
	Type  string `json:"type"`  // "phase"
	Phase string `json:"phase"` // "idle", "loading" or "ready"
}

// BoardMessage replaces the whole grid.
type BoardMessage struct {
	Type string `json:"type"` // "board"
	jeopardy.Board
}

// CellMessage replaces the text of a single cell.
type CellMessage struct {
	Type     string `json:"type"` // "cell"
	Category int    `json:"category"`
	Clue     int    `json:"clue"`
	Text     string `json:"text"`
}

// SimpleMessage is for generic notifications ("error")
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan any
}

type action struct {
	client *Client
	msg    ClientMessage
}

type loadResult struct {
	load jeopardy.Load
	game *jeopardy.Game
	err  error
}

// Hub is one board. Its run loop is the only goroutine that touches the
// controller or the client set, so board events are handled one at a time.
type Hub struct {
	id      string
	cfg     *Config
	clients map[*Client]bool

	controller *jeopardy.Controller

	register chan *Client
	unreg    chan *Client
	actions  chan action
	loaded   chan loadResult

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
	viewers    int
}

func newHub(cfg *Config, gameID string, svc jeopardy.Service, sampler *jeopardy.Sampler) *Hub {
	now := time.Now()
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		id:         gameID,
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		actions:    make(chan action),
		loaded:     make(chan loadResult),
		ctx:        ctx,
		cancel:     cancel,
		createdAt:  now,
		lastActive: now,
	}
	h.controller = jeopardy.NewController(cfg.options(), svc, sampler, h)

	return h
}

func (h *Hub) run() {
	defer h.closeAll()

	for {
		select {
		case <-h.ctx.Done():
			return

		case c := <-h.register:
			h.touch()

			// A board that has never loaded starts on its first viewer.
			if h.controller.Loads() == 0 {
				h.startLoad(c)
			}

			h.clients[c] = true
			h.countViewers()

			logf(h.cfg, "GAMES: Client %s joined %s", c.id, h.id)

			// Late joiners see the board as it stands, revealed cells included.
			h.sendTo(c, PhaseMessage{
				Type:  "phase",
				Phase: h.controller.Phase().String(),
			})
			h.sendTo(c, BoardMessage{
				Type:  "board",
				Board: h.controller.Board(),
			})

		case c := <-h.unreg:
			h.touch()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.countViewers()
				logf(h.cfg, "GAMES: Client %s left %s", c.id, h.id)
			}

		case a := <-h.actions:
			h.touch()
			h.handleAction(a)

		case r := <-h.loaded:
			h.handleLoaded(r)
		}
	}
}

func (h *Hub) handleAction(a action) {
	switch a.msg.Type {
	case "start", "restart":
		h.startLoad(a.client)

	case "reveal":
		if a.msg.Category == nil || a.msg.Clue == nil {
			return
		}

		addr := jeopardy.Address{
			Category: *a.msg.Category,
			Clue:     *a.msg.Clue,
		}

		if h.controller.Click(addr) {
			logf(h.cfg, "GAMES: Client %s revealed (%d, %d) on %s", a.client.id, addr.Category, addr.Clue, h.id)
		}
	}
}

func (h *Hub) startLoad(by *Client) {
	load := h.controller.Begin()

	logf(h.cfg, "GAMES: Client %s started load %d on %s", by.id, load.Generation(), h.id)

	go h.fetch(load)
}

// fetch runs a load's network calls off the event loop and hands the result
// back to it.
func (h *Hub) fetch(load jeopardy.Load) {
	game, err := h.controller.Fetch(h.ctx)

	select {
	case h.loaded <- loadResult{load: load, game: game, err: err}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) handleLoaded(r loadResult) {
	err := h.controller.Finish(r.load, r.game, r.err)

	switch {
	case errors.Is(err, jeopardy.ErrStaleLoad):
		logf(h.cfg, "GAMES: Discarded stale load %d on %s", r.load.Generation(), h.id)
	case err != nil:
		logf(h.cfg, "ERROR: Load %d on %s failed: %v", r.load.Generation(), h.id, err)
	default:
		logf(h.cfg, "GAMES: Board %s ready (load %d)", h.id, r.load.Generation())
	}
}

// SetPhase, Redraw, UpdateCell and ShowError implement jeopardy.View by
// broadcasting to every client. They run on the hub goroutine.

func (h *Hub) SetPhase(p jeopardy.Phase) {
	h.broadcast(PhaseMessage{
		Type:  "phase",
		Phase: p.String(),
	})
}

func (h *Hub) Redraw(b jeopardy.Board) {
	h.broadcast(BoardMessage{
		Type:  "board",
		Board: b,
	})
}

func (h *Hub) UpdateCell(a jeopardy.Address, text string) {
	h.broadcast(CellMessage{
		Type:     "cell",
		Category: a.Category,
		Clue:     a.Clue,
		Text:     text,
	})
}

func (h *Hub) ShowError(msg string) {
	h.broadcast(SimpleMessage{
		Type:    "error",
		Message: msg,
	})
}

func (h *Hub) broadcast(msg any) {
	for client := range h.clients {
		h.sendTo(client, msg)
	}
}

// sendTo drops clients whose send buffer is full.
func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
		h.countViewers()
	}
}

// countViewers publishes the client count for the reaper.
func (h *Hub) countViewers() {
	h.mu.Lock()
	h.viewers = len(h.clients)
	h.mu.Unlock()
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

// idle reports whether the board has had no viewers and no activity since
// cutoff. A board someone is watching is never idle.
func (h *Hub) idle(cutoff time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.viewers == 0 && h.lastActive.Before(cutoff)
}

// stop ends the run loop, which then disconnects every client.
func (h *Hub) stop() {
	h.stopOnce.Do(h.cancel)
}

// closeAll disconnects all clients of this hub. Only called from run.
func (h *Hub) closeAll() {
	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
	h.countViewers()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameManager holds a set of hubs keyed by board ID, so each $path/$gameid
// is its own isolated board.
type GameManager struct {
	cfg     *Config
	service jeopardy.Service
	sampler *jeopardy.Sampler

	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

func newGameManager(cfg *Config, svc jeopardy.Service) *GameManager {
	gm := &GameManager{
		cfg:         cfg,
		service:     svc,
		sampler:     jeopardy.NewSampler(svc, cfg.poolSize, cfg.poolOffsetMax, nil),
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		done:        make(chan struct{}),
	}

	if gm.idleTimeout > 0 {
		go gm.reaperLoop()
	}

	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gameID, gm.service, gm.sampler)
	gm.hubs[gameID] = hub
	go hub.run()

	return hub
}

// newGameID generates a crypto-random board ID and ensures it doesn't
// collide with existing boards.
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

// reaperLoop periodically removes hubs that have gone unwatched and unused
// for longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		}
	}
}

func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		if hub.idle(cutoff) {
			delete(gm.hubs, id)
			hub.stop()
			logf(gm.cfg, "GAMES: Reaped idle board %s (up %s)", id, time.Since(hub.createdAt).Round(time.Second))
		}
	}
}

// close stops the reaper and every hub.
func (gm *GameManager) close() {
	gm.closeOnce.Do(func() {
		close(gm.done)

		gm.mu.Lock()
		defer gm.mu.Unlock()

		for id, hub := range gm.hubs {
			delete(gm.hubs, id)
			hub.stop()
		}
	})
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		hub := gm.getHub(gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan any, 16),
		}

		logf(cfg, "SERVE: WebSocket for %s to %s", gameID, realIP(r))

		select {
		case hub.register <- client:
		case <-hub.ctx.Done():
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.ctx.Done():
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "start", "restart", "reveal":
			select {
			case h.actions <- action{client: c, msg: msg}:
			case <-h.ctx.Done():
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current board URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
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

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the board URL.
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

//go:embed jeopardy/index.html
var indexHTML string

// indexTemplate roots the page's asset links at the configured prefix.
var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		var page bytes.Buffer
		if err := indexTemplate.Execute(&page, struct{ Prefix string }{cfg.prefix}); err != nil {
			logf(cfg, "ERROR: Rendering board page: %v", err)
			http.Error(w, "page rendering failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		written, _ := w.Write(page.Bytes())

		logf(cfg, "SERVE: Board %s (%s) to %s in %s",
			ps.ByName("gameid"),
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// redirectNewGame handles GET /path by generating a new random board ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created board %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerJeopardyGame sets up routes so that:
//   - $path                  → redirects to new random board (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that board
//   - $path/:gameid/qr       → PNG QR code for that board URL
func registerJeopardyGame(cfg *Config, path string, mux *httprouter.Router, svc jeopardy.Service) *GameManager {
	gm := newGameManager(cfg, svc)

	// Root path → redirect to new random board
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	// Per-board client view (HTML)
	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	// Per-board websocket
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	// Per-board QR code
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}
