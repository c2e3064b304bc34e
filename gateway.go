/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	sendBuffer   = 16
	maxEventSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan Event

	// room is the code of the room this client last created or joined.
	// Only the client's own read loop touches it.
	room string
}

// Gateway tracks connected sockets and routes their events to the rooms.
type Gateway struct {
	cfg   *Config
	rooms *Registry

	mu      sync.Mutex
	clients map[string]*Client
}

func newGateway(cfg *Config) *Gateway {
	g := &Gateway{
		cfg:     cfg,
		clients: make(map[string]*Client),
	}
	g.rooms = newRegistry(cfg, g)

	return g
}

// Send queues ev for connID. A client whose buffer is full is dropped.
func (g *Gateway) Send(connID string, ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.clients[connID]
	if !ok {
		return
	}

	select {
	case c.send <- ev:
	default:
		delete(g.clients, connID)
		close(c.send)
	}
}

func (g *Gateway) register(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clients[c.id] = c
}

func (g *Gateway) unregister(c *Client) {
	g.mu.Lock()
	if _, ok := g.clients[c.id]; ok {
		delete(g.clients, c.id)
		close(c.send)
	}
	g.mu.Unlock()

	if c.room != "" {
		g.rooms.Leave(c.room, c.id)
	}
}

// dispatch handles one inbound event. Failures are reported to this
// client only.
func (g *Gateway) dispatch(c *Client, in inboundEvent) {
	defer func() {
		if r := recover(); r != nil {
			logf(g.cfg, "ERROR: Recovered from panic handling %q for %s: %v", in.Type, c.id, r)
			g.Send(c.id, errorEvent("An internal error occurred."))
		}
	}()

	var err error

	switch in.Type {
	case evCreateGame:
		err = g.createGame(c, in.Data)
	case evJoinRoom:
		err = g.joinRoom(c, in.Data)
	case evJoinGame:
		err = g.joinGame(c, in.Data)
	case evGameAction:
		err = g.gameAction(c, in.Data)
	default:
		// ignore unknown types
	}

	if err != nil {
		logf(g.cfg, "GAMES: %s from %s failed: %v", in.Type, c.id, err)
		g.Send(c.id, errorEvent(errorText(err)))
	}
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// checkFree rejects a client that still holds a seat in a live room.
func (g *Gateway) checkFree(c *Client) error {
	if c.room != "" && g.rooms.Get(c.room) != nil {
		return fmt.Errorf("%w: already in room %s", ErrValidation, c.room)
	}
	return nil
}

func (g *Gateway) createGame(c *Client, raw json.RawMessage) error {
	var req CreateGameRequest
	if err := decodeData(raw, &req); err != nil {
		return err
	}
	if err := g.checkFree(c); err != nil {
		return err
	}

	game, err := ParseGameType(req.GameType)
	if err != nil {
		return err
	}

	room, err := g.rooms.Create("", game, c.id, "", "")
	if err != nil {
		return err
	}
	c.room = room.Code

	return nil
}

// joinRoom is the file-sharing flow: both sides name the upload code. The
// sender picks the game. Whoever arrives first opens the room under that
// code, and the sender's pick wins if the receiver got there first.
func (g *Gateway) joinRoom(c *Client, raw json.RawMessage) error {
	var req JoinRoomRequest
	if err := decodeData(raw, &req); err != nil {
		return err
	}

	code := normalizeCode(req.Code)
	dare := strings.TrimSpace(req.Dare)

	switch {
	case code == "":
		return fmt.Errorf("%w: a code is required", ErrValidation)
	case dare == "":
		return fmt.Errorf("%w: a dare is required", ErrValidation)
	}
	if err := g.checkFree(c); err != nil {
		return err
	}

	playerType := req.PlayerType
	if playerType == "" {
		playerType = "receiver"
	}

	var selected GameType
	if playerType == "sender" || req.SelectedGame != "" {
		game, err := ParseGameType(req.SelectedGame)
		if err != nil {
			return err
		}
		selected = game
	}

	opening := selected
	if opening == "" {
		opening = RockPaperScissors
	}

	room, err := g.rooms.Create(code, opening, c.id, playerType, dare)
	if err == nil {
		c.room = room.Code
		return nil
	}
	if !errors.Is(err, ErrDuplicateCode) {
		return err
	}

	room, err = g.rooms.Join(code, c.id, playerType, dare, selected)
	if err != nil {
		return err
	}
	c.room = room.Code

	return nil
}

func (g *Gateway) joinGame(c *Client, raw json.RawMessage) error {
	var req JoinGameRequest
	if err := decodeData(raw, &req); err != nil {
		return err
	}
	if err := g.checkFree(c); err != nil {
		return err
	}

	room, err := g.rooms.Join(req.RoomCode, c.id, "", "", "")
	if err != nil {
		return err
	}
	c.room = room.Code

	return nil
}

func (g *Gateway) gameAction(c *Client, raw json.RawMessage) error {
	var sub Submission
	if err := decodeData(raw, &sub); err != nil {
		return err
	}

	if c.room != "" {
		g.rooms.Submit(c.room, c.id, sub)
	}

	return nil
}

// errorText maps an error to the message shown to the player.
func errorText(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "Game not found"
	case errors.Is(err, ErrRoomFull):
		return "Game is full"
	case errors.Is(err, ErrDuplicateCode):
		return "That code is already in use"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation):
		return err.Error()
	}
	return "An internal error occurred."
}

func serveWebSocket(cfg *Config, g *Gateway) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade from %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan Event, sendBuffer),
		}

		g.register(client)

		logf(cfg, "GAMES: Connection %s opened from %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(g)

		logf(cfg, "GAMES: Connection %s closed", client.id)
	}
}

func (c *Client) readPump(g *Gateway) {
	defer func() {
		g.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxEventSize)

	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			return
		}

		// undecodable frames are reported and skipped
		var in inboundEvent
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			g.Send(c.id, errorEvent("malformed event"))
			continue
		}

		g.dispatch(c, in)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}
