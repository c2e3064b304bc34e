/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Emitter delivers an event to a single connection.
type Emitter interface {
	Send(connID string, ev Event)
}

// Seat is a player's fixed place in a room, assigned when they join.
type Seat struct {
	Role       Role
	ConnID     string
	PlayerType string
	Dare       string
}

// Room holds one match. All fields are guarded by mu, and every event for
// a room runs to completion while holding it.
type Room struct {
	mu sync.Mutex

	Code string
	Game GameType

	rule       Rule
	seats      []*Seat
	scores     map[Role]int
	round      int
	maxRounds  int
	status     Status
	collecting bool
	pending    map[Role]map[int]Submission
	data       *RoundData

	createdAt  time.Time
	lastActive time.Time
}

func (room *Room) seatOf(connID string) *Seat {
	for _, s := range room.seats {
		if s.ConnID == connID {
			return s
		}
	}
	return nil
}

func (room *Room) seat(role Role) *Seat {
	for _, s := range room.seats {
		if s.Role == role {
			return s
		}
	}
	return nil
}

func (room *Room) playerMapLocked() map[Role]string {
	m := make(map[Role]string, len(room.seats))
	for _, s := range room.seats {
		m[s.Role] = s.ConnID
	}
	return m
}

func (room *Room) daresLocked() map[Role]string {
	m := make(map[Role]string, len(room.seats))
	for _, s := range room.seats {
		m[s.Role] = s.Dare
	}
	return m
}

func (room *Room) scoresLocked() map[Role]int {
	return map[Role]int{
		Player1: room.scores[Player1],
		Player2: room.scores[Player2],
	}
}

func (room *Room) broadcastLocked(out Emitter, ev Event) {
	for _, s := range room.seats {
		out.Send(s.ConnID, ev)
	}
}

// Snapshot is a read-only copy of a room's state.
type Snapshot struct {
	Code       string
	Game       GameType
	Status     Status
	Round      int
	MaxRounds  int
	Players    map[Role]string
	Scores     map[Role]int
	Dares      map[Role]string
	Collecting bool
}

func (room *Room) Snapshot() Snapshot {
	room.mu.Lock()
	defer room.mu.Unlock()

	return Snapshot{
		Code:       room.Code,
		Game:       room.Game,
		Status:     room.status,
		Round:      room.round,
		MaxRounds:  room.maxRounds,
		Players:    room.playerMapLocked(),
		Scores:     room.scoresLocked(),
		Dares:      room.daresLocked(),
		Collecting: room.collecting,
	}
}

// Registry owns every live room, keyed by code.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	cfg        *Config
	out        Emitter
	roundDelay time.Duration
}

func newRegistry(cfg *Config, out Emitter) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		cfg:        cfg,
		out:        out,
		roundDelay: cfg.roundDelay,
	}
}

func (rg *Registry) Get(code string) *Room {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	return rg.rooms[normalizeCode(code)]
}

func (rg *Registry) Len() int {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	return len(rg.rooms)
}

// Create opens a room with connID seated as player1. An empty code gets a
// fresh one; an explicit code must not already be in use.
func (rg *Registry) Create(code string, game GameType, connID, playerType, dare string) (*Room, error) {
	rule, ok := rules[game]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}

	code = normalizeCode(code)
	if playerType == "" {
		playerType = "sender"
	}

	rg.mu.Lock()
	if code == "" {
		code = newCode(func(c string) bool {
			_, exists := rg.rooms[c]
			return exists
		})
	} else if _, exists := rg.rooms[code]; exists {
		rg.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}

	now := time.Now()
	room := &Room{
		Code:       code,
		Game:       game,
		rule:       rule,
		seats:      []*Seat{{Role: Player1, ConnID: connID, PlayerType: playerType, Dare: dare}},
		scores:     map[Role]int{Player1: 0},
		maxRounds:  rule.Rounds,
		status:     StatusWaiting,
		pending:    make(map[Role]map[int]Submission),
		createdAt:  now,
		lastActive: now,
	}
	// Lock before publishing so a racing Join cannot start the game
	// ahead of the creator's gameCreated event.
	room.mu.Lock()
	defer room.mu.Unlock()

	rg.rooms[code] = room
	rg.mu.Unlock()

	rg.out.Send(connID, Event{Type: evGameCreated, Data: GameCreatedMessage{RoomCode: code, GameType: game}})
	if dare != "" {
		rg.out.Send(connID, Event{Type: evPlayerJoined, Data: PlayerJoinedMessage{PlayerType: playerType, Dare: dare}})
	}

	logf(rg.cfg, "GAMES: Created %s room %s", game, code)

	return room, nil
}

// Join seats connID in the room and starts the game. A non-empty game
// replaces the one the room was opened with. A sender joining a room held
// by a receiver takes player1, and a sender can never join another
// sender's room.
func (rg *Registry) Join(code string, connID, playerType, dare string, game GameType) (*Room, error) {
	code = normalizeCode(code)

	var rule Rule
	if game != "" {
		var ok bool
		if rule, ok = rules[game]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGame, game)
		}
	}

	room := rg.Get(code)
	if room == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}

	if playerType == "" {
		playerType = "receiver"
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	switch {
	case room.status == StatusEnded:
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	case len(room.seats) >= 2:
		return nil, fmt.Errorf("%w: %s", ErrRoomFull, code)
	case room.seatOf(connID) != nil:
		return nil, fmt.Errorf("%w: already seated in room %s", ErrValidation, code)
	case playerType == "sender" && room.seats[0].PlayerType == "sender":
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}

	if game != "" {
		room.Game = game
		room.rule = rule
		room.maxRounds = rule.Rounds
	}

	seat := &Seat{Role: Player2, ConnID: connID, PlayerType: playerType, Dare: dare}
	if playerType == "sender" {
		room.seats[0].Role = Player2
		seat.Role = Player1
		room.seats = []*Seat{seat, room.seats[0]}
	} else {
		room.seats = append(room.seats, seat)
	}

	room.scores = map[Role]int{Player1: 0, Player2: 0}
	room.status = StatusPlaying
	room.round = 1
	room.data = room.rule.Setup(room.round)
	room.collecting = true
	room.lastActive = time.Now()

	rg.out.Send(connID, Event{Type: evGameJoined, Data: GameJoinedMessage{RoomCode: code, GameType: room.Game}})
	room.broadcastLocked(rg.out, Event{Type: evPlayerJoined, Data: PlayerJoinedMessage{PlayerType: playerType, Dare: dare}})
	room.broadcastLocked(rg.out, Event{Type: evGameStart, Data: GameStartMessage{
		GameType:  room.Game,
		Round:     room.round,
		MaxRounds: room.maxRounds,
		PlayerMap: room.playerMapLocked(),
		GameData:  room.data,
		Dares:     room.daresLocked(),
	}})

	logf(rg.cfg, "GAMES: Started %s room %s", room.Game, code)

	return room, nil
}

// Remove deletes a room. Removing an absent room is a no-op.
func (rg *Registry) Remove(code string) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	delete(rg.rooms, normalizeCode(code))
}

// Leave handles a dropped connection: if connID holds a seat in the room,
// the room is closed and the remaining player is told.
func (rg *Registry) Leave(code, connID string) {
	room := rg.Get(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.status == StatusEnded || room.seatOf(connID) == nil {
		return
	}

	room.status = StatusEnded
	for _, s := range room.seats {
		if s.ConnID != connID {
			rg.out.Send(s.ConnID, Event{Type: evPlayerDisconnected})
		}
	}
	rg.Remove(room.Code)

	logf(rg.cfg, "GAMES: Closed room %s after a player disconnected", room.Code)
}

// Reap closes every room that has been idle since before cutoff.
func (rg *Registry) Reap(cutoff time.Time) int {
	rg.mu.Lock()
	rooms := make([]*Room, 0, len(rg.rooms))
	for _, room := range rg.rooms {
		rooms = append(rooms, room)
	}
	rg.mu.Unlock()

	reaped := 0
	for _, room := range rooms {
		room.mu.Lock()
		if room.status != StatusEnded && room.lastActive.Before(cutoff) {
			room.status = StatusEnded
			room.broadcastLocked(rg.out, errorEvent("Room closed after a period of inactivity."))
			rg.Remove(room.Code)
			reaped++

			logf(rg.cfg, "GAMES: Reaped idle room %s", room.Code)
		}
		room.mu.Unlock()
	}

	return reaped
}

// reaperLoop periodically removes rooms that have been idle longer than timeout.
func (rg *Registry) reaperLoop(ctx context.Context, timeout time.Duration) {
	ticker := time.NewTicker(timeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rg.Reap(time.Now().Add(-timeout))
		}
	}
}
