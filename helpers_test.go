/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		fileTTL:        time.Hour,
		maxUploadSize:  10 << 20,
		port:           5000,
		roundDelay:     time.Millisecond,
		sessionTimeout: time.Hour,
	}
}

// recorder is an Emitter that keeps every event it is handed.
type recorder struct {
	mu     sync.Mutex
	events map[string][]Event
}

func newRecorder() *recorder {
	return &recorder{events: make(map[string][]Event)}
}

func (r *recorder) Send(connID string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[connID] = append(r.events[connID], ev)
}

func (r *recorder) types(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events[connID]))
	for _, ev := range r.events[connID] {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) all(connID, eventType string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, ev := range r.events[connID] {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) last(t *testing.T, connID, eventType string) Event {
	t.Helper()

	evs := r.all(connID, eventType)
	require.NotEmpty(t, evs, "no %s event for %s", eventType, connID)

	return evs[len(evs)-1]
}

func newTestRegistry(t *testing.T) (*Registry, *recorder) {
	t.Helper()

	rec := newRecorder()
	return newRegistry(testConfig(), rec), rec
}

// startedRoom returns a room with "alice" as player1 and "bob" as player2.
func startedRoom(t *testing.T, rg *Registry, game GameType) *Room {
	t.Helper()

	room, err := rg.Create("", game, "alice", "sender", "sing a song")
	require.NoError(t, err)

	_, err = rg.Join(room.Code, "bob", "receiver", "do a dance", "")
	require.NoError(t, err)

	return room
}

// waitForRound blocks until the room is collecting submissions for round.
func waitForRound(t *testing.T, room *Room, round int) {
	t.Helper()

	require.Eventually(t, func() bool {
		s := room.Snapshot()
		return s.Round == round && s.Collecting
	}, time.Second, time.Millisecond)
}
