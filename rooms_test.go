/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestNewCode(t *testing.T) {
	taken := map[string]bool{}

	for range 200 {
		code := newCode(func(c string) bool { return taken[c] })
		assert.Regexp(t, codePattern, code)
		assert.False(t, taken[code])
		taken[code] = true
	}
}

func TestNewCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	code := newCode(func(string) bool {
		calls++
		return calls < 3
	})

	assert.Equal(t, 3, calls)
	assert.Regexp(t, codePattern, code)
}

func TestRegistry_Create(t *testing.T) {
	rg, rec := newTestRegistry(t)

	room, err := rg.Create("", TapWar, "alice", "", "")
	require.NoError(t, err)
	assert.Regexp(t, codePattern, room.Code)
	assert.Equal(t, 1, rg.Len())

	s := room.Snapshot()
	assert.Equal(t, StatusWaiting, s.Status)
	assert.Equal(t, 0, s.Round)
	assert.Equal(t, 3, s.MaxRounds)
	assert.Equal(t, map[Role]string{Player1: "alice"}, s.Players)

	ev := rec.last(t, "alice", evGameCreated)
	assert.Equal(t, GameCreatedMessage{RoomCode: room.Code, GameType: TapWar}, ev.Data)
	assert.Empty(t, rec.all("alice", evPlayerJoined))
}

func TestRegistry_CreateWithExplicitCode(t *testing.T) {
	rg, rec := newTestRegistry(t)

	room, err := rg.Create(" abc123 ", QuickQuiz, "alice", "sender", "sing")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", room.Code)
	assert.Same(t, room, rg.Get("abc123"))

	assert.Equal(t, []string{evGameCreated, evPlayerJoined}, rec.types("alice"))

	_, err = rg.Create("ABC123", TapWar, "carol", "", "")
	assert.True(t, errors.Is(err, ErrDuplicateCode))
	assert.Equal(t, 1, rg.Len())
	assert.Empty(t, rec.types("carol"))
}

func TestRegistry_CreateUnknownGame(t *testing.T) {
	rg, _ := newTestRegistry(t)

	_, err := rg.Create("", GameType("chess"), "alice", "", "")
	assert.True(t, errors.Is(err, ErrUnknownGame))
	assert.Equal(t, 0, rg.Len())
}

func TestRegistry_Join(t *testing.T) {
	rg, rec := newTestRegistry(t)

	room, err := rg.Create("", EmojiMemory, "alice", "", "sing a song")
	require.NoError(t, err)

	joined, err := rg.Join(room.Code, "bob", "", "do a dance", "")
	require.NoError(t, err)
	assert.Same(t, room, joined)

	s := room.Snapshot()
	assert.Equal(t, StatusPlaying, s.Status)
	assert.Equal(t, 1, s.Round)
	assert.True(t, s.Collecting)
	assert.Equal(t, map[Role]string{Player1: "alice", Player2: "bob"}, s.Players)
	assert.Equal(t, map[Role]int{Player1: 0, Player2: 0}, s.Scores)

	assert.Equal(t, []string{evGameCreated, evPlayerJoined, evPlayerJoined, evGameStart}, rec.types("alice"))
	assert.Equal(t, []string{evGameJoined, evPlayerJoined, evGameStart}, rec.types("bob"))

	start := rec.last(t, "bob", evGameStart).Data.(GameStartMessage)
	assert.Equal(t, EmojiMemory, start.GameType)
	assert.Equal(t, 1, start.Round)
	assert.Equal(t, 3, start.MaxRounds)
	assert.Equal(t, "alice", start.PlayerMap[Player1])
	assert.Equal(t, "bob", start.PlayerMap[Player2])
	require.NotNil(t, start.GameData)
	assert.Len(t, start.GameData.Sequence, memoryLength)
	assert.Equal(t, map[Role]string{Player1: "sing a song", Player2: "do a dance"}, start.Dares)

	joinedMsg := rec.last(t, "alice", evPlayerJoined).Data.(PlayerJoinedMessage)
	assert.Equal(t, PlayerJoinedMessage{PlayerType: "receiver", Dare: "do a dance"}, joinedMsg)
}

func TestRegistry_JoinFullRoom(t *testing.T) {
	rg, rec := newTestRegistry(t)
	room := startedRoom(t, rg, RockPaperScissors)

	_, err := rg.Join(room.Code, "carol", "", "", "")
	assert.True(t, errors.Is(err, ErrRoomFull))
	assert.Empty(t, rec.types("carol"))

	s := room.Snapshot()
	assert.Len(t, s.Players, 2)
	assert.Equal(t, 1, s.Round)
}

func TestRegistry_JoinMissingRoom(t *testing.T) {
	rg, _ := newTestRegistry(t)

	_, err := rg.Join("NOPE00", "bob", "", "", "")
	assert.True(t, errors.Is(err, ErrRoomNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistry_JoinOwnRoom(t *testing.T) {
	rg, _ := newTestRegistry(t)

	room, err := rg.Create("", TapWar, "alice", "", "")
	require.NoError(t, err)

	_, err = rg.Join(room.Code, "alice", "", "", "")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, StatusWaiting, room.Snapshot().Status)
}

func TestRegistry_SenderClaimsReceiverRoom(t *testing.T) {
	rg, rec := newTestRegistry(t)

	room, err := rg.Create("ABC123", RockPaperScissors, "bob", "receiver", "do a dance")
	require.NoError(t, err)

	_, err = rg.Join("ABC123", "alice", "sender", "sing a song", TapWar)
	require.NoError(t, err)

	s := room.Snapshot()
	assert.Equal(t, TapWar, s.Game)
	assert.Equal(t, map[Role]string{Player1: "alice", Player2: "bob"}, s.Players)
	assert.Equal(t, map[Role]string{Player1: "sing a song", Player2: "do a dance"}, s.Dares)

	start := rec.last(t, "bob", evGameStart).Data.(GameStartMessage)
	assert.Equal(t, TapWar, start.GameType)
	assert.Equal(t, "alice", start.PlayerMap[Player1])
	require.NotNil(t, start.GameData)
	assert.Equal(t, tapWarDuration, start.GameData.Duration)
}

func TestRegistry_SenderCannotJoinSenderRoom(t *testing.T) {
	rg, rec := newTestRegistry(t)

	room, err := rg.Create("", QuickQuiz, "alice", "", "")
	require.NoError(t, err)

	_, err = rg.Join(room.Code, "mallory", "sender", "dare", TapWar)
	assert.True(t, errors.Is(err, ErrDuplicateCode))

	s := room.Snapshot()
	assert.Equal(t, QuickQuiz, s.Game)
	assert.Equal(t, StatusWaiting, s.Status)
	assert.Empty(t, rec.types("mallory"))
}

func TestRegistry_JoinUnknownGame(t *testing.T) {
	rg, _ := newTestRegistry(t)

	room, err := rg.Create("", TapWar, "alice", "receiver", "")
	require.NoError(t, err)

	_, err = rg.Join(room.Code, "bob", "sender", "", GameType("chess"))
	assert.True(t, errors.Is(err, ErrUnknownGame))
	assert.Equal(t, StatusWaiting, room.Snapshot().Status)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	rg, _ := newTestRegistry(t)

	room, err := rg.Create("", TapWar, "alice", "", "")
	require.NoError(t, err)

	rg.Remove(room.Code)
	assert.Nil(t, rg.Get(room.Code))

	assert.NotPanics(t, func() { rg.Remove(room.Code) })
	assert.Equal(t, 0, rg.Len())
}

func TestRegistry_Leave(t *testing.T) {
	rg, rec := newTestRegistry(t)
	room := startedRoom(t, rg, TapWar)

	rg.Leave(room.Code, "carol")
	assert.NotNil(t, rg.Get(room.Code), "a stranger leaving must not close the room")

	rg.Leave(room.Code, "bob")
	assert.Nil(t, rg.Get(room.Code))
	assert.Equal(t, StatusEnded, room.Snapshot().Status)
	assert.Len(t, rec.all("alice", evPlayerDisconnected), 1)
	assert.Empty(t, rec.all("bob", evPlayerDisconnected))

	rg.Leave(room.Code, "alice")
	assert.Len(t, rec.all("alice", evPlayerDisconnected), 1)
}

func TestRegistry_JoinAfterLeave(t *testing.T) {
	rg, _ := newTestRegistry(t)

	room, err := rg.Create("", TapWar, "alice", "", "")
	require.NoError(t, err)

	rg.Leave(room.Code, "alice")

	_, err = rg.Join(room.Code, "bob", "", "", "")
	assert.True(t, errors.Is(err, ErrRoomNotFound))
}

func TestRegistry_Reap(t *testing.T) {
	rg, rec := newTestRegistry(t)

	idle := startedRoom(t, rg, TapWar)
	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	fresh, err := rg.Create("", QuickQuiz, "carol", "", "")
	require.NoError(t, err)

	reaped := rg.Reap(time.Now().Add(-time.Hour))
	assert.Equal(t, 1, reaped)

	assert.Nil(t, rg.Get(idle.Code))
	assert.NotNil(t, rg.Get(fresh.Code))
	assert.Equal(t, StatusEnded, idle.Snapshot().Status)
	assert.NotEmpty(t, rec.all("alice", evError))
	assert.NotEmpty(t, rec.all("bob", evError))
	assert.Empty(t, rec.all("carol", evError))
}
