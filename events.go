/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "encoding/json"

// Inbound event types.
const (
	evCreateGame = "createGame"
	evJoinRoom   = "joinRoom"
	evJoinGame   = "joinGame"
	evGameAction = "gameAction"
)

// Outbound event types.
const (
	evGameCreated        = "gameCreated"
	evGameJoined         = "gameJoined"
	evPlayerJoined       = "playerJoined"
	evGameStart          = "gameStart"
	evRoundResult        = "roundResult"
	evNextRound          = "nextRound"
	evGameEnd            = "gameEnd"
	evPlayerDisconnected = "playerDisconnected"
	evError              = "error"
)

// Event is the envelope for every message on the socket, in both directions.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type CreateGameRequest struct {
	GameType string `json:"gameType"`
}

type JoinRoomRequest struct {
	Code         string `json:"code"`
	PlayerType   string `json:"playerType"`
	Dare         string `json:"dare"`
	SelectedGame string `json:"selectedGame"`
}

type JoinGameRequest struct {
	RoomCode string `json:"roomCode"`
}

type GameCreatedMessage struct {
	RoomCode string   `json:"roomCode"`
	GameType GameType `json:"gameType"`
}

type GameJoinedMessage struct {
	RoomCode string   `json:"roomCode"`
	GameType GameType `json:"gameType"`
}

type PlayerJoinedMessage struct {
	PlayerType string `json:"playerType"`
	Dare       string `json:"dare,omitempty"`
}

type GameStartMessage struct {
	GameType  GameType        `json:"gameType"`
	Round     int             `json:"round"`
	MaxRounds int             `json:"maxRounds"`
	PlayerMap map[Role]string `json:"playerMap"`
	GameData  *RoundData      `json:"gameData,omitempty"`
	Dares     map[Role]string `json:"dares"`
}

type RoundResult struct {
	Player1       Detail `json:"player1"`
	Player2       Detail `json:"player2"`
	Winner        Role   `json:"winner"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
}

type RoundResultMessage struct {
	Result    RoundResult     `json:"result"`
	Scores    map[Role]int    `json:"scores"`
	Round     int             `json:"round"`
	PlayerMap map[Role]string `json:"playerMap"`
}

type NextRoundMessage struct {
	Round     int        `json:"round"`
	MaxRounds int        `json:"maxRounds"`
	GameData  *RoundData `json:"gameData,omitempty"`
}

type FinalScore struct {
	Score int `json:"score"`
}

type GameEndMessage struct {
	Winner      Role                `json:"winner"`
	FinalScores map[Role]FinalScore `json:"finalScores"`
	Scores      map[Role]int        `json:"scores"`
	Dares       map[Role]string     `json:"dares"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

func errorEvent(message string) Event {
	return Event{Type: evError, Data: ErrorMessage{Message: message}}
}
