/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"time"
)

// Submit records connID's action for the current round of the room, and
// resolves the round once both seats have submitted. Submissions for a
// missing room, a room that is not playing, an unseated connection, a
// round other than the current one, or the pause between rounds are
// ignored.
func (rg *Registry) Submit(code, connID string, sub Submission) {
	room := rg.Get(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.status != StatusPlaying || !room.collecting {
		return
	}

	seat := room.seatOf(connID)
	if seat == nil {
		return
	}

	if sub.Round != 0 && sub.Round != room.round {
		return
	}

	room.lastActive = time.Now()

	byRound, ok := room.pending[seat.Role]
	if !ok {
		byRound = make(map[int]Submission)
		room.pending[seat.Role] = byRound
	}
	byRound[room.round] = sub

	p1, ok1 := room.pending[Player1][room.round]
	p2, ok2 := room.pending[Player2][room.round]
	if !ok1 || !ok2 {
		return
	}

	rg.resolveLocked(room, p1, p2)
}

func (rg *Registry) resolveLocked(room *Room, p1, p2 Submission) {
	outcome := room.rule.resolveRound(room.data, p1, p2)
	winner := outcome.Winner
	if winner != Tie {
		room.scores[winner]++
	}

	outcome.Player1[room.rule.TotalKey] = room.scores[Player1]
	outcome.Player2[room.rule.TotalKey] = room.scores[Player2]

	result := RoundResult{
		Player1: outcome.Player1,
		Player2: outcome.Player2,
		Winner:  winner,
	}
	if room.data != nil {
		result.CorrectAnswer = room.data.answer
	}

	room.broadcastLocked(rg.out, Event{Type: evRoundResult, Data: RoundResultMessage{
		Result:    result,
		Scores:    room.scoresLocked(),
		Round:     room.round,
		PlayerMap: room.playerMapLocked(),
	}})

	logf(rg.cfg, "GAMES: Round %d of %d in room %s went to %s", room.round, room.maxRounds, room.Code, winner)

	if room.round >= room.maxRounds {
		rg.endLocked(room)
		return
	}

	room.round++
	room.collecting = false
	room.data = room.rule.Setup(room.round)

	round := room.round
	time.AfterFunc(rg.roundDelay, func() {
		rg.startRound(room, round)
	})
}

// startRound opens collection for round and announces it. It does nothing
// if the room has since ended or moved on.
func (rg *Registry) startRound(room *Room, round int) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.status != StatusPlaying || room.round != round || room.collecting {
		return
	}

	room.collecting = true

	room.broadcastLocked(rg.out, Event{Type: evNextRound, Data: NextRoundMessage{
		Round:     room.round,
		MaxRounds: room.maxRounds,
		GameData:  room.data,
	}})
}

func (rg *Registry) endLocked(room *Room) {
	s1, s2 := room.scores[Player1], room.scores[Player2]

	winner := Tie
	switch {
	case s1 > s2:
		winner = Player1
	case s2 > s1:
		winner = Player2
	}

	// Each player is handed the dare their opponent wrote.
	dares := make(map[Role]string, 2)
	if seat := room.seat(Player2); seat != nil {
		dares[Player1] = seat.Dare
	}
	if seat := room.seat(Player1); seat != nil {
		dares[Player2] = seat.Dare
	}

	room.status = StatusEnded
	room.collecting = false

	room.broadcastLocked(rg.out, Event{Type: evGameEnd, Data: GameEndMessage{
		Winner: winner,
		FinalScores: map[Role]FinalScore{
			Player1: {Score: s1},
			Player2: {Score: s2},
		},
		Scores: room.scoresLocked(),
		Dares:  dares,
	}})

	rg.Remove(room.Code)

	logf(rg.cfg, "GAMES: Room %s ended %d-%d, winner %s", room.Code, s1, s2, winner)
}
