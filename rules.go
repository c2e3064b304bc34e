/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

type GameType string

const (
	RockPaperScissors GameType = "rock-paper-scissors"
	TapWar            GameType = "tap-war"
	QuickQuiz         GameType = "quick-quiz"
	EmojiMemory       GameType = "emoji-memory"
	TypingSpeed       GameType = "typing-speed"
	ReactionTime      GameType = "reaction-time"
)

// Role is a seat in a room. Tie doubles as the winner tag of a drawn
// round or game.
type Role string

const (
	Player1 Role = "player1"
	Player2 Role = "player2"
	Tie     Role = "tie"
)

const defaultRounds = 3

// Submission is one player's action for one round.
type Submission struct {
	Action string  `json:"action"`
	Value  any     `json:"value"`
	Time   float64 `json:"time,omitempty"`
	Round  int     `json:"round,omitempty"`
}

// number interprets Value as a finite number. Numeric strings are accepted.
func (s Submission) number() (float64, bool) {
	var f float64

	switch v := s.Value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

func (s Submission) text() string {
	switch v := s.Value.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return s.Action
}

func (s Submission) choice() string {
	if s.Action != "" {
		return strings.ToLower(s.Action)
	}
	return strings.ToLower(s.text())
}

// RoundData is the server-generated content of a round. Only the exported
// fields are sent to clients.
type RoundData struct {
	Options  []string `json:"options,omitempty"`
	Duration int      `json:"duration,omitempty"`
	Question string   `json:"question,omitempty"`
	Sequence []string `json:"sequence,omitempty"`
	Text     string   `json:"text,omitempty"`
	Delay    int      `json:"delay,omitempty"`

	answer string
}

// Detail is the per-game view of one player's submission in a round result.
type Detail map[string]any

// Outcome is a resolved round: the winner tag and each player's detail.
type Outcome struct {
	Winner  Role
	Player1 Detail
	Player2 Detail
}

// Rule describes one game type: how many rounds it runs, what content each
// round needs, who wins a round given both submissions, and how a
// submission is reported back. TotalKey names the detail field that
// carries the player's running score.
type Rule struct {
	Name     string
	Rounds   int
	Setup    func(round int) *RoundData
	Resolve  func(data *RoundData, p1, p2 Submission) Role
	Detail   func(s Submission) Detail
	TotalKey string
}

func (r Rule) resolveRound(data *RoundData, p1, p2 Submission) Outcome {
	return Outcome{
		Winner:  r.Resolve(data, p1, p2),
		Player1: r.Detail(p1),
		Player2: r.Detail(p2),
	}
}

type quizQuestion struct {
	question string
	answer   string
}

var (
	rpsOptions = []string{"rock", "paper", "scissors"}

	// beats maps each choice to the choice it defeats.
	beats = map[string]string{
		"rock":     "scissors",
		"paper":    "rock",
		"scissors": "paper",
	}

	quizQuestions = []quizQuestion{
		{"What is 2 + 2?", "4"},
		{"What color is the sky?", "blue"},
		{"How many days in a week?", "7"},
		{"What is the capital of France?", "paris"},
		{"What is the largest planet?", "jupiter"},
	}

	memoryEmojis = []string{"😀", "😎", "🎮", "🚀", "⭐", "🎯", "🎪", "🎨"}

	typingTexts = []string{
		"The quick brown fox jumps over the lazy dog.",
		"All work and no play makes Jack a dull boy.",
		"To be or not to be, that is the question.",
		"A journey of a thousand miles begins with a single step.",
		"Practice makes perfect.",
	}
)

const (
	tapWarDuration   = 10000
	memoryLength     = 5
	reactionMinDelay = 1000
	reactionMaxDelay = 5000
)

var gameOrder = []GameType{
	RockPaperScissors,
	TapWar,
	QuickQuiz,
	EmojiMemory,
	TypingSpeed,
	ReactionTime,
}

var rules = map[GameType]Rule{
	RockPaperScissors: {
		Name:   "Rock Paper Scissors",
		Rounds: defaultRounds,
		Setup: func(int) *RoundData {
			return &RoundData{Options: rpsOptions}
		},
		Resolve: resolveRockPaperScissors,
		Detail: func(s Submission) Detail {
			return Detail{"choice": s.choice()}
		},
		TotalKey: "score",
	},
	TapWar: {
		Name:   "Tap War",
		Rounds: defaultRounds,
		Setup: func(int) *RoundData {
			return &RoundData{Duration: tapWarDuration}
		},
		Resolve:  higherWins,
		Detail:   numberDetail("taps"),
		TotalKey: "score",
	},
	QuickQuiz: {
		Name:    "Quick Quiz",
		Rounds:  defaultRounds,
		Setup:   quizRound,
		Resolve: resolveQuickQuiz,
		Detail: func(s Submission) Detail {
			return Detail{"answer": s.text(), "time": s.Time}
		},
		TotalKey: "score",
	},
	EmojiMemory: {
		Name:   "Emoji Memory",
		Rounds: defaultRounds,
		Setup: func(int) *RoundData {
			perm := rand.Perm(len(memoryEmojis))

			seq := make([]string, memoryLength)
			for i := range seq {
				seq[i] = memoryEmojis[perm[i]]
			}

			return &RoundData{Sequence: seq}
		},
		Resolve:  higherWins,
		Detail:   numberDetail("score"),
		TotalKey: "totalScore",
	},
	TypingSpeed: {
		Name:   "Typing Speed",
		Rounds: defaultRounds,
		Setup: func(int) *RoundData {
			return &RoundData{Text: typingTexts[rand.IntN(len(typingTexts))]}
		},
		Resolve:  higherWins,
		Detail:   numberDetail("wpm"),
		TotalKey: "totalScore",
	},
	ReactionTime: {
		Name:   "Reaction Time",
		Rounds: defaultRounds,
		Setup: func(int) *RoundData {
			return &RoundData{Delay: reactionMinDelay + rand.IntN(reactionMaxDelay-reactionMinDelay)}
		},
		Resolve:  lowerWins,
		Detail:   numberDetail("time"),
		TotalKey: "totalScore",
	},
}

// gameAliases accepts the camelCase ids used by the web client.
var gameAliases = map[string]GameType{
	"rockPaperScissors": RockPaperScissors,
	"tapWar":            TapWar,
	"quickQuiz":         QuickQuiz,
	"emojiMemory":       EmojiMemory,
	"typingSpeed":       TypingSpeed,
	"reactionTime":      ReactionTime,
}

// ParseGameType resolves a client-supplied game id. An empty id selects
// rock-paper-scissors.
func ParseGameType(id string) (GameType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RockPaperScissors, nil
	}

	if g, ok := gameAliases[id]; ok {
		return g, nil
	}

	g := GameType(strings.ToLower(id))
	if _, ok := rules[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}

	return g, nil
}

type GameInfo struct {
	ID   GameType `json:"id"`
	Name string   `json:"name"`
}

func listGames() []GameInfo {
	games := make([]GameInfo, 0, len(gameOrder))
	for _, g := range gameOrder {
		games = append(games, GameInfo{ID: g, Name: rules[g].Name})
	}
	return games
}

// compare returns the player holding the larger value.
func compare(a, b float64) Role {
	switch {
	case a > b:
		return Player1
	case b > a:
		return Player2
	}
	return Tie
}

func resolveRockPaperScissors(_ *RoundData, p1, p2 Submission) Role {
	a, b := p1.choice(), p2.choice()
	_, validA := beats[a]
	_, validB := beats[b]

	switch {
	case !validA && !validB, a == b:
		return Tie
	case !validB:
		return Player1
	case !validA:
		return Player2
	case beats[a] == b:
		return Player1
	}
	return Player2
}

// higherWins treats a missing or malformed value as zero.
func higherWins(_ *RoundData, p1, p2 Submission) Role {
	a, _ := p1.number()
	b, _ := p2.number()

	return compare(a, b)
}

// lowerWins treats a missing, malformed or negative value as slowest.
func lowerWins(_ *RoundData, p1, p2 Submission) Role {
	a, ok := p1.number()
	if !ok || a < 0 {
		a = math.Inf(1)
	}
	b, ok := p2.number()
	if !ok || b < 0 {
		b = math.Inf(1)
	}

	return compare(b, a)
}

// elapsed is the submission's answer time, with a missing or non-positive
// time counted as slowest.
func elapsed(s Submission) float64 {
	if s.Time <= 0 || math.IsNaN(s.Time) {
		return math.Inf(1)
	}
	return s.Time
}

// numberDetail reports a numeric submission under key, or null when the
// value is missing or malformed.
func numberDetail(key string) func(Submission) Detail {
	return func(s Submission) Detail {
		if n, ok := s.number(); ok {
			return Detail{key: n}
		}
		return Detail{key: nil}
	}
}

func quizRound(round int) *RoundData {
	q := quizQuestions[(round-1+len(quizQuestions))%len(quizQuestions)]

	return &RoundData{Question: q.question, answer: q.answer}
}

func resolveQuickQuiz(data *RoundData, p1, p2 Submission) Role {
	if data == nil || data.answer == "" {
		return Tie
	}

	correct1 := strings.EqualFold(p1.text(), data.answer)
	correct2 := strings.EqualFold(p2.text(), data.answer)

	switch {
	case correct1 && correct2:
		return compare(elapsed(p2), elapsed(p1))
	case correct1:
		return Player1
	case correct2:
		return Player2
	}
	return Tie
}
