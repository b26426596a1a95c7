package model

import (
	"strings"
	"time"
)

type OutcomeKind string

const (
	OutcomeDecided OutcomeKind = "decided"
	OutcomeForfeit OutcomeKind = "forfeit"
)

// Player is a registered roster entry. Name is the identity used by match records.
type Player struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

func (p Player) DisplayName() string {
	return strings.TrimSpace(p.Name)
}

// Match is a persisted raw result. Seq preserves entry order.
type Match struct {
	ID        string
	PlayerA   string
	PlayerB   string
	Score     string
	Seq       int
	CreatedAt time.Time
}

func (m Match) Record() MatchRecord {
	return MatchRecord{PlayerA: m.PlayerA, PlayerB: m.PlayerB, Score: m.Score}
}

// MatchRecord is one raw row as supplied by a loader.
type MatchRecord struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	Score   string `json:"score"`
}

type Snapshot struct {
	Roster   []string      `json:"roster"`
	Matches  []MatchRecord `json:"matches"`
	LoadedAt time.Time     `json:"loaded_at"`
}

type SetScore struct {
	A int
	B int
}

// Outcome is the parsed result of one match, seen from the A/B order of the record.
// A forfeit always favours B; Cause and Token explain why the score was not used.
type Outcome struct {
	Kind    OutcomeKind
	PlayerA string
	PlayerB string
	Sets    []SetScore
	SetsA   int
	SetsB   int
	GamesA  int
	GamesB  int
	Cause   error
	Token   string
}

func (o Outcome) AWon() bool {
	return o.SetsA > o.SetsB
}

func (o Outcome) Winner() string {
	if o.AWon() {
		return o.PlayerA
	}
	return o.PlayerB
}

func (o Outcome) Loser() string {
	if o.AWon() {
		return o.PlayerB
	}
	return o.PlayerA
}

func (o Outcome) SetDiffA() int {
	return o.SetsA - o.SetsB
}

func (o Outcome) GameDiffA() int {
	return o.GamesA - o.GamesB
}

type Stats struct {
	Played   int `json:"played"`
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	SetDiff  int `json:"set_diff"`
	GameDiff int `json:"game_diff"`
}

type Standing struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Stats
}

type Diagnostic struct {
	Index   int    `json:"index"`
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	Score   string `json:"score"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason"`
	Err     error  `json:"-"`
}

// Table is the ranked output handed to renderers, already in display order.
type Table struct {
	Rows        []Standing   `json:"rows"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Players     int          `json:"players"`
	Processed   int          `json:"processed"`
	Skipped     int          `json:"skipped"`
}
