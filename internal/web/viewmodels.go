package web

import "tennis-league/internal/model"

type BaseView struct {
	Title        string
	FlashSuccess string
	FlashError   string
	CanEdit      bool
}

type StandingsView struct {
	BaseView
	Rows        []model.Standing
	Diagnostics []model.Diagnostic
	Players     int
	Matches     int
	Processed   int
	Skipped     int
	UpdatedAt   string
	Error       string
}

type MatchesView struct {
	BaseView
	Players []model.Player
	Matches []MatchView
	Form    MatchFormView
}

type MatchView struct {
	Match     model.Match
	ScoreLine string
	Winner    string
	Forfeit   bool
	Note      string
}

type MatchFormView struct {
	PlayerA string
	PlayerB string
	Score   string
}

type standingsResponse struct {
	UpdatedAt string      `json:"updated_at"`
	Table     model.Table `json:"table"`
	Error     string      `json:"error,omitempty"`
}
