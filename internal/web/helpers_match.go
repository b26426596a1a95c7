package web

import (
	"net/http"
	"strings"

	"tennis-league/internal/model"
	"tennis-league/internal/ranking"
)

// parseMatchForm reads a result entry and checks both names against the roster.
// The score itself is kept as typed; scoring problems are resolved when ranking.
func parseMatchForm(r *http.Request, players []model.Player) (model.Match, string) {
	match := model.Match{
		PlayerA: strings.TrimSpace(r.FormValue("player_a")),
		PlayerB: strings.TrimSpace(r.FormValue("player_b")),
		Score:   strings.Join(strings.Fields(r.FormValue("score")), " "),
	}
	if match.PlayerA == "" || match.PlayerB == "" {
		return match, "player_missing"
	}
	if match.PlayerA == match.PlayerB {
		return match, "same_player"
	}
	if !rosterContains(players, match.PlayerA) || !rosterContains(players, match.PlayerB) {
		return match, "unknown_player"
	}
	return match, ""
}

func rosterContains(players []model.Player, name string) bool {
	for _, p := range players {
		if p.DisplayName() == name {
			return true
		}
	}
	return false
}

func matchView(match model.Match) MatchView {
	outcome := ranking.ParseScore(match.PlayerA, match.PlayerB, match.Score)
	view := MatchView{
		Match:     match,
		ScoreLine: match.Score,
		Winner:    outcome.Winner(),
		Forfeit:   outcome.Kind == model.OutcomeForfeit,
	}
	if view.ScoreLine == "" {
		view.ScoreLine = "-"
	}
	if view.Forfeit {
		view.Note = match.PlayerA + " 기권패"
	}
	return view
}
