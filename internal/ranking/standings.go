package ranking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tennis-league/internal/model"

	log "github.com/sirupsen/logrus"
)

// Compute ranks every roster player from the given match records. Records naming a
// player outside the roster are skipped and reported in the table diagnostics; bad
// scores are counted as forfeits by the first-named player.
func Compute(roster []string, matches []model.MatchRecord) model.Table {
	names := normalizeRoster(roster)
	index := make(map[string]*model.Stats, len(names))
	for _, name := range names {
		index[name] = &model.Stats{}
	}

	table := model.Table{Players: len(names)}
	for i, match := range matches {
		p1 := strings.TrimSpace(match.PlayerA)
		p2 := strings.TrimSpace(match.PlayerB)
		score := strings.TrimSpace(match.Score)

		statsA, okA := index[p1]
		statsB, okB := index[p2]
		if !okA || !okB {
			log.WithFields(log.Fields{"player_a": p1, "player_b": p2, "score": score}).
				Warn("match references a player outside the roster, skipping")
			table.Skipped++
			table.Diagnostics = append(table.Diagnostics, model.Diagnostic{
				Index:   i,
				PlayerA: p1,
				PlayerB: p2,
				Score:   score,
				Skipped: true,
				Reason:  unknownReason(p1, okA, p2, okB),
				Err:     ErrUnknownPlayer,
			})
			continue
		}

		outcome := ParseScore(p1, p2, score)
		if outcome.Kind == model.OutcomeForfeit {
			table.Diagnostics = append(table.Diagnostics, model.Diagnostic{
				Index:   i,
				PlayerA: p1,
				PlayerB: p2,
				Score:   score,
				Reason:  forfeitReason(outcome),
				Err:     outcome.Cause,
			})
		}

		index[outcome.Winner()].Wins++
		index[outcome.Loser()].Losses++
		statsA.Played++
		statsB.Played++

		setDiff := outcome.SetDiffA()
		gameDiff := outcome.GameDiffA()
		statsA.SetDiff += setDiff
		statsA.GameDiff += gameDiff
		statsB.SetDiff -= setDiff
		statsB.GameDiff -= gameDiff
		table.Processed++
	}

	rows := make([]model.Standing, 0, len(names))
	for _, name := range names {
		rows = append(rows, model.Standing{Player: name, Stats: *index[name]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if rows[i].SetDiff != rows[j].SetDiff {
			return rows[i].SetDiff > rows[j].SetDiff
		}
		return rows[i].GameDiff > rows[j].GameDiff
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	table.Rows = rows
	return table
}

// normalizeRoster trims names, drops blanks and keeps the first position of a repeated name.
func normalizeRoster(roster []string) []string {
	seen := make(map[string]bool, len(roster))
	names := make([]string, 0, len(roster))
	for _, raw := range roster {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func unknownReason(p1 string, okA bool, p2 string, okB bool) string {
	switch {
	case !okA && !okB:
		return fmt.Sprintf("%q and %q are not on the roster", p1, p2)
	case !okA:
		return fmt.Sprintf("%q is not on the roster", p1)
	default:
		return fmt.Sprintf("%q is not on the roster", p2)
	}
}

func forfeitReason(outcome model.Outcome) string {
	if errors.Is(outcome.Cause, ErrMalformedSet) {
		return fmt.Sprintf("set %q is not a score, forfeit by %s", outcome.Token, outcome.PlayerA)
	}
	return fmt.Sprintf("no score, forfeit by %s", outcome.PlayerA)
}
