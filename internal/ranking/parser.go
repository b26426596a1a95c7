package ranking

import (
	"fmt"
	"strconv"
	"strings"

	"tennis-league/internal/model"

	log "github.com/sirupsen/logrus"
)

// Forfeit score awarded to the second-named player.
const (
	ForfeitSets  = 2
	ForfeitGames = 12
)

// MaxSetGames bounds a single set side; larger values are treated as typos.
const MaxSetGames = 999

// ParseScore turns a free-text score such as "6-4 3-6 7-6(5)" into an outcome for
// playerA against playerB. It never fails: an empty score or any malformed set
// resolves the whole match as a forfeit by playerA.
func ParseScore(playerA, playerB, score string) model.Outcome {
	if strings.TrimSpace(score) == "" {
		log.WithFields(log.Fields{"player_a": playerA, "player_b": playerB}).
			Info("no score recorded, counting as forfeit by first player")
		return forfeit(playerA, playerB, ErrEmptyScore, "")
	}

	outcome := model.Outcome{Kind: model.OutcomeDecided, PlayerA: playerA, PlayerB: playerB}
	for _, token := range strings.Fields(score) {
		set, err := parseSet(token)
		if err != nil {
			log.WithFields(log.Fields{"player_a": playerA, "player_b": playerB, "token": token}).
				Info("malformed set score, counting as forfeit by first player")
			return forfeit(playerA, playerB, err, token)
		}
		outcome.Sets = append(outcome.Sets, set)
		outcome.GamesA += set.A
		outcome.GamesB += set.B
		// a level set goes to B
		if set.A > set.B {
			outcome.SetsA++
		} else {
			outcome.SetsB++
		}
	}
	return outcome
}

func parseSet(token string) (model.SetScore, error) {
	games := token
	if i := strings.Index(games, "("); i >= 0 {
		games = games[:i]
	}
	parts := strings.Split(games, "-")
	if len(parts) != 2 {
		return model.SetScore{}, fmt.Errorf("%w: %q", ErrMalformedSet, token)
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil || a > MaxSetGames || b > MaxSetGames {
		return model.SetScore{}, fmt.Errorf("%w: %q", ErrMalformedSet, token)
	}
	return model.SetScore{A: a, B: b}, nil
}

func forfeit(playerA, playerB string, cause error, token string) model.Outcome {
	return model.Outcome{
		Kind:    model.OutcomeForfeit,
		PlayerA: playerA,
		PlayerB: playerB,
		SetsB:   ForfeitSets,
		GamesB:  ForfeitGames,
		Cause:   cause,
		Token:   token,
	}
}
