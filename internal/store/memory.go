package store

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"tennis-league/internal/model"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu        sync.RWMutex
	players   map[string]model.Player
	playerSeq map[string]int
	matches   map[string]model.Match
	nextSeq   int
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		players:   make(map[string]model.Player),
		playerSeq: make(map[string]int),
		matches:   make(map[string]model.Match),
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("APP"))) != "prod" {
		seedData(s)
	}

	return s
}

// NewEmptyMemoryStore returns a store without demo data.
func NewEmptyMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:   make(map[string]model.Player),
		playerSeq: make(map[string]int),
		matches:   make(map[string]model.Match),
	}
}

func (s *MemoryStore) ListPlayers() ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return s.playerSeq[players[i].ID] < s.playerSeq[players[j].ID] })
	return players, nil
}

func (s *MemoryStore) AddPlayer(player model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player.Name = strings.TrimSpace(player.Name)
	if player.Name == "" {
		return model.Player{}, ErrNameRequired
	}
	for _, p := range s.players {
		if p.Name == player.Name {
			return model.Player{}, ErrPlayerExists
		}
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	s.nextSeq++
	s.players[player.ID] = player
	s.playerSeq[player.ID] = s.nextSeq
	return player, nil
}

func (s *MemoryStore) RemovePlayer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return ErrPlayerNotFound
	}
	delete(s.players, id)
	delete(s.playerSeq, id)
	return nil
}

func (s *MemoryStore) ListMatches() ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Seq < matches[j].Seq })
	return matches, nil
}

func (s *MemoryStore) CreateMatch(match model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	s.nextSeq++
	match.Seq = s.nextSeq
	s.matches[match.ID] = match
	return match, nil
}

func (s *MemoryStore) DeleteMatch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[id]; !ok {
		return ErrMatchNotFound
	}
	delete(s.matches, id)
	return nil
}

func seedData(s *MemoryStore) {
	rng := rand.New(rand.NewSource(42))

	names := []string{"김민준", "이서연", "박지훈", "최수아", "정도윤", "강하은", "윤시우", "한지민"}
	for _, name := range names {
		_, _ = s.AddPlayer(model.Player{Name: name})
	}

	// one full round robin, with an unplayed match and a mistyped score
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			score := randomScore(rng)
			switch {
			case i == 0 && j == len(names)-1:
				score = ""
			case i == 2 && j == 5:
				score = "6-4 부상"
			}
			_, _ = s.CreateMatch(model.Match{PlayerA: names[i], PlayerB: names[j], Score: score})
		}
	}
}

func randomScore(rng *rand.Rand) string {
	sets := make([]string, 0, 3)
	wonA, wonB := 0, 0
	for wonA < 2 && wonB < 2 {
		winner, loser := randomSet(rng)
		if rng.Intn(2) == 0 {
			sets = append(sets, formatSet(winner, loser, rng))
			wonA++
		} else {
			sets = append(sets, formatSet(loser, winner, rng))
			wonB++
		}
	}
	return strings.Join(sets, " ")
}

func randomSet(rng *rand.Rand) (int, int) {
	switch rng.Intn(6) {
	case 0:
		return 7, 5
	case 1:
		return 7, 6
	default:
		return 6, rng.Intn(5)
	}
}

func formatSet(a, b int, rng *rand.Rand) string {
	if (a == 7 && b == 6) || (a == 6 && b == 7) {
		return fmt.Sprintf("%d-%d(%d)", a, b, rng.Intn(8))
	}
	return fmt.Sprintf("%d-%d", a, b)
}
