package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tennis-league/internal/model"

	"github.com/google/uuid"
)

// sqlStore holds the queries shared by the SQLite and Postgres stores.
type sqlStore struct {
	db *sql.DB
	d  dialect
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) ListPlayers() ([]model.Player, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM players ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		var p model.Player
		var createdAt sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		if createdAt.Valid {
			if parsed, ok := parseTimeString(createdAt.String); ok {
				p.CreatedAt = parsed
			}
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *sqlStore) AddPlayer(player model.Player) (model.Player, error) {
	player.Name = strings.TrimSpace(player.Name)
	if player.Name == "" {
		return model.Player{}, ErrNameRequired
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	b := s.d.bind
	_, err := s.db.Exec(
		fmt.Sprintf(`INSERT INTO players (id, name, seq, created_at) VALUES (%s, %s, (SELECT COALESCE(MAX(seq), 0) + 1 FROM players), %s)`, b(1), b(2), b(3)),
		player.ID, player.Name, timeValueString(player.CreatedAt),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.Player{}, ErrPlayerExists
		}
		return model.Player{}, fmt.Errorf("insert player: %w", err)
	}
	return player, nil
}

func (s *sqlStore) RemovePlayer(id string) error {
	res, err := s.db.Exec(`DELETE FROM players WHERE id = `+s.d.bind(1), id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (s *sqlStore) ListMatches() ([]model.Match, error) {
	rows, err := s.db.Query(`SELECT id, player_a, player_b, score, seq, created_at FROM matches ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		var m model.Match
		var createdAt sql.NullString
		if err := rows.Scan(&m.ID, &m.PlayerA, &m.PlayerB, &m.Score, &m.Seq, &createdAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if createdAt.Valid {
			if parsed, ok := parseTimeString(createdAt.String); ok {
				m.CreatedAt = parsed
			}
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *sqlStore) CreateMatch(match model.Match) (model.Match, error) {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	b := s.d.bind
	err := s.db.QueryRow(
		fmt.Sprintf(`INSERT INTO matches (id, player_a, player_b, score, seq, created_at) VALUES (%s, %s, %s, %s, (SELECT COALESCE(MAX(seq), 0) + 1 FROM matches), %s) RETURNING seq`, b(1), b(2), b(3), b(4), b(5)),
		match.ID, match.PlayerA, match.PlayerB, match.Score, timeValueString(match.CreatedAt),
	).Scan(&match.Seq)
	if err != nil {
		return model.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return match, nil
}

func (s *sqlStore) DeleteMatch(id string) error {
	res, err := s.db.Exec(`DELETE FROM matches WHERE id = `+s.d.bind(1), id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func timeValueString(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func (s *sqlStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
