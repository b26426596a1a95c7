package store

import (
	"errors"

	"tennis-league/internal/model"
)

var (
	ErrPlayerExists   = errors.New("player already exists")
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrNameRequired   = errors.New("player name is required")
)

// Store keeps the roster and raw match results of one league. Players and matches
// are listed in the order they were entered.
type Store interface {
	ListPlayers() ([]model.Player, error)
	AddPlayer(player model.Player) (model.Player, error)
	RemovePlayer(id string) error

	ListMatches() ([]model.Match, error)
	CreateMatch(match model.Match) (model.Match, error)
	DeleteMatch(id string) error
}
