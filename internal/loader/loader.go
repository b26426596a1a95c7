package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tennis-league/internal/cache"
	"tennis-league/internal/model"
	"tennis-league/internal/store"

	log "github.com/sirupsen/logrus"
)

// DefaultTTL matches how often the league sheet was re-read.
const DefaultTTL = 10 * time.Minute

// Loader supplies the roster and raw match list for one standings computation.
type Loader interface {
	Load(ctx context.Context) (model.Snapshot, error)
}

type storeLoader struct {
	store store.Store
	now   func() time.Time
}

// FromStore reads the roster and matches in the order they were entered.
func FromStore(s store.Store) Loader {
	return &storeLoader{store: s, now: time.Now}
}

func (l *storeLoader) Load(ctx context.Context) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	players, err := l.store.ListPlayers()
	if err != nil {
		return model.Snapshot{}, err
	}
	roster := make([]string, 0, len(players))
	for _, p := range players {
		roster = append(roster, p.DisplayName())
	}
	matches, err := l.store.ListMatches()
	if err != nil {
		return model.Snapshot{}, err
	}
	records := make([]model.MatchRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, m.Record())
	}
	return model.Snapshot{Roster: roster, Matches: records, LoadedAt: l.now()}, nil
}

// CachedLoader serves snapshots from a cache and reloads at most once per TTL.
type CachedLoader struct {
	next  Loader
	cache cache.Cache
	key   string
	ttl   time.Duration
	mu    sync.Mutex
}

func Cached(next Loader, c cache.Cache, key string, ttl time.Duration) *CachedLoader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedLoader{next: next, cache: c, key: key, ttl: ttl}
}

func (l *CachedLoader) Load(ctx context.Context) (model.Snapshot, error) {
	if snap, ok := l.cached(ctx); ok {
		return snap, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if snap, ok := l.cached(ctx); ok {
		return snap, nil
	}

	snap, err := l.next.Load(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := l.cache.Set(ctx, l.key, payload, l.ttl); err != nil {
		log.WithError(err).WithField("key", l.key).Warn("cache write failed")
	}
	return snap, nil
}

func (l *CachedLoader) Invalidate(ctx context.Context) error {
	return l.cache.Delete(ctx, l.key)
}

func (l *CachedLoader) cached(ctx context.Context) (model.Snapshot, bool) {
	payload, ok, err := l.cache.Get(ctx, l.key)
	if err != nil {
		log.WithError(err).WithField("key", l.key).Warn("cache read failed")
		return model.Snapshot{}, false
	}
	if !ok {
		return model.Snapshot{}, false
	}
	var snap model.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		log.WithError(err).WithField("key", l.key).Warn("discarding unreadable cached snapshot")
		return model.Snapshot{}, false
	}
	return snap, true
}
