package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tennis-league/internal/cache"
	"tennis-league/internal/loader"
	"tennis-league/internal/model"
	"tennis-league/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLoader struct{}

func (failingLoader) Load(context.Context) (model.Snapshot, error) {
	return model.Snapshot{}, errors.New("sheet unavailable")
}

type staticLoader struct {
	snap model.Snapshot
}

func (l staticLoader) Load(context.Context) (model.Snapshot, error) {
	return l.snap, nil
}

func setupTemplates(t *testing.T) *Templates {
	t.Helper()
	templates, err := NewTemplates(os.DirFS("../.."))
	require.NoError(t, err)
	return templates
}

func setupStoreServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	s := store.NewEmptyMemoryStore()
	for _, name := range []string{"Kim", "Lee", "Park"} {
		_, err := s.AddPlayer(model.Player{Name: name})
		require.NoError(t, err)
	}
	board := loader.Cached(loader.FromStore(s), cache.NewMemoryCache(), "test", time.Hour)
	return NewServer(board, s, setupTemplates(t)), s
}

func listPlayers(t *testing.T, s store.Store) []model.Player {
	t.Helper()
	players, err := s.ListPlayers()
	require.NoError(t, err)
	return players
}

func listMatches(t *testing.T, s store.Store) []model.Match {
	t.Helper()
	matches, err := s.ListMatches()
	require.NoError(t, err)
	return matches
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type checkFunc func(context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	srv, _ := setupStoreServer(t)
	srv.AddHealthCheck("cache", checkFunc(func(context.Context) error { return nil }))
	rec := do(t, srv.Routes(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHealthzReportsFailingCheck(t *testing.T) {
	srv, _ := setupStoreServer(t)
	srv.AddHealthCheck("cache", checkFunc(func(context.Context) error { return errors.New("connection refused") }))
	rec := do(t, srv.Routes(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"cache":"connection refused"}}`, rec.Body.String())
}

func TestHealthzPingsClosedStore(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "league.db"), store.SQLiteOptions{})
	require.NoError(t, err)
	srv := NewServer(loader.FromStore(s), s, setupTemplates(t))
	srv.AddHealthCheck("store", s)

	rec := do(t, srv.Routes(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.Close())
	rec = do(t, srv.Routes(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// the standings page shows the load failure instead of an empty table
	rec = do(t, srv.Routes(), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<table")
}

func TestStandingsPageRendersRankedTable(t *testing.T) {
	srv, s := setupStoreServer(t)
	_, err := s.CreateMatch(model.Match{PlayerA: "Lee", PlayerB: "Kim", Score: "6-4 6-3"})
	require.NoError(t, err)

	rec := do(t, srv.Routes(), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "순위")
	assert.Contains(t, body, "게임득실")
	// html/template escapes the sign
	assert.Contains(t, body, "<td>&#43;5</td>")
	assert.Contains(t, body, "<td>-5</td>")
	assert.Contains(t, body, "총 3명 참가, 1경기 반영")
	assert.Less(t, strings.Index(body, "Lee"), strings.Index(body, "Kim"))

	rec = do(t, srv.Routes(), http.MethodGet, "/api/standings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"game_diff":5`)
	assert.Contains(t, rec.Body.String(), `"game_diff":-5`)
}

func TestStandingsPartialForHTMX(t *testing.T) {
	srv, _ := setupStoreServer(t)
	rec := do(t, srv.Routes(), http.MethodGet, "/", nil, "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<html")
	assert.Contains(t, rec.Body.String(), "<table")

	rec = do(t, srv.Routes(), http.MethodGet, "/standings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<html")
}

func TestStandingsPageShowsLoaderError(t *testing.T) {
	srv := NewServer(failingLoader{}, nil, setupTemplates(t))
	rec := do(t, srv.Routes(), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheet unavailable")
	assert.NotContains(t, rec.Body.String(), "<table")
}

func TestStandingsJSON(t *testing.T) {
	snap := model.Snapshot{
		Roster: []string{"A", "B", "C"},
		Matches: []model.MatchRecord{
			{PlayerA: "A", PlayerB: "B", Score: ""},
			{PlayerA: "A", PlayerB: "Z", Score: "6-0 6-0"},
		},
		LoadedAt: time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	srv := NewServer(staticLoader{snap: snap}, nil, setupTemplates(t))

	rec := do(t, srv.Routes(), http.MethodGet, "/api/standings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp standingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-05-01 09:30:00", resp.UpdatedAt)
	require.Len(t, resp.Table.Rows, 3)
	assert.Equal(t, "B", resp.Table.Rows[0].Player)
	assert.Equal(t, 12, resp.Table.Rows[0].GameDiff)
	assert.Equal(t, 1, resp.Table.Processed)
	assert.Equal(t, 1, resp.Table.Skipped)
	assert.Len(t, resp.Table.Diagnostics, 2)
}

func TestStandingsJSONLoaderError(t *testing.T) {
	srv := NewServer(failingLoader{}, nil, setupTemplates(t))
	rec := do(t, srv.Routes(), http.MethodGet, "/api/standings", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheet unavailable")
}

func TestEntryRoutesOnlyWithStore(t *testing.T) {
	srv := NewServer(failingLoader{}, nil, setupTemplates(t))
	rec := do(t, srv.Routes(), http.MethodGet, "/matches", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, srv.Routes(), http.MethodPost, "/matches", url.Values{"player_a": {"A"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchCreateRefreshesStandings(t *testing.T) {
	srv, s := setupStoreServer(t)
	h := srv.Routes()

	// prime the cache
	rec := do(t, h, http.MethodGet, "/api/standings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/matches", url.Values{"player_a": {"Park"}, "player_b": {"Kim"}, "score": {" 6-1   6-1 "}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/matches?notice=match_added", rec.Header().Get("Location"))
	matches := listMatches(t, s)
	require.Len(t, matches, 1)
	assert.Equal(t, "6-1 6-1", matches[0].Score)

	rec = do(t, h, http.MethodGet, "/api/standings", nil)
	var resp standingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Park", resp.Table.Rows[0].Player)
	assert.Equal(t, 1, resp.Table.Processed)
}

func TestMatchCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		code string
	}{
		{name: "missing player", form: url.Values{"player_a": {"Kim"}}, code: "player_missing"},
		{name: "same player", form: url.Values{"player_a": {"Kim"}, "player_b": {"Kim"}}, code: "same_player"},
		{name: "unknown player", form: url.Values{"player_a": {"Kim"}, "player_b": {"Zed"}}, code: "unknown_player"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, s := setupStoreServer(t)
			rec := do(t, srv.Routes(), http.MethodPost, "/matches", tt.form)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, tt.code, loc.Query().Get("error"))
			assert.Empty(t, listMatches(t, s))
		})
	}
}

func TestMatchDelete(t *testing.T) {
	srv, s := setupStoreServer(t)
	match, err := s.CreateMatch(model.Match{PlayerA: "Kim", PlayerB: "Lee", Score: "6-0 6-0"})
	require.NoError(t, err)

	rec := do(t, srv.Routes(), http.MethodPost, "/matches/"+match.ID+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/matches?notice=match_deleted", rec.Header().Get("Location"))
	assert.Empty(t, listMatches(t, s))

	rec = do(t, srv.Routes(), http.MethodPost, "/matches/"+match.ID+"/delete", url.Values{})
	assert.Equal(t, "/matches?error=not_found", rec.Header().Get("Location"))
}

func TestPlayerAddAndRemove(t *testing.T) {
	srv, s := setupStoreServer(t)
	h := srv.Routes()

	rec := do(t, h, http.MethodPost, "/players", url.Values{"name": {" Choi "}})
	assert.Equal(t, "/matches?notice=player_added", rec.Header().Get("Location"))
	rec = do(t, h, http.MethodPost, "/players", url.Values{"name": {"Choi"}})
	assert.Equal(t, "/matches?error=player_exists", rec.Header().Get("Location"))
	rec = do(t, h, http.MethodPost, "/players", url.Values{"name": {""}})
	assert.Equal(t, "/matches?error=name_required", rec.Header().Get("Location"))

	players := listPlayers(t, s)
	require.Len(t, players, 4)
	assert.Equal(t, "Choi", players[3].Name)

	rec = do(t, h, http.MethodPost, "/players/"+players[3].ID+"/remove", url.Values{})
	assert.Equal(t, "/matches?notice=player_removed", rec.Header().Get("Location"))
	assert.Len(t, listPlayers(t, s), 3)
}

func TestMatchesPage(t *testing.T) {
	srv, s := setupStoreServer(t)
	_, err := s.CreateMatch(model.Match{PlayerA: "Kim", PlayerB: "Lee", Score: ""})
	require.NoError(t, err)
	_, err = s.CreateMatch(model.Match{PlayerA: "Park", PlayerB: "Lee", Score: "6-4 6-4"})
	require.NoError(t, err)

	rec := do(t, srv.Routes(), http.MethodGet, "/matches?notice=match_added", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "경기 결과를 저장했습니다.")
	assert.Contains(t, body, "Kim 기권패")
	assert.Less(t, strings.Index(body, "6-4 6-4"), strings.Index(body, "Kim 기권패"))
}

func TestMatchViewOutcome(t *testing.T) {
	view := matchView(model.Match{PlayerA: "Kim", PlayerB: "Lee", Score: "6-4 6x-3"})
	assert.True(t, view.Forfeit)
	assert.Equal(t, "Lee", view.Winner)

	view = matchView(model.Match{PlayerA: "Kim", PlayerB: "Lee", Score: "6-4 6-3"})
	assert.False(t, view.Forfeit)
	assert.Equal(t, "Kim", view.Winner)
	assert.Empty(t, view.Note)
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+3", signed(3))
	assert.Equal(t, "0", signed(0))
	assert.Equal(t, "-12", signed(-12))
}
