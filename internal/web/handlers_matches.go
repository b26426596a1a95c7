package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"tennis-league/internal/model"
	"tennis-league/internal/store"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.store.ListMatches()
	if err != nil {
		log.WithError(err).Error("list matches")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	players, err := s.store.ListPlayers()
	if err != nil {
		log.WithError(err).Error("list players")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	views := make([]MatchView, 0, len(matches))
	// newest first on the entry page; ranking still uses entry order
	for i := len(matches) - 1; i >= 0; i-- {
		views = append(views, matchView(matches[i]))
	}
	view := MatchesView{
		BaseView: BaseView{
			Title:        "경기 결과 입력",
			FlashSuccess: flashMessage(r.URL.Query().Get("notice")),
			FlashError:   flashError(r.URL.Query().Get("error")),
			CanEdit:      true,
		},
		Players: players,
		Matches: views,
		Form: MatchFormView{
			PlayerA: r.URL.Query().Get("player_a"),
			PlayerB: r.URL.Query().Get("player_b"),
			Score:   r.URL.Query().Get("score"),
		},
	}
	if err := s.templates.Render(w, "matches.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleMatchCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "잘못된 요청입니다", http.StatusBadRequest)
		return
	}
	players, err := s.store.ListPlayers()
	if err != nil {
		log.WithError(err).Error("list players")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	match, code := parseMatchForm(r, players)
	if code != "" {
		redirectWith(w, r, "/matches", url.Values{
			"error":    {code},
			"player_a": {match.PlayerA},
			"player_b": {match.PlayerB},
			"score":    {match.Score},
		})
		return
	}
	if _, err := s.store.CreateMatch(match); err != nil {
		log.WithError(err).Error("create match")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.refresh(r.Context())
	redirectWith(w, r, "/matches", url.Values{"notice": {"match_added"}})
}

func (s *Server) handleMatchDelete(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if err := s.store.DeleteMatch(matchID); err != nil {
		if errors.Is(err, store.ErrMatchNotFound) {
			redirectWith(w, r, "/matches", url.Values{"error": {"not_found"}})
			return
		}
		log.WithError(err).WithField("match_id", matchID).Error("delete match")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.refresh(r.Context())
	redirectWith(w, r, "/matches", url.Values{"notice": {"match_deleted"}})
}

func (s *Server) handlePlayerAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "잘못된 요청입니다", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	_, err := s.store.AddPlayer(model.Player{Name: name})
	switch {
	case errors.Is(err, store.ErrNameRequired):
		redirectWith(w, r, "/matches", url.Values{"error": {"name_required"}})
		return
	case errors.Is(err, store.ErrPlayerExists):
		redirectWith(w, r, "/matches", url.Values{"error": {"player_exists"}})
		return
	case err != nil:
		log.WithError(err).WithField("name", name).Error("add player")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.refresh(r.Context())
	redirectWith(w, r, "/matches", url.Values{"notice": {"player_added"}})
}

func (s *Server) handlePlayerRemove(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	if err := s.store.RemovePlayer(playerID); err != nil {
		if errors.Is(err, store.ErrPlayerNotFound) {
			redirectWith(w, r, "/matches", url.Values{"error": {"not_found"}})
			return
		}
		log.WithError(err).WithField("player_id", playerID).Error("remove player")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.refresh(r.Context())
	redirectWith(w, r, "/matches", url.Values{"notice": {"player_removed"}})
}

// redirectWith sends the browser to target with params merged into its query.
func redirectWith(w http.ResponseWriter, r *http.Request, target string, params url.Values) {
	u, err := url.Parse(target)
	if err != nil {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			if v != "" {
				q.Add(key, v)
			}
		}
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
