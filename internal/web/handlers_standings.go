package web

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	view := s.standingsView(r.Context())
	if isHTMX(r) {
		s.renderPartial(w, "standings_table.html", view)
		return
	}
	view.FlashSuccess = flashMessage(r.URL.Query().Get("notice"))
	if err := s.templates.Render(w, "standings.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleStandingsTable(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, "standings_table.html", s.standingsView(r.Context()))
}

func (s *Server) handleStandingsJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap, table, err := s.buildStandings(r.Context())
	if err != nil {
		log.WithError(err).Error("load standings")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(standingsResponse{Error: err.Error()})
		return
	}
	resp := standingsResponse{UpdatedAt: formatUpdatedAt(snap.LoadedAt), Table: table}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Warn("write standings response")
	}
}

func (s *Server) renderPartial(w http.ResponseWriter, name string, data any) {
	if err := s.templates.RenderPartial(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
