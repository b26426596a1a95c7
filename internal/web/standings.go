package web

import (
	"context"
	"fmt"
	"time"

	"tennis-league/internal/model"
	"tennis-league/internal/ranking"
)

const updatedAtLayout = "2006-01-02 15:04:05"

// buildStandings loads the current snapshot and ranks it.
func (s *Server) buildStandings(ctx context.Context) (model.Snapshot, model.Table, error) {
	snap, err := s.board.Load(ctx)
	if err != nil {
		return model.Snapshot{}, model.Table{}, err
	}
	return snap, ranking.Compute(snap.Roster, snap.Matches), nil
}

func (s *Server) standingsView(ctx context.Context) StandingsView {
	view := StandingsView{
		BaseView: BaseView{Title: "테니스 리그 순위표", CanEdit: s.canEdit()},
	}
	snap, table, err := s.buildStandings(ctx)
	if err != nil {
		view.Error = fmt.Sprintf("경기 데이터를 불러오지 못했습니다: %v", err)
		return view
	}
	view.Rows = table.Rows
	view.Diagnostics = table.Diagnostics
	view.Players = table.Players
	view.Matches = len(snap.Matches)
	view.Processed = table.Processed
	view.Skipped = table.Skipped
	view.UpdatedAt = formatUpdatedAt(snap.LoadedAt)
	return view
}

func formatUpdatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(updatedAtLayout)
}

func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}
