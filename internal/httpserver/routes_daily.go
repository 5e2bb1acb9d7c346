// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily target mode.
// Exposes one endpoint under /daily:
//   - GET /daily/leaderboard → fewest-guess daily wins for today (or ?date=YYYY-MM-DD)
//
// The daily target itself is chosen by daily.Picker inside the controller; these
// routes only read the results ledger.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordlemon/internal/daily"
	"github.com/robalobadob/wordlemon/internal/results"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string          `json:"date"`
	Top  []results.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.opts.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := s.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
