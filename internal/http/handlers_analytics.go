package http

import (
	"net/http"

	"fintrack/internal/services"
)

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	q := r.URL.Query()

	from, err := queryDate(r, "from")
	if err != nil {
		respondError(w, r, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := s.analytics.Breakdown(r.Context(), userID,
		q.Get("by"), services.Period(q.Get("period")), from, to)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewBreakdown(rows))
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	points, err := s.analytics.Trend(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewTrend(points))
}

func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	score, err := s.analytics.Health(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewHealth(score))
}
