package handler

import (
	"net/http"
	"strconv"
	"time"
)

// GetDashboard handles GET /dashboard?days=N (default 7).
// The ETag covers the snapshot revision, the window and the current UTC date,
// since the trend and follow-ups move with the calendar.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	days, err := bindTrendDays(r)
	if err != nil {
		unprocessable(w, err.Error())
		return
	}
	d, rev := s.leads.Dashboard(r.Context(), days)
	today := s.now().UTC().Format(time.DateOnly)
	if notModified(w, r, etag(rev, strconv.Itoa(days), today)) {
		return
	}
	writeJSON(w, http.StatusOK, d)
}
