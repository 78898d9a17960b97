package handler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
)

// GetExport handles GET /export.
// It exports the leads matching ?q= and ?status=, as CSV by default or as a
// JSON array with ?format=json. Either way the response is a download.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	p, err := bindListParams(r)
	if err != nil {
		unprocessable(w, err.Error())
		return
	}
	format := "csv"
	var f *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &f); err != nil {
		unprocessable(w, "invalid format: "+err.Error())
		return
	}
	if f != nil {
		format = *f
	}
	if format != "csv" && format != "json" {
		unprocessable(w, "format must be one of: csv json")
		return
	}

	rows := s.export.Export(r.Context(), p.Query, p.Filter)
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": s.export.FileName(s.now(), format),
	})
	w.Header().Set("Content-Disposition", disposition)
	s.log.InfoContext(r.Context(), "leads exported", "format", format, "rows", len(rows))

	if format == "json" {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	body := s.export.CSV(rows)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
