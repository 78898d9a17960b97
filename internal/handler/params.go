package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

// maxTrendDays bounds ?days= on the dashboard.
const maxTrendDays = 366

// listParams are the shared ?q=&status= filters of the list and export routes.
type listParams struct {
	Query  string
	Filter domain.StatusFilter
}

func bindListParams(r *http.Request) (listParams, error) {
	var q, status *string
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &q); err != nil {
		return listParams{}, fmt.Errorf("invalid q: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "status", query, &status); err != nil {
		return listParams{}, fmt.Errorf("invalid status: %w", err)
	}
	p := listParams{Filter: domain.FilterAll}
	if q != nil {
		p.Query = *q
	}
	if status != nil {
		f, err := domain.ParseStatusFilter(*status)
		if err != nil {
			return listParams{}, err
		}
		p.Filter = f
	}
	return p, nil
}

func bindTrendDays(r *http.Request) (int, error) {
	var days *int
	if err := runtime.BindQueryParameter("form", true, false, "days", r.URL.Query(), &days); err != nil {
		return 0, fmt.Errorf("invalid days: %w", err)
	}
	if days == nil {
		return domain.DefaultTrendDays, nil
	}
	if *days < 1 || *days > maxTrendDays {
		return 0, fmt.Errorf("days must be between 1 and %d", maxTrendDays)
	}
	return *days, nil
}

// etag renders a strong validator for a snapshot revision. Parts further
// qualify it, e.g. with the date for views that depend on today.
func etag(rev domain.Revision, parts ...string) string {
	tag := rev.Epoch + "-r" + strconv.FormatUint(rev.Seq, 10)
	for _, p := range parts {
		tag += "-" + p
	}
	return `"` + tag + `"`
}

// notModified sets the ETag header and answers 304 when the client already
// holds this version.
func notModified(w http.ResponseWriter, r *http.Request, tag string) bool {
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "private, no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// etagMatches reports whether an If-None-Match value lists tag, using the weak
// comparison If-None-Match calls for: W/ prefixes are ignored.
func etagMatches(header, tag string) bool {
	tag = strings.TrimPrefix(tag, "W/")
	for _, c := range strings.Split(header, ",") {
		c = strings.TrimSpace(c)
		if c == "*" || (c != "" && strings.TrimPrefix(c, "W/") == tag) {
			return true
		}
	}
	return false
}
