package service

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

// CSVHeader is the first line of every CSV export. It is written unquoted.
const CSVHeader = "Name,Email,Phone,Source,Status,Created At,Notes Count"

// LeadLister is the read side of the lead store that exports need.
type LeadLister interface {
	List(ctx context.Context, query string, filter domain.StatusFilter) (domain.Leads, domain.Revision)
}

// ExportService turns the filtered lead list into downloadable rows.
type ExportService struct {
	leads LeadLister
	loc   *time.Location
}

// NewExportService builds an ExportService. Creation dates in the CSV are
// rendered in loc; nil means UTC.
func NewExportService(leads LeadLister, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{leads: leads, loc: loc}
}

// Export returns one row per lead matching query and filter, in list order.
func (s *ExportService) Export(ctx context.Context, query string, filter domain.StatusFilter) []domain.ExportRow {
	leads, _ := s.leads.List(ctx, query, filter)
	return domain.ExportRows(leads)
}

// CSV renders rows as CSV text: the header line, then one line per row with
// every cell double-quoted and embedded quotes doubled. Lines are separated by
// "\n" with no trailing newline.
func (s *ExportService) CSV(rows []domain.ExportRow) []byte {
	var buf bytes.Buffer
	buf.WriteString(CSVHeader)
	for _, r := range rows {
		buf.WriteByte('\n')
		cells := [...]string{
			r.Name,
			r.Email,
			r.Phone,
			r.Source,
			string(r.Status),
			r.CreatedAt.In(s.loc).Format("1/2/2006"),
			strconv.Itoa(r.NotesCount),
		}
		for i, c := range cells {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(c, `"`, `""`))
			buf.WriteByte('"')
		}
	}
	return buf.Bytes()
}

// FileName is the download name for an export produced at now. The date part
// is always the UTC calendar date.
func (s *ExportService) FileName(now time.Time, ext string) string {
	return "crm_leads_" + now.UTC().Format(time.DateOnly) + "." + ext
}
