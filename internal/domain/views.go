package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// StatusFilter narrows a lead list to one status, or to none with FilterAll.
type StatusFilter string

// FilterAll matches every status.
const FilterAll StatusFilter = "all"

// ParseStatusFilter accepts "all", "" (treated as all) or a valid Status.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", err
	}
	return StatusFilter(st), nil
}

// Matches reports whether a lead with status s passes the filter.
func (f StatusFilter) Matches(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

// FilterLeads returns the leads whose name or email contains query
// (case-insensitive) and whose status passes filter. Input order is kept.
// An empty query matches every lead.
func FilterLeads(ls Leads, query string, filter StatusFilter) Leads {
	q := strings.ToLower(query)
	out := make(Leads, 0, len(ls))
	for _, l := range ls {
		matchesSearch := strings.Contains(strings.ToLower(l.Name), q) ||
			strings.Contains(strings.ToLower(l.Email), q)
		if matchesSearch && filter.Matches(l.Status) {
			out = append(out, l)
		}
	}
	return out
}

// DashboardStats are the headline counters of the dashboard.
// ConversionRate is converted/total as a percentage with one decimal.
type DashboardStats struct {
	Total          int    `json:"total"`
	New            int    `json:"new"`
	Contacted      int    `json:"contacted"`
	Converted      int    `json:"converted"`
	ConversionRate string `json:"conversionRate"`
}

// ComputeDashboardStats counts leads by status.
// An empty collection yields zero counts and a rate of "0.0".
func ComputeDashboardStats(ls Leads) DashboardStats {
	var s DashboardStats
	s.Total = len(ls)
	for _, l := range ls {
		switch l.Status {
		case StatusNew:
			s.New++
		case StatusContacted:
			s.Contacted++
		case StatusConverted:
			s.Converted++
		}
	}
	s.ConversionRate = "0.0"
	if s.Total > 0 {
		rate := float64(s.Converted) / float64(s.Total) * 100
		s.ConversionRate = strconv.FormatFloat(rate, 'f', 1, 64)
	}
	return s
}

// StatusSlice is one segment of the status distribution chart.
type StatusSlice struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Value  int    `json:"value"`
}

// StatusDistribution turns stats into chart segments, dropping empty ones.
func StatusDistribution(s DashboardStats) []StatusSlice {
	all := []StatusSlice{
		{Status: StatusNew, Label: "New", Value: s.New},
		{Status: StatusContacted, Label: "Contacted", Value: s.Contacted},
		{Status: StatusConverted, Label: "Converted", Value: s.Converted},
	}
	out := make([]StatusSlice, 0, len(all))
	for _, sl := range all {
		if sl.Value > 0 {
			out = append(out, sl)
		}
	}
	return out
}

// Top-N sizes used by the dashboard.
const (
	SummarySources = 5
	ChartSources   = 8
)

// maxSourceLabel is the chart label width before truncation.
const maxSourceLabel = 15

// SourceCount is the number of leads that came from one source.
// Label is Source shortened for chart axes.
type SourceCount struct {
	Source string `json:"source"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// ComputeSourceBreakdown counts leads per source and returns the top n by
// count, descending. Ties keep the order in which sources were first seen.
// n <= 0 returns every source.
func ComputeSourceBreakdown(ls Leads, n int) []SourceCount {
	idx := make(map[string]int)
	var out []SourceCount
	for _, l := range ls {
		i, ok := idx[l.Source]
		if !ok {
			i = len(out)
			idx[l.Source] = i
			out = append(out, SourceCount{Source: l.Source, Label: sourceLabel(l.Source)})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	if out == nil {
		return []SourceCount{}
	}
	return out
}

func sourceLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxSourceLabel {
		return s
	}
	return string(r[:maxSourceLabel]) + "..."
}

// TrendPoint is the lead intake of one calendar day, split by current status.
type TrendPoint struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	New       int    `json:"new"`
	Contacted int    `json:"contacted"`
	Converted int    `json:"converted"`
	Total     int    `json:"total"`
}

// DefaultTrendDays is the dashboard's default trend window.
const DefaultTrendDays = 7

// ComputeTrend buckets leads by the UTC calendar day of CreatedAt for the
// last days days ending on now's UTC date, oldest first.
func ComputeTrend(ls Leads, now time.Time, days int) []TrendPoint {
	if days <= 0 {
		return []TrendPoint{}
	}
	today := now.UTC()
	points := make([]TrendPoint, days)
	pos := make(map[string]int, days)
	for i := range days {
		d := today.AddDate(0, 0, -(days - 1 - i))
		key := d.Format(time.DateOnly)
		points[i] = TrendPoint{Date: key, Label: d.Format("Jan 2")}
		pos[key] = i
	}
	for _, l := range ls {
		i, ok := pos[l.CreatedAt.UTC().Format(time.DateOnly)]
		if !ok {
			continue
		}
		p := &points[i]
		switch l.Status {
		case StatusNew:
			p.New++
		case StatusContacted:
			p.Contacted++
		case StatusConverted:
			p.Converted++
		}
		p.Total++
	}
	return points
}

// FollowUp is a note with a follow-up date, flattened with its lead.
type FollowUp struct {
	LeadID   string `json:"leadId"`
	LeadName string `json:"leadName"`
	NoteID   string `json:"noteId"`
	Content  string `json:"content"`
	Date     string `json:"date"`
}

// UpcomingFollowUps lists notes whose follow-up date is today or later,
// soonest first. Notes with unparseable dates are skipped. limit <= 0
// returns them all.
func UpcomingFollowUps(ls Leads, now time.Time, limit int) []FollowUp {
	today := now.UTC().Format(time.DateOnly)
	out := []FollowUp{}
	for _, l := range ls {
		for _, n := range l.Notes {
			if n.FollowUpDate == nil {
				continue
			}
			d, err := ParseDate(*n.FollowUpDate)
			if err != nil || d < today {
				continue
			}
			out = append(out, FollowUp{
				LeadID:   l.ID,
				LeadName: l.Name,
				NoteID:   n.ID,
				Content:  n.Content,
				Date:     d,
			})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ParseDate normalises a "2006-01-02" calendar date.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return t.Format(time.DateOnly), nil
}
