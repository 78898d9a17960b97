package domain

import "time"

// ExportRow is one lead flattened for export.
// Phone is "" when the lead has none; notes are reduced to their count.
type ExportRow struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Source     string    `json:"source"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	NotesCount int       `json:"notesCount"`
}

// ExportRows flattens leads in order.
func ExportRows(ls Leads) []ExportRow {
	rows := make([]ExportRow, 0, len(ls))
	for _, l := range ls {
		rows = append(rows, ExportRow{
			Name:       l.Name,
			Email:      l.Email,
			Phone:      l.PhoneOrEmpty(),
			Source:     l.Source,
			Status:     l.Status,
			CreatedAt:  l.CreatedAt,
			NotesCount: len(l.Notes),
		})
	}
	return rows
}

// Dashboard bundles every derived view the admin dashboard shows.
type Dashboard struct {
	Stats        DashboardStats `json:"stats"`
	Distribution []StatusSlice  `json:"distribution"`
	TopSources   []SourceCount  `json:"topSources"`
	ChartSources []SourceCount  `json:"chartSources"`
	Trend        []TrendPoint   `json:"trend"`
	FollowUps    []FollowUp     `json:"followUps"`
}

// maxFollowUps caps the follow-up list on the dashboard.
const maxFollowUps = 10

// BuildDashboard computes the dashboard for ls as of now.
func BuildDashboard(ls Leads, now time.Time, trendDays int) Dashboard {
	stats := ComputeDashboardStats(ls)
	return Dashboard{
		Stats:        stats,
		Distribution: StatusDistribution(stats),
		TopSources:   ComputeSourceBreakdown(ls, SummarySources),
		ChartSources: ComputeSourceBreakdown(ls, ChartSources),
		Trend:        ComputeTrend(ls, now, trendDays),
		FollowUps:    UpcomingFollowUps(ls, now, maxFollowUps),
	}
}
