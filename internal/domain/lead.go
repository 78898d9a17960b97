// Package domain contains the core data types and pure functions of the lead book:
// leads, notes, the immutable lead collection and the derived dashboard views.
// Nothing in this package performs I/O.
package domain

import (
	"fmt"
	"time"
)

// Status is a lead's position in the pipeline. Any transition is legal.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
)

// Statuses lists every valid Status in pipeline order.
var Statuses = []Status{StatusNew, StatusContacted, StatusConverted}

// ParseStatus converts s into a Status.
// Returns ErrValidation for anything outside new, contacted, converted.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNew, StatusContacted, StatusConverted:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// PublicSource is the source stamped on every lead submitted through the
// public contact form.
const PublicSource = "Website Contact Form"

// SuggestedSources are offered to admins when entering a lead by hand.
// Source is free-form; the list is a suggestion, not a constraint.
var SuggestedSources = []string{
	PublicSource,
	"Landing Page",
	"Newsletter Signup",
	"Google Ads",
	"Facebook Ads",
	"Referral",
	"Trade Show",
	"Cold Outreach",
	"Other",
}

// Note is a timestamped annotation attached to exactly one lead.
// FollowUpDate is a calendar date ("2006-01-02") with no time component.
type Note struct {
	ID           string    `json:"id" yaml:"id"`
	Content      string    `json:"content" yaml:"content"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	FollowUpDate *string   `json:"followUpDate,omitempty" yaml:"followUpDate,omitempty"`
}

// Lead is a prospective customer tracked through the status pipeline.
// ID and CreatedAt never change after creation. Notes are kept in insertion order.
type Lead struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Phone     *string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Source    string    `json:"source" yaml:"source"`
	Status    Status    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Notes     []Note    `json:"notes" yaml:"notes"`
}

// LeadFields holds the admin-editable fields of a lead.
// Notes and CreatedAt are deliberately absent.
type LeadFields struct {
	Name   string
	Email  string
	Phone  *string
	Source string
	Status Status
}

// LeadPatch is a partial edit of a lead. Nil fields keep the stored value.
// A Phone pointing at "" clears the phone.
type LeadPatch struct {
	Name   *string
	Email  *string
	Phone  *string
	Source *string
	Status *Status
}

// Apply returns l with the set fields of p.
func (p LeadPatch) Apply(l Lead) Lead {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		if *p.Phone == "" {
			l.Phone = nil
		} else {
			l.Phone = cloneString(p.Phone)
		}
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	return l
}

// Submission is what an unauthenticated visitor sends from the landing page.
type Submission struct {
	Name    string
	Email   string
	Phone   *string
	Message string
}

// NewLead builds a lead entered directly by an admin. It has no notes.
func NewLead(f LeadFields, id string, now time.Time) Lead {
	return Lead{
		ID:        id,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     cloneString(f.Phone),
		Source:    f.Source,
		Status:    f.Status,
		CreatedAt: now,
		Notes:     []Note{},
	}
}

// NewPublicLead builds a lead from a landing-page submission.
// Status is forced to new and Source to PublicSource. A non-empty message
// becomes the lead's first note, using noteID as its identity.
func NewPublicLead(s Submission, id, noteID string, now time.Time) Lead {
	l := NewLead(LeadFields{
		Name:   s.Name,
		Email:  s.Email,
		Phone:  s.Phone,
		Source: PublicSource,
		Status: StatusNew,
	}, id, now)
	if s.Message != "" {
		l.Notes = []Note{{
			ID:        noteID,
			Content:   "Initial message: " + s.Message,
			CreatedAt: now,
		}}
	}
	return l
}

// Clone returns a deep copy of l so the copy shares no memory with l.
func (l Lead) Clone() Lead {
	out := l
	out.Phone = cloneString(l.Phone)
	out.Notes = make([]Note, len(l.Notes))
	for i, n := range l.Notes {
		n.FollowUpDate = cloneString(n.FollowUpDate)
		out.Notes[i] = n
	}
	return out
}

// PhoneOrEmpty returns the phone number, or "" when the lead has none.
func (l Lead) PhoneOrEmpty() string {
	if l.Phone == nil {
		return ""
	}
	return *l.Phone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
