package domain

import "fmt"

// Leads is an ordered, immutable lead collection; the head is the most recent.
//
// Every method returns a new collection and leaves the receiver untouched, so a
// Leads value handed to a reader stays valid no matter what happens afterwards.
// Unchanged leads may be shared between collections; no method writes through
// a shared slice.
type Leads []Lead

// Prepend returns a new collection with l at the head.
func (ls Leads) Prepend(l Lead) Leads {
	out := make(Leads, 0, len(ls)+1)
	out = append(out, l)
	return append(out, ls...)
}

// Find returns the lead with the given id.
func (ls Leads) Find(id string) (Lead, bool) {
	if i := ls.index(id); i >= 0 {
		return ls[i], true
	}
	return Lead{}, false
}

// Update applies a partial edit to the lead with the given id.
// Notes, ID and CreatedAt are preserved. The bool is false, and the receiver is
// returned unchanged, when no such lead exists.
func (ls Leads) Update(id string, p LeadPatch) (Leads, bool) {
	return ls.replace(id, p.Apply)
}

// SetStatus sets only the status of the lead with the given id.
func (ls Leads) SetStatus(id string, s Status) (Leads, bool) {
	return ls.replace(id, func(l Lead) Lead {
		l.Status = s
		return l
	})
}

// AddNote appends n to the notes of the lead with the given id.
func (ls Leads) AddNote(id string, n Note) (Leads, bool) {
	return ls.replace(id, func(l Lead) Lead {
		notes := make([]Note, 0, len(l.Notes)+1)
		notes = append(notes, l.Notes...)
		l.Notes = append(notes, n)
		return l
	})
}

// DeleteNote removes the note noteID from the lead id.
// Missing lead or missing note leaves the collection as it was.
func (ls Leads) DeleteNote(id, noteID string) Leads {
	out, _ := ls.replace(id, func(l Lead) Lead {
		notes := make([]Note, 0, len(l.Notes))
		for _, n := range l.Notes {
			if n.ID != noteID {
				notes = append(notes, n)
			}
		}
		l.Notes = notes
		return l
	})
	return out
}

// Delete removes the lead with the given id together with its notes.
// Deleting an absent id is a no-op.
func (ls Leads) Delete(id string) Leads {
	out := make(Leads, 0, len(ls))
	for _, l := range ls {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

// Clone returns a deep copy of the collection.
func (ls Leads) Clone() Leads {
	out := make(Leads, len(ls))
	for i, l := range ls {
		out[i] = l.Clone()
	}
	return out
}

// Validate checks a collection read from outside the store: every status must
// be known and lead ids must be unique.
func (ls Leads) Validate() error {
	seen := make(map[string]struct{}, len(ls))
	for _, l := range ls {
		if _, err := ParseStatus(string(l.Status)); err != nil {
			return fmt.Errorf("lead %q: %w", l.ID, err)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("%w: duplicate lead id %q", ErrValidation, l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}

func (ls Leads) index(id string) int {
	for i, l := range ls {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (ls Leads) replace(id string, fn func(Lead) Lead) (Leads, bool) {
	i := ls.index(id)
	if i < 0 {
		return ls, false
	}
	out := make(Leads, len(ls))
	copy(out, ls)
	out[i] = fn(ls[i])
	return out, true
}
