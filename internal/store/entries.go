package store

import (
	"context"
	"strings"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/entity"
)

const notesSeparator = " | "

// EntryPatch is a partial-field update for one date's log entry. Nil
// fields are left alone; morning writes carry weight/sleep, evening
// writes carry activity/junk and flip EveningLogged.
type EntryPatch struct {
	Weight    *float64         `json:"weight,omitempty" validate:"omitempty,gt=20,lt=400"`
	SleepGood *bool            `json:"sleep_good,omitempty"`
	Activity  *entity.Activity `json:"activity,omitempty" validate:"omitempty,oneof=none gym walk both"`
	NoJunk    *bool            `json:"no_junk,omitempty"`
	Notes     string           `json:"notes,omitempty" validate:"max=500"`
}

func (p *EntryPatch) hasEveningFields() bool {
	return p.Activity != nil || p.NoJunk != nil
}

// EntryFilter narrows the history listing.
type EntryFilter struct {
	From     datekey.Key
	To       datekey.Key
	Activity entity.Activity // matches "both" plus the asked-for kind
	Search   string          // substring over date and notes
}

// UpsertLogEntry merges the patch into the date's entry, creating it when
// absent. Notes concatenate with a separator instead of overwriting, so a
// morning note and an evening note both survive. The entry list stays
// sorted descending by date.
func (s *Store) UpsertLogEntry(ctx context.Context, date datekey.Key, patch *EntryPatch) (*entity.LogEntry, error) {
	if !date.Valid() {
		return nil, &ValidationError{Msg: "bad date key"}
	}
	patch.Notes = strings.TrimSpace(patch.Notes)
	if err := validateStruct(*patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.entries {
		if s.entries[i].Date == date {
			idx = i
			break
		}
	}
	if idx < 0 {
		now := s.now()
		s.entries = append(s.entries, entity.LogEntry{
			ID:        now.UnixMilli(),
			Date:      date,
			CreatedAt: now,
		})
		idx = len(s.entries) - 1
	}

	e := &s.entries[idx]
	if patch.Weight != nil {
		w := *patch.Weight
		e.Weight = &w
	}
	if patch.SleepGood != nil {
		v := *patch.SleepGood
		e.SleepGood = &v
	}
	if patch.Activity != nil {
		e.Activity = *patch.Activity
	}
	if patch.NoJunk != nil {
		v := *patch.NoJunk
		e.NoJunk = &v
	}
	if patch.hasEveningFields() {
		e.EveningLogged = true
	}
	if patch.Notes != "" {
		if e.Notes != "" {
			e.Notes += notesSeparator + patch.Notes
		} else {
			e.Notes = patch.Notes
		}
	}

	sortEntries(s.entries)
	s.saveSlot(ctx, slotLogEntries, s.entries)

	for i := range s.entries {
		if s.entries[i].Date == date {
			snapshot := s.entries[i]
			return &snapshot, nil
		}
	}
	return nil, errorvalues.ErrEntryNotFound
}

func (s *Store) DeleteLogEntry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.saveSlot(ctx, slotLogEntries, s.entries)
			return nil
		}
	}
	return errorvalues.ErrEntryNotFound
}

// Entries returns a filtered snapshot, newest first.
func (s *Store) Entries(filter *EntryFilter) []entity.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]entity.LogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter != nil && !matchesFilter(&e, filter) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func matchesFilter(e *entity.LogEntry, filter *EntryFilter) bool {
	if !filter.From.IsZero() && e.Date.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && e.Date.After(filter.To) {
		return false
	}
	if filter.Activity != "" && e.Activity != filter.Activity && e.Activity != entity.ActivityBoth {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(string(e.Date), needle) && !strings.Contains(strings.ToLower(e.Notes), needle) {
			return false
		}
	}
	return true
}

// CurrentWeight is the most recently dated logged weight, or nil when
// nothing has been logged yet.
func (s *Store) CurrentWeight() *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentWeightLocked()
}

func (s *Store) currentWeightLocked() *float64 {
	for i := range s.entries {
		if s.entries[i].Weight != nil {
			w := *s.entries[i].Weight
			return &w
		}
	}
	return nil
}
