package store

import (
	"context"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/entity"
)

// RangeTotal is a summed window with its per-category breakdown.
type RangeTotal struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// TotalsSummary feeds the stats cards: today, trailing 7 days, month to date.
type TotalsSummary struct {
	Today RangeTotal `json:"today"`
	Week  RangeTotal `json:"week"`
	Month RangeTotal `json:"month"`
}

// SeriesDataset is one category's value per label in a RangeSeries.
type SeriesDataset struct {
	Category entity.Category `json:"category"`
	Values   []int           `json:"values"`
}

// PeakDay is the heaviest day inside a charted range.
type PeakDay struct {
	Date      datekey.Key    `json:"date"`
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// RangeSeries is the chart feed: one label per calendar day and one
// dataset per category that has data in the range.
type RangeSeries struct {
	Labels   []datekey.Key   `json:"labels"`
	Datasets []SeriesDataset `json:"datasets"`
	Peak     *PeakDay        `json:"peak,omitempty"`
}

// IncrementCount bumps the day's count for a category and returns the new
// value. Days and categories appear in the sparse map on first increment.
func (s *Store) IncrementCount(ctx context.Context, categoryID string, date datekey.Key) (int, error) {
	if !date.Valid() {
		return 0, &ValidationError{Msg: "bad date key"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActiveCategoryLocked(categoryID) {
		return 0, errorvalues.ErrCategoryNotFound
	}
	day := s.counts[date]
	if day == nil {
		day = make(entity.DayCounts)
		s.counts[date] = day
	}
	day[categoryID]++
	s.saveSlot(ctx, slotDailyCounts, s.counts)
	return day[categoryID], nil
}

// DecrementCount floors at zero and keeps the mapping sparse: the key is
// removed when the count reaches zero, and a decrement below zero is a
// no-op.
func (s *Store) DecrementCount(ctx context.Context, categoryID string, date datekey.Key) (int, error) {
	if !date.Valid() {
		return 0, &ValidationError{Msg: "bad date key"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActiveCategoryLocked(categoryID) {
		return 0, errorvalues.ErrCategoryNotFound
	}
	day := s.counts[date]
	if day == nil || day[categoryID] == 0 {
		return 0, nil
	}
	day[categoryID]--
	if day[categoryID] == 0 {
		delete(day, categoryID)
	}
	if len(day) == 0 {
		delete(s.counts, date)
	}
	s.saveSlot(ctx, slotDailyCounts, s.counts)
	return day[categoryID], nil
}

// Aggregate sums counts per category across every calendar day in the
// inclusive range. The range is walked day by day, so days without
// entries contribute zero without special-casing.
func (s *Store) Aggregate(start, end datekey.Key) (map[string]int, error) {
	if !start.Valid() || !end.Valid() {
		return nil, &ValidationError{Msg: "bad date key"}
	}
	if end.Before(start) {
		return nil, errorvalues.ErrInvalidDateRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregateLocked(start, end), nil
}

func (s *Store) aggregateLocked(start, end datekey.Key) map[string]int {
	totals := make(map[string]int)
	datekey.Walk(start, end, func(day datekey.Key) {
		for categoryID, count := range s.counts[day] {
			totals[categoryID] += count
		}
	})
	return totals
}

// Totals computes the dashboard windows relative to today.
func (s *Store) Totals() *TotalsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	return &TotalsSummary{
		Today: s.rangeTotalLocked(today, today),
		Week:  s.rangeTotalLocked(today.AddDays(-6), today),
		Month: s.rangeTotalLocked(today.MonthStart(), today),
	}
}

func (s *Store) rangeTotalLocked(start, end datekey.Key) RangeTotal {
	breakdown := s.aggregateLocked(start, end)
	total := 0
	for _, count := range breakdown {
		total += count
	}
	return RangeTotal{Total: total, Breakdown: breakdown}
}

// Series builds the stacked-chart feed for a range. Categories with no
// data in the range are omitted; removed categories with historical data
// are included via their preserved metadata.
func (s *Store) Series(start, end datekey.Key) (*RangeSeries, error) {
	if !start.Valid() || !end.Valid() {
		return nil, &ValidationError{Msg: "bad date key"}
	}
	if end.Before(start) {
		return nil, errorvalues.ErrInvalidDateRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	labels := make([]datekey.Key, 0, datekey.DaysBetween(start, end)+1)
	datekey.Walk(start, end, func(day datekey.Key) {
		labels = append(labels, day)
	})

	// Active categories first, then historical ids found in range.
	ids := make([]string, 0, len(s.categories))
	seen := make(map[string]bool, len(s.categories))
	for _, cat := range s.categories {
		ids = append(ids, cat.ID)
		seen[cat.ID] = true
	}
	for _, day := range labels {
		for id := range s.counts[day] {
			if !seen[id] {
				ids = append(ids, id)
				seen[id] = true
			}
		}
	}

	series := &RangeSeries{Labels: labels}
	for _, id := range ids {
		values := make([]int, len(labels))
		nonzero := false
		for i, day := range labels {
			values[i] = s.counts[day][id]
			if values[i] > 0 {
				nonzero = true
			}
		}
		if !nonzero {
			continue
		}
		series.Datasets = append(series.Datasets, SeriesDataset{
			Category: s.categoryInfoLocked(id),
			Values:   values,
		})
	}
	series.Peak = s.peakDayLocked(labels)
	return series, nil
}

func (s *Store) peakDayLocked(labels []datekey.Key) *PeakDay {
	var peak *PeakDay
	for _, day := range labels {
		total := 0
		for _, count := range s.counts[day] {
			total += count
		}
		if total > 0 && (peak == nil || total > peak.Total) {
			breakdown := make(map[string]int, len(s.counts[day]))
			for id, count := range s.counts[day] {
				breakdown[id] = count
			}
			peak = &PeakDay{Date: day, Total: total, Breakdown: breakdown}
		}
	}
	return peak
}
