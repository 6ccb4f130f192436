package store

import (
	"context"
	"math"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/entity"
)

type SetTargetRequest struct {
	Weight  float64 `validate:"required,gt=20,lt=300"`
	DueDate string  `validate:"required,datekey"`
}

// UpdateTargetRequest edits the active target in place. Nil fields keep
// their current value; the frozen SetDate/StartWeight baseline never
// changes on edit.
type UpdateTargetRequest struct {
	Weight  *float64 `validate:"omitempty,gt=20,lt=300"`
	DueDate *string  `validate:"omitempty,datekey"`
}

// TargetSummary is the dashboard view of the active target.
type TargetSummary struct {
	Target             *entity.Target `json:"target"`
	CurrentWeight      *float64       `json:"current_weight,omitempty"`
	ExpectedWeight     *float64       `json:"expected_weight,omitempty"`
	ProgressPct        float64        `json:"progress_pct"`
	OnTrack            *bool          `json:"on_track,omitempty"`
	DaysLeft           int            `json:"days_left"`
	LostKg             float64        `json:"lost_kg"`
	RemainingKg        float64        `json:"remaining_kg"`
	RequiredWeeklyRate *float64       `json:"required_weekly_rate,omitempty"`
}

func (s *Store) ActiveTarget() *entity.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return nil
	}
	snapshot := *s.target
	return &snapshot
}

func (s *Store) PastTargets() []entity.PastTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.PastTarget(nil), s.pastTargets...)
}

// SetTarget opens a target. The baseline (StartWeight, SetDate) is frozen
// at creation for the expected-weight interpolation and never recomputed.
// Requires a resolvable current or starting weight.
func (s *Store) SetTarget(ctx context.Context, req *SetTargetRequest) (*entity.Target, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	dueDate, _ := datekey.Parse(req.DueDate)

	s.mu.Lock()
	defer s.mu.Unlock()

	baseline := s.currentWeightLocked()
	if baseline == nil && s.profile.StartingWeight > 0 {
		w := s.profile.StartingWeight
		baseline = &w
	}
	if baseline == nil {
		return nil, errorvalues.ErrNoBaselineWeight
	}

	s.target = &entity.Target{
		Weight:      req.Weight,
		DueDate:     dueDate,
		SetDate:     s.today(),
		StartWeight: *baseline,
	}
	s.saveSlot(ctx, slotActiveTarget, s.target)
	snapshot := *s.target
	return &snapshot, nil
}

func (s *Store) UpdateTarget(ctx context.Context, req *UpdateTargetRequest) (*entity.Target, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return nil, errorvalues.ErrNoActiveTarget
	}
	if req.Weight != nil {
		s.target.Weight = *req.Weight
	}
	if req.DueDate != nil {
		dueDate, _ := datekey.Parse(*req.DueDate)
		s.target.DueDate = dueDate
	}
	s.saveSlot(ctx, slotActiveTarget, s.target)
	snapshot := *s.target
	return &snapshot, nil
}

// CloseTarget archives the active target with an end snapshot and clears
// the active slot. Closing as completed upgrades to achieved when the
// current weight is at or past the target; cancellation passes through.
// History is append-only, newest first.
func (s *Store) CloseTarget(ctx context.Context, outcome entity.TargetOutcome) (*entity.PastTarget, error) {
	if outcome != entity.OutcomeCompleted && outcome != entity.OutcomeCancelled {
		return nil, errorvalues.ErrInvalidOutcome
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return nil, errorvalues.ErrNoActiveTarget
	}

	endWeight := s.currentWeightLocked()
	if outcome == entity.OutcomeCompleted && endWeight != nil && *endWeight <= s.target.Weight {
		outcome = entity.OutcomeAchieved
	}

	past := entity.PastTarget{
		Target:    *s.target,
		Outcome:   outcome,
		EndDate:   s.today(),
		EndWeight: endWeight,
	}
	s.pastTargets = append([]entity.PastTarget{past}, s.pastTargets...)
	s.saveSlot(ctx, slotPastTargets, s.pastTargets)

	s.target = nil
	s.dropSlot(ctx, slotActiveTarget)
	return &past, nil
}

// ExpectedWeightAt interpolates linearly between (SetDate, StartWeight)
// and (DueDate, Weight), clamped to the boundary weights outside the
// interval. Nil when there is no active target or the interval is
// non-positive.
func (s *Store) ExpectedWeightAt(date datekey.Key) *float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expectedWeightLocked(date)
}

func (s *Store) expectedWeightLocked(date datekey.Key) *float64 {
	t := s.target
	if t == nil || t.StartWeight == 0 || t.SetDate.IsZero() || t.DueDate.IsZero() {
		return nil
	}
	totalDays := datekey.DaysBetween(t.SetDate, t.DueDate)
	if totalDays <= 0 {
		return nil
	}
	elapsed := datekey.DaysBetween(t.SetDate, date)

	var expected float64
	switch {
	case elapsed <= 0:
		expected = t.StartWeight
	case elapsed >= totalDays:
		expected = t.Weight
	default:
		expected = t.StartWeight - float64(elapsed)/float64(totalDays)*(t.StartWeight-t.Weight)
	}
	return &expected
}

// ProgressPct is the share of the planned loss already achieved, from the
// profile starting weight, clamped to [0, 100].
func (s *Store) ProgressPct() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Store) progressLocked() float64 {
	if s.target == nil || s.profile.StartingWeight == 0 {
		return 0
	}
	current := s.currentWeightLocked()
	if current == nil {
		return 0
	}
	totalToLose := s.profile.StartingWeight - s.target.Weight
	if totalToLose <= 0 {
		return 0
	}
	progress := (s.profile.StartingWeight - *current) / totalToLose * 100
	return math.Max(0, math.Min(100, progress))
}

// IsOnTrack compares actual progress against the time-implied expected
// percentage within the configured tolerance. Nil when the target or
// profile data is insufficient to evaluate.
func (s *Store) IsOnTrack() *bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOnTrackLocked()
}

func (s *Store) isOnTrackLocked() *bool {
	if s.target == nil || s.profile.StartingWeight == 0 || s.currentWeightLocked() == nil {
		return nil
	}
	totalDays := datekey.DaysBetween(s.target.SetDate, s.target.DueDate)
	if totalDays <= 0 {
		return nil
	}
	elapsed := datekey.DaysBetween(s.target.SetDate, s.today())
	expected := float64(elapsed) / float64(totalDays) * 100
	onTrack := s.progressLocked() >= expected-s.tolerance
	return &onTrack
}

// TargetSummary assembles the dashboard numbers for the active target.
func (s *Store) TargetSummary() (*TargetSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return nil, errorvalues.ErrNoActiveTarget
	}
	snapshot := *s.target
	summary := &TargetSummary{
		Target:         &snapshot,
		CurrentWeight:  s.currentWeightLocked(),
		ExpectedWeight: s.expectedWeightLocked(s.today()),
		ProgressPct:    s.progressLocked(),
		OnTrack:        s.isOnTrackLocked(),
		DaysLeft:       maxInt(0, datekey.DaysBetween(s.today(), s.target.DueDate)),
	}
	if summary.CurrentWeight != nil {
		summary.LostKg = math.Max(0, s.target.StartWeight-*summary.CurrentWeight)
		summary.RemainingKg = math.Max(0, *summary.CurrentWeight-s.target.Weight)
		if summary.DaysLeft > 0 && summary.RemainingKg > 0 {
			rate := summary.RemainingKg / (float64(summary.DaysLeft) / 7)
			summary.RequiredWeeklyRate = &rate
		}
	}
	return summary, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
