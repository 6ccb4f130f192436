package store_test

import (
	"context"
	"testing"

	"github.com/limbo/logbook/internal/store"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestSetProfile(t *testing.T) {
	repo := newMemRepo()
	s := newTestStore(t, repo)
	ctx := context.Background()

	profile, err := s.SetProfile(ctx, &store.ProfileRequest{
		Name:           "Lim",
		BirthMonth:     intPtr(6),
		BirthYear:      intPtr(1995),
		HeightCm:       178,
		Gender:         "male",
		ActivityLevel:  1.55,
		StartingWeight: 90,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Lim", profile.Name)

	t.Run("persisted", func(t *testing.T) {
		reloaded := newTestStore(t, repo)
		assert.Equal(t, profile, reloaded.Profile())
	})
	t.Run("out of range month rejected", func(t *testing.T) {
		_, err := s.SetProfile(ctx, &store.ProfileRequest{BirthMonth: intPtr(13)})
		var vErr *store.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestHealthSummary(t *testing.T) {
	s := newTestStore(t, newMemRepo(), store.WithClock(fixedClock("2025-03-01")))
	ctx := context.Background()

	_, err := s.SetProfile(ctx, &store.ProfileRequest{
		BirthMonth:    intPtr(1),
		BirthYear:     intPtr(1995),
		HeightCm:      180,
		Gender:        "male",
		ActivityLevel: 1.55,
	})
	assert.NoError(t, err)
	_, err = s.UpsertLogEntry(ctx, datekey.Key("2025-03-01"), &store.EntryPatch{Weight: float64Ptr(90)})
	assert.NoError(t, err)

	summary := s.HealthSummary()
	assert.Equal(t, 30, summary.Age)
	assert.InDelta(t, 27.8, summary.BMI, 0.05)
	assert.Equal(t, "overweight", summary.BMICategory)
	// Mifflin-St Jeor: 10*90 + 6.25*180 - 5*30 + 5 = 1880
	assert.Equal(t, 1880, summary.BMR)
	assert.Equal(t, 2914, summary.TDEE)
	assert.Equal(t, 2914-550, summary.CaloriesMild)
	assert.Equal(t, 2914-1100, summary.CaloriesMedium)
	assert.Equal(t, 2914-1650, summary.CaloriesHard)
}

func TestHealthSummaryPartialProfile(t *testing.T) {
	s := newTestStore(t, newMemRepo())
	ctx := context.Background()

	summary := s.HealthSummary()
	assert.Nil(t, summary.CurrentWeight)
	assert.Zero(t, summary.BMI)
	assert.Zero(t, summary.BMR)

	t.Run("weight without height gives no bmi", func(t *testing.T) {
		_, err := s.UpsertLogEntry(ctx, datekey.Today(), &store.EntryPatch{Weight: float64Ptr(90)})
		assert.NoError(t, err)
		summary := s.HealthSummary()
		assert.NotNil(t, summary.CurrentWeight)
		assert.Zero(t, summary.BMI)
	})
}

func TestWeeklySummary(t *testing.T) {
	s := newTestStore(t, newMemRepo(), store.WithClock(fixedClock("2025-03-10")))
	ctx := context.Background()

	_, err := s.UpsertLogEntry(ctx, datekey.Key("2025-03-04"), &store.EntryPatch{
		Weight:   float64Ptr(88),
		Activity: activityPtr(entity.ActivityGym),
		NoJunk:   boolPtr(true),
	})
	assert.NoError(t, err)
	_, err = s.UpsertLogEntry(ctx, datekey.Key("2025-03-07"), &store.EntryPatch{
		Activity:  activityPtr(entity.ActivityBoth),
		SleepGood: boolPtr(true),
	})
	assert.NoError(t, err)
	_, err = s.UpsertLogEntry(ctx, datekey.Key("2025-03-10"), &store.EntryPatch{
		Weight:    float64Ptr(87.2),
		SleepGood: boolPtr(true),
	})
	assert.NoError(t, err)
	// outside the window, must not count
	_, err = s.UpsertLogEntry(ctx, datekey.Key("2025-03-03"), &store.EntryPatch{
		Activity: activityPtr(entity.ActivityGym),
	})
	assert.NoError(t, err)

	summary, err := s.WeeklySummary()
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.DaysLogged)
	assert.Equal(t, 2, summary.GymDays)
	assert.Equal(t, 1, summary.WalkDays)
	assert.Equal(t, 2, summary.GoodSleep)
	assert.Equal(t, 1, summary.NoJunkDays)
	if assert.NotNil(t, summary.WeightChange) {
		assert.InDelta(t, -0.8, *summary.WeightChange, 0.001)
	}
}
