package store_test

import (
	"context"
	"testing"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/internal/store"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/stretchr/testify/assert"
)

func TestIncrementDecrement(t *testing.T) {
	s := newTestStore(t, newMemRepo())
	ctx := context.Background()
	day := datekey.Key("2025-03-01")

	t.Run("increments accumulate", func(t *testing.T) {
		count, err := s.IncrementCount(ctx, "diet-coke", day)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		count, err = s.IncrementCount(ctx, "diet-coke", day)
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})
	t.Run("decrement floors at zero", func(t *testing.T) {
		count, err := s.DecrementCount(ctx, "diet-coke", day)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		count, err = s.DecrementCount(ctx, "diet-coke", day)
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
		count, err = s.DecrementCount(ctx, "diet-coke", day)
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})
	t.Run("zero counts leave no residue", func(t *testing.T) {
		totals, err := s.Aggregate(day, day)
		assert.NoError(t, err)
		assert.NotContains(t, totals, "diet-coke")
	})
	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := s.IncrementCount(ctx, "tab-clear", day)
		assert.ErrorIs(t, err, errorvalues.ErrCategoryNotFound)
	})
	t.Run("bad date rejected", func(t *testing.T) {
		_, err := s.IncrementCount(ctx, "diet-coke", datekey.Key("01.03.2025"))
		var vErr *store.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestAggregate(t *testing.T) {
	s := newTestStore(t, newMemRepo())
	ctx := context.Background()

	mustIncrement := func(id, day string, times int) {
		for i := 0; i < times; i++ {
			_, err := s.IncrementCount(ctx, id, datekey.Key(day))
			assert.NoError(t, err)
		}
	}
	mustIncrement("diet-coke", "2025-03-01", 2)
	mustIncrement("coke-zero", "2025-03-02", 1)
	mustIncrement("diet-coke", "2025-03-05", 3)

	t.Run("range is inclusive", func(t *testing.T) {
		totals, err := s.Aggregate(datekey.Key("2025-03-01"), datekey.Key("2025-03-05"))
		assert.NoError(t, err)
		assert.Equal(t, map[string]int{"diet-coke": 5, "coke-zero": 1}, totals)
	})
	t.Run("per-day sums equal range sum", func(t *testing.T) {
		sum := 0
		datekey.Walk(datekey.Key("2025-03-01"), datekey.Key("2025-03-05"), func(day datekey.Key) {
			totals, err := s.Aggregate(day, day)
			assert.NoError(t, err)
			for _, count := range totals {
				sum += count
			}
		})
		assert.Equal(t, 6, sum)
	})
	t.Run("end before start rejected", func(t *testing.T) {
		_, err := s.Aggregate(datekey.Key("2025-03-05"), datekey.Key("2025-03-01"))
		assert.ErrorIs(t, err, errorvalues.ErrInvalidDateRange)
	})
}

func TestTotalsWindows(t *testing.T) {
	s := newTestStore(t, newMemRepo(), store.WithClock(fixedClock("2025-03-10")))
	ctx := context.Background()

	for _, day := range []string{"2025-03-10", "2025-03-04", "2025-03-03", "2025-03-01"} {
		_, err := s.IncrementCount(ctx, "diet-coke", datekey.Key(day))
		assert.NoError(t, err)
	}

	totals := s.Totals()
	assert.Equal(t, 1, totals.Today.Total)
	// week window is today plus six days back, so 2025-03-03 is out
	assert.Equal(t, 2, totals.Week.Total)
	assert.Equal(t, 4, totals.Month.Total)
}

func TestSeries(t *testing.T) {
	s := newTestStore(t, newMemRepo())
	ctx := context.Background()

	_, err := s.IncrementCount(ctx, "diet-coke", datekey.Key("2025-03-01"))
	assert.NoError(t, err)
	_, err = s.IncrementCount(ctx, "diet-coke", datekey.Key("2025-03-02"))
	assert.NoError(t, err)
	_, err = s.IncrementCount(ctx, "diet-coke", datekey.Key("2025-03-02"))
	assert.NoError(t, err)

	series, err := s.Series(datekey.Key("2025-03-01"), datekey.Key("2025-03-03"))
	assert.NoError(t, err)
	assert.Equal(t, []datekey.Key{"2025-03-01", "2025-03-02", "2025-03-03"}, series.Labels)
	// categories without data in range are skipped
	if assert.Len(t, series.Datasets, 1) {
		assert.Equal(t, "diet-coke", series.Datasets[0].Category.ID)
		assert.Equal(t, []int{1, 2, 0}, series.Datasets[0].Values)
	}
	if assert.NotNil(t, series.Peak) {
		assert.Equal(t, datekey.Key("2025-03-02"), series.Peak.Date)
		assert.Equal(t, 2, series.Peak.Total)
	}
}

func TestRemovedCategoryKeepsHistory(t *testing.T) {
	s := newTestStore(t, newMemRepo())
	ctx := context.Background()
	day := datekey.Key("2025-03-01")

	_, err := s.IncrementCount(ctx, "diet-coke", day)
	assert.NoError(t, err)
	assert.NoError(t, s.RemoveCategory(ctx, "diet-coke"))

	t.Run("aggregates unchanged after removal", func(t *testing.T) {
		totals, err := s.Aggregate(day, day)
		assert.NoError(t, err)
		assert.Equal(t, 1, totals["diet-coke"])
	})
	t.Run("metadata preserved for charts", func(t *testing.T) {
		info := s.CategoryInfo("diet-coke")
		assert.Equal(t, "Diet Coke", info.Label)
		series, err := s.Series(day, day)
		assert.NoError(t, err)
		if assert.Len(t, series.Datasets, 1) {
			assert.Equal(t, "Diet Coke", series.Datasets[0].Category.Label)
		}
	})
	t.Run("re-adding same label revives the id", func(t *testing.T) {
		cat, err := s.UpsertCategory(ctx, &store.UpsertCategoryRequest{
			Label: "diet coke",
			Glyph: "🥤",
			Color: "#dc2626",
		})
		assert.NoError(t, err)
		assert.Equal(t, "diet-coke", cat.ID)
		totals, err := s.Aggregate(day, day)
		assert.NoError(t, err)
		assert.Equal(t, 1, totals["diet-coke"])
	})
}

func TestUpsertCategoryFreshID(t *testing.T) {
	s := newTestStore(t, newMemRepo(), store.WithClock(fixedClock("2025-03-10")))
	ctx := context.Background()

	cat, err := s.UpsertCategory(ctx, &store.UpsertCategoryRequest{
		Label: "Fanta Zero",
		Glyph: "🍊",
		Color: "#f97316",
	})
	assert.NoError(t, err)
	assert.Regexp(t, `^fanta-zero-\d+$`, cat.ID)

	t.Run("missing glyph rejected", func(t *testing.T) {
		_, err := s.UpsertCategory(ctx, &store.UpsertCategoryRequest{Label: "Pepsi Max", Color: "#0ea5e9"})
		var vErr *store.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
	t.Run("removing unknown id fails", func(t *testing.T) {
		assert.ErrorIs(t, s.RemoveCategory(ctx, "nope"), errorvalues.ErrCategoryNotFound)
	})
}
