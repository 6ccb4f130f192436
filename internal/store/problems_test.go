package store_test

import (
	"context"
	"strings"
	"testing"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/internal/store"
	"github.com/stretchr/testify/assert"
)

const catalogCSV = `Grind 75 export,,
Generated for offline use,,
Topic,Title,LeetCode Link
Array,Two Sum,https://leetcode.com/problems/two-sum/
,Best Time to Buy and Sell Stock,https://leetcode.com/problems/best-time-to-buy-and-sell-stock/
Stack,Valid Parentheses,https://leetcode.com/problems/valid-parentheses/
`

func testCatalog(t *testing.T) *store.Catalog {
	t.Helper()
	catalog, err := store.ParseCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func TestParseCatalog(t *testing.T) {
	catalog := testCatalog(t)
	assert.Equal(t, 3, catalog.Len())

	s := newTestStore(t, newMemRepo(), store.WithCatalog(catalog))
	groups := s.Problems()
	if assert.Len(t, groups, 2) {
		assert.Equal(t, "Array", groups[0].Topic)
		if assert.Len(t, groups[0].Problems, 2) {
			assert.Equal(t, "two-sum", groups[0].Problems[0].ID)
			// empty topic cell inherits the topic above it
			assert.Equal(t, "best-time-to-buy-and-sell-stock", groups[0].Problems[1].ID)
		}
		assert.Equal(t, "Stack", groups[1].Topic)
	}
}

func TestToggleFlags(t *testing.T) {
	repo := newMemRepo()
	s := newTestStore(t, repo, store.WithCatalog(testCatalog(t)))
	ctx := context.Background()

	t.Run("solved toggles on and off", func(t *testing.T) {
		state, err := s.ToggleSolved(ctx, "two-sum")
		assert.NoError(t, err)
		assert.True(t, state)
		state, err = s.ToggleSolved(ctx, "two-sum")
		assert.NoError(t, err)
		assert.False(t, state)
	})
	t.Run("bookmark independent of solved", func(t *testing.T) {
		state, err := s.ToggleBookmark(ctx, "valid-parentheses")
		assert.NoError(t, err)
		assert.True(t, state)
		stats, _ := s.ProblemStats()
		assert.Equal(t, 0, stats.Solved)
		assert.Equal(t, 1, stats.Bookmarked)
	})
	t.Run("unknown problem rejected", func(t *testing.T) {
		_, err := s.ToggleSolved(ctx, "p-vs-np")
		assert.ErrorIs(t, err, errorvalues.ErrProblemNotFound)
	})
	t.Run("flags persist across reload", func(t *testing.T) {
		_, err := s.ToggleSolved(ctx, "two-sum")
		assert.NoError(t, err)
		reloaded := newTestStore(t, repo, store.WithCatalog(testCatalog(t)))
		groups := reloaded.Problems()
		assert.True(t, groups[0].Problems[0].Solved)
		assert.True(t, groups[1].Problems[0].Bookmarked)
	})
}

func TestProblemStats(t *testing.T) {
	s := newTestStore(t, newMemRepo(), store.WithCatalog(testCatalog(t)))
	ctx := context.Background()

	_, err := s.ToggleSolved(ctx, "two-sum")
	assert.NoError(t, err)
	_, err = s.ToggleSolved(ctx, "valid-parentheses")
	assert.NoError(t, err)

	stats, topics := s.ProblemStats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Solved)
	assert.Equal(t, 66, stats.CompletionPct)
	if assert.Len(t, topics, 2) {
		assert.Equal(t, "Array", topics[0].Topic)
		assert.Equal(t, 50, topics[0].CompletionPct)
		assert.Equal(t, 100, topics[1].CompletionPct)
	}
}

func TestProblemsWithoutCatalog(t *testing.T) {
	s := newTestStore(t, newMemRepo())
	assert.Nil(t, s.Problems())
	_, err := s.ToggleSolved(context.Background(), "two-sum")
	assert.ErrorIs(t, err, errorvalues.ErrProblemNotFound)
}
