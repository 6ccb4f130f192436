package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/limbo/logbook/internal/repository"
	"github.com/limbo/logbook/internal/store"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupSlotsTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("logbook"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}

	conn.Close()
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	return &testPGConfig{
		connStr: connStr,
	}
}

func TestStoreIntegrational(t *testing.T) {
	dbCfg := setupSlotsTestDB(t)
	repo := repository.NewSlotsRepo(dbCfg)
	s := store.NewStore(repo)
	ctx := context.Background()
	if err := s.LoadAll(ctx); err != nil {
		t.Fatal(err)
	}
	day := datekey.Key("2025-03-01")
	t.Run("counts round-trip through the database", func(t *testing.T) {
		count, err := s.IncrementCount(ctx, "diet-coke", day)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})
	t.Run("entry and target round-trip", func(t *testing.T) {
		_, err := s.UpsertLogEntry(ctx, day, &store.EntryPatch{Weight: float64Ptr(90)})
		assert.NoError(t, err)
		_, err = s.SetTarget(ctx, &store.SetTargetRequest{Weight: 80, DueDate: "2025-06-01"})
		assert.NoError(t, err)
	})
	t.Run("fresh store sees persisted state", func(t *testing.T) {
		reloaded := store.NewStore(repository.NewSlotsRepo(dbCfg))
		assert.NoError(t, reloaded.LoadAll(ctx))
		totals, err := reloaded.Aggregate(day, day)
		assert.NoError(t, err)
		assert.Equal(t, 1, totals["diet-coke"])
		if assert.NotNil(t, reloaded.ActiveTarget()) {
			assert.Equal(t, 80.0, reloaded.ActiveTarget().Weight)
		}
	})
	t.Run("closing the target clears its slot", func(t *testing.T) {
		_, err := s.CloseTarget(ctx, "cancelled")
		assert.NoError(t, err)
		reloaded := store.NewStore(repository.NewSlotsRepo(dbCfg))
		assert.NoError(t, reloaded.LoadAll(ctx))
		assert.Nil(t, reloaded.ActiveTarget())
		assert.Len(t, reloaded.PastTargets(), 1)
	})
}
