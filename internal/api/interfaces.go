package api

import (
	"context"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/limbo/logbook/internal/store"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/entity"
)

type JWTServiceI interface {
	GenerateToken() (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// StoreI is everything the handlers need from the log store.
type StoreI interface {
	Categories() []entity.Category
	UpsertCategory(ctx context.Context, req *store.UpsertCategoryRequest) (*entity.Category, error)
	RemoveCategory(ctx context.Context, id string) error
	CategoryInfo(id string) entity.Category

	IncrementCount(ctx context.Context, categoryID string, date datekey.Key) (int, error)
	DecrementCount(ctx context.Context, categoryID string, date datekey.Key) (int, error)
	Totals() *store.TotalsSummary
	Aggregate(start, end datekey.Key) (map[string]int, error)
	Series(start, end datekey.Key) (*store.RangeSeries, error)

	Entries(filter *store.EntryFilter) []entity.LogEntry
	UpsertLogEntry(ctx context.Context, date datekey.Key, patch *store.EntryPatch) (*entity.LogEntry, error)
	DeleteLogEntry(ctx context.Context, id int64) error
	ExportCSV(w io.Writer) error

	ActiveTarget() *entity.Target
	SetTarget(ctx context.Context, req *store.SetTargetRequest) (*entity.Target, error)
	UpdateTarget(ctx context.Context, req *store.UpdateTargetRequest) (*entity.Target, error)
	CloseTarget(ctx context.Context, outcome entity.TargetOutcome) (*entity.PastTarget, error)
	TargetSummary() (*store.TargetSummary, error)
	PastTargets() []entity.PastTarget

	Profile() entity.Profile
	SetProfile(ctx context.Context, req *store.ProfileRequest) (entity.Profile, error)
	HealthSummary() store.HealthSummary
	WeeklySummary() (store.WeeklySummary, error)

	Problems() []store.TopicGroup
	ToggleSolved(ctx context.Context, id string) (bool, error)
	ToggleBookmark(ctx context.Context, id string) (bool, error)
	ProblemStats() (entity.ProblemStats, []entity.TopicStats)

	Theme() string
	SetTheme(ctx context.Context, theme string) error
	ClearAll(ctx context.Context) error
}
