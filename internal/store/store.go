// Package store implements the persistent log store behind the trackers:
// an in-memory model of every user-entered collection, mirrored slot by
// slot into durable storage. Mutations apply to memory first and are then
// written through best-effort; derived views are always computable from
// the current state without replaying history.
package store

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/internal/repository"
	"github.com/limbo/logbook/pkg/datekey"
	"github.com/limbo/logbook/pkg/entity"
)

// Named storage slots, one per entity collection. Slots load and save
// independently: a corrupt document in one never touches the others.
const (
	slotCategories        = "categories"
	slotDeletedCategories = "deleted_categories"
	slotDailyCounts       = "daily_counts"
	slotLogEntries        = "log_entries"
	slotActiveTarget      = "active_target"
	slotPastTargets       = "past_targets"
	slotProfile           = "profile"
	slotTheme             = "theme"
	slotSolved            = "solved_problems"
	slotBookmarked        = "bookmarked_problems"
)

// DefaultOnTrackTolerance is how many percentage points the actual
// progress may lag the time-implied expected progress before the target
// counts as behind schedule. Override with WithOnTrackTolerance.
const DefaultOnTrackTolerance = 5.0

// DefaultCategories seeds the category list the first time the store
// runs against empty storage.
var DefaultCategories = []entity.Category{
	{ID: "diet-coke", Label: "Diet Coke", Glyph: "🥤", Color: "#dc2626"},
	{ID: "coke-zero", Label: "Coke Zero", Glyph: "⚫", Color: "#1f2937"},
	{ID: "sprite-zero", Label: "Sprite Zero", Glyph: "🟢", Color: "#22c55e"},
}

type Store struct {
	mu   sync.Mutex
	repo repository.SlotsRepositoryI

	categories  []entity.Category
	deleted     map[string]entity.CategoryMeta
	counts      map[datekey.Key]entity.DayCounts
	entries     []entity.LogEntry // sorted descending by date
	target      *entity.Target
	pastTargets []entity.PastTarget
	profile     entity.Profile
	theme       string
	solved      map[string]bool
	bookmarked  map[string]bool

	catalog   *Catalog
	tolerance float64
	now       func() time.Time
}

type Option func(*Store)

// WithOnTrackTolerance overrides the on-track tolerance in percentage points.
func WithOnTrackTolerance(points float64) Option {
	return func(s *Store) {
		s.tolerance = points
	}
}

// WithClock fixes the store's notion of now. Tests use it to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithCatalog attaches the read-only problem catalog.
func WithCatalog(c *Catalog) Option {
	return func(s *Store) {
		s.catalog = c
	}
}

func NewStore(slotsRepo repository.SlotsRepositoryI, opts ...Option) *Store {
	if slotsRepo == nil {
		log.Fatal("provided nil slotsRepo")
	}
	s := &Store{
		repo:       slotsRepo,
		deleted:    make(map[string]entity.CategoryMeta),
		counts:     make(map[datekey.Key]entity.DayCounts),
		entries:    make([]entity.LogEntry, 0),
		solved:     make(map[string]bool),
		bookmarked: make(map[string]bool),
		theme:      "dark",
		tolerance:  DefaultOnTrackTolerance,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll deserializes each slot independently. A missing or corrupt slot
// yields that collection's empty default and never fails the whole load.
func (s *Store) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loadSlot(ctx, slotCategories, &s.categories) {
		s.categories = append([]entity.Category(nil), DefaultCategories...)
	}
	s.loadSlot(ctx, slotDeletedCategories, &s.deleted)
	s.loadSlot(ctx, slotDailyCounts, &s.counts)
	s.loadSlot(ctx, slotLogEntries, &s.entries)
	sortEntries(s.entries)

	var target entity.Target
	if s.loadSlot(ctx, slotActiveTarget, &target) && target.Weight > 0 {
		s.target = &target
	}
	s.loadSlot(ctx, slotPastTargets, &s.pastTargets)
	s.loadSlot(ctx, slotProfile, &s.profile)
	s.loadSlot(ctx, slotTheme, &s.theme)

	var solved, bookmarked []string
	s.loadSlot(ctx, slotSolved, &solved)
	s.loadSlot(ctx, slotBookmarked, &bookmarked)
	s.solved = toSet(solved)
	s.bookmarked = toSet(bookmarked)
	return nil
}

// loadSlot reports whether the slot existed and parsed. On any failure the
// destination keeps its default.
func (s *Store) loadSlot(ctx context.Context, name string, dst any) bool {
	doc, err := s.repo.Load(ctx, name)
	if err != nil {
		if !isNotFound(err) {
			slog.Warn("slot unreadable, using empty default", slog.String("slot", name), slog.String("error", err.Error()))
		}
		return false
	}
	if err = sonic.ConfigDefault.Unmarshal(doc, dst); err != nil {
		slog.Warn("slot corrupt, using empty default", slog.String("slot", name), slog.String("error", err.Error()))
		return false
	}
	return true
}

// saveSlot writes through best-effort: the in-memory mutation already
// happened, a failed write only costs durability until the next save.
func (s *Store) saveSlot(ctx context.Context, name string, v any) {
	doc, err := sonic.ConfigDefault.Marshal(v)
	if err != nil {
		slog.Error("slot marshalling failed", slog.String("slot", name), slog.String("error", err.Error()))
		return
	}
	if err = s.repo.Save(ctx, name, doc); err != nil {
		slog.Error("slot write failed", slog.String("slot", name), slog.String("error", err.Error()))
	}
}

func (s *Store) dropSlot(ctx context.Context, name string) {
	if err := s.repo.Delete(ctx, name); err != nil {
		slog.Error("slot delete failed", slog.String("slot", name), slog.String("error", err.Error()))
	}
}

// ClearAll wipes every collection and its slot.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = append([]entity.Category(nil), DefaultCategories...)
	s.deleted = make(map[string]entity.CategoryMeta)
	s.counts = make(map[datekey.Key]entity.DayCounts)
	s.entries = make([]entity.LogEntry, 0)
	s.target = nil
	s.pastTargets = nil
	s.profile = entity.Profile{}
	s.theme = "dark"
	s.solved = make(map[string]bool)
	s.bookmarked = make(map[string]bool)

	names, err := s.repo.Names(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		s.dropSlot(ctx, name)
	}
	return nil
}

func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if err := validate.Var(theme, "oneof=dark light"); err != nil {
		return &ValidationError{Msg: "theme must be dark or light"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.saveSlot(ctx, slotTheme, s.theme)
	return nil
}

func (s *Store) today() datekey.Key {
	return datekey.FromTime(s.now())
}

func sortEntries(entries []entity.LogEntry) {
	// Descending by date; stable so same-date duplicates from old data
	// keep their stored order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func setToSorted(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func isNotFound(err error) bool {
	return errors.Is(err, errorvalues.ErrSlotNotFound)
}
