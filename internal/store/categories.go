package store

import (
	"context"
	"strconv"
	"strings"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/entity"
)

type UpsertCategoryRequest struct {
	Label string `validate:"required,min=1,max=60"`
	Glyph string `validate:"required,max=16"`
	Color string `validate:"required,hexcolor"`
}

// Categories returns a snapshot of the active category list.
func (s *Store) Categories() []entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Category(nil), s.categories...)
}

// UpsertCategory adds a category. When a soft-deleted category carries the
// same label (case-insensitive), its original id is revived so old logs
// stay attributable under the same id; otherwise a fresh id is synthesized
// from the label plus a timestamp salt.
func (s *Store) UpsertCategory(ctx context.Context, req *UpsertCategoryRequest) (*entity.Category, error) {
	req.Label = strings.TrimSpace(req.Label)
	if err := validateStruct(*req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	wanted := strings.ToLower(req.Label)
	for deletedID, meta := range s.deleted {
		if strings.ToLower(strings.TrimSpace(meta.Label)) == wanted {
			id = deletedID
			delete(s.deleted, deletedID)
			s.saveSlot(ctx, slotDeletedCategories, s.deleted)
			break
		}
	}
	if id == "" {
		id = s.synthesizeID(req.Label)
	}

	cat := entity.Category{ID: id, Label: req.Label, Glyph: req.Glyph, Color: req.Color}
	s.categories = append(s.categories, cat)
	s.saveSlot(ctx, slotCategories, s.categories)
	return &cat, nil
}

// RemoveCategory soft-deletes: display metadata moves to the deleted set,
// logged counts under the id are left untouched.
func (s *Store) RemoveCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, cat := range s.categories {
		if cat.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errorvalues.ErrCategoryNotFound
	}

	cat := s.categories[idx]
	s.deleted[id] = entity.CategoryMeta{Label: cat.Label, Glyph: cat.Glyph, Color: cat.Color}
	s.saveSlot(ctx, slotDeletedCategories, s.deleted)

	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	s.saveSlot(ctx, slotCategories, s.categories)
	return nil
}

// CategoryInfo resolves display metadata for any id, including ids that
// only exist in historical logs: active set first, then the deleted set,
// then a grey fallback for logs that predate metadata preservation.
func (s *Store) CategoryInfo(id string) entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryInfoLocked(id)
}

func (s *Store) categoryInfoLocked(id string) entity.Category {
	for _, cat := range s.categories {
		if cat.ID == id {
			return cat
		}
	}
	if meta, ok := s.deleted[id]; ok {
		return entity.Category{ID: id, Label: meta.Label, Glyph: meta.Glyph, Color: meta.Color}
	}
	return entity.Category{ID: id, Label: id, Glyph: "🥤", Color: "#888888"}
}

func (s *Store) isActiveCategoryLocked(id string) bool {
	for _, cat := range s.categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) synthesizeID(label string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(label)), "-")
	return slug + "-" + strconv.FormatInt(s.now().UnixMilli(), 10)
}
