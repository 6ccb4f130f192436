package store

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/entity"
)

// Catalog is the read-only problem list the solved/bookmarked flags refer
// to. It is loaded once at startup and never mutated.
type Catalog struct {
	problems []entity.Problem
	byID     map[string]int
	topics   []string // first-seen order
}

// LoadCatalog parses the problems CSV. Anything before the
// "Topic,Title,..." header row is preamble and skipped; a row with an
// empty topic cell inherits the topic of the row above it.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("opening problem catalog: " + err.Error())
	}
	defer f.Close()
	return ParseCatalog(f)
}

func ParseCatalog(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	c := &Catalog{byID: make(map[string]int)}
	seenTopics := make(map[string]bool)
	inBody := false
	topic := ""
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New("reading problem catalog: " + err.Error())
		}
		if !inBody {
			if len(record) >= 2 && strings.EqualFold(strings.TrimSpace(record[0]), "topic") {
				inBody = true
			}
			continue
		}
		if t := strings.TrimSpace(record[0]); t != "" {
			topic = t
		}
		title := ""
		if len(record) >= 2 {
			title = strings.TrimSpace(record[1])
		}
		if title == "" || topic == "" {
			continue
		}
		url := ""
		if len(record) >= 3 {
			url = strings.TrimSpace(record[2])
		}
		statement := ""
		if len(record) >= 4 {
			statement = strings.TrimSpace(record[3])
		}

		id := slugify(title)
		if _, exists := c.byID[id]; exists {
			continue
		}
		c.byID[id] = len(c.problems)
		c.problems = append(c.problems, entity.Problem{
			ID:        id,
			Topic:     topic,
			Title:     title,
			URL:       url,
			Statement: statement,
		})
		if !seenTopics[topic] {
			seenTopics[topic] = true
			c.topics = append(c.topics, topic)
		}
	}
	return c, nil
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.problems)
}

func (c *Catalog) has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// TopicGroup is one catalog topic with per-problem flags attached.
type TopicGroup struct {
	Topic    string             `json:"topic"`
	Problems []ProblemWithFlags `json:"problems"`
}

type ProblemWithFlags struct {
	entity.Problem
	Solved     bool `json:"solved"`
	Bookmarked bool `json:"bookmarked"`
}

// Problems returns the catalog grouped by topic in catalog order, with
// the user's solved and bookmarked flags folded in.
func (s *Store) Problems() []TopicGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil {
		return nil
	}
	byTopic := make(map[string][]ProblemWithFlags)
	for _, p := range s.catalog.problems {
		byTopic[p.Topic] = append(byTopic[p.Topic], ProblemWithFlags{
			Problem:    p,
			Solved:     s.solved[p.ID],
			Bookmarked: s.bookmarked[p.ID],
		})
	}
	groups := make([]TopicGroup, 0, len(s.catalog.topics))
	for _, topic := range s.catalog.topics {
		groups = append(groups, TopicGroup{Topic: topic, Problems: byTopic[topic]})
	}
	return groups
}

// ToggleSolved flips the solved flag for a catalog problem and returns the
// new state.
func (s *Store) ToggleSolved(ctx context.Context, id string) (bool, error) {
	return s.toggleFlag(ctx, id, slotSolved, func() map[string]bool { return s.solved })
}

// ToggleBookmark flips the bookmark flag for a catalog problem and returns
// the new state.
func (s *Store) ToggleBookmark(ctx context.Context, id string) (bool, error) {
	return s.toggleFlag(ctx, id, slotBookmarked, func() map[string]bool { return s.bookmarked })
}

func (s *Store) toggleFlag(ctx context.Context, id, slot string, pick func() map[string]bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.has(id) {
		return false, errorvalues.ErrProblemNotFound
	}
	set := pick()
	now := !set[id]
	if now {
		set[id] = true
	} else {
		delete(set, id)
	}
	s.saveSlot(ctx, slot, setToSorted(set))
	return now, nil
}

// ProblemStats summarizes progress over the whole catalog plus a per-topic
// breakdown in catalog order.
func (s *Store) ProblemStats() (entity.ProblemStats, []entity.TopicStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats entity.ProblemStats
	if s.catalog == nil {
		return stats, nil
	}
	stats.Total = len(s.catalog.problems)
	stats.Bookmarked = len(s.bookmarked)

	solvedByTopic := make(map[string]int)
	totalByTopic := make(map[string]int)
	for _, p := range s.catalog.problems {
		totalByTopic[p.Topic]++
		if s.solved[p.ID] {
			stats.Solved++
			solvedByTopic[p.Topic]++
		}
	}
	if stats.Total > 0 {
		stats.CompletionPct = stats.Solved * 100 / stats.Total
	}

	topics := make([]entity.TopicStats, 0, len(s.catalog.topics))
	for _, topic := range s.catalog.topics {
		ts := entity.TopicStats{
			Topic:  topic,
			Total:  totalByTopic[topic],
			Solved: solvedByTopic[topic],
		}
		if ts.Total > 0 {
			ts.CompletionPct = ts.Solved * 100 / ts.Total
		}
		topics = append(topics, ts)
	}
	return stats, topics
}
