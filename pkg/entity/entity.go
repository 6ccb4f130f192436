package entity

import (
	"time"

	"github.com/limbo/logbook/pkg/datekey"
)

// Category is a countable thing the user logs, e.g. a drink type.
// ID is immutable once created; removing a category only moves its
// display metadata into the deleted set so historical logs stay
// attributable.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Glyph string `json:"glyph"`
	Color string `json:"color"`
}

// CategoryMeta is the display metadata preserved for a removed category.
type CategoryMeta struct {
	Label string `json:"label"`
	Glyph string `json:"glyph"`
	Color string `json:"color"`
}

// DayCounts maps category id -> count for one calendar day. A zero count
// is never stored; the key is removed instead.
type DayCounts map[string]int

type Activity string

const (
	ActivityNone Activity = "none"
	ActivityGym  Activity = "gym"
	ActivityWalk Activity = "walk"
	ActivityBoth Activity = "both"
)

// LogEntry is one day of the weight/health log. A single entry per date
// accumulates two partial writes: a morning update (weight, sleep) and
// an evening update (activity, junk food). Unset optional fields stay nil.
type LogEntry struct {
	ID            int64       `json:"id"`
	Date          datekey.Key `json:"date"`
	Weight        *float64    `json:"weight,omitempty"`
	Activity      Activity    `json:"activity,omitempty"`
	SleepGood     *bool       `json:"sleep_good,omitempty"`
	NoJunk        *bool       `json:"no_junk,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	EveningLogged bool        `json:"evening_logged"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Target struct {
	Weight      float64     `json:"weight"`
	DueDate     datekey.Key `json:"due_date"`
	SetDate     datekey.Key `json:"set_date"`
	StartWeight float64     `json:"start_weight"`
}

type TargetOutcome string

const (
	OutcomeAchieved  TargetOutcome = "achieved"
	OutcomeCompleted TargetOutcome = "completed"
	OutcomeCancelled TargetOutcome = "cancelled"
)

// PastTarget is an archived target plus its end snapshot. The history
// list is append-only, newest first.
type PastTarget struct {
	Target
	Outcome   TargetOutcome `json:"outcome"`
	EndDate   datekey.Key   `json:"end_date"`
	EndWeight *float64      `json:"end_weight,omitempty"`
}

// Profile is the singleton demographic record used for derived health
// numbers. BirthMonth is 1-12.
type Profile struct {
	Name           string  `json:"name,omitempty"`
	BirthMonth     *int    `json:"birth_month,omitempty"`
	BirthYear      *int    `json:"birth_year,omitempty"`
	HeightCm       int     `json:"height_cm,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	ActivityLevel  float64 `json:"activity_level,omitempty"`
	StartingWeight float64 `json:"starting_weight,omitempty"`
}

// Problem is a read-only catalog item from the problems CSV.
type Problem struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Statement string `json:"statement,omitempty"`
}

type ProblemStats struct {
	Total         int `json:"total"`
	Solved        int `json:"solved"`
	Bookmarked    int `json:"bookmarked"`
	CompletionPct int `json:"completion_pct"`
}

type TopicStats struct {
	Topic         string `json:"topic"`
	Total         int    `json:"total"`
	Solved        int    `json:"solved"`
	CompletionPct int    `json:"completion_pct"`
}
