// Package datekey provides calendar-date keys in the local timezone.
// All date arithmetic goes through time.Date with local location so that
// a key never shifts a day when the machine is east or west of UTC.
package datekey

import (
	"errors"
	"time"
)

const layout = "2006-01-02"

var ErrBadKey = errors.New("date key must be YYYY-MM-DD")

// Key is a calendar date formatted as YYYY-MM-DD. The format sorts
// lexicographically in chronological order.
type Key string

func Parse(s string) (Key, error) {
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return "", ErrBadKey
	}
	return FromTime(t), nil
}

func FromTime(t time.Time) Key {
	return Key(t.Format(layout))
}

func Today() Key {
	return FromTime(time.Now())
}

// Time returns the key as local midnight.
func (k Key) Time() time.Time {
	t, err := time.ParseInLocation(layout, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func (k Key) IsZero() bool {
	return k == ""
}

func (k Key) Valid() bool {
	_, err := Parse(string(k))
	return err == nil
}

func (k Key) AddDays(n int) Key {
	t := k.Time()
	return FromTime(time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, time.Local))
}

// MonthStart returns the first day of the key's month.
func (k Key) MonthStart() Key {
	t := k.Time()
	return FromTime(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local))
}

func (k Key) Before(other Key) bool {
	return string(k) < string(other)
}

func (k Key) After(other Key) bool {
	return string(k) > string(other)
}

// DaysBetween returns b - a in whole calendar days. Computed from local
// midnights rounded to the nearest day so a DST transition inside the
// range cannot produce an off-by-one.
func DaysBetween(a, b Key) int {
	d := b.Time().Sub(a.Time())
	return int(d.Round(24*time.Hour) / (24 * time.Hour))
}

// Walk calls fn for every calendar day from start to end inclusive.
func Walk(start, end Key, fn func(Key)) {
	for k := start; !k.After(end); k = k.AddDays(1) {
		fn(k)
	}
}
