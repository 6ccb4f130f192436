package store

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/limbo/logbook/pkg/entity"
)

var exportHeader = []string{"Date", "Weight (kg)", "Activity", "Sleep >6h", "No Junk", "Notes"}

// ExportCSV writes the full log, oldest entry first, one row per day.
// Unset optional fields export as empty cells.
func (s *Store) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	entries := append([]entity.LogEntry(nil), s.entries...)
	s.mu.Unlock()

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return errors.New("writing export header: " + err.Error())
	}
	// entries are held newest first, exports read better oldest first
	for i := len(entries) - 1; i >= 0; i-- {
		if err := writer.Write(exportRow(entries[i])); err != nil {
			return errors.New("writing export row: " + err.Error())
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportRow(e entity.LogEntry) []string {
	row := []string{string(e.Date), "", "", "", "", e.Notes}
	if e.Weight != nil {
		row[1] = strconv.FormatFloat(*e.Weight, 'f', -1, 64)
	}
	if e.Activity != "" && e.Activity != entity.ActivityNone {
		row[2] = string(e.Activity)
	}
	if e.SleepGood != nil {
		row[3] = yesNo(*e.SleepGood)
	}
	if e.NoJunk != nil {
		row[4] = yesNo(*e.NoJunk)
	}
	return row
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
