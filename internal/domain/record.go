package domain

import "time"

// DailyRecord is the raw tracking row for one calendar date: a mapping
// from habit property name to its recorded value. There is at most one
// record per date.
type DailyRecord struct {
	Date   time.Time
	Values map[string]Value
}

// Complete reports whether the record marks the given habit as done.
// A missing value means not done; it is never an error.
func (r DailyRecord) Complete(h Habit) bool {
	v, ok := r.Values[h.Property]
	if !ok {
		return false
	}
	return v.Complete()
}

// ByDate indexes records by their normalized calendar date. Later
// duplicates for the same date are dropped so the first record wins.
func ByDate(records []DailyRecord) map[time.Time]DailyRecord {
	out := make(map[time.Time]DailyRecord, len(records))
	for _, rec := range records {
		day := Day(rec.Date)
		if _, dup := out[day]; dup {
			continue
		}
		out[day] = rec
	}
	return out
}
