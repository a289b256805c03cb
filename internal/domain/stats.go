package domain

import "time"

// maxStreakLookback bounds the backward walk so a registry whose habits
// all have start dates cannot send it into open-ended history.
const maxStreakLookback = 366

// Progress is the completion state for a single day.
type Progress struct {
	// Done holds one flag per habit, in the same order as the habits
	// passed to ComputeProgress.
	Done      []bool
	Completed int
	Total     int
}

// AllDone reports whether every habit in the set was completed.
func (p Progress) AllDone() bool {
	return p.Total > 0 && p.Completed == p.Total
}

// ComputeProgress evaluates the completion predicate for each habit
// against the day's record.
func ComputeProgress(habits []Habit, rec DailyRecord) Progress {
	p := Progress{
		Done:  make([]bool, len(habits)),
		Total: len(habits),
	}
	for i, h := range habits {
		if rec.Complete(h) {
			p.Done[i] = true
			p.Completed++
		}
	}
	return p
}

// ComputeStreak counts consecutive fully-completed days ending at today.
//
// Today itself counts only when its record exists and every active habit
// is complete; an incomplete or absent today is skipped, never a break,
// since the day may simply not be over yet. Walking backward from
// yesterday: a recorded, fully-completed day extends the streak; a
// recorded day with any active habit missed breaks it; a missing record
// breaks it too when at least one habit was active that day. Days with
// no active habits are stepped over.
func ComputeStreak(today time.Time, records map[time.Time]DailyRecord, reg Registry) int {
	today = Day(today)
	streak := 0
	if done, counted := dayComplete(today, records, reg); counted && done {
		streak++
	}

	day := today.AddDate(0, 0, -1)
	for i := 0; i < maxStreakLookback; i++ {
		done, counted := dayComplete(day, records, reg)
		if counted {
			if !done {
				return streak
			}
			streak++
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// dayComplete evaluates one day. counted is false when no habit was
// active, in which case the day neither extends nor breaks a streak.
func dayComplete(day time.Time, records map[time.Time]DailyRecord, reg Registry) (done, counted bool) {
	habits := reg.Resolve(day)
	if len(habits) == 0 {
		return false, false
	}
	rec, ok := records[day]
	if !ok {
		// Missing data for a day with active habits is a break,
		// never silently skipped.
		return false, true
	}
	return ComputeProgress(habits, rec).AllDone(), true
}

// CellOutside marks heatmap cells after today; they are drawn empty.
const CellOutside = -1.0

// Heatmap is a trailing multi-week grid of per-day completion fractions.
// Start is always a Sunday so cell i maps to column i/7 (week) and row
// i%7 (weekday, Sunday first). The last column is the week containing
// today; cells after today hold CellOutside.
type Heatmap struct {
	Start time.Time
	Weeks int
	Frac  []float64
}

// At returns the fraction for week column w, weekday row d.
func (m Heatmap) At(w, d int) float64 {
	return m.Frac[w*7+d]
}

// ComputeHeatmap builds the completion grid for the trailing weeks*7-day
// window. Fraction = completed/active habits for that date; a date with
// no active habits counts as 0.
func ComputeHeatmap(today time.Time, weeks int, records map[time.Time]DailyRecord, reg Registry) Heatmap {
	today = Day(today)
	lastColStart := startOfWeek(today)
	start := lastColStart.AddDate(0, 0, -7*(weeks-1))

	m := Heatmap{Start: start, Weeks: weeks, Frac: make([]float64, weeks*7)}
	for i := range m.Frac {
		day := start.AddDate(0, 0, i)
		if day.After(today) {
			m.Frac[i] = CellOutside
			continue
		}
		habits := reg.Resolve(day)
		if len(habits) == 0 {
			continue
		}
		p := ComputeProgress(habits, records[day])
		m.Frac[i] = float64(p.Completed) / float64(p.Total)
	}
	return m
}

// startOfWeek returns the Sunday on or before day.
func startOfWeek(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}
