package domain

import (
	"testing"
	"time"
)

// fullDay builds a record where every listed habit is checked.
func fullDay(d time.Time, habits []Habit) DailyRecord {
	values := make(map[string]Value, len(habits))
	for _, h := range habits {
		values[h.Property] = Value{Kind: h.Kind, Checked: true, Number: 1, Select: "done"}
	}
	return DailyRecord{Date: d, Values: values}
}

func TestComputeProgress(t *testing.T) {
	habits := []Habit{
		{Property: "Water"},
		{Property: "Steps", Kind: KindNumber},
		{Property: "Mood", Kind: KindSelect},
	}
	rec := DailyRecord{Values: map[string]Value{
		"Water": {Kind: KindCheckbox, Checked: true},
		"Steps": {Kind: KindNumber, Number: 0},
	}}

	p := ComputeProgress(habits, rec)
	if p.Total != 3 || p.Completed != 1 {
		t.Fatalf("got %d/%d, want 1/3", p.Completed, p.Total)
	}
	want := []bool{true, false, false}
	for i := range want {
		if p.Done[i] != want[i] {
			t.Errorf("Done[%d] = %v, want %v", i, p.Done[i], want[i])
		}
	}
	if p.AllDone() {
		t.Error("AllDone() = true for a partial day")
	}
}

func TestProgressAllDoneEmptySet(t *testing.T) {
	if (Progress{}).AllDone() {
		t.Error("AllDone() = true with zero habits")
	}
}

func TestComputeStreak(t *testing.T) {
	habits := []Habit{{Property: "Water"}, {Property: "Book"}}
	reg := NewRegistry(habits)
	today := date(2026, time.August, 30)

	full := func(back int) (time.Time, DailyRecord) {
		d := today.AddDate(0, 0, -back)
		return d, fullDay(d, habits)
	}
	partial := func(back int) (time.Time, DailyRecord) {
		d := today.AddDate(0, 0, -back)
		return d, DailyRecord{Date: d, Values: map[string]Value{
			"Water": {Checked: true},
		}}
	}

	tests := []struct {
		name    string
		records func() map[time.Time]DailyRecord
		want    int
	}{
		{
			"today complete extends run",
			func() map[time.Time]DailyRecord {
				m := map[time.Time]DailyRecord{}
				for back := 0; back <= 2; back++ {
					d, rec := full(back)
					m[d] = rec
				}
				return m
			},
			3,
		},
		{
			"today partial is skipped, not a break",
			func() map[time.Time]DailyRecord {
				m := map[time.Time]DailyRecord{}
				d, rec := partial(0)
				m[d] = rec
				for back := 1; back <= 4; back++ {
					d, rec := full(back)
					m[d] = rec
				}
				return m
			},
			4,
		},
		{
			"today missing is skipped, not a break",
			func() map[time.Time]DailyRecord {
				m := map[time.Time]DailyRecord{}
				for back := 1; back <= 2; back++ {
					d, rec := full(back)
					m[d] = rec
				}
				return m
			},
			2,
		},
		{
			"recorded incomplete past day breaks",
			func() map[time.Time]DailyRecord {
				m := map[time.Time]DailyRecord{}
				d0, r0 := full(0)
				m[d0] = r0
				d1, r1 := full(1)
				m[d1] = r1
				d2, r2 := partial(2)
				m[d2] = r2
				d3, r3 := full(3)
				m[d3] = r3
				return m
			},
			2,
		},
		{
			"missing past day breaks",
			func() map[time.Time]DailyRecord {
				m := map[time.Time]DailyRecord{}
				d0, r0 := full(0)
				m[d0] = r0
				// back=1 absent
				d2, r2 := full(2)
				m[d2] = r2
				return m
			},
			1,
		},
		{
			"no records at all",
			func() map[time.Time]DailyRecord { return map[time.Time]DailyRecord{} },
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStreak(today, tt.records(), reg); got != tt.want {
				t.Errorf("ComputeStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeStreakStepsOverZeroActiveDays(t *testing.T) {
	// The habit set only exists from the 28th onward; the 27th and
	// earlier have nothing active and must not break the run.
	start := date(2026, time.August, 28)
	habits := []Habit{{Property: "Water", Start: start}}
	reg := NewRegistry(habits)
	today := date(2026, time.August, 30)

	records := map[time.Time]DailyRecord{}
	for back := 0; back <= 2; back++ {
		d := today.AddDate(0, 0, -back)
		records[d] = fullDay(d, habits)
	}

	if got := ComputeStreak(today, records, reg); got != 3 {
		t.Errorf("ComputeStreak() = %d, want 3", got)
	}
}

func TestComputeStreakDeactivatedHabitBoundary(t *testing.T) {
	// Chess was deactivated on the 29th: it still counts for the 28th
	// and earlier, and is ignored from the 29th on.
	cut := date(2026, time.August, 29)
	habits := []Habit{
		{Property: "Water"},
		{Property: "Chess", Deactivated: cut},
	}
	reg := NewRegistry(habits)
	today := date(2026, time.August, 30)

	records := map[time.Time]DailyRecord{
		today: {Date: today, Values: map[string]Value{"Water": {Checked: true}}},
		cut:   {Date: cut, Values: map[string]Value{"Water": {Checked: true}}},
		cut.AddDate(0, 0, -1): {Date: cut.AddDate(0, 0, -1), Values: map[string]Value{
			"Water": {Checked: true},
			"Chess": {Checked: true},
		}},
	}

	if got := ComputeStreak(today, records, reg); got != 3 {
		t.Errorf("ComputeStreak() = %d, want 3", got)
	}

	// Without the chess tick on the 28th that day is incomplete.
	records[cut.AddDate(0, 0, -1)] = DailyRecord{
		Date:   cut.AddDate(0, 0, -1),
		Values: map[string]Value{"Water": {Checked: true}},
	}
	if got := ComputeStreak(today, records, reg); got != 2 {
		t.Errorf("ComputeStreak() after removing tick = %d, want 2", got)
	}
}

func TestComputeHeatmap(t *testing.T) {
	habits := []Habit{{Property: "Water"}, {Property: "Book"}}
	reg := NewRegistry(habits)
	today := date(2026, time.August, 26) // a Wednesday

	records := map[time.Time]DailyRecord{
		today: fullDay(today, habits),
		today.AddDate(0, 0, -1): {Date: today.AddDate(0, 0, -1), Values: map[string]Value{
			"Water": {Checked: true},
		}},
	}

	m := ComputeHeatmap(today, 2, records, reg)

	if m.Start.Weekday() != time.Sunday {
		t.Fatalf("Start = %v (%v), want a Sunday", m.Start, m.Start.Weekday())
	}
	if want := date(2026, time.August, 16); !m.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", m.Start, want)
	}
	if len(m.Frac) != 14 {
		t.Fatalf("len(Frac) = %d, want 14", len(m.Frac))
	}

	// Today sits in the last column, row 3 (Wednesday).
	if got := m.At(1, 3); got != 1.0 {
		t.Errorf("today's cell = %v, want 1.0", got)
	}
	if got := m.At(1, 2); got != 0.5 {
		t.Errorf("yesterday's cell = %v, want 0.5", got)
	}
	// A past day with no record: zero completion, not outside.
	if got := m.At(0, 0); got != 0 {
		t.Errorf("recordless past cell = %v, want 0", got)
	}
	// Thursday through Saturday of the last week are in the future.
	for d := 4; d < 7; d++ {
		if got := m.At(1, d); got != CellOutside {
			t.Errorf("future cell row %d = %v, want CellOutside", d, got)
		}
	}
}

func TestComputeHeatmapNoActiveHabits(t *testing.T) {
	today := date(2026, time.August, 26)
	m := ComputeHeatmap(today, 1, nil, NewRegistry(nil))
	// Past and present cells read 0, not NaN.
	if got := m.At(0, 3); got != 0 {
		t.Errorf("cell with zero active habits = %v, want 0", got)
	}
}
