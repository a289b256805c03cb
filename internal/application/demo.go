package application

import (
	"math/rand"
	"time"

	"habitink/internal/domain"
	"habitink/internal/render"
)

// demoSeed keeps demo output reproducible run to run.
const demoSeed = 42

// demoHabits mirrors a plausible tracker setup so previews look like
// the real thing.
var demoHabits = []struct {
	label string
	icon  string
	done  bool
}{
	{"DRINK 4L WATER", "water", false},
	{"PLAY CHESS", "chess", true},
	{"WRITE NOTES", "notes", true},
	{"BUDDY EXERCISE", "dog", true},
	{"EXERCISE", "exercise", false},
	{"READ", "book", true},
}

// buildDemoModel assembles a synthetic snapshot: today's partial
// completion, a seven-day streak, and a history window with
// realistic-looking variation.
func (r *Refresh) buildDemoModel(today time.Time) render.Model {
	habits := make([]domain.Habit, len(demoHabits))
	for i, d := range demoHabits {
		habits[i] = domain.Habit{Property: d.label, Label: d.label, Icon: d.icon, Sort: i}
	}
	reg := domain.NewRegistry(habits)

	records := demoHistory(today, habits, r.Options.CalendarWeeks)
	todayRec := domain.DailyRecord{Date: today, Values: map[string]domain.Value{}}
	for i, d := range demoHabits {
		todayRec.Values[habits[i].Property] = domain.Value{Kind: domain.KindCheckbox, Checked: d.done}
	}
	records[today] = todayRec

	return r.buildModel(today, reg, todayRec, records)
}

// demoHistory fabricates a trailing window of records. Recent days lean
// toward completion, weekends dip, and the seven days before today are
// fully complete so the streak badge has something to show.
func demoHistory(today time.Time, habits []domain.Habit, weeks int) map[time.Time]domain.DailyRecord {
	days := streakLookbackDays
	if w := weeks * 7; w > days {
		days = w
	}

	rng := rand.New(rand.NewSource(demoSeed))
	records := make(map[time.Time]domain.DailyRecord, days)
	total := len(habits)

	for back := 1; back <= days; back++ {
		day := today.AddDate(0, 0, -back)

		var completed int
		switch {
		case back <= 7:
			completed = total
		case back == 8:
			completed = total - 1
		case rng.Float64() < 0.1:
			completed = 0
		case rng.Float64() < 0.25:
			completed = total
		default:
			prob := 0.5 + 0.3*(1-float64(back)/float64(days))
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				prob *= 0.7
			}
			completed = int(prob*float64(total)) + rng.Intn(4) - 1
			if completed < 0 {
				completed = 0
			}
			if completed > total {
				completed = total
			}
		}

		rec := domain.DailyRecord{Date: day, Values: map[string]domain.Value{}}
		for i, h := range habits {
			rec.Values[h.Property] = domain.Value{Kind: domain.KindCheckbox, Checked: i < completed}
		}
		records[domain.Day(day)] = rec
	}
	return records
}
