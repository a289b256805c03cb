package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"habitink/internal/domain"
	"habitink/internal/ports"
	"habitink/internal/render"
)

// streakLookbackDays is how far back history is fetched for streak math
// when the heatmap window alone does not reach that far.
const streakLookbackDays = 180

// Options are the per-run switches derived from config and CLI flags.
type Options struct {
	// Force bypasses the change-detection gate.
	Force bool
	// Demo renders synthetic data without touching the remote source.
	Demo bool

	ShowStreak    bool
	Calendar      bool
	CalendarWeeks int
	Rotation      int

	// DynamicHabits fetches definitions from the habits metadata
	// database; otherwise Habits below is the full registry.
	DynamicHabits bool
	Habits        []domain.Habit
}

// Result reports what a run did.
type Result struct {
	// Skipped is set for the clean "no change" early exit.
	Skipped bool
	Frame   *render.Bitmap
}

// Refresh is the full update pipeline: probe, fetch, compute, render,
// present, persist marker. One invocation runs to completion and exits;
// the external scheduler provides retries.
type Refresh struct {
	Source  ports.HabitSource
	Markers ports.MarkerStore
	Display ports.Display
	// Fallback, when set, receives the frame if Display reports the
	// panel unavailable.
	Fallback ports.Display
	Log      *zap.Logger
	// Now is injectable for tests; defaults to time.Now.
	Now     func() time.Time
	Options Options
}

// Validate checks the pipeline wiring before any I/O.
func (r *Refresh) Validate() error {
	if r.Display == nil {
		return errors.New("refresh: display sink is required")
	}
	if r.Log == nil {
		return errors.New("refresh: logger is required")
	}
	if !r.Options.Demo {
		if r.Source == nil {
			return errors.New("refresh: habit source is required")
		}
		if r.Markers == nil {
			return errors.New("refresh: marker store is required")
		}
	}
	if !r.Options.DynamicHabits && !r.Options.Demo && len(r.Options.Habits) == 0 {
		return &ConfigError{Field: "habits", Message: "registry is empty"}
	}
	return nil
}

// Execute runs the pipeline once.
func (r *Refresh) Execute(ctx context.Context) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	today := domain.Day(now())

	if r.Options.Demo {
		return r.present(ctx, r.buildDemoModel(today), "")
	}

	last, err := r.Markers.Load()
	if err != nil {
		return nil, err
	}
	changed, marker, err := r.Source.ProbeChanged(ctx, last)
	if err != nil {
		return nil, err
	}
	if !changed && !r.Options.Force {
		r.Log.Info("no change since last update, skipping", zap.String("marker", marker))
		return &Result{Skipped: true}, nil
	}

	reg, err := r.registry(ctx, today)
	if err != nil {
		return nil, err
	}

	todayRec, err := r.Source.FetchDay(ctx, today)
	if err != nil {
		return nil, err
	}

	records := map[time.Time]domain.DailyRecord{today: todayRec}
	if r.Options.ShowStreak || r.Options.Calendar {
		history, err := r.Source.FetchRange(ctx, r.historyStart(today), today)
		if err != nil {
			return nil, err
		}
		records = domain.ByDate(history)
		records[today] = todayRec
	}

	model := r.buildModel(today, reg, todayRec, records)
	r.Log.Info("rendering",
		zap.Int("completed", model.Completed),
		zap.Int("total", model.Total),
		zap.Int("streak", model.Streak))

	return r.present(ctx, model, marker)
}

// present renders the model, pushes the frame, and only then persists
// the marker: a run killed or failed anywhere before that point leaves
// the previous marker untouched so the next poll retries.
func (r *Refresh) present(ctx context.Context, model render.Model, marker string) (*Result, error) {
	frame := render.Render(model, render.Options{
		Rotation:   r.Options.Rotation,
		ShowStreak: r.Options.ShowStreak,
	})

	err := r.Display.Present(ctx, frame)
	if err != nil && r.Fallback != nil && errors.Is(err, ErrDisplayUnavailable) {
		r.Log.Warn("display unavailable, falling back to file output", zap.Error(err))
		err = r.Fallback.Present(ctx, frame)
	}
	if err != nil {
		return nil, err
	}

	if marker != "" {
		if err := r.Markers.Store(marker); err != nil {
			return nil, err
		}
	}
	return &Result{Frame: frame}, nil
}

func (r *Refresh) registry(ctx context.Context, today time.Time) (domain.Registry, error) {
	if !r.Options.DynamicHabits {
		return domain.NewRegistry(r.Options.Habits), nil
	}
	habits, err := r.Source.FetchHabits(ctx)
	if err != nil {
		return domain.Registry{}, err
	}
	reg := domain.NewRegistry(habits)
	r.Log.Info("loaded habit definitions",
		zap.Int("habits", len(habits)),
		zap.Int("active_today", len(reg.Resolve(today))))
	return reg, nil
}

// historyStart returns the oldest date worth fetching: far enough back
// for the heatmap window and the streak walk, whichever is longer.
func (r *Refresh) historyStart(today time.Time) time.Time {
	start := today.AddDate(0, 0, -(streakLookbackDays - 1))
	if r.Options.Calendar {
		hmStart := domain.ComputeHeatmap(today, r.Options.CalendarWeeks, nil, domain.Registry{}).Start
		if hmStart.Before(start) {
			start = hmStart
		}
	}
	return start
}

func (r *Refresh) buildModel(today time.Time, reg domain.Registry, todayRec domain.DailyRecord, records map[time.Time]domain.DailyRecord) render.Model {
	active := reg.Resolve(today)
	prog := domain.ComputeProgress(active, todayRec)

	model := render.Model{
		Date:      today,
		Rows:      make([]render.Row, len(active)),
		Completed: prog.Completed,
		Total:     prog.Total,
	}
	for i, h := range active {
		icon := h.Icon
		if icon == "" {
			icon = "star"
		}
		model.Rows[i] = render.Row{Icon: icon, Label: h.Label, Done: prog.Done[i]}
	}
	if r.Options.ShowStreak {
		model.Streak = domain.ComputeStreak(today, records, reg)
	}
	if r.Options.Calendar {
		hm := domain.ComputeHeatmap(today, r.Options.CalendarWeeks, records, reg)
		model.Heatmap = &hm
	}
	return model
}
