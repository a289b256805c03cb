package application

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"go.uber.org/zap"

	"habitink/internal/domain"
)

var testToday = time.Date(2026, time.August, 30, 9, 30, 0, 0, time.UTC)

type fakeSource struct {
	changed bool
	marker  string

	probeCalls int
	dayCalls   int
	rangeCalls int

	habits  []domain.Habit
	today   domain.DailyRecord
	history []domain.DailyRecord
}

func (s *fakeSource) ProbeChanged(ctx context.Context, lastMarker string) (bool, string, error) {
	s.probeCalls++
	return s.changed, s.marker, nil
}

func (s *fakeSource) FetchHabits(ctx context.Context) ([]domain.Habit, error) {
	return s.habits, nil
}

func (s *fakeSource) FetchDay(ctx context.Context, day time.Time) (domain.DailyRecord, error) {
	s.dayCalls++
	if s.today.Values == nil {
		return domain.DailyRecord{Date: day, Values: map[string]domain.Value{}}, nil
	}
	return s.today, nil
}

func (s *fakeSource) FetchRange(ctx context.Context, from, to time.Time) ([]domain.DailyRecord, error) {
	s.rangeCalls++
	return s.history, nil
}

type fakeMarkers struct {
	stored []string
	value  string
}

func (m *fakeMarkers) Load() (string, error) { return m.value, nil }

func (m *fakeMarkers) Store(marker string) error {
	m.stored = append(m.stored, marker)
	m.value = marker
	return nil
}

type fakeDisplay struct {
	frames []image.Image
	err    error
}

func (d *fakeDisplay) Present(ctx context.Context, frame image.Image) error {
	if d.err != nil {
		return d.err
	}
	d.frames = append(d.frames, frame)
	return nil
}

func testHabits() []domain.Habit {
	return []domain.Habit{
		{Property: "Water", Label: "DRINK WATER", Icon: "water"},
		{Property: "Book", Label: "READ A BOOK", Icon: "book"},
	}
}

func testRefresh(src *fakeSource, markers *fakeMarkers, disp *fakeDisplay) *Refresh {
	return &Refresh{
		Source:  src,
		Markers: markers,
		Display: disp,
		Log:     zap.NewNop(),
		Now:     func() time.Time { return testToday },
		Options: Options{Habits: testHabits()},
	}
}

func TestRefreshSkipsWhenUnchanged(t *testing.T) {
	src := &fakeSource{changed: false, marker: "stamp"}
	markers := &fakeMarkers{value: "stamp"}
	disp := &fakeDisplay{}

	result, err := testRefresh(src, markers, disp).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Skipped {
		t.Error("result not marked skipped")
	}
	if src.dayCalls != 0 || src.rangeCalls != 0 {
		t.Errorf("skip still fetched data: %d day, %d range calls", src.dayCalls, src.rangeCalls)
	}
	if len(disp.frames) != 0 {
		t.Error("skip still presented a frame")
	}
	if len(markers.stored) != 0 {
		t.Error("skip rewrote the marker")
	}
}

func TestRefreshForceBypassesProbe(t *testing.T) {
	src := &fakeSource{changed: false, marker: "stamp"}
	markers := &fakeMarkers{value: "stamp"}
	disp := &fakeDisplay{}

	r := testRefresh(src, markers, disp)
	r.Options.Force = true

	result, err := r.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Skipped {
		t.Error("force run was skipped")
	}
	if len(disp.frames) != 1 {
		t.Fatalf("presented %d frames, want 1", len(disp.frames))
	}
}

func TestRefreshStoresMarkerAfterPresent(t *testing.T) {
	src := &fakeSource{changed: true, marker: "new-stamp"}
	markers := &fakeMarkers{value: "old-stamp"}
	disp := &fakeDisplay{}

	result, err := testRefresh(src, markers, disp).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Skipped {
		t.Error("changed run was skipped")
	}
	if len(markers.stored) != 1 || markers.stored[0] != "new-stamp" {
		t.Errorf("stored markers = %v, want [new-stamp]", markers.stored)
	}
}

func TestRefreshKeepsMarkerOnPresentFailure(t *testing.T) {
	src := &fakeSource{changed: true, marker: "new-stamp"}
	markers := &fakeMarkers{value: "old-stamp"}
	disp := &fakeDisplay{err: errors.New("panel timeout")}

	_, err := testRefresh(src, markers, disp).Execute(context.Background())
	if err == nil {
		t.Fatal("Execute succeeded despite present failure")
	}
	if len(markers.stored) != 0 {
		t.Errorf("marker stored despite present failure: %v", markers.stored)
	}
}

func TestRefreshFallsBackWhenDisplayUnavailable(t *testing.T) {
	src := &fakeSource{changed: true, marker: "stamp"}
	markers := &fakeMarkers{}
	disp := &fakeDisplay{err: &DisplayError{Op: "open", Err: errors.New("no spi device")}}
	fallback := &fakeDisplay{}

	r := testRefresh(src, markers, disp)
	r.Fallback = fallback

	result, err := r.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(fallback.frames) != 1 {
		t.Fatalf("fallback presented %d frames, want 1", len(fallback.frames))
	}
	if result.Frame == nil {
		t.Error("result frame missing")
	}
	// The run still counts: the marker is persisted.
	if len(markers.stored) != 1 {
		t.Errorf("stored markers = %v, want one entry", markers.stored)
	}
}

func TestRefreshNoFallbackForOtherErrors(t *testing.T) {
	src := &fakeSource{changed: true, marker: "stamp"}
	disp := &fakeDisplay{err: errors.New("plain failure")}
	fallback := &fakeDisplay{}

	r := testRefresh(src, &fakeMarkers{}, disp)
	r.Fallback = fallback

	if _, err := r.Execute(context.Background()); err == nil {
		t.Fatal("Execute succeeded despite display failure")
	}
	if len(fallback.frames) != 0 {
		t.Error("fallback used for a non-availability error")
	}
}

func TestRefreshDynamicHabits(t *testing.T) {
	src := &fakeSource{
		changed: true,
		marker:  "stamp",
		habits: []domain.Habit{
			{Property: "Water", Label: "DRINK WATER"},
		},
	}
	disp := &fakeDisplay{}

	r := testRefresh(src, &fakeMarkers{}, disp)
	r.Options.Habits = nil
	r.Options.DynamicHabits = true

	result, err := r.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Frame == nil {
		t.Error("no frame rendered from dynamic habits")
	}
}

func TestRefreshFetchesHistoryOnlyWhenNeeded(t *testing.T) {
	tests := []struct {
		name       string
		streak     bool
		calendar   bool
		wantRanges int
	}{
		{"neither", false, false, 0},
		{"streak only", true, false, 1},
		{"calendar only", false, true, 1},
		{"both", true, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{changed: true, marker: "stamp"}
			r := testRefresh(src, &fakeMarkers{}, &fakeDisplay{})
			r.Options.ShowStreak = tt.streak
			r.Options.Calendar = tt.calendar
			r.Options.CalendarWeeks = 4

			if _, err := r.Execute(context.Background()); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if src.rangeCalls != tt.wantRanges {
				t.Errorf("range calls = %d, want %d", src.rangeCalls, tt.wantRanges)
			}
		})
	}
}

func TestRefreshDemoNeedsNoSource(t *testing.T) {
	disp := &fakeDisplay{}
	r := &Refresh{
		Display: disp,
		Log:     zap.NewNop(),
		Now:     func() time.Time { return testToday },
		Options: Options{
			Demo:          true,
			ShowStreak:    true,
			Calendar:      true,
			CalendarWeeks: 12,
		},
	}

	result, err := r.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Frame == nil {
		t.Fatal("demo run produced no frame")
	}
	if len(disp.frames) != 1 {
		t.Errorf("presented %d frames, want 1", len(disp.frames))
	}
}

func TestRefreshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Refresh)
		wantErr bool
	}{
		{"complete wiring", func(r *Refresh) {}, false},
		{"missing display", func(r *Refresh) { r.Display = nil }, true},
		{"missing logger", func(r *Refresh) { r.Log = nil }, true},
		{"missing source", func(r *Refresh) { r.Source = nil }, true},
		{"missing markers", func(r *Refresh) { r.Markers = nil }, true},
		{"empty static registry", func(r *Refresh) { r.Options.Habits = nil }, true},
		{"demo needs neither source nor markers", func(r *Refresh) {
			r.Source = nil
			r.Markers = nil
			r.Options.Demo = true
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRefresh(&fakeSource{}, &fakeMarkers{}, &fakeDisplay{})
			tt.mutate(r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
