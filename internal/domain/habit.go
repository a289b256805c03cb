package domain

import (
	"sort"
	"time"
)

// Kind identifies how a habit's Notion property encodes completion.
// It is resolved once when the habit is constructed, never per record.
type Kind int

const (
	// KindCheckbox is complete when the box is ticked.
	KindCheckbox Kind = iota
	// KindNumber is complete when the value is greater than zero.
	KindNumber
	// KindSelect is complete when any option is selected.
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindSelect:
		return "select"
	default:
		return "checkbox"
	}
}

// ParseKind maps a property type name to a Kind. Unknown names fall back
// to checkbox, matching how unknown Notion property types are treated.
func ParseKind(s string) Kind {
	switch s {
	case "number":
		return KindNumber
	case "select":
		return KindSelect
	default:
		return KindCheckbox
	}
}

// Habit is one tracked habit. Property is its identity: the column name
// in the Notion tracking database.
type Habit struct {
	Property string
	Label    string
	Icon     string
	Kind     Kind

	// Active range [Start, Deactivated). Zero values mean unbounded.
	Start       time.Time
	Deactivated time.Time

	Sort int
}

// ActiveOn reports whether the habit counts toward the completion set on
// the given day. A habit deactivated on day D is excluded for all days >= D
// but still contributes to history for days before D.
func (h Habit) ActiveOn(day time.Time) bool {
	if !h.Start.IsZero() && day.Before(h.Start) {
		return false
	}
	if !h.Deactivated.IsZero() && !day.Before(h.Deactivated) {
		return false
	}
	return true
}

// Value is the raw per-day cell for one habit.
type Value struct {
	Kind    Kind
	Checked bool
	Number  float64
	Select  string
}

// Complete applies the kind-specific completion predicate.
func (v Value) Complete() bool {
	switch v.Kind {
	case KindNumber:
		return v.Number > 0
	case KindSelect:
		return v.Select != ""
	default:
		return v.Checked
	}
}

// Registry holds the full habit set in insertion order.
type Registry struct {
	habits []Habit
}

// NewRegistry builds a registry. Deactivated habits are kept so that
// streak and heatmap math still sees them for the days they were active.
func NewRegistry(habits []Habit) Registry {
	return Registry{habits: habits}
}

// All returns every habit, active or not, in insertion order.
func (r Registry) All() []Habit {
	return r.habits
}

// Resolve returns the habits active on the given day, ordered by
// ascending sort order. Equal sort orders keep their insertion order.
func (r Registry) Resolve(asOf time.Time) []Habit {
	var out []Habit
	for _, h := range r.habits {
		if h.ActiveOn(asOf) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sort < out[j].Sort
	})
	return out
}

// Day normalizes a timestamp to its calendar date (midnight UTC), the
// canonical key for all per-day maps in this package.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
