package notion

import (
	"strings"
	"time"

	"habitink/internal/application"
	"habitink/internal/domain"
)

// Wire types for the /v1/databases/{id}/query endpoint. Only the
// property shapes the tracker consumes are modeled.

type queryRequest struct {
	Filter      *filter    `json:"filter,omitempty"`
	Sorts       []sortSpec `json:"sorts,omitempty"`
	PageSize    int        `json:"page_size,omitempty"`
	StartCursor string     `json:"start_cursor,omitempty"`
}

type sortSpec struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

type filter struct {
	And      []filter    `json:"and,omitempty"`
	Property string      `json:"property,omitempty"`
	Date     *dateFilter `json:"date,omitempty"`
}

type dateFilter struct {
	Equals     string `json:"equals,omitempty"`
	OnOrAfter  string `json:"on_or_after,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type page struct {
	LastEditedTime string              `json:"last_edited_time"`
	Properties     map[string]property `json:"properties"`
}

type property struct {
	Type     string        `json:"type"`
	Checkbox *bool         `json:"checkbox,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Select   *selectOption `json:"select,omitempty"`
	Date     *dateValue    `json:"date,omitempty"`
	Title    []richText    `json:"title,omitempty"`
	RichText []richText    `json:"rich_text,omitempty"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

// parseRecord turns a tracking-database page into a DailyRecord. The
// Date property is mandatory; everything else maps by property type.
func parseRecord(p page) (domain.DailyRecord, error) {
	day, err := pageDate(p)
	if err != nil {
		return domain.DailyRecord{}, err
	}

	values := make(map[string]domain.Value, len(p.Properties))
	for name, prop := range p.Properties {
		switch prop.Type {
		case "checkbox":
			values[name] = domain.Value{Kind: domain.KindCheckbox, Checked: prop.Checkbox != nil && *prop.Checkbox}
		case "number":
			v := domain.Value{Kind: domain.KindNumber}
			if prop.Number != nil {
				v.Number = *prop.Number
			}
			values[name] = v
		case "select":
			v := domain.Value{Kind: domain.KindSelect}
			if prop.Select != nil {
				v.Select = prop.Select.Name
			}
			values[name] = v
		}
	}
	return domain.DailyRecord{Date: day, Values: values}, nil
}

func pageDate(p page) (time.Time, error) {
	prop, ok := p.Properties[dateProperty]
	if !ok || prop.Type != "date" || prop.Date == nil || prop.Date.Start == "" {
		return time.Time{}, &application.ShapeError{Property: dateProperty, Message: "missing date value"}
	}
	day, err := parseDate(prop.Date.Start)
	if err != nil {
		return time.Time{}, &application.ShapeError{Property: dateProperty, Message: "unparsable date " + prop.Date.Start}
	}
	return day, nil
}

// parseHabit turns a habits-metadata page into a domain.Habit. The Name
// title is the identity (the property name in the tracking database);
// Display defaults to the upper-cased name.
func parseHabit(p page) (domain.Habit, error) {
	name := plainText(p.Properties["Name"].Title)
	if name == "" {
		return domain.Habit{}, &application.ShapeError{Property: "Name", Message: "habit title is empty"}
	}

	h := domain.Habit{
		Property: name,
		Label:    plainText(p.Properties["Display"].RichText),
		Icon:     plainText(p.Properties["Icon"].RichText),
		Kind:     domain.KindCheckbox,
	}
	if h.Label == "" {
		h.Label = strings.ToUpper(name)
	}
	if t := p.Properties["Type"]; t.Select != nil {
		h.Kind = domain.ParseKind(t.Select.Name)
	}
	if n := p.Properties["Sort order"]; n.Number != nil {
		h.Sort = int(*n.Number)
	}

	var err error
	if h.Start, err = optionalDate(p, "Start date"); err != nil {
		return domain.Habit{}, err
	}
	if h.Deactivated, err = optionalDate(p, "Deactivated"); err != nil {
		return domain.Habit{}, err
	}
	return h, nil
}

func optionalDate(p page, name string) (time.Time, error) {
	prop, ok := p.Properties[name]
	if !ok || prop.Date == nil || prop.Date.Start == "" {
		return time.Time{}, nil
	}
	day, err := parseDate(prop.Date.Start)
	if err != nil {
		return time.Time{}, &application.ShapeError{Property: name, Message: "unparsable date " + prop.Date.Start}
	}
	return day, nil
}

// parseDate accepts both plain dates and full timestamps, keeping only
// the calendar date.
func parseDate(s string) (time.Time, error) {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return domain.Day(t), nil
}

func plainText(parts []richText) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[0].PlainText
}
