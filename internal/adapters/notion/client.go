// Package notion talks to the Notion API: one lightweight probe query
// for change detection, plus full row queries for today's record, a
// trailing history window, and the habit metadata database.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"habitink/internal/application"
	"habitink/internal/domain"
)

const (
	// DefaultBaseURL is the Notion API host.
	DefaultBaseURL = "https://api.notion.com"

	notionVersion       = "2022-06-28"
	defaultHTTPTimeout  = 30 * time.Second
	maxResponseBodySize = 4 << 20 // guard against runaway bodies
	maxQueryPages       = 20      // pagination hard stop
)

// dateProperty is the column holding the calendar date in the tracking
// database.
const dateProperty = "Date"

// Client queries the tracking database and, optionally, the habits
// metadata database.
type Client struct {
	baseURL    string
	apiKey     string
	databaseID string
	habitsDBID string
	http       *http.Client
}

// Option mutates the client during construction.
type Option func(*Client)

// WithBaseURL overrides the API host (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient installs a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHabitsDatabase sets the habits metadata database ID, enabling
// FetchHabits and widening the change probe to cover it.
func WithHabitsDatabase(id string) Option {
	return func(c *Client) { c.habitsDBID = formatUUID(id) }
}

// NewClient builds a client for the given tracking database.
func NewClient(apiKey, databaseID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		databaseID: formatUUID(databaseID),
		http:       &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// formatUUID inserts dashes into a bare 32-character Notion ID; IDs that
// already carry dashes pass through unchanged.
func formatUUID(id string) string {
	clean := strings.NewReplacer("-", "", " ", "").Replace(id)
	if len(clean) != 32 {
		return id
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		clean[:8], clean[8:12], clean[12:16], clean[16:20], clean[20:])
}

// ProbeChanged fetches the most recent page edit timestamp of each
// tracked database and compares the joined result against lastMarker.
// Row payloads are never transferred.
func (c *Client) ProbeChanged(ctx context.Context, lastMarker string) (bool, string, error) {
	stamps := make([]string, 0, 2)
	ts, err := c.latestEditTime(ctx, c.databaseID)
	if err != nil {
		return false, "", err
	}
	stamps = append(stamps, ts)

	if c.habitsDBID != "" {
		ts, err := c.latestEditTime(ctx, c.habitsDBID)
		if err != nil {
			return false, "", err
		}
		stamps = append(stamps, ts)
	}

	marker := strings.Join(stamps, "|")
	return lastMarker == "" || marker != lastMarker, marker, nil
}

// latestEditTime returns the last_edited_time of the single most
// recently edited page, or "" for an empty database. Querying pages
// (rather than retrieving the database object) detects data changes,
// not just schema changes.
func (c *Client) latestEditTime(ctx context.Context, dbID string) (string, error) {
	resp, err := c.query(ctx, dbID, queryRequest{
		Sorts:    []sortSpec{{Timestamp: "last_edited_time", Direction: "descending"}},
		PageSize: 1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].LastEditedTime, nil
}

// FetchDay retrieves the record for one calendar date. A date with no
// page yields an empty record.
func (c *Client) FetchDay(ctx context.Context, day time.Time) (domain.DailyRecord, error) {
	day = domain.Day(day)
	resp, err := c.query(ctx, c.databaseID, queryRequest{
		Filter: &filter{
			Property: dateProperty,
			Date:     &dateFilter{Equals: day.Format("2006-01-02")},
		},
	})
	if err != nil {
		return domain.DailyRecord{}, err
	}
	if len(resp.Results) == 0 {
		return domain.DailyRecord{Date: day, Values: map[string]domain.Value{}}, nil
	}
	return parseRecord(resp.Results[0])
}

// FetchRange retrieves all records in [from, to] with a single filtered
// query (paginated if Notion splits it), oldest first. Dates without a
// page are simply absent; gaps are the caller's concern.
func (c *Client) FetchRange(ctx context.Context, from, to time.Time) ([]domain.DailyRecord, error) {
	req := queryRequest{
		Filter: &filter{
			And: []filter{
				{Property: dateProperty, Date: &dateFilter{OnOrAfter: domain.Day(from).Format("2006-01-02")}},
				{Property: dateProperty, Date: &dateFilter{OnOrBefore: domain.Day(to).Format("2006-01-02")}},
			},
		},
	}

	var records []domain.DailyRecord
	for i := 0; i < maxQueryPages; i++ {
		resp, err := c.query(ctx, c.databaseID, req)
		if err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			rec, err := parseRecord(p)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// FetchHabits retrieves habit definitions from the metadata database,
// sorted by Sort order. Deactivated habits are included so history math
// still sees them.
func (c *Client) FetchHabits(ctx context.Context) ([]domain.Habit, error) {
	if c.habitsDBID == "" {
		return nil, &application.ConfigError{
			Field:   "notion.habits_database_id",
			Message: "is required to fetch habit definitions",
		}
	}
	resp, err := c.query(ctx, c.habitsDBID, queryRequest{
		Sorts: []sortSpec{{Property: "Sort order", Direction: "ascending"}},
	})
	if err != nil {
		return nil, err
	}

	habits := make([]domain.Habit, 0, len(resp.Results))
	for _, p := range resp.Results {
		h, err := parseHabit(p)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// Verify checks that each configured database is reachable by the
// integration, returning its title.
func (c *Client) Verify(ctx context.Context) ([]string, error) {
	ids := []string{c.databaseID}
	if c.habitsDBID != "" {
		ids = append(ids, c.habitsDBID)
	}

	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		var body struct {
			Title []richText `json:"title"`
		}
		if err := c.do(ctx, http.MethodGet, "/v1/databases/"+id, nil, &body); err != nil {
			return nil, fmt.Errorf("%w\nMake sure the database ID is correct and the database "+
				"is shared with your integration ('...' menu > 'Connect to')", err)
		}
		title := "Untitled"
		if len(body.Title) > 0 && body.Title[0].PlainText != "" {
			title = body.Title[0].PlainText
		}
		titles = append(titles, title)
	}
	return titles, nil
}

func (c *Client) query(ctx context.Context, dbID string, req queryRequest) (*queryResponse, error) {
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/v1/databases/"+dbID+"/query", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do executes one API call and decodes the response. Transport and
// non-2xx failures surface as FetchError so the pipeline aborts without
// touching the stored marker.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &application.FetchError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return &application.FetchError{Op: path, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &application.FetchError{
			Op:  path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &application.FetchError{Op: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
