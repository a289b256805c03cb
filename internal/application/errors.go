package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrFetchFailed        = errors.New("fetch failed")
	ErrBadData            = errors.New("malformed remote data")
	ErrDisplayUnavailable = errors.New("display unavailable")
)

// ConfigError represents bad or missing configuration. It is fatal and
// reported before any network or device I/O happens.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Message)
}

// FetchError represents a transient network or auth failure talking to
// Notion. The run aborts without touching the stored marker so the next
// scheduled poll retries from the same baseline.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// ShapeError represents a Notion page whose schema does not match what the
// tracker expects, naming the offending property.
type ShapeError struct {
	Property string
	Message  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("notion property %q: %s", e.Property, e.Message)
}

func (e *ShapeError) Is(target error) bool { return target == ErrBadData }

// DisplayError represents a panel that is absent or failed mid-transfer.
// Callers decide whether to fall back to the file sink.
type DisplayError struct {
	Op  string
	Err error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("display %s: %v", e.Op, e.Err)
}

func (e *DisplayError) Unwrap() error { return e.Err }

func (e *DisplayError) Is(target error) bool { return target == ErrDisplayUnavailable }
