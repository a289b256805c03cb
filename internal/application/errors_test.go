package application

import (
	"errors"
	"fmt"
	"testing"
)

func TestFetchErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := &FetchError{Op: "/v1/databases/x/query", Err: cause}

	if !errors.Is(err, ErrFetchFailed) {
		t.Error("FetchError does not match ErrFetchFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("FetchError does not unwrap to its cause")
	}
	if !contains(err.Error(), "connection refused") {
		t.Errorf("message %q does not mention the cause", err.Error())
	}
}

func TestShapeErrorIsBadData(t *testing.T) {
	err := &ShapeError{Property: "Date", Message: "missing date value"}
	if !errors.Is(err, ErrBadData) {
		t.Error("ShapeError does not match ErrBadData")
	}
	if !contains(err.Error(), "Date") {
		t.Errorf("message %q does not name the property", err.Error())
	}
}

func TestDisplayErrorWrapping(t *testing.T) {
	cause := errors.New("no spi device")
	err := &DisplayError{Op: "open", Err: cause}

	if !errors.Is(err, ErrDisplayUnavailable) {
		t.Error("DisplayError does not match ErrDisplayUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Error("DisplayError does not unwrap to its cause")
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "notion.api_key", Message: "is required"}
	wrapped := fmt.Errorf("loading config: %w", err)

	var cfgErr *ConfigError
	if !errors.As(wrapped, &cfgErr) {
		t.Fatal("ConfigError lost through wrapping")
	}
	if !contains(err.Error(), "notion.api_key") {
		t.Errorf("message %q does not name the field", err.Error())
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
