package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"habitink/internal/application"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "config.yaml"

// DefaultStatePath is where the last-seen Notion edit marker is stored.
const DefaultStatePath = ".last_notion_edit"

// Habit is an inline habit definition from the config file.
// It is only consulted when notion.habits_database_id is unset.
type Habit struct {
	Name     string `yaml:"name"`     // display label on the panel
	Property string `yaml:"property"` // Notion property in the tracking database
	Icon     string `yaml:"icon"`
	Type     string `yaml:"type"` // checkbox (default), number, or select
}

// Notion holds the API credentials and database IDs.
type Notion struct {
	APIKey           string `yaml:"api_key"`
	DatabaseID       string `yaml:"database_id"`
	HabitsDatabaseID string `yaml:"habits_database_id"`
}

// Display holds panel presentation options.
type Display struct {
	Rotation int `yaml:"rotation"` // 0, 90, 180, or 270 degrees
}

// Streak toggles the streak badge.
type Streak struct {
	Enabled bool `yaml:"enabled"`
}

// Calendar configures the heatmap panel.
type Calendar struct {
	Enabled bool `yaml:"enabled"`
	Weeks   int  `yaml:"weeks"`
}

// Config is the parsed configuration file.
type Config struct {
	Notion    Notion   `yaml:"notion"`
	Habits    []Habit  `yaml:"habits"`
	Display   Display  `yaml:"display"`
	Streak    Streak   `yaml:"streak"`
	Calendar  Calendar `yaml:"calendar"`
	StatePath string   `yaml:"state_path"`
}

// HasDynamicHabits reports whether habit definitions come from Notion
// instead of the inline habits list.
func (c *Config) HasDynamicHabits() bool {
	return c.Notion.HabitsDatabaseID != ""
}

// Path returns the config file path from the HABITINK_CONFIG env var,
// falling back to DefaultPath.
func Path() string {
	if env := os.Getenv("HABITINK_CONFIG"); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &application.ConfigError{
			Field:   "config",
			Message: fmt.Sprintf("cannot read %s (copy config.example.yaml and fill in your credentials)", path),
		}
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML configuration.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		Streak:    Streak{Enabled: true},
		Calendar:  Calendar{Enabled: true, Weeks: 12},
		StatePath: DefaultStatePath,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &application.ConfigError{Field: "config", Message: err.Error()}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Notion.APIKey == "" {
		return &application.ConfigError{Field: "notion.api_key", Message: "is required"}
	}
	if c.Notion.DatabaseID == "" {
		return &application.ConfigError{Field: "notion.database_id", Message: "is required"}
	}
	if len(c.Habits) == 0 && c.Notion.HabitsDatabaseID == "" {
		return &application.ConfigError{
			Field:   "habits",
			Message: "no habits configured; define an inline habits list or set notion.habits_database_id",
		}
	}
	if len(c.Habits) > 0 && c.Notion.HabitsDatabaseID != "" {
		return &application.ConfigError{
			Field:   "habits",
			Message: "inline habits and notion.habits_database_id are mutually exclusive",
		}
	}
	switch c.Display.Rotation {
	case 0, 90, 180, 270:
	default:
		return &application.ConfigError{
			Field:   "display.rotation",
			Message: fmt.Sprintf("must be 0, 90, 180 or 270, got %d", c.Display.Rotation),
		}
	}
	if c.Calendar.Enabled && c.Calendar.Weeks <= 0 {
		return &application.ConfigError{
			Field:   "calendar.weeks",
			Message: fmt.Sprintf("must be positive, got %d", c.Calendar.Weeks),
		}
	}
	for i, h := range c.Habits {
		if h.Name == "" {
			return &application.ConfigError{Field: fmt.Sprintf("habits[%d].name", i), Message: "is required"}
		}
		if h.Property == "" {
			return &application.ConfigError{Field: fmt.Sprintf("habits[%d].property", i), Message: "is required"}
		}
		switch h.Type {
		case "", "checkbox", "number", "select":
		default:
			return &application.ConfigError{
				Field:   fmt.Sprintf("habits[%d].type", i),
				Message: fmt.Sprintf("must be checkbox, number or select, got %q", h.Type),
			}
		}
	}
	return nil
}
