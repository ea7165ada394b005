// Package calendar assembles the engine, scroll controller and drag editor
// behind one facade. A View owns the event buckets and the rolling date
// window and exposes everything a renderer needs: laid-out attributes,
// scroll input entry points and edit callbacks.
package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScrollMode selects how horizontal scrolling settles.
type ScrollMode string

const (
	// ScrollPage snaps to whole pages.
	ScrollPage ScrollMode = "page"
	// ScrollSection snaps to individual day-columns.
	ScrollSection ScrollMode = "section"
)

// Settings is the host-tunable configuration, loadable from YAML.
type Settings struct {
	// NumOfDays is the day-column count per page.
	NumOfDays int `yaml:"numOfDays"`
	// WindowPages is the materialized page count of the rolling window.
	// Must be odd.
	WindowPages int `yaml:"windowPages"`
	// SnapIntervalMinutes is the tick granularity of the time axis and of
	// drag snapping. Must divide an hour.
	SnapIntervalMinutes int `yaml:"snapIntervalMinutes"`
	// StartHour and EndHour bound the hours whose time labels are shown;
	// ticks outside the range keep their rows but render blank.
	StartHour int `yaml:"startHour"`
	EndHour   int `yaml:"endHour"`
	// WeekStart aligns page boundaries of the seven-day view.
	WeekStart time.Weekday `yaml:"weekStart"`
	// ScrollMode selects page or section settling.
	ScrollMode ScrollMode `yaml:"scrollMode"`
	// FlingThreshold is the page-advance velocity cutoff in points per
	// millisecond.
	FlingThreshold float64 `yaml:"flingThreshold"`
	// DatePositionLeft draws the one-day view's date inline over the time
	// axis instead of a top banner.
	DatePositionLeft bool `yaml:"datePositionLeft"`
	// StickyDateHeader pins the date header during vertical scroll.
	StickyDateHeader bool `yaml:"stickyDateHeader"`
	// EditingEnabled turns the drag editor on.
	EditingEnabled bool `yaml:"editingEnabled"`
	// VibrateFeedback gates the haptic callback during edits.
	VibrateFeedback bool `yaml:"vibrateFeedback"`
	// DefaultEventMinutes sizes a drag-created event.
	DefaultEventMinutes int `yaml:"defaultEventMinutes"`
	// Timezone is an IANA zone name; empty means the process-local zone.
	Timezone string `yaml:"timezone"`
}

// DefaultSettings is the seven-day week view with fifteen-minute snapping.
func DefaultSettings() Settings {
	return Settings{
		NumOfDays:           7,
		WindowPages:         15,
		SnapIntervalMinutes: 15,
		StartHour:           1,
		EndHour:             23,
		WeekStart:           time.Sunday,
		ScrollMode:          ScrollPage,
		FlingThreshold:      0.4,
		StickyDateHeader:    true,
		EditingEnabled:      true,
		VibrateFeedback:     true,
		DefaultEventMinutes: 60,
	}
}

// Validate checks the cross-field constraints.
func (s Settings) Validate() error {
	if s.NumOfDays < 1 {
		return fmt.Errorf("numOfDays must be >= 1, got %d", s.NumOfDays)
	}
	if s.WindowPages < 1 || s.WindowPages%2 == 0 {
		return fmt.Errorf("windowPages must be odd and positive, got %d", s.WindowPages)
	}
	if s.SnapIntervalMinutes <= 0 || 60%s.SnapIntervalMinutes != 0 {
		return fmt.Errorf("snapIntervalMinutes must divide an hour, got %d", s.SnapIntervalMinutes)
	}
	if s.StartHour < 0 || s.EndHour > 24 || s.StartHour > s.EndHour {
		return fmt.Errorf("startHour/endHour %d-%d must satisfy 0 <= start <= end <= 24", s.StartHour, s.EndHour)
	}
	if s.ScrollMode != ScrollPage && s.ScrollMode != ScrollSection {
		return fmt.Errorf("unknown scroll mode %q", s.ScrollMode)
	}
	if s.FlingThreshold <= 0 {
		return fmt.Errorf("flingThreshold must be positive, got %v", s.FlingThreshold)
	}
	if s.DefaultEventMinutes <= 0 {
		return fmt.Errorf("defaultEventMinutes must be positive, got %d", s.DefaultEventMinutes)
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}
	return nil
}

// Location resolves the configured timezone.
func (s Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadSettings reads YAML from path over the defaults, so files only need
// the fields they change.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes the settings as YAML.
func SaveSettings(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
