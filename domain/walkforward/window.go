package walkforward

import (
	"fmt"
	"time"

	"stratcheck/domain/core"
)

// Config controls how a historical span is partitioned into train/test
// windows. All window sizes are trading-day counts.
type Config struct {
	TrainWindow int  `json:"train_window"`
	TestWindow  int  `json:"test_window"`
	StepSize    int  `json:"step_size"`
	Anchored    bool `json:"anchored"`
}

// Validate checks the window configuration
func (c Config) Validate() error {
	if c.TrainWindow <= 0 {
		return core.NewValidationError("train_window", fmt.Sprintf("must be positive, got %d", c.TrainWindow))
	}
	if c.TestWindow <= 0 {
		return core.NewValidationError("test_window", fmt.Sprintf("must be positive, got %d", c.TestWindow))
	}
	if c.StepSize <= 0 {
		return core.NewValidationError("step_size", fmt.Sprintf("must be positive, got %d", c.StepSize))
	}
	return nil
}

// Window is one train/test segment of a walk-forward run. Start bounds are
// inclusive trading days; end bounds are exclusive, so TrainEnd always
// coincides with TestStart and the invariant
// TrainStart < TrainEnd <= TestStart < TestEnd holds for every valid config.
type Window struct {
	ID         int       `json:"window_id"`
	TrainStart time.Time `json:"train_start"`
	TrainEnd   time.Time `json:"train_end"`
	TestStart  time.Time `json:"test_start"`
	TestEnd    time.Time `json:"test_end"`
}

// BusinessDays returns the weekdays in [start, end], the default trading
// calendar when the caller supplies none. Holiday-aware callers pass their
// own day set instead.
func BusinessDays(start, end time.Time) []time.Time {
	days := []time.Time{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
	}
	return days
}

// GenerateWindows partitions [start, end] into ordered, non-overlapping
// train/test windows. tradingDays may be nil, in which case the business-day
// calendar is used. Rolling mode slides both boundaries forward by StepSize;
// anchored mode keeps TrainStart fixed and expands the train segment.
func GenerateWindows(start, end time.Time, cfg Config, tradingDays []time.Time) ([]Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, core.NewValidationError("date range", fmt.Sprintf("start %s must precede end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02")))
	}

	days := tradingDays
	if days == nil {
		days = BusinessDays(start, end)
	}

	span := cfg.TrainWindow + cfg.TestWindow
	if len(days) < span {
		return nil, core.NewInsufficientDataError(len(days), span, "trading days")
	}

	var windows []Window
	if cfg.Anchored {
		windows = anchoredWindows(days, cfg)
	} else {
		windows = rollingWindows(days, cfg)
	}

	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: configuration produced zero windows over %d trading days",
			core.ErrInsufficientData, len(days))
	}
	return windows, nil
}

func rollingWindows(days []time.Time, cfg Config) []Window {
	windows := []Window{}
	for offset := 0; offset+cfg.TrainWindow+cfg.TestWindow <= len(days); offset += cfg.StepSize {
		boundary := offset + cfg.TrainWindow
		windows = append(windows, Window{
			ID:         len(windows),
			TrainStart: days[offset],
			TrainEnd:   days[boundary],
			TestStart:  days[boundary],
			TestEnd:    exclusiveEnd(days, boundary+cfg.TestWindow),
		})
	}
	return windows
}

func anchoredWindows(days []time.Time, cfg Config) []Window {
	windows := []Window{}
	for boundary := cfg.TrainWindow; boundary+cfg.TestWindow <= len(days); boundary += cfg.StepSize {
		windows = append(windows, Window{
			ID:         len(windows),
			TrainStart: days[0],
			TrainEnd:   days[boundary],
			TestStart:  days[boundary],
			TestEnd:    exclusiveEnd(days, boundary+cfg.TestWindow),
		})
	}
	return windows
}

// exclusiveEnd resolves the exclusive upper bound for a segment ending at
// index idx-1. Past the calendar it falls back to the next business day
// after the final trading day.
func exclusiveEnd(days []time.Time, idx int) time.Time {
	if idx < len(days) {
		return days[idx]
	}
	d := days[len(days)-1].AddDate(0, 0, 1)
	for wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday; wd = d.Weekday() {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
