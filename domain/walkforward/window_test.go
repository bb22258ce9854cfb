package walkforward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratcheck/domain/core"
)

var (
	spanStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	spanEnd   = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
)

func assertWindowInvariants(t *testing.T, windows []Window) {
	t.Helper()
	for i, w := range windows {
		assert.Equal(t, i, w.ID, "window ids must be sequential")
		assert.True(t, w.TrainStart.Before(w.TrainEnd), "window %d: train_start must precede train_end", i)
		assert.False(t, w.TrainEnd.After(w.TestStart), "window %d: train_end must not exceed test_start", i)
		assert.True(t, w.TestStart.Before(w.TestEnd), "window %d: test_start must precede test_end", i)
	}
}

func TestGenerateWindowsRolling(t *testing.T) {
	cfg := Config{TrainWindow: 40, TestWindow: 20, StepSize: 20}

	windows, err := GenerateWindows(spanStart, spanEnd, cfg, nil)
	require.NoError(t, err)
	require.NotEmpty(t, windows)
	assertWindowInvariants(t, windows)

	// Rolling mode advances the train start by step_size trading days.
	days := BusinessDays(spanStart, spanEnd)
	for i, w := range windows {
		assert.Equal(t, days[i*cfg.StepSize], w.TrainStart, "window %d train start", i)
	}
}

func TestGenerateWindowsAnchored(t *testing.T) {
	cfg := Config{TrainWindow: 40, TestWindow: 20, StepSize: 20, Anchored: true}

	windows, err := GenerateWindows(spanStart, spanEnd, cfg, nil)
	require.NoError(t, err)
	require.Greater(t, len(windows), 1)
	assertWindowInvariants(t, windows)

	// Anchored mode fixes the train start and expands the train segment.
	for i, w := range windows {
		assert.Equal(t, windows[0].TrainStart, w.TrainStart, "window %d train start must stay anchored", i)
		if i > 0 {
			assert.True(t, w.TrainEnd.After(windows[i-1].TrainEnd), "window %d train end must expand", i)
		}
	}
}

func TestGenerateWindowsCallerCalendar(t *testing.T) {
	days := make([]time.Time, 0, 30)
	for d := 0; d < 30; d++ {
		days = append(days, spanStart.AddDate(0, 0, d))
	}
	cfg := Config{TrainWindow: 15, TestWindow: 10, StepSize: 5}

	windows, err := GenerateWindows(spanStart, spanStart.AddDate(0, 0, 29), cfg, days)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, days[0], windows[0].TrainStart)
	assert.Equal(t, days[15], windows[0].TestStart)
	assert.Equal(t, days[25], windows[0].TestEnd)
}

func TestGenerateWindowsInsufficientData(t *testing.T) {
	cfg := Config{TrainWindow: 300, TestWindow: 100, StepSize: 20}

	_, err := GenerateWindows(spanStart, spanEnd, cfg, nil)
	require.Error(t, err)
	assert.True(t, core.IsInsufficientDataError(err))
	assert.Contains(t, err.Error(), "trading days")
}

func TestGenerateWindowsConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero train", Config{TrainWindow: 0, TestWindow: 10, StepSize: 5}},
		{"negative test", Config{TrainWindow: 10, TestWindow: -1, StepSize: 5}},
		{"zero step", Config{TrainWindow: 10, TestWindow: 10, StepSize: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateWindows(spanStart, spanEnd, tt.cfg, nil)
			require.Error(t, err)
			assert.True(t, core.IsValidationError(err))
		})
	}
}

func TestGenerateWindowsInvertedRange(t *testing.T) {
	cfg := Config{TrainWindow: 10, TestWindow: 5, StepSize: 5}

	_, err := GenerateWindows(spanEnd, spanStart, cfg, nil)
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
}

func TestBusinessDaysSkipsWeekends(t *testing.T) {
	// Mon 2024-01-01 through Sun 2024-01-14: two full weeks.
	days := BusinessDays(spanStart, spanStart.AddDate(0, 0, 13))
	require.Len(t, days, 10)
	for _, d := range days {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}
