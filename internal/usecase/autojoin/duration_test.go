package autojoin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meetmind/internal/testutil"
)

func intPtr(v int) *int { return &v }

func TestResolveDuration(t *testing.T) {
	start := time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		preset   int
		override *int
		now      time.Time
		want     int
	}{
		{name: "override wins over preset", preset: 30, override: intPtr(900), now: start, want: 900},
		{name: "override clamped low", override: intPtr(60), now: start, want: MinRecordingSeconds},
		{name: "override clamped high", override: intPtr(99999), now: start, want: MaxRecordingSeconds},
		{name: "preset minutes", preset: 45, now: start, want: 2700},
		{name: "preset clamped high", preset: 240, now: start, want: MaxRecordingSeconds},
		{name: "preset clamped low", preset: 1, now: start, want: MinRecordingSeconds},
		{name: "starting now", now: start, want: 3600},
		{name: "five minutes early", now: start.Add(-5 * time.Minute), want: 3600},
		{name: "five minutes late", now: start.Add(5 * time.Minute), want: 3600},
		{name: "well before start", now: start.Add(-time.Hour), want: 1800},
		{name: "twenty minutes in", now: start.Add(20 * time.Minute), want: 2400},
		{name: "remaining floor", now: start.Add(55 * time.Minute), want: 600},
		{name: "long past start", now: start.Add(3 * time.Hour), want: 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testutil.MeetingAt(start, testutil.WithExpectedMinutes(tt.preset))
			assert.Equal(t, tt.want, ResolveDuration(m, tt.now, time.UTC, tt.override))
		})
	}
}

func TestResolveDuration_MalformedDate(t *testing.T) {
	m := testutil.MeetingAt(time.Now(), testutil.WithExpectedMinutes(0))
	m.Date = "16/10/2026"

	assert.Equal(t, 1800, ResolveDuration(m, time.Now(), time.UTC, nil))
	// preset does not need the start time
	m.ExpectedDurationMinutes = 20
	assert.Equal(t, 1200, ResolveDuration(m, time.Now(), time.UTC, nil))
}

func TestResolveDuration_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, loc)
	m := testutil.MeetingAt(start, testutil.WithExpectedMinutes(0))

	// 09:00 at UTC+7 is 02:00 UTC, so 02:20 UTC is twenty minutes in
	now := time.Date(2026, 10, 16, 2, 20, 0, 0, time.UTC)
	assert.Equal(t, 2400, ResolveDuration(m, now, loc, nil))
	// read as UTC the meeting is seven hours away
	assert.Equal(t, 1800, ResolveDuration(m, now, time.UTC, nil))
}

func TestResolveDuration_AlwaysInBounds(t *testing.T) {
	start := time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)
	m := testutil.MeetingAt(start, testutil.WithExpectedMinutes(0))
	for offset := -24 * time.Hour; offset <= 24*time.Hour; offset += 7 * time.Minute {
		got := ResolveDuration(m, start.Add(offset), time.UTC, nil)
		assert.GreaterOrEqual(t, got, MinRecordingSeconds)
		assert.LessOrEqual(t, got, MaxRecordingSeconds)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "60 min", FormatDuration(3600))
	assert.Equal(t, "5 min", FormatDuration(359))
	assert.Equal(t, "0 min", FormatDuration(0))
}
