package autojoin

import (
	"fmt"
	"time"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// Recording length bounds in seconds. Every resolved duration is clamped to them.
const (
	MinRecordingSeconds = 300
	MaxRecordingSeconds = 7200
)

// Elapsed-time heuristic constants in seconds
const (
	startingNowWindow     = 300
	nominalMeetingSeconds = 3600
	speculativeSeconds    = 1800
	remainingFloorSeconds = 600
)

// ResolveDuration decides how long the bot records a meeting.
// The override wins, then the meeting's expected duration, then a heuristic
// based on how far now is from the scheduled start. The result is always in
// [MinRecordingSeconds, MaxRecordingSeconds].
func ResolveDuration(m *entities.Meeting, now time.Time, loc *time.Location, override *int) int {
	switch {
	case override != nil:
		return clampDuration(*override)
	case m.ExpectedDurationMinutes > 0:
		return clampDuration(m.ExpectedDurationMinutes * 60)
	}

	start, err := m.StartsAt(loc)
	if err != nil {
		return clampDuration(speculativeSeconds)
	}
	return clampDuration(durationFromElapsed(int(now.Sub(start) / time.Second)))
}

func durationFromElapsed(elapsed int) int {
	switch {
	case elapsed < -startingNowWindow:
		return speculativeSeconds
	case elapsed <= startingNowWindow:
		return nominalMeetingSeconds
	}
	return max(nominalMeetingSeconds-elapsed, remainingFloorSeconds)
}

func clampDuration(seconds int) int {
	return min(max(seconds, MinRecordingSeconds), MaxRecordingSeconds)
}

// FormatDuration renders seconds as whole minutes, e.g. "60 min"
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d min", seconds/60)
}
