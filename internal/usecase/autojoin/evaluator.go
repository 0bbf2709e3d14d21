package autojoin

import (
	"time"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// Action is what the scheduler should do with a meeting on this tick
type Action int

const (
	ActionNone Action = iota
	ActionStaleComplete
	ActionReminderDue
	ActionAutoJoinDue
)

func (a Action) String() string {
	switch a {
	case ActionStaleComplete:
		return "stale-complete"
	case ActionReminderDue:
		return "reminder-due"
	case ActionAutoJoinDue:
		return "auto-join-due"
	}
	return "none"
}

// staleAfterMinutes is how far past its start an upcoming meeting may drift before it is closed
const staleAfterMinutes = -10

// Decision is the evaluator's verdict for one meeting at one instant
type Decision struct {
	Action       Action
	Kind         entities.TriggerKind
	MinutesUntil int
}

// MinutesUntil returns floor((start - now) / 1 minute), flooring toward negative infinity
func MinutesUntil(start, now time.Time) int {
	diff := start.Sub(now)
	minutes := diff / time.Minute
	if diff < 0 && diff%time.Minute != 0 {
		minutes--
	}
	return int(minutes)
}

// Evaluate applies the trigger rules to m at now. Rules are checked in order
// and the first match wins. A malformed date or time is returned as an error.
func Evaluate(m *entities.Meeting, now time.Time, loc *time.Location) (Decision, error) {
	if !m.IsUpcoming() {
		return Decision{Action: ActionNone}, nil
	}

	start, err := m.StartsAt(loc)
	if err != nil {
		return Decision{Action: ActionNone}, err
	}

	minutes := MinutesUntil(start, now)
	d := Decision{Action: ActionNone, MinutesUntil: minutes}

	if minutes < staleAfterMinutes {
		d.Action = ActionStaleComplete
		return d, nil
	}

	if m.SendReminder && !m.ReminderSent {
		if kind, ok := entities.ReminderKind(minutes); ok {
			d.Action = ActionReminderDue
			d.Kind = kind
			return d, nil
		}
	}

	if m.AutoJoin && m.HasLink() && minutes >= -1 && minutes <= 0 {
		d.Action = ActionAutoJoinDue
		d.Kind = entities.TriggerAutoJoin
		return d, nil
	}

	return d, nil
}
