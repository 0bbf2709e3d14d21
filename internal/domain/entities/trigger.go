package entities

import "fmt"

// TriggerKind identifies one class of scheduler-detected action for a meeting
type TriggerKind string

const (
	TriggerReminder10 TriggerKind = "reminder-10"
	TriggerReminder5  TriggerKind = "reminder-5"
	TriggerReminder2  TriggerKind = "reminder-2"
	TriggerAutoJoin   TriggerKind = "auto-join"
)

// ReminderThresholds are the minutes-before-start at which reminders are due
var ReminderThresholds = []int{10, 5, 2}

// ReminderKind maps a minutes-before-start threshold to its trigger kind
func ReminderKind(minutesUntil int) (TriggerKind, bool) {
	switch minutesUntil {
	case 10:
		return TriggerReminder10, true
	case 5:
		return TriggerReminder5, true
	case 2:
		return TriggerReminder2, true
	}
	return "", false
}

// IsReminder reports whether k is one of the reminder kinds
func (k TriggerKind) IsReminder() bool {
	switch k {
	case TriggerReminder10, TriggerReminder5, TriggerReminder2:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (k TriggerKind) String() string {
	return string(k)
}

// LedgerKey renders the ledger key for a meeting id and trigger kind
func LedgerKey(meetingID fmt.Stringer, kind TriggerKind) string {
	return fmt.Sprintf("%s|%s", meetingID.String(), kind)
}
