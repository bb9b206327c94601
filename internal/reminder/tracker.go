// Package reminder decides when appointment reminders fire and records that
// they fired, at most once per milestone per appointment.
package reminder

import (
	"time"

	"github.com/ruralcare/health-api/internal/model"
)

// Milestone is one of the three reminder checkpoints before an appointment.
type Milestone int

const (
	None Milestone = iota
	ThreeDays
	OneDay
	SameDay
)

func (m Milestone) String() string {
	switch m {
	case ThreeDays:
		return "3_days"
	case OneDay:
		return "1_day"
	case SameDay:
		return "same_day"
	default:
		return "none"
	}
}

// DaysBefore returns the milestone's day offset from the scheduled date.
func (m Milestone) DaysBefore() int {
	switch m {
	case ThreeDays:
		return 3
	case OneDay:
		return 1
	default:
		return 0
	}
}

// Subject returns the reminder email subject line for the milestone.
func (m Milestone) Subject() string {
	switch m {
	case ThreeDays:
		return "Appointment Reminder - 3 Days"
	case OneDay:
		return "Appointment Reminder - Tomorrow"
	case SameDay:
		return "Appointment Reminder - Today"
	default:
		return "Appointment Reminder"
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysUntil computes whole days between today and the scheduled date,
// ignoring time of day.
func daysUntil(scheduled, today time.Time) int {
	s := truncateToDay(scheduled)
	n := truncateToDay(today.In(scheduled.Location()))
	return int(s.Sub(n).Hours() / 24)
}

// ShouldSend returns the milestone due for the appointment on the given day,
// or None. Only scheduled appointments are eligible; a milestone whose flag
// is already set never fires again.
func ShouldSend(appt *model.Appointment, today time.Time) Milestone {
	if appt.Status != model.AppointmentStatusScheduled {
		return None
	}

	switch daysUntil(appt.ScheduledTime, today) {
	case 3:
		if !appt.Reminder3DaysSent {
			return ThreeDays
		}
	case 1:
		if !appt.Reminder1DaySent {
			return OneDay
		}
	case 0:
		if !appt.ReminderSameDaySent {
			return SameDay
		}
	}
	return None
}

// MarkSent latches the milestone's flag. Marking an already-sent milestone is
// a no-op.
func MarkSent(appt *model.Appointment, m Milestone) {
	switch m {
	case ThreeDays:
		appt.Reminder3DaysSent = true
	case OneDay:
		appt.Reminder1DaySent = true
	case SameDay:
		appt.ReminderSameDaySent = true
	}
}
