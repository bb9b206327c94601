package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ruralcare/health-api/internal/model"
)

func scheduledAppt(scheduled time.Time) *model.Appointment {
	return &model.Appointment{
		ScheduledTime: scheduled,
		Status:        model.AppointmentStatusScheduled,
	}
}

func TestShouldSendMilestones(t *testing.T) {
	today := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scheduled time.Time
		want      Milestone
	}{
		{"three days out", today.AddDate(0, 0, 3), ThreeDays},
		{"tomorrow", today.AddDate(0, 0, 1), OneDay},
		{"today", today.Add(5 * time.Hour), SameDay},
		{"two days out matches nothing", today.AddDate(0, 0, 2), None},
		{"next week matches nothing", today.AddDate(0, 0, 7), None},
		{"yesterday is unreachable", today.AddDate(0, 0, -1), None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSend(scheduledAppt(tt.scheduled), today))
		})
	}
}

func TestShouldSendIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
	appt := scheduledAppt(time.Date(2025, 6, 2, 0, 15, 0, 0, time.UTC))
	assert.Equal(t, SameDay, ShouldSend(appt, today))
}

func TestShouldSendOnlyForScheduled(t *testing.T) {
	today := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusCompleted,
		model.AppointmentStatusMissed,
		model.AppointmentStatusCancelled,
	} {
		appt := scheduledAppt(today)
		appt.Status = status
		assert.Equal(t, None, ShouldSend(appt, today), "status %s", status)

		appt.ScheduledTime = today.AddDate(0, 0, 3)
		assert.Equal(t, None, ShouldSend(appt, today), "status %s", status)
	}
}

func TestShouldSendSkipsSentFlags(t *testing.T) {
	today := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	appt := scheduledAppt(today)
	assert.Equal(t, SameDay, ShouldSend(appt, today))

	MarkSent(appt, SameDay)
	assert.Equal(t, None, ShouldSend(appt, today))
}

func TestMarkSentIdempotent(t *testing.T) {
	appt := scheduledAppt(time.Now())

	MarkSent(appt, ThreeDays)
	assert.True(t, appt.Reminder3DaysSent)

	// Second mark is a no-op, not an error
	MarkSent(appt, ThreeDays)
	assert.True(t, appt.Reminder3DaysSent)

	assert.False(t, appt.Reminder1DaySent)
	assert.False(t, appt.ReminderSameDaySent)
}

func TestMilestonesAreIndependent(t *testing.T) {
	appt := scheduledAppt(time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC))

	MarkSent(appt, ThreeDays)

	// OneDay still fires later even though ThreeDays is latched
	today := time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, OneDay, ShouldSend(appt, today))
}
