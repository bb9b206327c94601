package adherence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralcare/health-api/internal/model"
)

func log(patientID uuid.UUID, scheduled time.Time, taken bool) *model.MedicationLog {
	l := &model.MedicationLog{
		ID:            uuid.New(),
		MedicationID:  uuid.New(),
		PatientID:     patientID,
		ScheduledTime: scheduled,
		WasTaken:      taken,
	}
	if taken {
		t := scheduled.Add(10 * time.Minute)
		l.TakenTime = &t
	}
	return l
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0, Rate(nil))

	p := uuid.New()
	now := time.Now()
	logs := []*model.MedicationLog{
		log(p, now, true),
		log(p, now, true),
		log(p, now, false),
		log(p, now, false),
	}
	assert.Equal(t, 50, Rate(logs))
}

func TestRateRoundsHalfAwayFromZero(t *testing.T) {
	p := uuid.New()
	now := time.Now()

	// 1/3 taken = 33.33 -> 33
	logs := []*model.MedicationLog{log(p, now, true), log(p, now, false), log(p, now, false)}
	assert.Equal(t, 33, Rate(logs))

	// 2/3 taken = 66.67 -> 67
	logs = []*model.MedicationLog{log(p, now, true), log(p, now, true), log(p, now, false)}
	assert.Equal(t, 67, Rate(logs))

	// 5/8 taken = 62.5 -> 63
	logs = []*model.MedicationLog{
		log(p, now, true), log(p, now, true), log(p, now, true),
		log(p, now, true), log(p, now, true),
		log(p, now, false), log(p, now, false), log(p, now, false),
	}
	assert.Equal(t, 63, Rate(logs))
}

func TestPerDay(t *testing.T) {
	p := uuid.New()
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	logs := []*model.MedicationLog{
		log(p, start.Add(8*time.Hour), true),
		log(p, start.Add(20*time.Hour), false),
		log(p, start.AddDate(0, 0, 2).Add(8*time.Hour), true),
	}

	days := PerDay(logs, start, 3)
	require.Len(t, days, 3)

	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, 50, days[0].Rate)

	// No logs on day two: 0, not an error
	assert.Equal(t, "2025-03-11", days[1].Date)
	assert.Equal(t, 0, days[1].Rate)

	assert.Equal(t, "2025-03-12", days[2].Date)
	assert.Equal(t, 100, days[2].Rate)
}

func TestMissedDoseAlerts(t *testing.T) {
	now := time.Now()
	flagged := uuid.New()
	borderline := uuid.New()

	var logs []*model.MedicationLog
	for i := 0; i < 3; i++ {
		logs = append(logs, log(flagged, now, false))
	}
	logs = append(logs, log(borderline, now, false), log(borderline, now, false))
	logs = append(logs, log(borderline, now, true))

	alerts := MissedDoseAlerts(logs, 3)
	require.Len(t, alerts, 1)
	assert.Equal(t, flagged, alerts[0].PatientID)
	assert.Equal(t, 3, alerts[0].MissedCount)
}

func TestMissedDoseAlertsDefaultThreshold(t *testing.T) {
	now := time.Now()
	p := uuid.New()

	logs := []*model.MedicationLog{log(p, now, false), log(p, now, false)}
	assert.Empty(t, MissedDoseAlerts(logs, 0))

	logs = append(logs, log(p, now, false))
	alerts := MissedDoseAlerts(logs, 0)
	require.Len(t, alerts, 1)
	assert.Equal(t, 3, alerts[0].MissedCount)
}
