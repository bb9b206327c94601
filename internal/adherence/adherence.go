// Package adherence computes dose-taken statistics over medication logs.
// All functions are pure; callers fetch the logs first.
package adherence

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
)

// Window defaults.
const (
	DashboardDays    = 7
	AlertWindowDays  = 30
	DefaultThreshold = 3
)

// Rate returns the taken percentage as an integer, rounding half away from
// zero. An empty log set reports 0, never an error.
func Rate(logs []*model.MedicationLog) int {
	if len(logs) == 0 {
		return 0
	}
	taken := 0
	for _, l := range logs {
		if l.WasTaken {
			taken++
		}
	}
	return int(math.Round(float64(taken) * 100 / float64(len(logs))))
}

// DayRate is the adherence rate for one calendar day.
type DayRate struct {
	Date string `json:"date"`
	Rate int    `json:"rate_percent"`
}

// PerDay buckets logs by calendar day over [start, start+days) and computes
// the rate per bucket. Days with no logs report 0.
func PerDay(logs []*model.MedicationLog, start time.Time, days int) []DayRate {
	y, m, d := start.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, start.Location())

	byDay := make(map[string][]*model.MedicationLog)
	for _, l := range logs {
		key := l.ScheduledTime.In(start.Location()).Format("2006-01-02")
		byDay[key] = append(byDay[key], l)
	}

	out := make([]DayRate, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, DayRate{Date: key, Rate: Rate(byDay[key])})
	}
	return out
}

// MissedAlert flags one patient with chronic non-adherence.
type MissedAlert struct {
	PatientID   uuid.UUID `json:"patient_id"`
	MissedCount int       `json:"missed_count"`
}

// MissedDoseAlerts groups logs by patient and flags patients whose missed
// count reaches the threshold. A non-positive threshold falls back to the
// default of 3. Read-only report; nothing is persisted.
func MissedDoseAlerts(logs []*model.MedicationLog, threshold int) []MissedAlert {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	missed := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0)
	for _, l := range logs {
		if l.WasTaken {
			continue
		}
		if _, seen := missed[l.PatientID]; !seen {
			order = append(order, l.PatientID)
		}
		missed[l.PatientID]++
	}

	var alerts []MissedAlert
	for _, id := range order {
		if missed[id] >= threshold {
			alerts = append(alerts, MissedAlert{PatientID: id, MissedCount: missed[id]})
		}
	}
	return alerts
}
