package model

import (
	"time"

	"github.com/google/uuid"
)

type Medication struct {
	Base
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name          string     `db:"name" json:"name"`
	Dosage        string     `db:"dosage" json:"dosage"`
	Frequency     string     `db:"frequency" json:"frequency"`
	ReminderTimes StringList `db:"reminder_times" json:"reminder_times"`
	StartDate     time.Time  `db:"start_date" json:"start_date"`
	EndDate       *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	Instructions  *string    `db:"instructions" json:"instructions,omitempty"`
}

// MedicationLog is one scheduled dose instance. Logs are immutable after
// creation; WasTaken implies TakenTime is set.
type MedicationLog struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	MedicationID     uuid.UUID  `db:"medication_id" json:"medication_id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	ScheduledTime    time.Time  `db:"scheduled_time" json:"scheduled_time"`
	TakenTime        *time.Time `db:"taken_time" json:"taken_time,omitempty"`
	WasTaken         bool       `db:"was_taken" json:"was_taken"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	RecordedByUserID *uuid.UUID `db:"recorded_by_user_id" json:"recorded_by_user_id,omitempty"`
}

type CreateMedicationRequest struct {
	PatientID     string    `json:"patient_id" binding:"required,uuid"`
	Name          string    `json:"name" binding:"required"`
	Dosage        string    `json:"dosage" binding:"required"`
	Frequency     string    `json:"frequency" binding:"required,oneof=daily twice_daily three_times_daily weekly as_needed"`
	ReminderTimes []string   `json:"reminder_times"`
	StartDate     time.Time  `json:"start_date" binding:"required"`
	EndDate       *time.Time `json:"end_date"`
	Instructions  string     `json:"instructions"`
}

type LogDoseRequest struct {
	ScheduledTime time.Time  `json:"scheduled_time" binding:"required"`
	TakenTime     *time.Time `json:"taken_time"`
	WasTaken      bool       `json:"was_taken"`
	Notes         string     `json:"notes"`
}

type MedicationLogFilters struct {
	PatientID uuid.UUID
	ClinicID  uuid.UUID
	Start     time.Time
	End       time.Time
}
