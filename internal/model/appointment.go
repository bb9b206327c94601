package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusMissed    AppointmentStatus = "missed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type AppointmentType string

const (
	AppointmentTypeCheckup   AppointmentType = "checkup"
	AppointmentTypeChronic   AppointmentType = "chronic"
	AppointmentTypeEmergency AppointmentType = "emergency"
	AppointmentTypeFollowup  AppointmentType = "followup"
)

type Appointment struct {
	Base
	PatientID     uuid.UUID         `db:"patient_id" json:"patient_id"`
	ClinicID      *uuid.UUID        `db:"clinic_id" json:"clinic_id,omitempty"`
	ScheduledTime time.Time         `db:"scheduled_time" json:"scheduled_time"`
	Type          AppointmentType   `db:"appointment_type" json:"appointment_type"`
	Status        AppointmentStatus `db:"status" json:"status"`
	Notes         *string           `db:"notes" json:"notes,omitempty"`
	CompletedAt   *time.Time        `db:"completed_at" json:"completed_at,omitempty"`

	// Reminder one-shot latches. Each transitions false to true exactly once
	// and is never reset.
	Reminder3DaysSent   bool `db:"reminder_3days_sent" json:"reminder_3days_sent"`
	Reminder1DaySent    bool `db:"reminder_1day_sent" json:"reminder_1day_sent"`
	ReminderSameDaySent bool `db:"reminder_same_day_sent" json:"reminder_same_day_sent"`
}

type CreateAppointmentRequest struct {
	PatientID     string    `json:"patient_id" binding:"required,uuid"`
	ClinicID      string    `json:"clinic_id" binding:"omitempty,uuid"`
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
	Type          string    `json:"appointment_type" binding:"required,oneof=checkup chronic emergency followup"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	ClinicID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
