package model

import "time"

// ReportSummary aggregates platform activity over a reporting window.
type ReportSummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	TotalAppointments     int `json:"total_appointments"`
	CompletedAppointments int `json:"completed_appointments"`
	MissedAppointments    int `json:"missed_appointments"`
	CancelledAppointments int `json:"cancelled_appointments"`

	EmergencyCalls        int `json:"emergency_calls"`
	EmergenciesDispatched int `json:"emergencies_dispatched"`
	EmergenciesCompleted  int `json:"emergencies_completed"`

	NewPatients   int `json:"new_patients"`
	AdherenceRate int `json:"adherence_rate_percent"`

	AppointmentsPerDay   []DayCount    `json:"appointments_per_day"`
	AppointmentsByClinic []ClinicCount `json:"appointments_by_clinic"`
}

type DayCount struct {
	Date  string `db:"day" json:"date"`
	Count int    `db:"count" json:"count"`
}

type ClinicCount struct {
	ClinicName string `db:"clinic_name" json:"clinic_name"`
	Count      int    `db:"count" json:"count"`
}
