package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/adherence"
	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/errors"
)

type ReportService struct {
	reports     repository.ReportRepository
	medications repository.MedicationRepository
}

func NewReportService(reports repository.ReportRepository, medications repository.MedicationRepository) *ReportService {
	return &ReportService{reports: reports, medications: medications}
}

// Summary aggregates platform activity over [start, end). A nil clinicID
// covers all clinics.
func (s *ReportService) Summary(ctx context.Context, start, end time.Time, clinicID *uuid.UUID) (*model.ReportSummary, error) {
	if !end.After(start) {
		return nil, errors.BadRequest("end must be after start", nil)
	}

	summary := &model.ReportSummary{Start: start, End: end}

	var err error
	summary.TotalAppointments, summary.CompletedAppointments,
		summary.MissedAppointments, summary.CancelledAppointments,
		err = s.reports.AppointmentStatusCounts(ctx, start, end, clinicID)
	if err != nil {
		return nil, err
	}

	summary.EmergencyCalls, summary.EmergenciesDispatched,
		summary.EmergenciesCompleted, err = s.reports.EmergencyStatusCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary.NewPatients, err = s.reports.CountNewPatients(ctx, start, end)
	if err != nil {
		return nil, err
	}

	logFilters := &model.MedicationLogFilters{Start: start, End: end}
	if clinicID != nil {
		logFilters.ClinicID = *clinicID
	}
	logs, err := s.medications.ListLogs(ctx, logFilters)
	if err != nil {
		return nil, err
	}
	summary.AdherenceRate = adherence.Rate(logs)

	summary.AppointmentsPerDay, err = s.reports.AppointmentsPerDay(ctx, start, end, clinicID)
	if err != nil {
		return nil, err
	}

	summary.AppointmentsByClinic, err = s.reports.AppointmentsByClinic(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// ExportCSV renders a summary as a flat metric/value CSV for download.
func (s *ReportService) ExportCSV(ctx context.Context, start, end time.Time, clinicID *uuid.UUID) ([]byte, error) {
	summary, err := s.Summary(ctx, start, end, clinicID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"metric", "value"},
		{"period_start", summary.Start.Format("2006-01-02")},
		{"period_end", summary.End.Format("2006-01-02")},
		{"total_appointments", strconv.Itoa(summary.TotalAppointments)},
		{"completed_appointments", strconv.Itoa(summary.CompletedAppointments)},
		{"missed_appointments", strconv.Itoa(summary.MissedAppointments)},
		{"cancelled_appointments", strconv.Itoa(summary.CancelledAppointments)},
		{"emergency_calls", strconv.Itoa(summary.EmergencyCalls)},
		{"emergencies_dispatched", strconv.Itoa(summary.EmergenciesDispatched)},
		{"emergencies_completed", strconv.Itoa(summary.EmergenciesCompleted)},
		{"new_patients", strconv.Itoa(summary.NewPatients)},
		{"adherence_rate_percent", strconv.Itoa(summary.AdherenceRate)},
	}
	for _, day := range summary.AppointmentsPerDay {
		rows = append(rows, []string{"appointments_" + day.Date, strconv.Itoa(day.Count)})
	}
	for _, clinic := range summary.AppointmentsByClinic {
		rows = append(rows, []string{"appointments_clinic_" + clinic.ClinicName, strconv.Itoa(clinic.Count)})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), nil
}
