package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/adherence"
	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/clock"
	"github.com/ruralcare/health-api/pkg/errors"
)

type MedicationService struct {
	medications repository.MedicationRepository
	patients    repository.PatientRepository
	clock       clock.Clock
}

func NewMedicationService(
	medications repository.MedicationRepository,
	patients repository.PatientRepository,
	clk clock.Clock,
) *MedicationService {
	return &MedicationService{
		medications: medications,
		patients:    patients,
		clock:       clk,
	}
}

func (s *MedicationService) Create(ctx context.Context, req *model.CreateMedicationRequest) (*model.Medication, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, errors.BadRequest("invalid patient id", err)
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, errors.BadRequest("end date must not be before start date", nil)
	}

	medication := &model.Medication{
		PatientID:     patientID,
		Name:          req.Name,
		Dosage:        req.Dosage,
		Frequency:     req.Frequency,
		ReminderTimes: req.ReminderTimes,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      true,
	}
	if req.Instructions != "" {
		medication.Instructions = &req.Instructions
	}

	if err := s.medications.Create(ctx, medication); err != nil {
		return nil, err
	}
	return medication, nil
}

func (s *MedicationService) Get(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	return s.medications.Get(ctx, id)
}

func (s *MedicationService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Medication, error) {
	return s.medications.ListForPatient(ctx, patientID)
}

func (s *MedicationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	medication, err := s.medications.Get(ctx, id)
	if err != nil {
		return err
	}
	medication.IsActive = false
	return s.medications.Update(ctx, medication)
}

// LogDose records one dose outcome. A taken dose with no explicit taken time
// is stamped with the current time so WasTaken always implies TakenTime.
func (s *MedicationService) LogDose(ctx context.Context, medicationID uuid.UUID, recordedBy *uuid.UUID, req *model.LogDoseRequest) (*model.MedicationLog, error) {
	medication, err := s.medications.Get(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	log := &model.MedicationLog{
		MedicationID:     medication.ID,
		PatientID:        medication.PatientID,
		ScheduledTime:    req.ScheduledTime,
		TakenTime:        req.TakenTime,
		WasTaken:         req.WasTaken,
		RecordedByUserID: recordedBy,
	}
	if req.Notes != "" {
		log.Notes = &req.Notes
	}
	if log.WasTaken && log.TakenTime == nil {
		now := s.clock.Now()
		log.TakenTime = &now
	}
	if !log.WasTaken {
		log.TakenTime = nil
	}

	if err := s.medications.CreateLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *MedicationService) ListLogs(ctx context.Context, filters *model.MedicationLogFilters) ([]*model.MedicationLog, error) {
	return s.medications.ListLogs(ctx, filters)
}

// AdherenceSummary is the per-patient dashboard payload.
type AdherenceSummary struct {
	PatientID   uuid.UUID           `json:"patient_id"`
	RatePercent int                 `json:"rate_percent"`
	PerDay      []adherence.DayRate `json:"per_day"`
}

// Adherence computes the taken rate and the per-day breakdown over the last
// seven days for one patient.
func (s *MedicationService) Adherence(ctx context.Context, patientID uuid.UUID) (*AdherenceSummary, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	start := now.AddDate(0, 0, -(adherence.DashboardDays - 1))
	logs, err := s.medications.ListLogs(ctx, &model.MedicationLogFilters{
		PatientID: patientID,
		Start:     truncateToDay(start),
		End:       now,
	})
	if err != nil {
		return nil, err
	}

	return &AdherenceSummary{
		PatientID:   patientID,
		RatePercent: adherence.Rate(logs),
		PerDay:      adherence.PerDay(logs, start, adherence.DashboardDays),
	}, nil
}

// MissedDoseAlerts flags patients with repeated missed doses over the last
// thirty days, optionally restricted to one clinic's patients.
func (s *MedicationService) MissedDoseAlerts(ctx context.Context, clinicID uuid.UUID, threshold int) ([]adherence.MissedAlert, error) {
	now := s.clock.Now()
	logs, err := s.medications.ListLogs(ctx, &model.MedicationLogFilters{
		ClinicID: clinicID,
		Start:    now.AddDate(0, 0, -adherence.AlertWindowDays),
		End:      now,
	})
	if err != nil {
		return nil, err
	}
	return adherence.MissedDoseAlerts(logs, threshold), nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
