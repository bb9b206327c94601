package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/clock"
	"github.com/ruralcare/health-api/pkg/errors"
)

type AppointmentService struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	clinics      repository.ClinicRepository
	clock        clock.Clock
}

func NewAppointmentService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	clinics repository.ClinicRepository,
	clk clock.Clock,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		clinics:      clinics,
		clock:        clk,
	}
}

// Create books an appointment in scheduled state with all reminder flags
// clear. Past dates are accepted for back-capture of paper records; reminders
// for them simply never fire.
func (s *AppointmentService) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, errors.BadRequest("invalid patient id", err)
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		PatientID:     patientID,
		ScheduledTime: req.ScheduledTime,
		Type:          model.AppointmentType(req.Type),
		Status:        model.AppointmentStatusScheduled,
	}
	if req.ClinicID != "" {
		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			return nil, errors.BadRequest("invalid clinic id", err)
		}
		if _, err := s.clinics.Get(ctx, clinicID); err != nil {
			return nil, err
		}
		appt.ClinicID = &clinicID
	}
	if req.Notes != "" {
		appt.Notes = &req.Notes
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filters)
}

// Complete, Cancel and MarkMissed are the only legal exits from scheduled.
// Terminal states never transition again.

func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCompleted)
}

func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCancelled)
}

func (s *AppointmentService) MarkMissed(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusMissed)
}

func (s *AppointmentService) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus) (*model.Appointment, error) {
	appt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentStatusScheduled {
		return nil, errors.Conflict("appointment is no longer scheduled", nil)
	}

	appt.Status = to
	if to == model.AppointmentStatusCompleted {
		now := s.clock.Now()
		appt.CompletedAt = &now
	}

	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}
