package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	Update(ctx context.Context, clinic *model.Clinic) error
	UpdateStock(ctx context.Context, id uuid.UUID, stock model.StockList) error
	List(ctx context.Context, activeOnly bool) ([]*model.Clinic, error)
}

type MedicationRepository interface {
	Create(ctx context.Context, medication *model.Medication) error
	Get(ctx context.Context, id uuid.UUID) (*model.Medication, error)
	Update(ctx context.Context, medication *model.Medication) error
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Medication, error)
	CreateLog(ctx context.Context, log *model.MedicationLog) error
	ListLogs(ctx context.Context, filters *model.MedicationLogFilters) ([]*model.MedicationLog, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appt *model.Appointment) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	// ListUpcomingScheduled returns scheduled appointments whose scheduled
	// time falls on or after the given day. Used by the reminder worker.
	ListUpcomingScheduled(ctx context.Context, from time.Time) ([]*model.Appointment, error)
}

type EmergencyRepository interface {
	Create(ctx context.Context, call *model.EmergencyCall) error
	Get(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error)
	Update(ctx context.Context, call *model.EmergencyCall) error
	List(ctx context.Context, filters *model.EmergencyFilters) ([]*model.EmergencyCall, error)
}

// ReportRepository exposes the aggregate queries behind the admin reports.
type ReportRepository interface {
	AppointmentStatusCounts(ctx context.Context, start, end time.Time, clinicID *uuid.UUID) (total, completed, missed, cancelled int, err error)
	EmergencyStatusCounts(ctx context.Context, start, end time.Time) (total, dispatched, completed int, err error)
	CountNewPatients(ctx context.Context, start, end time.Time) (int, error)
	AppointmentsPerDay(ctx context.Context, start, end time.Time, clinicID *uuid.UUID) ([]model.DayCount, error)
	AppointmentsByClinic(ctx context.Context, start, end time.Time) ([]model.ClinicCount, error)
}

type TokenRepository interface {
	CreateResetToken(ctx context.Context, token *model.PasswordResetToken) error
	GetResetToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}
