package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	apperrors "github.com/ruralcare/health-api/pkg/errors"
)

const appointmentColumns = `
	id, patient_id, clinic_id, scheduled_time, appointment_type, status,
	notes, completed_at, reminder_3days_sent, reminder_1day_sent,
	reminder_same_day_sent, created_at, updated_at
`

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, clinic_id, scheduled_time, appointment_type,
			status, notes, completed_at, reminder_3days_sent,
			reminder_1day_sent, reminder_same_day_sent, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`
	appt.ID = uuid.New()
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appt.ID,
		appt.PatientID,
		appt.ClinicID,
		appt.ScheduledTime,
		appt.Type,
		appt.Status,
		appt.Notes,
		appt.CompletedAt,
		appt.Reminder3DaysSent,
		appt.Reminder1DaySent,
		appt.ReminderSameDaySent,
		appt.CreatedAt,
		appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appt model.Appointment
	err := r.db.GetContext(ctx, &appt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET scheduled_time = $1, appointment_type = $2, status = $3,
			notes = $4, completed_at = $5, reminder_3days_sent = $6,
			reminder_1day_sent = $7, reminder_same_day_sent = $8,
			updated_at = $9
		WHERE id = $10
	`
	appt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appt.ScheduledTime,
		appt.Type,
		appt.Status,
		appt.Notes,
		appt.CompletedAt,
		appt.Reminder3DaysSent,
		appt.Reminder1DaySent,
		appt.ReminderSameDaySent,
		appt.UpdatedAt,
		appt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.ClinicID != uuid.Nil {
			query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
			args = append(args, filters.ClinicID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND scheduled_time >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND scheduled_time < $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY scheduled_time"

	var appts []*model.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) ListUpcomingScheduled(ctx context.Context, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = $1 AND scheduled_time >= $2
		ORDER BY scheduled_time
	`
	dayStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	var appts []*model.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, model.AppointmentStatusScheduled, dayStart); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appts, nil
}
