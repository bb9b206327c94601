package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
)

type reportRepository struct {
	BaseRepository
}

func NewReportRepository(base BaseRepository) repository.ReportRepository {
	return &reportRepository{base}
}

func (r *reportRepository) AppointmentStatusCounts(ctx context.Context, start, end time.Time, clinicID *uuid.UUID) (total, completed, missed, cancelled int, err error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'missed') AS missed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM appointments
		WHERE scheduled_time >= $1 AND scheduled_time < $2
	`
	args := []interface{}{start, end}
	if clinicID != nil {
		query += " AND clinic_id = $3"
		args = append(args, *clinicID)
	}

	var row struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
		Missed    int `db:"missed"`
		Cancelled int `db:"cancelled"`
	}
	if err = r.db.GetContext(ctx, &row, query, args...); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return row.Total, row.Completed, row.Missed, row.Cancelled, nil
}

func (r *reportRepository) EmergencyStatusCounts(ctx context.Context, start, end time.Time) (total, dispatched, completed int, err error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE dispatched_at IS NOT NULL) AS dispatched,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed
		FROM emergency_calls
		WHERE call_time >= $1 AND call_time < $2
	`
	var row struct {
		Total      int `db:"total"`
		Dispatched int `db:"dispatched"`
		Completed  int `db:"completed"`
	}
	if err = r.db.GetContext(ctx, &row, query, start, end); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count emergency calls: %w", err)
	}
	return row.Total, row.Dispatched, row.Completed, nil
}

func (r *reportRepository) CountNewPatients(ctx context.Context, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM patients WHERE created_at >= $1 AND created_at < $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, start, end); err != nil {
		return 0, fmt.Errorf("failed to count new patients: %w", err)
	}
	return count, nil
}

func (r *reportRepository) AppointmentsPerDay(ctx context.Context, start, end time.Time, clinicID *uuid.UUID) ([]model.DayCount, error) {
	query := `
		SELECT to_char(scheduled_time, 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM appointments
		WHERE scheduled_time >= $1 AND scheduled_time < $2
	`
	args := []interface{}{start, end}
	if clinicID != nil {
		query += " AND clinic_id = $3"
		args = append(args, *clinicID)
	}
	query += " GROUP BY day ORDER BY day"

	var counts []model.DayCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count appointments per day: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) AppointmentsByClinic(ctx context.Context, start, end time.Time) ([]model.ClinicCount, error) {
	query := `
		SELECT c.name AS clinic_name, COUNT(*) AS count
		FROM appointments a
		JOIN clinics c ON c.id = a.clinic_id
		WHERE a.scheduled_time >= $1 AND a.scheduled_time < $2
		GROUP BY c.name
		ORDER BY count DESC
	`
	var counts []model.ClinicCount
	if err := r.db.SelectContext(ctx, &counts, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to count appointments by clinic: %w", err)
	}
	return counts, nil
}
