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

type medicationRepository struct {
	BaseRepository
}

func NewMedicationRepository(base BaseRepository) repository.MedicationRepository {
	return &medicationRepository{base}
}

func (r *medicationRepository) Create(ctx context.Context, medication *model.Medication) error {
	query := `
		INSERT INTO medications (
			id, patient_id, name, dosage, frequency, reminder_times,
			start_date, end_date, is_active, instructions,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`
	medication.ID = uuid.New()
	medication.CreatedAt = time.Now()
	medication.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		medication.ID,
		medication.PatientID,
		medication.Name,
		medication.Dosage,
		medication.Frequency,
		medication.ReminderTimes,
		medication.StartDate,
		medication.EndDate,
		medication.IsActive,
		medication.Instructions,
		medication.CreatedAt,
		medication.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}
	return nil
}

func (r *medicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	query := `
		SELECT
			id, patient_id, name, dosage, frequency, reminder_times,
			start_date, end_date, is_active, instructions,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`
	var medication model.Medication
	err := r.db.GetContext(ctx, &medication, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("medication", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return &medication, nil
}

func (r *medicationRepository) Update(ctx context.Context, medication *model.Medication) error {
	query := `
		UPDATE medications
		SET name = $1, dosage = $2, frequency = $3, reminder_times = $4,
			start_date = $5, end_date = $6, is_active = $7, instructions = $8,
			updated_at = $9
		WHERE id = $10
	`
	medication.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		medication.Name,
		medication.Dosage,
		medication.Frequency,
		medication.ReminderTimes,
		medication.StartDate,
		medication.EndDate,
		medication.IsActive,
		medication.Instructions,
		medication.UpdatedAt,
		medication.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("medication", nil)
	}

	return nil
}

func (r *medicationRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Medication, error) {
	query := `
		SELECT
			id, patient_id, name, dosage, frequency, reminder_times,
			start_date, end_date, is_active, instructions,
			created_at, updated_at
		FROM medications
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var medications []*model.Medication
	if err := r.db.SelectContext(ctx, &medications, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return medications, nil
}

func (r *medicationRepository) CreateLog(ctx context.Context, log *model.MedicationLog) error {
	query := `
		INSERT INTO medication_logs (
			id, medication_id, patient_id, scheduled_time, taken_time,
			was_taken, notes, recorded_by_user_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	log.ID = uuid.New()

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.MedicationID,
		log.PatientID,
		log.ScheduledTime,
		log.TakenTime,
		log.WasTaken,
		log.Notes,
		log.RecordedByUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication log: %w", err)
	}
	return nil
}

func (r *medicationRepository) ListLogs(ctx context.Context, filters *model.MedicationLogFilters) ([]*model.MedicationLog, error) {
	query := `
		SELECT
			ml.id, ml.medication_id, ml.patient_id, ml.scheduled_time,
			ml.taken_time, ml.was_taken, ml.notes, ml.recorded_by_user_id
		FROM medication_logs ml
	`
	args := []interface{}{}
	argCount := 1
	where := " WHERE 1=1"

	if filters != nil {
		if filters.ClinicID != uuid.Nil {
			query += " JOIN patients p ON p.id = ml.patient_id"
			where += fmt.Sprintf(" AND p.clinic_id = $%d", argCount)
			args = append(args, filters.ClinicID)
			argCount++
		}
		if filters.PatientID != uuid.Nil {
			where += fmt.Sprintf(" AND ml.patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if !filters.Start.IsZero() {
			where += fmt.Sprintf(" AND ml.scheduled_time >= $%d", argCount)
			args = append(args, filters.Start)
			argCount++
		}
		if !filters.End.IsZero() {
			where += fmt.Sprintf(" AND ml.scheduled_time < $%d", argCount)
			args = append(args, filters.End)
			argCount++
		}
	}

	query += where + " ORDER BY ml.scheduled_time"

	var logs []*model.MedicationLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list medication logs: %w", err)
	}
	return logs, nil
}
