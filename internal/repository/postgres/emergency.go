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

const emergencyColumns = `
	id, patient_id, caller_name, caller_phone, caller_id_number,
	emergency_type, call_time, latitude, longitude, location_description,
	status, description, assigned_ambulance_id, dispatched_at, arrived_at,
	completed_at
`

type emergencyRepository struct {
	BaseRepository
}

func NewEmergencyRepository(base BaseRepository) repository.EmergencyRepository {
	return &emergencyRepository{base}
}

func (r *emergencyRepository) Create(ctx context.Context, call *model.EmergencyCall) error {
	query := `
		INSERT INTO emergency_calls (
			id, patient_id, caller_name, caller_phone, caller_id_number,
			emergency_type, call_time, latitude, longitude,
			location_description, status, description
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`
	call.ID = uuid.New()
	if call.CallTime.IsZero() {
		call.CallTime = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		call.ID,
		call.PatientID,
		call.CallerName,
		call.CallerPhone,
		call.CallerIDNumber,
		call.Type,
		call.CallTime,
		call.Latitude,
		call.Longitude,
		call.LocationDescription,
		call.Status,
		call.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create emergency call: %w", err)
	}
	return nil
}

func (r *emergencyRepository) Get(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergency_calls WHERE id = $1`

	var call model.EmergencyCall
	err := r.db.GetContext(ctx, &call, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("emergency call", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get emergency call: %w", err)
	}
	return &call, nil
}

func (r *emergencyRepository) Update(ctx context.Context, call *model.EmergencyCall) error {
	query := `
		UPDATE emergency_calls
		SET status = $1, assigned_ambulance_id = $2, dispatched_at = $3,
			arrived_at = $4, completed_at = $5, description = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		call.Status,
		call.AssignedAmbulanceID,
		call.DispatchedAt,
		call.ArrivedAt,
		call.CompletedAt,
		call.Description,
		call.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update emergency call: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("emergency call", nil)
	}

	return nil
}

func (r *emergencyRepository) List(ctx context.Context, filters *model.EmergencyFilters) ([]*model.EmergencyCall, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergency_calls WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND call_time >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND call_time < $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY call_time DESC"

	var calls []*model.EmergencyCall
	if err := r.db.SelectContext(ctx, &calls, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list emergency calls: %w", err)
	}
	return calls, nil
}
