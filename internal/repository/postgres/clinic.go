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

const clinicColumns = `
	id, name, phone_number, address, latitude, longitude,
	operating_hours, has_ambulance, is_active, medication_stock,
	created_at, updated_at
`

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(base BaseRepository) repository.ClinicRepository {
	return &clinicRepository{base}
}

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (
			id, name, phone_number, address, latitude, longitude,
			operating_hours, has_ambulance, is_active, medication_stock,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`
	clinic.ID = uuid.New()
	clinic.CreatedAt = time.Now()
	clinic.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		clinic.ID,
		clinic.Name,
		clinic.PhoneNumber,
		clinic.Address,
		clinic.Latitude,
		clinic.Longitude,
		clinic.OperatingHours,
		clinic.HasAmbulance,
		clinic.IsActive,
		clinic.Stock,
		clinic.CreatedAt,
		clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE id = $1`

	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("clinic", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, phone_number = $2, address = $3, latitude = $4,
			longitude = $5, operating_hours = $6, has_ambulance = $7,
			is_active = $8, updated_at = $9
		WHERE id = $10
	`
	clinic.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		clinic.Name,
		clinic.PhoneNumber,
		clinic.Address,
		clinic.Latitude,
		clinic.Longitude,
		clinic.OperatingHours,
		clinic.HasAmbulance,
		clinic.IsActive,
		clinic.UpdatedAt,
		clinic.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("clinic", nil)
	}

	return nil
}

// UpdateStock writes only the stock column so concurrent profile edits do not
// clobber each other.
func (r *clinicRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock model.StockList) error {
	query := `UPDATE clinics SET medication_stock = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, stock, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update clinic stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("clinic", nil)
	}

	return nil
}

func (r *clinicRepository) List(ctx context.Context, activeOnly bool) ([]*model.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	var clinics []*model.Clinic
	if err := r.db.SelectContext(ctx, &clinics, query); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}
