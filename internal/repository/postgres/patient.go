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

const patientColumns = `
	id, id_number, first_name, last_name, date_of_birth, phone_number,
	alternative_phone, email, preferred_language, home_address,
	latitude, longitude, clinic_id, chronic_conditions, allergies,
	blood_type, emergency_contact_name, emergency_contact_phone,
	created_at, updated_at
`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, id_number, first_name, last_name, date_of_birth, phone_number,
			alternative_phone, email, preferred_language, home_address,
			latitude, longitude, clinic_id, chronic_conditions, allergies,
			blood_type, emergency_contact_name, emergency_contact_phone,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.IDNumber,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.PhoneNumber,
		patient.AlternativePhone,
		patient.Email,
		patient.PreferredLanguage,
		patient.HomeAddress,
		patient.Latitude,
		patient.Longitude,
		patient.ClinicID,
		patient.ChronicConditions,
		patient.Allergies,
		patient.BloodType,
		patient.EmergencyContactName,
		patient.EmergencyContactPhone,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByIDNumber(ctx context.Context, idNumber string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id_number = $1`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, idNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by id number: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, phone_number = $3,
			alternative_phone = $4, email = $5, preferred_language = $6,
			home_address = $7, latitude = $8, longitude = $9, clinic_id = $10,
			chronic_conditions = $11, allergies = $12, blood_type = $13,
			emergency_contact_name = $14, emergency_contact_phone = $15,
			updated_at = $16
		WHERE id = $17
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.PhoneNumber,
		patient.AlternativePhone,
		patient.Email,
		patient.PreferredLanguage,
		patient.HomeAddress,
		patient.Latitude,
		patient.Longitude,
		patient.ClinicID,
		patient.ChronicConditions,
		patient.Allergies,
		patient.BloodType,
		patient.EmergencyContactName,
		patient.EmergencyContactPhone,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}

	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}

	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.ClinicID != uuid.Nil {
			query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
			args = append(args, filters.ClinicID)
			argCount++
		}
		if filters.Search != "" {
			query += fmt.Sprintf(
				" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR id_number ILIKE $%d OR phone_number ILIKE $%d)",
				argCount, argCount, argCount, argCount,
			)
			args = append(args, "%"+filters.Search+"%")
			argCount++
		}
	}

	query += " ORDER BY last_name, first_name"

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
