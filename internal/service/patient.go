package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/errors"
)

const defaultLanguage = "en"

type PatientService struct {
	patients repository.PatientRepository
	clinics  repository.ClinicRepository
}

func NewPatientService(patients repository.PatientRepository, clinics repository.ClinicRepository) *PatientService {
	return &PatientService{patients: patients, clinics: clinics}
}

func (s *PatientService) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if existing, err := s.patients.GetByIDNumber(ctx, req.IDNumber); err == nil && existing != nil {
		return nil, errors.Conflict("a patient with this ID number already exists", nil)
	}

	patient := &model.Patient{
		IDNumber:          req.IDNumber,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		PhoneNumber:       req.PhoneNumber,
		PreferredLanguage: req.PreferredLanguage,
		ChronicConditions: req.ChronicConditions,
		Allergies:         req.Allergies,
	}
	if patient.PreferredLanguage == "" {
		patient.PreferredLanguage = defaultLanguage
	}
	if req.Email != "" {
		patient.Email = &req.Email
	}
	if req.HomeAddress != "" {
		patient.HomeAddress = &req.HomeAddress
	}
	if req.BloodType != "" {
		patient.BloodType = &req.BloodType
	}
	if req.ClinicID != "" {
		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			return nil, errors.BadRequest("invalid clinic id", err)
		}
		if _, err := s.clinics.Get(ctx, clinicID); err != nil {
			return nil, err
		}
		patient.ClinicID = &clinicID
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.patients.Get(ctx, id)
}

func (s *PatientService) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		patient.PhoneNumber = *req.PhoneNumber
	}
	if req.AlternativePhone != nil {
		patient.AlternativePhone = req.AlternativePhone
	}
	if req.Email != nil {
		patient.Email = req.Email
	}
	if req.PreferredLanguage != nil {
		patient.PreferredLanguage = *req.PreferredLanguage
	}
	if req.HomeAddress != nil {
		patient.HomeAddress = req.HomeAddress
	}
	if req.Latitude != nil {
		patient.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		patient.Longitude = req.Longitude
	}
	if req.ClinicID != nil {
		clinicID, err := uuid.Parse(*req.ClinicID)
		if err != nil {
			return nil, errors.BadRequest("invalid clinic id", err)
		}
		if _, err := s.clinics.Get(ctx, clinicID); err != nil {
			return nil, err
		}
		patient.ClinicID = &clinicID
	}
	if req.ChronicConditions != nil {
		patient.ChronicConditions = *req.ChronicConditions
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.BloodType != nil {
		patient.BloodType = req.BloodType
	}
	if req.EmergencyContactName != nil {
		patient.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		patient.EmergencyContactPhone = req.EmergencyContactPhone
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *PatientService) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.patients.List(ctx, filters)
}
