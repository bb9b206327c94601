package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	IDNumber              string     `db:"id_number" json:"id_number"`
	FirstName             string     `db:"first_name" json:"first_name"`
	LastName              string     `db:"last_name" json:"last_name"`
	DateOfBirth           time.Time  `db:"date_of_birth" json:"date_of_birth"`
	PhoneNumber           string     `db:"phone_number" json:"phone_number"`
	AlternativePhone      *string    `db:"alternative_phone" json:"alternative_phone,omitempty"`
	Email                 *string    `db:"email" json:"email,omitempty"`
	PreferredLanguage     string     `db:"preferred_language" json:"preferred_language"`
	HomeAddress           *string    `db:"home_address" json:"home_address,omitempty"`
	Latitude              *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude             *float64   `db:"longitude" json:"longitude,omitempty"`
	ClinicID              *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	ChronicConditions     StringList `db:"chronic_conditions" json:"chronic_conditions"`
	Allergies             StringList `db:"allergies" json:"allergies"`
	BloodType             *string    `db:"blood_type" json:"blood_type,omitempty"`
	EmergencyContactName  *string    `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string    `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	IDNumber          string    `json:"id_number" binding:"required"`
	FirstName         string    `json:"first_name" binding:"required"`
	LastName          string    `json:"last_name" binding:"required"`
	DateOfBirth       time.Time `json:"date_of_birth" binding:"required"`
	PhoneNumber       string    `json:"phone_number" binding:"required,phone"`
	Email             string    `json:"email" binding:"omitempty,email"`
	PreferredLanguage string    `json:"preferred_language" binding:"omitempty,oneof=en zu xh st tn"`
	HomeAddress       string    `json:"home_address"`
	ClinicID          string    `json:"clinic_id"`
	ChronicConditions []string  `json:"chronic_conditions"`
	Allergies         []string  `json:"allergies"`
	BloodType         string    `json:"blood_type"`
}

type UpdatePatientRequest struct {
	FirstName             *string   `json:"first_name"`
	LastName              *string   `json:"last_name"`
	PhoneNumber           *string   `json:"phone_number"`
	AlternativePhone      *string   `json:"alternative_phone"`
	Email                 *string   `json:"email" binding:"omitempty,email"`
	PreferredLanguage     *string   `json:"preferred_language" binding:"omitempty,oneof=en zu xh st tn"`
	HomeAddress           *string   `json:"home_address"`
	Latitude              *float64  `json:"latitude"`
	Longitude             *float64  `json:"longitude"`
	ClinicID              *string   `json:"clinic_id"`
	ChronicConditions     *[]string `json:"chronic_conditions"`
	Allergies             *[]string `json:"allergies"`
	BloodType             *string   `json:"blood_type"`
	EmergencyContactName  *string   `json:"emergency_contact_name"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone"`
}

type PatientFilters struct {
	ClinicID uuid.UUID
	Search   string
}
