package model

import (
	"time"

	"github.com/google/uuid"
)

type EmergencyStatus string

const (
	EmergencyStatusPending    EmergencyStatus = "pending"
	EmergencyStatusDispatched EmergencyStatus = "dispatched"
	EmergencyStatusArrived    EmergencyStatus = "arrived"
	EmergencyStatusCompleted  EmergencyStatus = "completed"
	EmergencyStatusCancelled  EmergencyStatus = "cancelled"
)

type EmergencyType string

const (
	EmergencyTypeMedical  EmergencyType = "medical"
	EmergencyTypeSecurity EmergencyType = "security"
)

// EmergencyCall tracks one emergency dispatch. PatientID is nil for anonymous
// callers; the caller fields carry whatever was captured over the phone.
type EmergencyCall struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	PatientID           *uuid.UUID      `db:"patient_id" json:"patient_id,omitempty"`
	CallerName          *string         `db:"caller_name" json:"caller_name,omitempty"`
	CallerPhone         *string         `db:"caller_phone" json:"caller_phone,omitempty"`
	CallerIDNumber      *string         `db:"caller_id_number" json:"caller_id_number,omitempty"`
	Type                EmergencyType   `db:"emergency_type" json:"emergency_type"`
	CallTime            time.Time       `db:"call_time" json:"call_time"`
	Latitude            *float64        `db:"latitude" json:"latitude,omitempty"`
	Longitude           *float64        `db:"longitude" json:"longitude,omitempty"`
	LocationDescription *string         `db:"location_description" json:"location_description,omitempty"`
	Status              EmergencyStatus `db:"status" json:"status"`
	Description         *string         `db:"description" json:"description,omitempty"`
	AssignedAmbulanceID *uuid.UUID      `db:"assigned_ambulance_id" json:"assigned_ambulance_id,omitempty"`
	DispatchedAt        *time.Time      `db:"dispatched_at" json:"dispatched_at,omitempty"`
	ArrivedAt           *time.Time      `db:"arrived_at" json:"arrived_at,omitempty"`
	CompletedAt         *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

type CreateEmergencyCallRequest struct {
	PatientID           string   `json:"patient_id" binding:"omitempty,uuid"`
	CallerName          string   `json:"caller_name"`
	CallerPhone         string   `json:"caller_phone"`
	CallerIDNumber      string   `json:"caller_id_number"`
	Type                string   `json:"emergency_type" binding:"required,oneof=medical security"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	LocationDescription string   `json:"location_description"`
	Description         string   `json:"description"`
}

type DispatchRequest struct {
	AmbulanceID string `json:"ambulance_id" binding:"required,uuid"`
}

type EmergencyFilters struct {
	Status    EmergencyStatus
	StartDate time.Time
	EndDate   time.Time
}

// EmergencyAlert is the broker payload published when a call is created.
type EmergencyAlert struct {
	CallID    uuid.UUID     `json:"call_id"`
	Type      EmergencyType `json:"emergency_type"`
	CallTime  time.Time     `json:"call_time"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
	Location  string        `json:"location,omitempty"`
}
