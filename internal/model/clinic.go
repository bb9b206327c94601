package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Clinic struct {
	Base
	Name           string    `db:"name" json:"name"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	Address        string    `db:"address" json:"address"`
	Latitude       float64   `db:"latitude" json:"latitude"`
	Longitude      float64   `db:"longitude" json:"longitude"`
	OperatingHours *string   `db:"operating_hours" json:"operating_hours,omitempty"`
	HasAmbulance   bool      `db:"has_ambulance" json:"has_ambulance"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	Stock          StockList `db:"medication_stock" json:"medication_stock"`
}

// StockItem is one named medication in a clinic's stock list. Name is unique
// within the clinic, compared case-insensitively.
type StockItem struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	InStock      bool   `json:"in_stock"`
	Quantity     int    `json:"quantity"`
	LowThreshold int    `json:"low_threshold"`
}

// IsLow reports the low-stock condition. An out-of-stock item is not "low";
// exhaustion is reported as its own alert condition.
func (i StockItem) IsLow() bool {
	return i.InStock && i.Quantity <= i.LowThreshold
}

// StockList is a clinic's ordered stock list stored as a JSON column. The
// ordering is insertion order and is preserved across round trips.
type StockList []StockItem

func (l StockList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *StockList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StockList: %T", src)
	}
}

type CreateClinicRequest struct {
	Name           string  `json:"name" binding:"required"`
	PhoneNumber    string  `json:"phone_number" binding:"required,phone"`
	Address        string  `json:"address" binding:"required"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	OperatingHours string  `json:"operating_hours"`
	HasAmbulance   bool    `json:"has_ambulance"`
}

type UpdateClinicRequest struct {
	Name           *string  `json:"name"`
	PhoneNumber    *string  `json:"phone_number"`
	Address        *string  `json:"address"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	OperatingHours *string  `json:"operating_hours"`
	HasAmbulance   *bool    `json:"has_ambulance"`
	IsActive       *bool    `json:"is_active"`
}

type AddStockItemRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	InStock      bool   `json:"in_stock"`
	Quantity     int    `json:"quantity"`
	LowThreshold int    `json:"low_threshold"`
}

type SetAvailabilityRequest struct {
	Name    string `json:"name" binding:"required"`
	InStock bool   `json:"in_stock"`
}

type DispenseRequest struct {
	Name   string `json:"name" binding:"required"`
	Amount int    `json:"amount"`
}

// MedicationSearchResult is one clinic matched by the find-medication search.
type MedicationSearchResult struct {
	Clinic      *Clinic  `json:"clinic"`
	Matched     []string `json:"matched_medications"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	HasDistance bool     `json:"-"`
}
