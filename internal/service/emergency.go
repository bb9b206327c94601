package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/clock"
	"github.com/ruralcare/health-api/pkg/errors"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/messaging"
)

type EmergencyService struct {
	calls    repository.EmergencyRepository
	patients repository.PatientRepository
	broker   messaging.Broker
	clock    clock.Clock
	logger   *logger.Logger
}

func NewEmergencyService(
	calls repository.EmergencyRepository,
	patients repository.PatientRepository,
	broker messaging.Broker,
	clk clock.Clock,
	logger *logger.Logger,
) *EmergencyService {
	return &EmergencyService{
		calls:    calls,
		patients: patients,
		broker:   broker,
		clock:    clk,
		logger:   logger,
	}
}

// Create logs an emergency call in pending state and publishes an alert for
// dispatch consoles. Broker failure never fails the call; the record is the
// source of truth.
func (s *EmergencyService) Create(ctx context.Context, req *model.CreateEmergencyCallRequest) (*model.EmergencyCall, error) {
	call := &model.EmergencyCall{
		Type:      model.EmergencyType(req.Type),
		CallTime:  s.clock.Now(),
		Status:    model.EmergencyStatusPending,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.PatientID != "" {
		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, errors.BadRequest("invalid patient id", err)
		}
		if _, err := s.patients.Get(ctx, patientID); err != nil {
			return nil, err
		}
		call.PatientID = &patientID
	}
	if req.CallerName != "" {
		call.CallerName = &req.CallerName
	}
	if req.CallerPhone != "" {
		call.CallerPhone = &req.CallerPhone
	}
	if req.CallerIDNumber != "" {
		call.CallerIDNumber = &req.CallerIDNumber
	}
	if req.LocationDescription != "" {
		call.LocationDescription = &req.LocationDescription
	}
	if req.Description != "" {
		call.Description = &req.Description
	}

	if err := s.calls.Create(ctx, call); err != nil {
		return nil, err
	}

	alert := model.EmergencyAlert{
		CallID:    call.ID,
		Type:      call.Type,
		CallTime:  call.CallTime,
		Latitude:  call.Latitude,
		Longitude: call.Longitude,
	}
	if call.LocationDescription != nil {
		alert.Location = *call.LocationDescription
	}
	if err := s.broker.Publish(ctx, messaging.ChannelEmergencyAlerts, alert); err != nil {
		s.logger.Error(err, "Failed to publish emergency alert", "call_id", call.ID.String())
	}

	return call, nil
}

func (s *EmergencyService) Get(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error) {
	return s.calls.Get(ctx, id)
}

func (s *EmergencyService) List(ctx context.Context, filters *model.EmergencyFilters) ([]*model.EmergencyCall, error) {
	return s.calls.List(ctx, filters)
}

// Dispatch assigns an ambulance to a pending call.
func (s *EmergencyService) Dispatch(ctx context.Context, id uuid.UUID, req *model.DispatchRequest) (*model.EmergencyCall, error) {
	ambulanceID, err := uuid.Parse(req.AmbulanceID)
	if err != nil {
		return nil, errors.BadRequest("invalid ambulance id", err)
	}

	call, err := s.calls.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if call.Status != model.EmergencyStatusPending {
		return nil, errors.Conflict("call has already been dispatched", nil)
	}

	now := s.clock.Now()
	call.Status = model.EmergencyStatusDispatched
	call.AssignedAmbulanceID = &ambulanceID
	call.DispatchedAt = &now

	if err := s.calls.Update(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

func (s *EmergencyService) MarkArrived(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error) {
	call, err := s.calls.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if call.Status != model.EmergencyStatusDispatched {
		return nil, errors.Conflict("ambulance has not been dispatched", nil)
	}

	now := s.clock.Now()
	call.Status = model.EmergencyStatusArrived
	call.ArrivedAt = &now

	if err := s.calls.Update(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

func (s *EmergencyService) Complete(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error) {
	call, err := s.calls.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if call.Status != model.EmergencyStatusDispatched && call.Status != model.EmergencyStatusArrived {
		return nil, errors.Conflict("call is not in progress", nil)
	}

	now := s.clock.Now()
	call.Status = model.EmergencyStatusCompleted
	call.CompletedAt = &now

	if err := s.calls.Update(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

func (s *EmergencyService) Cancel(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error) {
	call, err := s.calls.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if call.Status == model.EmergencyStatusCompleted || call.Status == model.EmergencyStatusCancelled {
		return nil, errors.Conflict("call is already closed", nil)
	}

	call.Status = model.EmergencyStatusCancelled

	if err := s.calls.Update(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}
