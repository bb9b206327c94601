package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/pkg/clock"
	apperrors "github.com/ruralcare/health-api/pkg/errors"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/messaging"
)

type fakeEmergencyRepo struct {
	calls map[uuid.UUID]*model.EmergencyCall
}

func newFakeEmergencyRepo() *fakeEmergencyRepo {
	return &fakeEmergencyRepo{calls: make(map[uuid.UUID]*model.EmergencyCall)}
}

func (f *fakeEmergencyRepo) Create(ctx context.Context, c *model.EmergencyCall) error {
	c.ID = uuid.New()
	f.calls[c.ID] = c
	return nil
}

func (f *fakeEmergencyRepo) Get(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error) {
	c, ok := f.calls[id]
	if !ok {
		return nil, apperrors.NotFound("emergency call", nil)
	}
	return c, nil
}

func (f *fakeEmergencyRepo) Update(ctx context.Context, c *model.EmergencyCall) error {
	f.calls[c.ID] = c
	return nil
}

func (f *fakeEmergencyRepo) List(ctx context.Context, filters *model.EmergencyFilters) ([]*model.EmergencyCall, error) {
	var out []*model.EmergencyCall
	for _, c := range f.calls {
		out = append(out, c)
	}
	return out, nil
}

type fakeBroker struct {
	published []string
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestEmergencyService(now time.Time) (*EmergencyService, *fakeBroker) {
	broker := &fakeBroker{}
	svc := NewEmergencyService(
		newFakeEmergencyRepo(),
		&stubPatientRepo{},
		broker,
		clock.Fixed(now),
		logger.NewLogger(nil),
	)
	return svc, broker
}

func TestCreateEmergencyPublishesAlert(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	svc, broker := newTestEmergencyService(now)

	call, err := svc.Create(context.Background(), &model.CreateEmergencyCallRequest{
		Type:                "medical",
		CallerName:          "Sipho Dlamini",
		LocationDescription: "Next to the primary school",
	})
	require.NoError(t, err)

	assert.Equal(t, model.EmergencyStatusPending, call.Status)
	assert.Equal(t, now, call.CallTime)
	assert.Nil(t, call.PatientID)
	require.Len(t, broker.published, 1)
	assert.Equal(t, messaging.ChannelEmergencyAlerts, broker.published[0])
}

func TestEmergencyLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	svc, _ := newTestEmergencyService(now)

	call, err := svc.Create(context.Background(), &model.CreateEmergencyCallRequest{Type: "medical"})
	require.NoError(t, err)

	ambulanceID := uuid.New().String()
	call, err = svc.Dispatch(context.Background(), call.ID, &model.DispatchRequest{AmbulanceID: ambulanceID})
	require.NoError(t, err)
	assert.Equal(t, model.EmergencyStatusDispatched, call.Status)
	require.NotNil(t, call.DispatchedAt)

	// Second dispatch is rejected
	_, err = svc.Dispatch(context.Background(), call.ID, &model.DispatchRequest{AmbulanceID: ambulanceID})
	require.Error(t, err)

	call, err = svc.MarkArrived(context.Background(), call.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmergencyStatusArrived, call.Status)

	call, err = svc.Complete(context.Background(), call.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmergencyStatusCompleted, call.Status)
	require.NotNil(t, call.CompletedAt)

	// Completed calls stay closed
	_, err = svc.Cancel(context.Background(), call.ID)
	require.Error(t, err)
}

func TestCancelPendingEmergency(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	svc, _ := newTestEmergencyService(now)

	call, err := svc.Create(context.Background(), &model.CreateEmergencyCallRequest{Type: "security"})
	require.NoError(t, err)

	call, err = svc.Cancel(context.Background(), call.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmergencyStatusCancelled, call.Status)
}
