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
)

type fakeAppointmentRepo struct {
	appts map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	f.appts[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return a, nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	f.appts[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListUpcomingScheduled(ctx context.Context, from time.Time) ([]*model.Appointment, error) {
	return f.List(ctx, nil)
}

func newTestAppointmentService(now time.Time, patient *model.Patient) *AppointmentService {
	return NewAppointmentService(
		newFakeAppointmentRepo(),
		&stubPatientRepo{patient: patient},
		newFakeClinicRepo(),
		clock.Fixed(now),
	)
}

func TestCreateAppointmentStartsScheduled(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	svc := newTestAppointmentService(now, patient)

	appt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID:     patient.ID.String(),
		ScheduledTime: now.AddDate(0, 0, 3),
		Type:          "checkup",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.False(t, appt.Reminder3DaysSent)
	assert.False(t, appt.Reminder1DaySent)
	assert.False(t, appt.ReminderSameDaySent)
}

func TestCompleteStampsCompletionTime(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	svc := newTestAppointmentService(now, patient)

	appt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID:     patient.ID.String(),
		ScheduledTime: now,
		Type:          "chronic",
	})
	require.NoError(t, err)

	appt, err = svc.Complete(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, appt.Status)
	require.NotNil(t, appt.CompletedAt)
	assert.Equal(t, now, *appt.CompletedAt)
}

func TestTerminalAppointmentsCannotTransition(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	svc := newTestAppointmentService(now, patient)

	appt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID:     patient.ID.String(),
		ScheduledTime: now,
		Type:          "followup",
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)

	for _, transition := range []func(context.Context, uuid.UUID) (*model.Appointment, error){
		svc.Complete, svc.Cancel, svc.MarkMissed,
	} {
		_, err := transition(context.Background(), appt.ID)
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	}
}
