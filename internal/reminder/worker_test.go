package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/pkg/clock"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.NewMetrics("test", "reminder")

type fakeAppointmentRepo struct {
	appts      []*model.Appointment
	updated    int
	failUpdate bool
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	if f.failUpdate {
		return errors.New("db unavailable")
	}
	f.updated++
	return nil
}
func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return f.appts, nil
}
func (f *fakeAppointmentRepo) ListUpcomingScheduled(ctx context.Context, from time.Time) ([]*model.Appointment, error) {
	return f.appts, nil
}

type fakePatientRepo struct {
	patient *model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return f.patient, nil
}
func (f *fakePatientRepo) GetByIDNumber(ctx context.Context, idNumber string) (*model.Patient, error) {
	return f.patient, nil
}
func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (f *fakePatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return []*model.Patient{f.patient}, nil
}

type fakeClinicRepo struct{}

func (fakeClinicRepo) Create(ctx context.Context, c *model.Clinic) error { return nil }
func (fakeClinicRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return &model.Clinic{Name: "Hope Clinic"}, nil
}
func (fakeClinicRepo) Update(ctx context.Context, c *model.Clinic) error { return nil }
func (fakeClinicRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock model.StockList) error {
	return nil
}
func (fakeClinicRepo) List(ctx context.Context, activeOnly bool) ([]*model.Clinic, error) {
	return nil, nil
}

type fakeNotifier struct {
	smsSent   int
	emailSent int
	fail      bool
}

func (f *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.emailSent++
	return nil
}

func (f *fakeNotifier) SendSMS(ctx context.Context, phone, message, language string) error {
	if f.fail {
		return errors.New("gateway down")
	}
	f.smsSent++
	return nil
}

func newTestWorker(appts *fakeAppointmentRepo, notifier *fakeNotifier, now time.Time) *Worker {
	patient := &model.Patient{
		FirstName:         "Thandi",
		LastName:          "Mokoena",
		PhoneNumber:       "+27821234567",
		PreferredLanguage: "zu",
	}
	return NewWorker(
		appts,
		&fakePatientRepo{patient: patient},
		fakeClinicRepo{},
		notifier,
		clock.Fixed(now),
		WorkerConfig{PollInterval: time.Hour},
		logger.NewLogger(nil),
		testMetrics,
	)
}

func TestSweepSendsDueReminder(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	clinicID := uuid.New()
	appt := &model.Appointment{
		Base:          model.Base{ID: uuid.New()},
		PatientID:     uuid.New(),
		ClinicID:      &clinicID,
		ScheduledTime: now.AddDate(0, 0, 1),
		Type:          model.AppointmentTypeCheckup,
		Status:        model.AppointmentStatusScheduled,
	}
	repo := &fakeAppointmentRepo{appts: []*model.Appointment{appt}}
	notifier := &fakeNotifier{}

	w := newTestWorker(repo, notifier, now)
	require.NoError(t, w.Sweep(context.Background()))

	assert.True(t, appt.Reminder1DaySent)
	assert.Equal(t, 1, notifier.smsSent)
	assert.Equal(t, 1, repo.updated)
}

func TestSweepLeavesFlagOnDispatchFailure(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	appt := &model.Appointment{
		Base:          model.Base{ID: uuid.New()},
		PatientID:     uuid.New(),
		ScheduledTime: now,
		Type:          model.AppointmentTypeChronic,
		Status:        model.AppointmentStatusScheduled,
	}
	repo := &fakeAppointmentRepo{appts: []*model.Appointment{appt}}
	notifier := &fakeNotifier{fail: true}

	w := newTestWorker(repo, notifier, now)
	require.NoError(t, w.Sweep(context.Background()))

	// Flag stays false so the next sweep retries
	assert.False(t, appt.ReminderSameDaySent)
	assert.Equal(t, 0, repo.updated)

	// Gateway recovers: next sweep sends and latches
	notifier.fail = false
	require.NoError(t, w.Sweep(context.Background()))
	assert.True(t, appt.ReminderSameDaySent)
	assert.Equal(t, 1, repo.updated)
}

func TestSweepSkipsAlreadySent(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	appt := &model.Appointment{
		Base:                model.Base{ID: uuid.New()},
		PatientID:           uuid.New(),
		ScheduledTime:       now,
		Type:                model.AppointmentTypeCheckup,
		Status:              model.AppointmentStatusScheduled,
		ReminderSameDaySent: true,
	}
	repo := &fakeAppointmentRepo{appts: []*model.Appointment{appt}}
	notifier := &fakeNotifier{}

	w := newTestWorker(repo, notifier, now)
	require.NoError(t, w.Sweep(context.Background()))

	assert.Equal(t, 0, notifier.smsSent)
	assert.Equal(t, 0, repo.updated)
}
