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

type fakeMedicationRepo struct {
	medications map[uuid.UUID]*model.Medication
	logs        []*model.MedicationLog
}

func newFakeMedicationRepo(medications ...*model.Medication) *fakeMedicationRepo {
	repo := &fakeMedicationRepo{medications: make(map[uuid.UUID]*model.Medication)}
	for _, m := range medications {
		repo.medications[m.ID] = m
	}
	return repo
}

func (f *fakeMedicationRepo) Create(ctx context.Context, m *model.Medication) error {
	m.ID = uuid.New()
	f.medications[m.ID] = m
	return nil
}

func (f *fakeMedicationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	m, ok := f.medications[id]
	if !ok {
		return nil, apperrors.NotFound("medication", nil)
	}
	return m, nil
}

func (f *fakeMedicationRepo) Update(ctx context.Context, m *model.Medication) error {
	f.medications[m.ID] = m
	return nil
}

func (f *fakeMedicationRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Medication, error) {
	var out []*model.Medication
	for _, m := range f.medications {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMedicationRepo) CreateLog(ctx context.Context, log *model.MedicationLog) error {
	log.ID = uuid.New()
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeMedicationRepo) ListLogs(ctx context.Context, filters *model.MedicationLogFilters) ([]*model.MedicationLog, error) {
	var out []*model.MedicationLog
	for _, l := range f.logs {
		if filters.PatientID != uuid.Nil && l.PatientID != filters.PatientID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type stubPatientRepo struct {
	patient *model.Patient
}

func (s *stubPatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (s *stubPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if s.patient == nil {
		return nil, apperrors.NotFound("patient", nil)
	}
	return s.patient, nil
}
func (s *stubPatientRepo) GetByIDNumber(ctx context.Context, idNumber string) (*model.Patient, error) {
	return nil, apperrors.NotFound("patient", nil)
}
func (s *stubPatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (s *stubPatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (s *stubPatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

func TestLogDoseStampsTakenTime(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	medication := &model.Medication{Base: model.Base{ID: uuid.New()}, PatientID: patient.ID}

	repo := newFakeMedicationRepo(medication)
	svc := NewMedicationService(repo, &stubPatientRepo{patient: patient}, clock.Fixed(now))

	log, err := svc.LogDose(context.Background(), medication.ID, nil, &model.LogDoseRequest{
		ScheduledTime: now.Add(-time.Hour),
		WasTaken:      true,
	})
	require.NoError(t, err)
	require.NotNil(t, log.TakenTime)
	assert.Equal(t, now, *log.TakenTime)
}

func TestLogDoseMissedClearsTakenTime(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	medication := &model.Medication{Base: model.Base{ID: uuid.New()}, PatientID: patient.ID}

	repo := newFakeMedicationRepo(medication)
	svc := NewMedicationService(repo, &stubPatientRepo{patient: patient}, clock.Fixed(now))

	taken := now.Add(-time.Hour)
	log, err := svc.LogDose(context.Background(), medication.ID, nil, &model.LogDoseRequest{
		ScheduledTime: now.Add(-2 * time.Hour),
		TakenTime:     &taken,
		WasTaken:      false,
	})
	require.NoError(t, err)
	assert.Nil(t, log.TakenTime)
}

func TestAdherenceSummary(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	medication := &model.Medication{Base: model.Base{ID: uuid.New()}, PatientID: patient.ID}

	repo := newFakeMedicationRepo(medication)
	svc := NewMedicationService(repo, &stubPatientRepo{patient: patient}, clock.Fixed(now))

	for i, taken := range []bool{true, true, false, true} {
		_, err := svc.LogDose(context.Background(), medication.ID, nil, &model.LogDoseRequest{
			ScheduledTime: now.AddDate(0, 0, -i),
			WasTaken:      taken,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Adherence(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, summary.RatePercent)
	assert.Len(t, summary.PerDay, 7)
}

func TestCreateMedicationRejectsInvertedDates(t *testing.T) {
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}}
	svc := NewMedicationService(newFakeMedicationRepo(), &stubPatientRepo{patient: patient}, clock.System())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err := svc.Create(context.Background(), &model.CreateMedicationRequest{
		PatientID: patient.ID.String(),
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: "daily",
		StartDate: start,
		EndDate:   &end,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}
