package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralcare/health-api/internal/model"
	apperrors "github.com/ruralcare/health-api/pkg/errors"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.NewMetrics("test", "service")

type fakeClinicRepo struct {
	clinics map[uuid.UUID]*model.Clinic
}

func newFakeClinicRepo(clinics ...*model.Clinic) *fakeClinicRepo {
	repo := &fakeClinicRepo{clinics: make(map[uuid.UUID]*model.Clinic)}
	for _, c := range clinics {
		repo.clinics[c.ID] = c
	}
	return repo
}

func (f *fakeClinicRepo) Create(ctx context.Context, c *model.Clinic) error {
	c.ID = uuid.New()
	f.clinics[c.ID] = c
	return nil
}

func (f *fakeClinicRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	c, ok := f.clinics[id]
	if !ok {
		return nil, apperrors.NotFound("clinic", nil)
	}
	return c, nil
}

func (f *fakeClinicRepo) Update(ctx context.Context, c *model.Clinic) error {
	f.clinics[c.ID] = c
	return nil
}

func (f *fakeClinicRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock model.StockList) error {
	c, ok := f.clinics[id]
	if !ok {
		return apperrors.NotFound("clinic", nil)
	}
	c.Stock = stock
	return nil
}

func (f *fakeClinicRepo) List(ctx context.Context, activeOnly bool) ([]*model.Clinic, error) {
	var out []*model.Clinic
	for _, c := range f.clinics {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeUserRepo struct {
	admins []*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, apperrors.NotFound("user", nil)
}
func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error { return nil }
func (f *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return f.admins, nil
}
func (f *fakeUserRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return f.admins, nil
}

type fakeSender struct {
	sent []string
	fail bool
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, subject)
	return nil
}

func newTestClinicService(repo *fakeClinicRepo, users *fakeUserRepo, sender *fakeSender) *ClinicService {
	log := logger.NewLogger(nil)
	notifier := NewNotificationService(sender, log, testMetrics)
	return NewClinicService(repo, users, notifier, log)
}

func testClinic() *model.Clinic {
	return &model.Clinic{
		Base:     model.Base{ID: uuid.New()},
		Name:     "Hope Clinic",
		IsActive: true,
	}
}

func TestAddStockItemRejectsDuplicateName(t *testing.T) {
	clinic := testClinic()
	svc := newTestClinicService(newFakeClinicRepo(clinic), &fakeUserRepo{}, &fakeSender{})

	_, err := svc.AddStockItem(context.Background(), clinic.ID, &model.AddStockItemRequest{
		Name: "Paracetamol", Quantity: 10, LowThreshold: 2, InStock: true,
	})
	require.NoError(t, err)

	_, err = svc.AddStockItem(context.Background(), clinic.ID, &model.AddStockItemRequest{
		Name: "PARACETAMOL", Quantity: 5, InStock: true,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestDispenseReducesStockAndAlerts(t *testing.T) {
	admin := &model.User{Email: "admin@example.org", Role: model.RoleSystemAdmin}
	clinic := testClinic()
	clinic.Stock = model.StockList{
		{Name: "Paracetamol", InStock: true, Quantity: 10, LowThreshold: 2},
	}

	repo := newFakeClinicRepo(clinic)
	sender := &fakeSender{}
	svc := newTestClinicService(repo, &fakeUserRepo{admins: []*model.User{admin}}, sender)

	result, err := svc.Dispense(context.Background(), clinic.ID, &model.DispenseRequest{Name: "Paracetamol", Amount: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Item.Quantity)
	assert.True(t, result.IsLow)
	assert.False(t, result.OutOfStock)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "running low")

	result, err = svc.Dispense(context.Background(), clinic.ID, &model.DispenseRequest{Name: "Paracetamol", Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Item.Quantity)
	assert.False(t, result.Item.InStock)
	assert.False(t, result.IsLow)
	assert.True(t, result.OutOfStock)
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[1], "out of stock")

	// Persisted through the repository
	stored, err := repo.Get(context.Background(), clinic.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock[0].Quantity)
}

func TestDispenseAlertFailureDoesNotFailDispense(t *testing.T) {
	admin := &model.User{Email: "admin@example.org", Role: model.RoleSystemAdmin}
	clinic := testClinic()
	clinic.Stock = model.StockList{
		{Name: "Insulin", InStock: true, Quantity: 1, LowThreshold: 5},
	}

	sender := &fakeSender{fail: true}
	svc := newTestClinicService(newFakeClinicRepo(clinic), &fakeUserRepo{admins: []*model.User{admin}}, sender)

	result, err := svc.Dispense(context.Background(), clinic.ID, &model.DispenseRequest{Name: "Insulin", Amount: 1})
	require.NoError(t, err)
	assert.True(t, result.OutOfStock)
}

func TestFindMedicationSortsByDistance(t *testing.T) {
	near := testClinic()
	near.Name = "Near Clinic"
	near.Latitude, near.Longitude = -29.0, 29.0
	near.Stock = model.StockList{{Name: "Amoxicillin", InStock: true, Quantity: 5}}

	far := testClinic()
	far.Name = "Far Clinic"
	far.Latitude, far.Longitude = -31.0, 27.0
	far.Stock = model.StockList{{Name: "Amoxicillin 500mg", InStock: true, Quantity: 3}}

	empty := testClinic()
	empty.Name = "Empty Clinic"
	empty.Stock = model.StockList{{Name: "Amoxicillin", InStock: false, Quantity: 0}}

	svc := newTestClinicService(newFakeClinicRepo(near, far, empty), &fakeUserRepo{}, &fakeSender{})

	lat, lon := -29.1, 29.1
	results, err := svc.FindMedication(context.Background(), "amoxicillin", &lat, &lon, 0)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Near Clinic", results[0].Clinic.Name)
	assert.Equal(t, "Far Clinic", results[1].Clinic.Name)
	assert.Less(t, *results[0].DistanceKm, *results[1].DistanceKm)
}

func TestFindMedicationRadiusFilter(t *testing.T) {
	near := testClinic()
	near.Name = "Near Clinic"
	near.Latitude, near.Longitude = -29.0, 29.0
	near.Stock = model.StockList{{Name: "Paracetamol", InStock: true, Quantity: 5}}

	far := testClinic()
	far.Name = "Far Clinic"
	far.Latitude, far.Longitude = -31.0, 27.0
	far.Stock = model.StockList{{Name: "Paracetamol", InStock: true, Quantity: 3}}

	svc := newTestClinicService(newFakeClinicRepo(near, far), &fakeUserRepo{}, &fakeSender{})

	lat, lon := -29.1, 29.1
	results, err := svc.FindMedication(context.Background(), "paracetamol", &lat, &lon, 50)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Near Clinic", results[0].Clinic.Name)
}

func TestFindMedicationMatchesCategory(t *testing.T) {
	clinic := testClinic()
	clinic.Stock = model.StockList{
		{Name: "Amoxicillin", Category: "antibiotic", InStock: true, Quantity: 5},
		{Name: "Paracetamol", Category: "analgesic", InStock: true, Quantity: 5},
	}

	svc := newTestClinicService(newFakeClinicRepo(clinic), &fakeUserRepo{}, &fakeSender{})

	results, err := svc.FindMedication(context.Background(), "antibiotic", nil, nil, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, []string{"Amoxicillin"}, results[0].Matched)
}

func TestFindMedicationRequiresQuery(t *testing.T) {
	svc := newTestClinicService(newFakeClinicRepo(), &fakeUserRepo{}, &fakeSender{})

	_, err := svc.FindMedication(context.Background(), "  ", nil, nil, 0)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}
