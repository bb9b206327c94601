package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/internal/stock"
	apperrors "github.com/ruralcare/health-api/pkg/errors"
	"github.com/ruralcare/health-api/pkg/geo"
	"github.com/ruralcare/health-api/pkg/logger"
)

const (
	clinicCacheKey = "active_clinics"
	clinicCacheTTL = 30 * time.Second
)

type ClinicService struct {
	clinics  repository.ClinicRepository
	users    repository.UserRepository
	notifier *NotificationService
	cache    *gocache.Cache
	logger   *logger.Logger
}

func NewClinicService(
	clinics repository.ClinicRepository,
	users repository.UserRepository,
	notifier *NotificationService,
	logger *logger.Logger,
) *ClinicService {
	return &ClinicService{
		clinics:  clinics,
		users:    users,
		notifier: notifier,
		cache:    gocache.New(clinicCacheTTL, 2*clinicCacheTTL),
		logger:   logger,
	}
}

func (s *ClinicService) Create(ctx context.Context, req *model.CreateClinicRequest) (*model.Clinic, error) {
	clinic := &model.Clinic{
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		HasAmbulance: req.HasAmbulance,
		IsActive:     true,
	}
	if req.OperatingHours != "" {
		clinic.OperatingHours = &req.OperatingHours
	}

	if err := s.clinics.Create(ctx, clinic); err != nil {
		return nil, err
	}
	s.cache.Delete(clinicCacheKey)
	return clinic, nil
}

func (s *ClinicService) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return s.clinics.Get(ctx, id)
}

func (s *ClinicService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.clinics.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		clinic.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Latitude != nil {
		clinic.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		clinic.Longitude = *req.Longitude
	}
	if req.OperatingHours != nil {
		clinic.OperatingHours = req.OperatingHours
	}
	if req.HasAmbulance != nil {
		clinic.HasAmbulance = *req.HasAmbulance
	}
	if req.IsActive != nil {
		clinic.IsActive = *req.IsActive
	}

	if err := s.clinics.Update(ctx, clinic); err != nil {
		return nil, err
	}
	s.cache.Delete(clinicCacheKey)
	return clinic, nil
}

func (s *ClinicService) List(ctx context.Context, activeOnly bool) ([]*model.Clinic, error) {
	return s.clinics.List(ctx, activeOnly)
}

// AddStockItem appends a medication to the clinic's stock list. Names are
// unique per clinic, compared case-insensitively.
func (s *ClinicService) AddStockItem(ctx context.Context, clinicID uuid.UUID, req *model.AddStockItemRequest) (*model.Clinic, error) {
	clinic, err := s.clinics.Get(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	items, err := stock.Add(clinic.Stock, req.Name, req.Category, req.Quantity, req.LowThreshold, req.InStock)
	if errors.Is(err, stock.ErrDuplicateItem) {
		return nil, apperrors.Conflict(fmt.Sprintf("%s is already stocked at this clinic", req.Name), err)
	}
	if err != nil {
		return nil, err
	}

	clinic.Stock = items
	if err := s.clinics.UpdateStock(ctx, clinicID, clinic.Stock); err != nil {
		return nil, err
	}
	s.cache.Delete(clinicCacheKey)
	return clinic, nil
}

// SetAvailability flips an item's in-stock flag without touching its quantity.
func (s *ClinicService) SetAvailability(ctx context.Context, clinicID uuid.UUID, req *model.SetAvailabilityRequest) (*model.Clinic, error) {
	clinic, err := s.clinics.Get(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	if _, err := stock.SetAvailability(clinic.Stock, req.Name, req.InStock); err != nil {
		return nil, apperrors.NotFound("stock item", err)
	}

	if err := s.clinics.UpdateStock(ctx, clinicID, clinic.Stock); err != nil {
		return nil, err
	}
	s.cache.Delete(clinicCacheKey)
	return clinic, nil
}

// Dispense records stock leaving the clinic and alerts administrators when the
// item runs low or runs out. Alert failures never fail the dispense.
func (s *ClinicService) Dispense(ctx context.Context, clinicID uuid.UUID, req *model.DispenseRequest) (*stock.DispenseResult, error) {
	clinic, err := s.clinics.Get(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	result, err := stock.Dispense(clinic.Stock, req.Name, req.Amount)
	if errors.Is(err, stock.ErrItemNotFound) {
		return nil, apperrors.NotFound("stock item", err)
	}
	if err != nil {
		return nil, err
	}

	if err := s.clinics.UpdateStock(ctx, clinicID, clinic.Stock); err != nil {
		return nil, err
	}
	s.cache.Delete(clinicCacheKey)

	if result.OutOfStock {
		s.alertAdmins(ctx, clinic, result.Item, "out of stock")
	} else if result.IsLow {
		s.alertAdmins(ctx, clinic, result.Item, "running low")
	}

	return &result, nil
}

func (s *ClinicService) alertAdmins(ctx context.Context, clinic *model.Clinic, item model.StockItem, condition string) {
	admins, err := s.users.ListByRole(ctx, model.RoleSystemAdmin)
	if err != nil {
		s.logger.Error(err, "Failed to load admins for stock alert", "clinic_id", clinic.ID.String())
		return
	}

	subject := fmt.Sprintf("Stock alert: %s %s at %s", item.Name, condition, clinic.Name)
	body := fmt.Sprintf(
		"Medication %s is %s at %s.\n\nRemaining quantity: %d\nLow threshold: %d\n",
		item.Name, condition, clinic.Name, item.Quantity, item.LowThreshold)

	for _, admin := range admins {
		if err := s.notifier.SendEmail(ctx, admin.Email, subject, body); err != nil {
			s.logger.Error(err, "Failed to send stock alert",
				"clinic_id", clinic.ID.String(),
				"medication", item.Name)
		}
	}
}

// FindMedication searches active clinics for in-stock medications whose name
// or category contains the query. When the caller supplies coordinates,
// results carry the haversine distance, sort nearest first and can be capped
// by radiusKm (0 means unbounded); otherwise ordering falls back to clinic
// name. The clinic list is cached briefly since this is the hottest read path.
func (s *ClinicService) FindMedication(ctx context.Context, query string, lat, lon *float64, radiusKm float64) ([]*model.MedicationSearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, apperrors.BadRequest("medication name is required", nil)
	}
	if radiusKm > 0 && (lat == nil || lon == nil) {
		return nil, apperrors.BadRequest("radius filter requires caller coordinates", nil)
	}

	clinics, err := s.activeClinics(ctx)
	if err != nil {
		return nil, err
	}

	var results []*model.MedicationSearchResult
	for _, clinic := range clinics {
		var matched []string
		for _, item := range clinic.Stock {
			if item.InStock && item.Quantity > 0 &&
				(strings.Contains(strings.ToLower(item.Name), query) ||
					strings.Contains(strings.ToLower(item.Category), query)) {
				matched = append(matched, item.Name)
			}
		}
		if len(matched) == 0 {
			continue
		}

		result := &model.MedicationSearchResult{Clinic: clinic, Matched: matched}
		if lat != nil && lon != nil {
			d := geo.DistanceKm(*lat, *lon, clinic.Latitude, clinic.Longitude)
			if radiusKm > 0 && d > radiusKm {
				continue
			}
			result.DistanceKm = &d
			result.HasDistance = true
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].HasDistance && results[j].HasDistance {
			return *results[i].DistanceKm < *results[j].DistanceKm
		}
		return results[i].Clinic.Name < results[j].Clinic.Name
	})

	return results, nil
}

func (s *ClinicService) activeClinics(ctx context.Context) ([]*model.Clinic, error) {
	if cached, ok := s.cache.Get(clinicCacheKey); ok {
		return cached.([]*model.Clinic), nil
	}

	clinics, err := s.clinics.List(ctx, true)
	if err != nil {
		return nil, err
	}
	s.cache.Set(clinicCacheKey, clinics, gocache.DefaultExpiration)
	return clinics, nil
}
