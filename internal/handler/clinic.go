package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/middleware"
	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/service"
	"github.com/ruralcare/health-api/pkg/errors"
)

type ClinicHandler struct {
	clinics *service.ClinicService
}

func NewClinicHandler(clinics *service.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinics: clinics}
}

func (h *ClinicHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireRole(model.RoleClinicAdmin, model.RoleSystemAdmin)
	staff := middleware.RequireRole(model.RoleHealthWorker, model.RoleClinicAdmin, model.RoleSystemAdmin)

	clinics := r.Group("/clinics")
	clinics.GET("", h.List)
	clinics.GET("/:id", h.Get)
	clinics.POST("", middleware.RequireRole(model.RoleSystemAdmin), h.Create)
	clinics.PUT("/:id", admin, h.Update)

	clinics.POST("/:id/stock", admin, h.AddStockItem)
	clinics.PUT("/:id/stock/availability", admin, h.SetAvailability)
	clinics.POST("/:id/stock/dispense", staff, h.Dispense)
}

// RegisterPublicRoutes exposes the medication search without authentication so
// patients can find stock before travelling.
func (h *ClinicHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/find-medication", h.FindMedication)
}

func (h *ClinicHandler) Create(c *gin.Context) {
	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	clinic, err := h.clinics.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, clinic)
}

func (h *ClinicHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid clinic id", err))
		return
	}

	clinic, err := h.clinics.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, clinic)
}

func (h *ClinicHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid clinic id", err))
		return
	}

	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	clinic, err := h.clinics.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, clinic)
}

func (h *ClinicHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	clinics, err := h.clinics.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, clinics)
}

func (h *ClinicHandler) AddStockItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid clinic id", err))
		return
	}

	var req model.AddStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	clinic, err := h.clinics.AddStockItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, clinic.Stock)
}

func (h *ClinicHandler) SetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid clinic id", err))
		return
	}

	var req model.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	clinic, err := h.clinics.SetAvailability(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, clinic.Stock)
}

func (h *ClinicHandler) Dispense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid clinic id", err))
		return
	}

	var req model.DispenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.clinics.Dispense(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"item":         result.Item,
		"is_low":       result.IsLow,
		"out_of_stock": result.OutOfStock,
	})
}

func (h *ClinicHandler) FindMedication(c *gin.Context) {
	var lat, lon *float64
	if raw := c.Query("lat"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, errors.BadRequest("invalid latitude", err))
			return
		}
		lat = &v
	}
	if raw := c.Query("lon"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, errors.BadRequest("invalid longitude", err))
			return
		}
		lon = &v
	}

	var radiusKm float64
	if raw := c.Query("radius_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(c, errors.BadRequest("invalid radius", err))
			return
		}
		radiusKm = v
	}

	results, err := h.clinics.FindMedication(c.Request.Context(), c.Query("name"), lat, lon, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, results)
}
