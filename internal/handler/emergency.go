package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/middleware"
	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/service"
	"github.com/ruralcare/health-api/pkg/errors"
)

type EmergencyHandler struct {
	emergencies *service.EmergencyService
}

func NewEmergencyHandler(emergencies *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{emergencies: emergencies}
}

func (h *EmergencyHandler) RegisterRoutes(r *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleHealthWorker, model.RoleClinicAdmin, model.RoleSystemAdmin)

	calls := r.Group("/emergencies", staff)
	calls.GET("", h.List)
	calls.GET("/:id", h.Get)
	calls.POST("/:id/dispatch", h.Dispatch)
	calls.POST("/:id/arrive", h.MarkArrived)
	calls.POST("/:id/complete", h.Complete)
	calls.POST("/:id/cancel", h.Cancel)
}

// RegisterPublicRoutes exposes call intake without authentication; emergencies
// come in from anyone, including anonymous callers.
func (h *EmergencyHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/emergencies", h.Create)
}

func (h *EmergencyHandler) Create(c *gin.Context) {
	var req model.CreateEmergencyCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	call, err := h.emergencies.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, call)
}

func (h *EmergencyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid call id", err))
		return
	}

	call, err := h.emergencies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, call)
}

func (h *EmergencyHandler) List(c *gin.Context) {
	filters := &model.EmergencyFilters{
		Status: model.EmergencyStatus(c.Query("status")),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, errors.BadRequest("invalid from date", err))
			return
		}
		filters.StartDate = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, errors.BadRequest("invalid to date", err))
			return
		}
		filters.EndDate = t
	}

	calls, err := h.emergencies.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, calls)
}

func (h *EmergencyHandler) Dispatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid call id", err))
		return
	}

	var req model.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	call, err := h.emergencies.Dispatch(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, call)
}

func (h *EmergencyHandler) MarkArrived(c *gin.Context) {
	h.transition(c, h.emergencies.MarkArrived)
}

func (h *EmergencyHandler) Complete(c *gin.Context) {
	h.transition(c, h.emergencies.Complete)
}

func (h *EmergencyHandler) Cancel(c *gin.Context) {
	h.transition(c, h.emergencies.Cancel)
}

func (h *EmergencyHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*model.EmergencyCall, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid call id", err))
		return
	}

	call, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, call)
}
