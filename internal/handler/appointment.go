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

type AppointmentHandler struct {
	appointments *service.AppointmentService
}

func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleHealthWorker, model.RoleClinicAdmin, model.RoleSystemAdmin)
	anyUser := middleware.RequireRole(
		model.RolePatient, model.RoleCaregiver,
		model.RoleHealthWorker, model.RoleClinicAdmin, model.RoleSystemAdmin)

	appts := r.Group("/appointments")
	appts.POST("", staff, h.Create)
	appts.GET("", anyUser, h.List)
	appts.GET("/:id", anyUser, h.Get)
	appts.POST("/:id/complete", staff, h.Complete)
	appts.POST("/:id/cancel", anyUser, h.Cancel)
	appts.POST("/:id/miss", staff, h.MarkMissed)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	appt, err := h.appointments.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, appt)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid appointment id", err))
		return
	}

	appt, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, appt)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}

	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, errors.BadRequest("invalid patient id", err))
			return
		}
		filters.PatientID = id
	}
	if raw := c.Query("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, errors.BadRequest("invalid clinic id", err))
			return
		}
		filters.ClinicID = id
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

	appts, err := h.appointments.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, appts)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.appointments.Complete)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.appointments.Cancel)
}

func (h *AppointmentHandler) MarkMissed(c *gin.Context) {
	h.transition(c, h.appointments.MarkMissed)
}

func (h *AppointmentHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid appointment id", err))
		return
	}

	appt, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, appt)
}
