package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/middleware"
	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/service"
	"github.com/ruralcare/health-api/pkg/errors"
)

type PatientHandler struct {
	patients *service.PatientService
}

func NewPatientHandler(patients *service.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

func (h *PatientHandler) RegisterRoutes(r *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleHealthWorker, model.RoleClinicAdmin, model.RoleSystemAdmin)

	patients := r.Group("/patients", staff)
	patients.POST("", h.Create)
	patients.GET("", h.List)
	patients.GET("/:id", h.Get)
	patients.PUT("/:id", h.Update)
	patients.DELETE("/:id", middleware.RequireRole(model.RoleSystemAdmin), h.Delete)
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	patient, err := h.patients.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, patient)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid patient id", err))
		return
	}

	patient, err := h.patients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, patient)
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid patient id", err))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	patient, err := h.patients.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, patient)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid patient id", err))
		return
	}

	if err := h.patients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "patient deleted"})
}

// List supports a clinic filter and a free-text search over names, ID number
// and phone. Clinic admins are implicitly scoped to their own clinic.
func (h *PatientHandler) List(c *gin.Context) {
	filters := &model.PatientFilters{Search: c.Query("search")}

	if raw := c.Query("clinic_id"); raw != "" {
		clinicID, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, errors.BadRequest("invalid clinic id", err))
			return
		}
		filters.ClinicID = clinicID
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.Role == model.RoleClinicAdmin && claims.ClinicID != nil {
		filters.ClinicID = *claims.ClinicID
	}

	patients, err := h.patients.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, patients)
}
