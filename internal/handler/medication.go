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

type MedicationHandler struct {
	medications *service.MedicationService
}

func NewMedicationHandler(medications *service.MedicationService) *MedicationHandler {
	return &MedicationHandler{medications: medications}
}

func (h *MedicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleHealthWorker, model.RoleClinicAdmin, model.RoleSystemAdmin)
	anyUser := middleware.RequireRole(
		model.RolePatient, model.RoleCaregiver,
		model.RoleHealthWorker, model.RoleClinicAdmin, model.RoleSystemAdmin)

	meds := r.Group("/medications")
	meds.POST("", staff, h.Create)
	meds.GET("/:id", anyUser, h.Get)
	meds.DELETE("/:id", staff, h.Deactivate)
	meds.POST("/:id/logs", anyUser, h.LogDose)

	r.GET("/patients/:id/medications", anyUser, h.ListForPatient)
	r.GET("/patients/:id/adherence", anyUser, h.Adherence)
	r.GET("/missed-dose-alerts", staff, h.MissedDoseAlerts)
}

func (h *MedicationHandler) Create(c *gin.Context) {
	var req model.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	medication, err := h.medications.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, medication)
}

func (h *MedicationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid medication id", err))
		return
	}

	medication, err := h.medications.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, medication)
}

func (h *MedicationHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid medication id", err))
		return
	}

	if err := h.medications.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "medication deactivated"})
}

func (h *MedicationHandler) LogDose(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid medication id", err))
		return
	}

	var req model.LogDoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var recordedBy *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		recordedBy = &claims.UserID
	}

	log, err := h.medications.LogDose(c.Request.Context(), id, recordedBy, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, log)
}

func (h *MedicationHandler) ListForPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid patient id", err))
		return
	}

	medications, err := h.medications.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, medications)
}

func (h *MedicationHandler) Adherence(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.BadRequest("invalid patient id", err))
		return
	}

	summary, err := h.medications.Adherence(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

func (h *MedicationHandler) MissedDoseAlerts(c *gin.Context) {
	var clinicID uuid.UUID
	if raw := c.Query("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, errors.BadRequest("invalid clinic id", err))
			return
		}
		clinicID = id
	}

	threshold := 0
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, errors.BadRequest("invalid threshold", err))
			return
		}
		threshold = v
	}

	alerts, err := h.medications.MissedDoseAlerts(c.Request.Context(), clinicID, threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, alerts)
}
