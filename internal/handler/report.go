package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ruralcare/health-api/internal/middleware"
	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/service"
	"github.com/ruralcare/health-api/pkg/errors"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireRole(model.RoleClinicAdmin, model.RoleSystemAdmin)

	reports := r.Group("/reports", admin)
	reports.GET("/summary", h.Summary)
	reports.GET("/summary.csv", h.ExportCSV)
}

func (h *ReportHandler) Summary(c *gin.Context) {
	start, end, clinicID, err := reportParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.reports.Summary(c.Request.Context(), start, end, clinicID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summary)
}

func (h *ReportHandler) ExportCSV(c *gin.Context) {
	start, end, clinicID, err := reportParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.reports.ExportCSV(c.Request.Context(), start, end, clinicID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="report.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// reportParams parses the reporting window. Defaults to the last 30 days.
func reportParams(c *gin.Context) (start, end time.Time, clinicID *uuid.UUID, err error) {
	end = time.Now()
	start = end.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return start, end, nil, errors.BadRequest("invalid from date", err)
		}
	}
	if raw := c.Query("to"); raw != "" {
		end, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return start, end, nil, errors.BadRequest("invalid to date", err)
		}
		// Inclusive end date
		end = end.AddDate(0, 0, 1)
	}
	if raw := c.Query("clinic_id"); raw != "" {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return start, end, nil, errors.BadRequest("invalid clinic id", parseErr)
		}
		clinicID = &id
	}
	return start, end, clinicID, nil
}
