package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	plainvalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruralcare/health-api/config"
	"github.com/ruralcare/health-api/internal/handler"
	"github.com/ruralcare/health-api/internal/middleware"
	"github.com/ruralcare/health-api/pkg/auth"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/metrics"
	"github.com/ruralcare/health-api/pkg/validator"
)

type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Patient     *handler.PatientHandler
	Clinic      *handler.ClinicHandler
	Medication  *handler.MedicationHandler
	Appointment *handler.AppointmentHandler
	Emergency   *handler.EmergencyHandler
	Report      *handler.ReportHandler
}

// New assembles the HTTP surface: the public group (health, login, medication
// search, emergency intake) and the authenticated /api/v1 group.
func New(cfg *config.Config, log *logger.Logger, jwtService auth.JWTService, m *metrics.Metrics, h Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if v, ok := binding.Validator.Engine().(*plainvalidator.Validate); ok {
		if err := validator.RegisterRules(v); err != nil {
			log.Fatal(err, "Failed to register validation rules")
		}
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Metrics(m),
		middleware.CORS(),
		middleware.RateLimit(cfg.RateLimit),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := engine.Group("")
	h.Health.RegisterRoutes(public)
	h.Auth.RegisterRoutes(public)
	h.Clinic.RegisterPublicRoutes(public)
	h.Emergency.RegisterPublicRoutes(public)

	api := engine.Group("/api/v1", middleware.Auth(jwtService))
	h.User.RegisterRoutes(api)
	h.Patient.RegisterRoutes(api)
	h.Clinic.RegisterRoutes(api)
	h.Medication.RegisterRoutes(api)
	h.Appointment.RegisterRoutes(api)
	h.Emergency.RegisterRoutes(api)
	h.Report.RegisterRoutes(api)

	return engine
}
