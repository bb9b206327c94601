package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruralcare/health-api/config"
	"github.com/ruralcare/health-api/internal/email"
	"github.com/ruralcare/health-api/internal/handler"
	"github.com/ruralcare/health-api/internal/repository/postgres"
	"github.com/ruralcare/health-api/internal/router"
	"github.com/ruralcare/health-api/internal/service"
	"github.com/ruralcare/health-api/pkg/auth"
	"github.com/ruralcare/health-api/pkg/clock"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/messaging/redis"
	"github.com/ruralcare/health-api/pkg/metrics"
	"github.com/ruralcare/health-api/pkg/security"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "Failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &zl)
	if err != nil {
		log.Fatal(err, "Failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("ruralcare", "api")
	clk := clock.System()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	clinicRepo := postgres.NewClinicRepository(base)
	medicationRepo := postgres.NewMedicationRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	emergencyRepo := postgres.NewEmergencyRepository(base)
	reportRepo := postgres.NewReportRepository(base)
	tokenRepo := postgres.NewTokenRepository(base)

	jwtService := auth.NewJWTService(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
		cfg.JWT.Issuer,
	)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	sender := email.NewSMTPSender(cfg.SMTP)

	notifications := service.NewNotificationService(sender, log, m)
	authService := service.NewAuthService(userRepo, tokenRepo, hasher, jwtService, notifications, log)
	userService := service.NewUserService(userRepo, hasher, notifications, log)
	patientService := service.NewPatientService(patientRepo, clinicRepo)
	clinicService := service.NewClinicService(clinicRepo, userRepo, notifications, log)
	medicationService := service.NewMedicationService(medicationRepo, patientRepo, clk)
	appointmentService := service.NewAppointmentService(appointmentRepo, patientRepo, clinicRepo, clk)
	emergencyService := service.NewEmergencyService(emergencyRepo, patientRepo, broker, clk, log)
	reportService := service.NewReportService(reportRepo, medicationRepo)

	engine := router.New(cfg, log, jwtService, m, router.Handlers{
		Health:      handler.NewHealthHandler(db),
		Auth:        handler.NewAuthHandler(authService, jwtService),
		User:        handler.NewUserHandler(userService),
		Patient:     handler.NewPatientHandler(patientService),
		Clinic:      handler.NewClinicHandler(clinicService),
		Medication:  handler.NewMedicationHandler(medicationService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		Emergency:   handler.NewEmergencyHandler(emergencyService),
		Report:      handler.NewReportHandler(reportService),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Forced shutdown")
	}
}
