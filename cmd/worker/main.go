package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruralcare/health-api/config"
	"github.com/ruralcare/health-api/internal/email"
	"github.com/ruralcare/health-api/internal/reminder"
	"github.com/ruralcare/health-api/internal/repository/postgres"
	"github.com/ruralcare/health-api/internal/service"
	"github.com/ruralcare/health-api/pkg/clock"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/metrics"
)

// The worker runs the appointment reminder sweep on its own schedule,
// separate from the API process so reminder load never delays requests.
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

	m := metrics.NewMetrics("ruralcare", "worker")

	base := postgres.NewBaseRepository(db)
	sender := email.NewSMTPSender(cfg.SMTP)
	notifications := service.NewNotificationService(sender, log, m)

	worker := reminder.NewWorker(
		postgres.NewAppointmentRepository(base),
		postgres.NewPatientRepository(base),
		postgres.NewClinicRepository(base),
		notifications,
		clock.System(),
		reminder.WorkerConfig{PollInterval: cfg.Reminder.PollInterval},
		log,
		m,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	worker.Start(ctx)
}
