package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/repository"
	"github.com/ruralcare/health-api/pkg/clock"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/metrics"
)

// Notifier dispatches reminders. Both channels are best-effort; any error
// means "not sent" and the milestone stays eligible for the next sweep.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, phoneNumber, message, language string) error
}

type WorkerConfig struct {
	PollInterval time.Duration
}

// Worker is the periodic sweep that sends due appointment reminders. One
// iteration runs at a time; cancellation is only observed between sweeps.
type Worker struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	clinics      repository.ClinicRepository
	notifier     Notifier
	clock        clock.Clock
	config       WorkerConfig
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewWorker(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	clinics repository.ClinicRepository,
	notifier Notifier,
	clk clock.Clock,
	config WorkerConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Worker {
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}

	return &Worker{
		appointments: appointments,
		patients:     patients,
		clinics:      clinics,
		notifier:     notifier,
		clock:        clk,
		config:       config,
		logger:       logger,
		metrics:      metrics,
	}
}

func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.logger.Info("Starting reminder worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down reminder worker")
			return
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				w.logger.Error(err, "Reminder sweep failed")
			}
		}
	}
}

// Sweep runs one reminder iteration: enumerate upcoming scheduled
// appointments, dispatch any due milestone, and latch the flag only after a
// successful dispatch so failures retry on the next sweep.
func (w *Worker) Sweep(ctx context.Context) error {
	timer := prometheus.NewTimer(w.metrics.ReminderSweepLatency)
	defer timer.ObserveDuration()

	today := w.clock.Now()
	appts, err := w.appointments.ListUpcomingScheduled(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list upcoming appointments: %w", err)
	}

	for _, appt := range appts {
		milestone := ShouldSend(appt, today)
		if milestone == None {
			continue
		}

		if err := w.remind(ctx, appt, milestone); err != nil {
			w.metrics.RemindersFailed.WithLabelValues(milestone.String()).Inc()
			w.logger.Error(err, "Failed to send reminder",
				"appointment_id", appt.ID.String(),
				"milestone", milestone.String())
			continue
		}

		MarkSent(appt, milestone)
		if err := w.appointments.Update(ctx, appt); err != nil {
			// The flag was not persisted; the next sweep re-sends. Accepted
			// over losing the reminder entirely.
			w.logger.Error(err, "Failed to persist reminder flag",
				"appointment_id", appt.ID.String(),
				"milestone", milestone.String())
			continue
		}

		w.metrics.RemindersSent.WithLabelValues(milestone.String()).Inc()
		w.logger.Info("Sent appointment reminder",
			"appointment_id", appt.ID.String(),
			"milestone", milestone.String())
	}

	return nil
}

func (w *Worker) remind(ctx context.Context, appt *model.Appointment, milestone Milestone) error {
	patient, err := w.patients.Get(ctx, appt.PatientID)
	if err != nil {
		return fmt.Errorf("failed to load patient: %w", err)
	}

	clinicName := "Not specified"
	if appt.ClinicID != nil {
		if clinic, err := w.clinics.Get(ctx, *appt.ClinicID); err == nil {
			clinicName = clinic.Name
		}
	}

	body := reminderBody(patient, appt, clinicName, milestone)

	if patient.PhoneNumber != "" {
		sms := fmt.Sprintf("Reminder: %s appointment on %s at %s. %s",
			strings.ReplaceAll(string(appt.Type), "_", " "),
			appt.ScheduledTime.Format("Mon 02 Jan"),
			appt.ScheduledTime.Format("15:04"),
			clinicName)
		if err := w.notifier.SendSMS(ctx, patient.PhoneNumber, sms, patient.PreferredLanguage); err != nil {
			return err
		}
	}

	if patient.Email != nil && *patient.Email != "" {
		if err := w.notifier.SendEmail(ctx, *patient.Email, milestone.Subject(), body); err != nil {
			return err
		}
	}

	return nil
}

func reminderBody(patient *model.Patient, appt *model.Appointment, clinicName string, milestone Milestone) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", patient.FullName())
	b.WriteString("This is a reminder about your upcoming appointment:\n\n")
	fmt.Fprintf(&b, "Date: %s\n", appt.ScheduledTime.Format("Monday, January 02, 2006"))
	fmt.Fprintf(&b, "Time: %s\n", appt.ScheduledTime.Format("15:04"))
	fmt.Fprintf(&b, "Type: %s\n", strings.ReplaceAll(string(appt.Type), "_", " "))
	fmt.Fprintf(&b, "Clinic: %s\n\n", clinicName)

	if milestone == SameDay {
		b.WriteString("Your appointment is TODAY!\n")
	} else {
		fmt.Fprintf(&b, "Your appointment is in %d day(s).\n", milestone.DaysBefore())
	}

	if appt.Notes != nil && *appt.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", *appt.Notes)
	}

	b.WriteString("\nPlease arrive 10 minutes early.\n")
	b.WriteString("If you need to reschedule, please contact us as soon as possible.\n")

	return b.String()
}
