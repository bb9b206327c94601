package service

import (
	"context"

	"github.com/ruralcare/health-api/internal/email"
	"github.com/ruralcare/health-api/pkg/logger"
	"github.com/ruralcare/health-api/pkg/metrics"
)

// NotificationService fans patient-facing messages out to the delivery
// channels. Email goes over SMTP; SMS is logged until a gateway contract is
// signed, so rural pilots can run without one.
type NotificationService struct {
	email   email.Sender
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewNotificationService(sender email.Sender, logger *logger.Logger, metrics *metrics.Metrics) *NotificationService {
	return &NotificationService{
		email:   sender,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *NotificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := s.email.Send(ctx, to, subject, body); err != nil {
		s.metrics.NotificationsFailed.WithLabelValues("email").Inc()
		return err
	}
	s.metrics.NotificationsSent.WithLabelValues("email").Inc()
	return nil
}

func (s *NotificationService) SendSMS(ctx context.Context, phoneNumber, message, language string) error {
	s.logger.Info("SMS dispatched",
		"phone_number", phoneNumber,
		"language", language,
		"message", message)
	s.metrics.NotificationsSent.WithLabelValues("sms").Inc()
	return nil
}
