// Package email delivers appointment confirmation mail through Resend.
package email

import (
	"context"
	"fmt"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"
)

// ResendSender implements ports.MailSender using the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResendSender creates a new ResendSender
func NewResendSender(apiKey, from string, logger *zap.Logger) ports.MailSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// SendConfirmation sends the booking confirmation for an appointment.
func (s *ResendSender) SendConfirmation(ctx context.Context, appt appointment.Appointment) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{appt.Email},
		Subject: "Appointment confirmed",
		Text:    confirmationBody(appt),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error("failed to send confirmation email",
			zap.String("appointmentID", appt.ID),
			zap.Error(err),
		)
		return appErrors.NewDependencyError("resend", err)
	}
	if sent == nil || sent.Id == "" {
		return appErrors.NewDependencyError("resend",
			fmt.Errorf("empty response from send"))
	}

	return nil
}

func confirmationBody(appt appointment.Appointment) string {
	body := fmt.Sprintf(
		"Dear %s,\n\nWe have received your appointment for %s at %s.\n",
		appt.FirstName, appt.Date, appt.TimeSlot,
	)
	if appt.Location != "" {
		body += fmt.Sprintf("\nLocation: %s\n", appt.Location)
	}
	body += fmt.Sprintf("\nYour booking reference is %s. You will be welcomed at reception.\n", appt.ID)
	return body
}
