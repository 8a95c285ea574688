package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"tracklet-backend/internal/config"
	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
)

// MailSender is the subset of the SendGrid client used for delivery.
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridNotifier struct {
	sender    MailSender
	fromEmail string
	fromName  string
}

// NewNotifier returns a SendGrid notifier, or a log-only notifier when no
// API key is configured.
func NewNotifier(cfg config.EmailConfig) Notifier {
	if cfg.SendGridAPIKey == "" {
		return logNotifier{}
	}
	return NewSendGridNotifier(sendgrid.NewSendClient(cfg.SendGridAPIKey), cfg.FromAddress, cfg.FromName)
}

func NewSendGridNotifier(sender MailSender, fromEmail, fromName string) Notifier {
	return &sendGridNotifier{sender: sender, fromEmail: fromEmail, fromName: fromName}
}

func (n *sendGridNotifier) SendOverdueReminder(ctx context.Context, order domain.RentalOrder) error {
	toName, toEmail := reminderRecipient(order)
	if toEmail == "" {
		logger.WarnContext(ctx, "No recipient for overdue reminder", "orderID", order.ID, "reference", order.Reference)
		return nil
	}

	subject, body := overdueReminder(order)
	message := mail.NewSingleEmail(
		mail.NewEmail(n.fromName, n.fromEmail),
		subject,
		mail.NewEmail(toName, toEmail),
		body,
		"",
	)

	logger.ExternalServiceCall(ctx, "sendgrid", "SendOverdueReminder", "orderID", order.ID, "to", toEmail)
	resp, err := n.sender.SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult(ctx, "sendgrid", "SendOverdueReminder", err, "orderID", order.ID)
	if err != nil {
		return fmt.Errorf("failed to send overdue reminder for %s: %w", order.Reference, err)
	}
	return nil
}

type logNotifier struct{}

func (logNotifier) SendOverdueReminder(ctx context.Context, order domain.RentalOrder) error {
	_, to := reminderRecipient(order)
	subject, _ := overdueReminder(order)
	logger.InfoContext(ctx, "Email delivery disabled, reminder not sent",
		"orderID", order.ID, "to", to, "subject", subject)
	return nil
}

// reminderRecipient prefers the responsible owner and falls back to the
// customer.
func reminderRecipient(order domain.RentalOrder) (name, email string) {
	if r := order.ResponsibleDetail; r != nil && r.Email != "" {
		name = r.Label
		if name == "" {
			name = r.Name
		}
		return name, r.Email
	}
	if c := order.CustomerDetail; c != nil && c.Email != "" {
		return c.Name, c.Email
	}
	return "", ""
}

func overdueReminder(order domain.RentalOrder) (subject, body string) {
	subject = fmt.Sprintf("Rental %s is overdue", order.Reference)

	var b strings.Builder
	fmt.Fprintf(&b, "Rental order %s was due back on %s and has not been returned.\n",
		order.Reference, order.RentalEnd.Format("2006-01-02 15:04 MST"))
	if order.CustomerDetail != nil {
		fmt.Fprintf(&b, "Customer: %s\n", order.CustomerDetail.Name)
	}
	fmt.Fprintf(&b, "Line items: %d\n", order.LineItems)
	if preview := domain.NotesPreview(order.Notes); preview != "" {
		fmt.Fprintf(&b, "Notes: %s\n", preview)
	}
	b.WriteString("\nPlease arrange the return or extend the rental.\n\nTracklet")
	return subject, b.String()
}
