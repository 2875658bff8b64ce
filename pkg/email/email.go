package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned when no SMTP host or sender is set.
var ErrNotConfigured = errors.New("email is not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   func(m *mail.Msg) error
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	s := &EmailService{config: config}
	s.send = s.dialAndSend
	return s
}

// Enabled reports whether a host and sender address are configured.
func (s *EmailService) Enabled() bool {
	return s != nil && s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// ReservationConfirmation is the content of a guest confirmation email.
type ReservationConfirmation struct {
	To             string
	GuestName      string
	ReservationNo  string
	PropertyName   string
	PropertyAddr   string
	RoomType       string
	CheckIn        string
	CheckOut       string
	ChargeableDays int
	GuestCount     int
}

// SendReservationConfirmation mails a booking summary to the guest.
func (s *EmailService) SendReservationConfirmation(c ReservationConfirmation) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(c.To) == "" {
		return errors.New("recipient address is required")
	}

	htmlContent, err := renderConfirmation(c)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.config.FromName, s.config.FromEmail); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(c.To); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(fmt.Sprintf("Reservation %s confirmed - %s", c.ReservationNo, c.PropertyName))
	m.SetBodyString(mail.TypeTextHTML, htmlContent)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// dialAndSend opens one SMTP session per message.
func (s *EmailService) dialAndSend(m *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.config.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.SMTPUsername),
			mail.WithPassword(s.config.SMTPPassword),
		)
	}
	client, err := mail.NewClient(s.config.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client for %s:%d: %w", s.config.SMTPHost, s.config.SMTPPort, err)
	}
	return client.DialAndSend(m)
}

var confirmationTmpl = template.Must(template.New("reservation_confirmation").Parse(confirmationTemplate))

func renderConfirmation(c ReservationConfirmation) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const confirmationTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Reservation {{.ReservationNo}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px; border-collapse: collapse;">
        <tr>
            <td style="background-color: #1f4e79; padding: 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 24px;">{{.PropertyName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px; color: #4a5568; font-size: 16px; line-height: 1.6;">
                <p style="margin: 0 0 20px 0;">Dear {{.GuestName}},</p>
                <p style="margin: 0 0 20px 0;">Your reservation <strong>{{.ReservationNo}}</strong> is confirmed.</p>
                <table role="presentation" style="width: 100%; border-collapse: collapse; font-size: 15px;">
                    <tr><td style="padding: 6px 0;">Room type</td><td style="padding: 6px 0;"><strong>{{.RoomType}}</strong></td></tr>
                    <tr><td style="padding: 6px 0;">Check-in</td><td style="padding: 6px 0;"><strong>{{.CheckIn}}</strong></td></tr>
                    <tr><td style="padding: 6px 0;">Check-out</td><td style="padding: 6px 0;"><strong>{{.CheckOut}}</strong></td></tr>
                    <tr><td style="padding: 6px 0;">Days</td><td style="padding: 6px 0;"><strong>{{.ChargeableDays}}</strong></td></tr>
                    <tr><td style="padding: 6px 0;">Guests</td><td style="padding: 6px 0;"><strong>{{.GuestCount}}</strong></td></tr>
                </table>
                {{if .PropertyAddr}}<p style="margin: 20px 0 0 0; color: #718096; font-size: 14px;">{{.PropertyAddr}}</p>{{end}}
            </td>
        </tr>
    </table>
</body>
</html>
`
