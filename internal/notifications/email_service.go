package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"skybook/internal/shared/config"
	"skybook/pkg/logger"
)

var ErrNoRecipient = errors.New("booking event has no recipient email")

// Mailer turns a booking event into an email
type Mailer interface {
	Send(ctx context.Context, event *BookingEvent) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func SMTPConfigFrom(cfg config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	}
}

var bookingTemplate = template.Must(template.New("booking").Funcs(template.FuncMap{
	"money": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"when":  func(t time.Time) string { return t.UTC().Format("Mon, 02 Jan 2006 15:04 MST") },
}).Parse(`{{define "html"}}<h2>{{if eq .Type "booking.cancelled"}}Booking Cancelled{{else}}Booking Confirmed{{end}}</h2>
<p>Hi {{.PassengerName}},</p>
<p>Flight <strong>{{.FlightNumber}}</strong> from {{.Origin}} to {{.Destination}}, departing {{when .DepartureTime}}.</p>
<p>Reference: <strong>{{.BookingReference}}</strong></p>
{{if .SeatNumber}}<p>Seat: {{.SeatNumber}}</p>{{end}}
<p>Total: ${{money .TotalAmount}}</p>
<p>SkyBook</p>{{end}}
{{define "text"}}Hi {{.PassengerName}},

Flight {{.FlightNumber}} from {{.Origin}} to {{.Destination}}, departing {{when .DepartureTime}}.
Reference: {{.BookingReference}}
Total: ${{money .TotalAmount}}

SkyBook{{end}}`))

// SMTPMailer delivers booking emails over SMTP with STARTTLS when offered
type SMTPMailer struct {
	config SMTPConfig
	log    *logger.Logger
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}
	return &SMTPMailer{config: cfg, log: logger.GetDefault().WithComponent("mailer")}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, event *BookingEvent) error {
	if event.RecipientEmail == "" {
		return ErrNoRecipient
	}

	message, err := m.buildMessage(event)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if m.config.Username != "" {
		auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(event.RecipientEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	m.log.InfoContext(ctx, "booking email sent",
		slog.String("booking_id", event.BookingID),
		slog.String("type", string(event.Type)),
	)
	return client.Quit()
}

func (m *SMTPMailer) buildMessage(event *BookingEvent) ([]byte, error) {
	htmlBody, textBody, err := RenderBookingEmail(event)
	if err != nil {
		return nil, err
	}

	boundary := "skybook_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.config.FromName, m.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", event.RecipientEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", event.Subject())
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String()), nil
}

// RenderBookingEmail renders the html and plain-text bodies for an event
func RenderBookingEmail(event *BookingEvent) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := bookingTemplate.ExecuteTemplate(&htmlBuf, "html", event); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := bookingTemplate.ExecuteTemplate(&textBuf, "text", event); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// LogMailer only logs; used when SMTP is not configured
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(l *logger.Logger) *LogMailer {
	return &LogMailer{log: l}
}

func (m *LogMailer) Send(ctx context.Context, event *BookingEvent) error {
	m.log.InfoContext(ctx, "booking email skipped, SMTP not configured",
		slog.String("booking_id", event.BookingID),
		slog.String("type", string(event.Type)),
		slog.String("subject", event.Subject()),
	)
	return nil
}
