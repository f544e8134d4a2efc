package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/laguna/integration/internal/domain/integration"
)

// ServiceName identifies this gateway in connection status reports
const ServiceName = "SendGrid"

const defaultHost = "https://api.sendgrid.com"

// Config holds SendGrid notification settings
type Config struct {
	Enabled       bool
	APIKey        string
	FromEmail     string
	FromName      string
	ToEmails      []string
	SubjectPrefix string
	// Host overrides the SendGrid API host, used in tests
	Host string
}

// Validate checks required settings when notifications are enabled
func (c *Config) Validate() error {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if !c.Enabled {
		return nil
	}
	if c.APIKey == "" {
		return errors.New("notify: API key is required")
	}
	if c.FromEmail == "" {
		return errors.New("notify: from email is required")
	}
	if len(c.ToEmails) == 0 {
		return errors.New("notify: at least one recipient is required")
	}
	return nil
}

// Mailer implements Notifier on top of the SendGrid v3 mail API.
// When disabled it logs and reports success without sending anything.
type Mailer struct {
	config *Config
	logger *zap.Logger
	now    func() time.Time
}

// NewMailer creates a new SendGrid-backed notifier
func NewMailer(config *Config, logger *zap.Logger) (*Mailer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Mailer{
		config: config,
		logger: logger.Named("notify"),
		now:    time.Now,
	}, nil
}

// SendOrderNotification emails an order processing update
func (m *Mailer) SendOrderNotification(ctx context.Context, orderID, status string, details []integration.Detail) error {
	if !m.config.Enabled {
		m.logger.Info("Email notifications disabled, skipping order notification")
		return nil
	}

	subject := fmt.Sprintf("%sOrder %s - %s", m.config.SubjectPrefix, orderID, status)
	content, err := renderOrderNotification(orderID, status, details, m.now())
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrNotificationFailed, err)
	}
	return m.send(ctx, subject, content)
}

// SendErrorNotification emails an error alert with context rows
func (m *Mailer) SendErrorNotification(ctx context.Context, message string, errCtx map[string]string) error {
	if !m.config.Enabled {
		m.logger.Info("Email notifications disabled, skipping error notification")
		return nil
	}

	subject := m.config.SubjectPrefix + "Integration Error"
	content, err := renderErrorNotification(message, errCtx, m.now())
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrNotificationFailed, err)
	}
	return m.send(ctx, subject, content)
}

// SendConnectionAlert emails a service connectivity change
func (m *Mailer) SendConnectionAlert(ctx context.Context, service string, healthy bool, details map[string]string) error {
	if !m.config.Enabled {
		m.logger.Info("Email notifications disabled, skipping connection alert")
		return nil
	}

	statusText := "Connection Failed"
	if healthy {
		statusText = "Connected"
	}
	subject := fmt.Sprintf("%s%s - %s", m.config.SubjectPrefix, service, statusText)
	content, err := renderConnectionAlert(service, healthy, details, m.now())
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrNotificationFailed, err)
	}
	return m.send(ctx, subject, content)
}

// SendDailySummary emails the day's processing statistics
func (m *Mailer) SendDailySummary(ctx context.Context, summary integration.DailySummary) error {
	if !m.config.Enabled {
		m.logger.Info("Email notifications disabled, skipping daily summary")
		return nil
	}

	subject := m.config.SubjectPrefix + "Daily Integration Summary - " + summary.Date.Format("2006-01-02")
	content, err := renderDailySummary(summary)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrNotificationFailed, err)
	}
	return m.send(ctx, subject, content)
}

// TestConnection checks API key validity against the api_keys endpoint
func (m *Mailer) TestConnection(ctx context.Context) integration.ConnectionStatus {
	result := integration.ConnectionStatus{Service: ServiceName}

	if !m.config.Enabled {
		// Disabled notifications are not a health problem
		result.Healthy = true
		return result
	}

	request := sendgrid.GetRequest(m.config.APIKey, "/v3/api_keys", m.config.Host)
	request.Method = "GET"

	start := time.Now()
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	result.ResponseTime = time.Since(start)

	switch {
	case err != nil:
		result.Error = err.Error()
	case response.StatusCode >= 400:
		result.StatusCode = response.StatusCode
		result.Error = "HTTP " + strconv.Itoa(response.StatusCode)
	default:
		result.StatusCode = response.StatusCode
		result.Healthy = true
	}

	if !result.Healthy {
		m.logger.Error("Connection test failed",
			zap.Int("status", result.StatusCode),
			zap.String("error", result.Error),
		)
	}
	return result
}

// send builds and posts a v3 mail send request
func (m *Mailer) send(ctx context.Context, subject, htmlContent string) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(m.config.FromName, m.config.FromEmail))
	message.Subject = subject

	personalization := mail.NewPersonalization()
	for _, recipient := range m.config.ToEmails {
		personalization.AddTos(mail.NewEmail("", strings.TrimSpace(recipient)))
	}
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/html", htmlContent))

	request := sendgrid.GetRequest(m.config.APIKey, "/v3/mail/send", m.config.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		m.logger.Error("Failed to send email",
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", integration.ErrNotificationFailed, err)
	}
	if response.StatusCode >= 400 {
		m.logger.Error("Failed to send email",
			zap.String("subject", subject),
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body),
		)
		return fmt.Errorf("%w: HTTP %d", integration.ErrNotificationFailed, response.StatusCode)
	}

	m.logger.Info("Email sent",
		zap.String("subject", subject),
		zap.Strings("recipients", m.config.ToEmails),
		zap.Int("status", response.StatusCode),
	)
	return nil
}

// Ensure Mailer implements Notifier interface
var _ integration.Notifier = (*Mailer)(nil)
