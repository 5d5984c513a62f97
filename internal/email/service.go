package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type Service interface {
	SendWelcome(ctx context.Context, email string, name string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// SMTPService delivers mail through a plain SMTP relay.
type SMTPService struct {
	dialer *gomail.Dialer
	from   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPService(cfg SMTPConfig) *SMTPService {
	return &SMTPService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPService) SendWelcome(ctx context.Context, email string, name string) error {
	content := fmt.Sprintf(
		"<h2>Welcome to MedNex, %s!</h2>"+
			"<p>Your account has been created. You can now check symptoms, "+
			"view predictions, and track your diagnosis history.</p>"+
			"<p>MedNex is not a substitute for professional medical advice. "+
			"Always consult a healthcare provider for serious concerns.</p>",
		name,
	)
	return s.SendCustom(ctx, email, "Welcome to MedNex", content)
}

func (s *SMTPService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
