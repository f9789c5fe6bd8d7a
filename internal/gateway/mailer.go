package gateway

import (
	"fmt"

	"medpages/pkg/utils"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendOTPEmail(email, name, code string, expiryMinutes int) error
	SendPagePublishedEmail(email, name, pageURL string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg utils.EmailConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpMailer) SendOTPEmail(email, name, code string, expiryMinutes int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Seu código de acesso")

	greeting := "Olá"
	if name != "" {
		greeting = fmt.Sprintf("Olá, %s", name)
	}

	body := fmt.Sprintf(`
		<h2>%s!</h2>
		<p>Use o código abaixo para entrar na sua conta:</p>
		<p style="font-size:28px;letter-spacing:6px;"><strong>%s</strong></p>
		<p>O código expira em %d minutos. Se você não solicitou este e-mail, ignore-o.</p>
	`, greeting, code, expiryMinutes)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send OTP email to %s: %w", email, err)
	}

	return nil
}

func (s *smtpMailer) SendPagePublishedEmail(email, name, pageURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Sua página está no ar!")

	body := fmt.Sprintf(`
		<h2>Parabéns, %s!</h2>
		<p>Sua página profissional foi publicada e já está disponível em:</p>
		<p><a href="%s">%s</a></p>
		<p>Compartilhe o endereço com seus pacientes.</p>
	`, name, pageURL, pageURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send published email to %s: %w", email, err)
	}

	return nil
}
