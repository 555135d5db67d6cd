package mailer

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, nome string) error
	SendRegistrationComplete(toEmail, nome string) error
	SendStatusUpdate(toEmail, nome, status string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	frontendURL string
}

// NewEmailService returns a mailer that only logs when host is empty.
func NewEmailService(host string, port int, username, password, senderName, frontendURL string) IEmailService {
	var d *gomail.Dialer
	if host != "" {
		d = gomail.NewDialer(host, port, username, password)
	}

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendWelcome(toEmail, nome string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Bem-vindo(a), %s!</h2>
			<p>Seu cadastro inicial foi realizado com sucesso.</p>
			<p>Agora é só conversar com nosso assistente para completar seu perfil:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Continuar cadastro</a>
		</div>
	`, nome, s.frontendURL)

	return s.send(toEmail, "Bem-vindo ao cadastro de prestadores", body)
}

func (s *emailService) SendRegistrationComplete(toEmail, nome string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Parabéns, %s!</h2>
			<p>Você completou todas as etapas do cadastro.</p>
			<p>Nossa equipe vai analisar seus dados e documentos e avisaremos por e-mail assim que houver uma decisão.</p>
		</div>
	`, nome)

	return s.send(toEmail, "Cadastro completo", body)
}

func (s *emailService) SendStatusUpdate(toEmail, nome, status string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Olá, %s</h2>
			<p>O status do seu cadastro foi atualizado para: <strong>%s</strong>.</p>
		</div>
	`, nome, status)

	return s.send(toEmail, "Atualização do seu cadastro", body)
}

func (s *emailService) send(toEmail, subject, body string) error {
	if s.dialer == nil {
		log.Printf("[MAILER] SMTP not configured, skipping %q to %s", subject, toEmail)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, toEmail, err)
	}

	log.Printf("[MAILER] %q sent to %s", subject, toEmail)
	return nil
}
