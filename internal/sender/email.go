package sender

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"shop-service/config"
	"shop-service/internal/service"

	gopkgmail "gopkg.in/gomail.v2"
)

//go:embed templates/*
var templatesFS embed.FS

const orderPlacedTemplate = "order_placed"

type EmailSender struct {
	from string
	send func(m *gopkgmail.Message) error

	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewEmailSender(cfg *config.Notifier) *EmailSender {
	d := gopkgmail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	d.SSL = cfg.SMTPSSL
	return newEmailSender(cfg.SMTPFrom, func(m *gopkgmail.Message) error { return d.DialAndSend(m) })
}

func newEmailSender(from string, send func(m *gopkgmail.Message) error) *EmailSender {
	return &EmailSender{
		from: from,
		send: send,
		html: htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/*.html")),
		text: texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/*.txt")),
	}
}

func (s *EmailSender) SendOrderConfirmation(e service.OrderPlacedEvent) error {
	var htmlBody, plainBody bytes.Buffer
	if err := s.html.ExecuteTemplate(&htmlBody, orderPlacedTemplate+".html", e); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := s.text.ExecuteTemplate(&plainBody, orderPlacedTemplate+".txt", e); err != nil {
		return fmt.Errorf("render plain: %w", err)
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", e.Email)
	m.SetHeader("Subject", fmt.Sprintf("Заказ %s оформлен", e.OrderID))
	m.SetBody("text/plain", plainBody.String())
	m.AddAlternative("text/html", htmlBody.String())

	return s.send(m)
}
