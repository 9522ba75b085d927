package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для отправки писем через SendGrid.
// Отправка уведомлений не влияет на результат бронирования:
// вызывающий код игнорирует ошибки, ограничиваясь логом.
type Client struct {
	sg        *sendgrid.Client
	fromName  string
	fromEmail string
	log       Logger
}

// NewClient создает новый экземпляр почтового клиента.
// При пустом apiKey клиент создаётся, но каждая отправка
// возвращает ErrNotConfigured.
func NewClient(apiKey, fromName, fromEmail string, log Logger) *Client {
	c := &Client{fromName: fromName, fromEmail: fromEmail, log: log}
	if apiKey != "" {
		c.sg = sendgrid.NewSendClient(apiKey)
	}
	return c
}

// Send отправляет письмо с текстовым содержимым
func (c *Client) Send(toEmail, toName, subject, body string) error {
	if c.sg == nil {
		return ErrNotConfigured
	}

	from := mail.NewEmail(c.fromName, c.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := c.sg.Send(message)
	if err != nil {
		c.log.Error("Send: sendgrid error for %s: %v", toEmail, err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("Send: sendgrid returned status %d for %s", resp.StatusCode, toEmail)
		return fmt.Errorf("%w: status %d", ErrSendFailed, resp.StatusCode)
	}

	c.log.Info("Send: email sent to %s, subject=%q", toEmail, subject)
	return nil
}
