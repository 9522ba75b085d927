package mailer

import "errors"

var (
	// ErrNotConfigured возвращается, когда клиент создан без API-ключа
	ErrNotConfigured = errors.New("mailer: sendgrid is not configured")

	// ErrSendFailed возвращается при ошибке отправки письма
	ErrSendFailed = errors.New("mailer: failed to send email")
)
