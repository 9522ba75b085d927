package paygate

// CheckoutSession созданная платёжная сессия
type CheckoutSession struct {
	ID  string // ID сессии, сохраняется в payments.session_id
	URL string // Ссылка на оплату для клиента
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
