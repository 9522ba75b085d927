package stripe_webhook

import (
	"context"

	"github.com/stripe/stripe-go/v82"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// PayGate интерфейс проверки подписи вебхука
type PayGate interface {
	ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	// Внутри транзакции строка платежа блокируется
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Payment, error)
	MarkSucceeded(ctx context.Context, id int64, paymentIntentID *string) error
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
