package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/integrations/paygate"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	// GetForDay получает активные записи на дату с блокировкой внутри транзакции
	GetForDay(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error)
	ListActiveStaff(ctx context.Context) ([]*domain.Staff, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
}

// ScheduleResolver интерфейс сервиса расписаний
type ScheduleResolver interface {
	ResolveStoreDay(ctx context.Context, date types.DateString) (domain.StoreDay, error)
	ResolveStaffDay(ctx context.Context, staffID int64, date types.DateString) (domain.StaffDay, error)
}

// PayGate интерфейс платёжного шлюза
type PayGate interface {
	CreateCheckoutSession(amount int64, currency, description, customerEmail string) (*paygate.CheckoutSession, error)
}

// Mailer интерфейс отправки уведомлений
type Mailer interface {
	Send(toEmail, toName, subject, body string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
