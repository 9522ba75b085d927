package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetForDay(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error)
	Reschedule(ctx context.Context, a *domain.Appointment) error
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error)
	ListActiveStaff(ctx context.Context) ([]*domain.Staff, error)
}

// ScheduleResolver интерфейс сервиса расписаний
type ScheduleResolver interface {
	ResolveStoreDay(ctx context.Context, date types.DateString) (domain.StoreDay, error)
	ResolveStaffDay(ctx context.Context, staffID int64, date types.DateString) (domain.StaffDay, error)
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
