package schedule

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetStoreHours(ctx context.Context) ([]*domain.StoreHours, error)
	GetStoreHoursByDay(ctx context.Context, dayOfWeek int) (*domain.StoreHours, error)
	UpsertStoreHours(ctx context.Context, h *domain.StoreHours) error
	GetExceptionByDate(ctx context.Context, date types.DateString) (*domain.StoreException, error)
	CreateException(ctx context.Context, e *domain.StoreException) (*domain.StoreException, error)
	DeleteExceptionByDate(ctx context.Context, date types.DateString) error
	GetStaffSchedule(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error)
	GetStaffScheduleByDay(ctx context.Context, staffID int64, dayOfWeek int) (*domain.StaffSchedule, error)
	UpsertStaffSchedule(ctx context.Context, s *domain.StaffSchedule) error
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
