package schedule_admin

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetStoreHours(ctx context.Context) (*models.StoreHoursResponse, error)
	UpdateStoreHours(ctx context.Context, req *models.UpdateStoreHoursRequest) (*models.StoreHoursResponse, error)
	CreateException(ctx context.Context, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error)
	DeleteException(ctx context.Context, rawDate string) error
	GetStaffSchedule(ctx context.Context, staffID int64) (*models.StaffScheduleResponse, error)
	UpdateStaffSchedule(ctx context.Context, staffID int64, req *models.UpdateStaffScheduleRequest) (*models.StaffScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
