package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SalonBookingService/internal/service/schedule/models"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Service сервис календарей: часы салона, исключения и графики мастеров.
// Отвечает на вопрос "какое рабочее окно у салона и мастера на дату".
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		logger:       logger,
	}
}

// ResolveStoreDay возвращает рабочее окно салона на дату.
// Исключение на дату полностью заменяет недельное расписание:
// часы из store_hours в этот день не участвуют вовсе.
func (s *Service) ResolveStoreDay(ctx context.Context, date types.DateString) (domain.StoreDay, error) {
	exception, err := s.scheduleRepo.GetExceptionByDate(ctx, date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
		s.logger.Error("ResolveStoreDay: failed to get exception for date=%s: %v", date, err)
		return domain.StoreDay{}, fmt.Errorf("%w: ResolveStoreDay - repository error: %w", ErrInternal, err)
	}

	if exception != nil {
		if !exception.IsOpen {
			reason := "салон закрыт в этот день"
			if exception.Reason != nil && *exception.Reason != "" {
				reason = *exception.Reason
			}
			return domain.ClosedStoreDay(reason), nil
		}
		// Схема требует окно для открытого исключения, но строка могла
		// попасть в базу в обход сервиса
		if exception.OpenTime == nil || exception.CloseTime == nil {
			s.logger.Error("ResolveStoreDay: open exception for date=%s has no time window", date)
			return domain.StoreDay{}, fmt.Errorf("%w: ResolveStoreDay - open exception without time window", ErrInternal)
		}
		return domain.StoreDay{
			IsOpen:    true,
			OpenTime:  *exception.OpenTime,
			CloseTime: *exception.CloseTime,
		}, nil
	}

	weekday, err := date.Weekday()
	if err != nil {
		return domain.StoreDay{}, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	hours, err := s.scheduleRepo.GetStoreHoursByDay(ctx, int(weekday))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStoreHoursNotFound) {
			return domain.ClosedStoreDay("салон не работает в этот день недели"), nil
		}
		s.logger.Error("ResolveStoreDay: failed to get store hours for date=%s: %v", date, err)
		return domain.StoreDay{}, fmt.Errorf("%w: ResolveStoreDay - repository error: %w", ErrInternal, err)
	}

	if !hours.IsOpen {
		return domain.ClosedStoreDay("салон не работает в этот день недели"), nil
	}

	return domain.StoreDay{
		IsOpen:    true,
		OpenTime:  hours.OpenTime,
		CloseTime: hours.CloseTime,
	}, nil
}

// ResolveStaffDay возвращает рабочее окно мастера на дату.
// Отсутствие строки графика на день недели трактуется как выходной.
func (s *Service) ResolveStaffDay(ctx context.Context, staffID int64, date types.DateString) (domain.StaffDay, error) {
	weekday, err := date.Weekday()
	if err != nil {
		return domain.StaffDay{}, fmt.Errorf("%w: invalid date", ErrInvalidInput)
	}

	schedule, err := s.scheduleRepo.GetStaffScheduleByDay(ctx, staffID, int(weekday))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffScheduleNotFound) {
			return domain.DayOff(), nil
		}
		s.logger.Error("ResolveStaffDay: failed to get schedule for staff=%d date=%s: %v", staffID, date, err)
		return domain.StaffDay{}, fmt.Errorf("%w: ResolveStaffDay - repository error: %w", ErrInternal, err)
	}

	if schedule.IsDayOff {
		return domain.DayOff(), nil
	}

	return domain.WorkingDay(schedule.StartTime, schedule.EndTime), nil
}

// CheckStoreOpen проверяет, что интервал [start, end) целиком попадает
// в рабочее окно салона на дату. При закрытом салоне возвращает ErrStoreClosed.
func (s *Service) CheckStoreOpen(ctx context.Context, date types.DateString, start, end types.TimeString) error {
	day, err := s.ResolveStoreDay(ctx, date)
	if err != nil {
		return err
	}

	if !day.IsOpen {
		return fmt.Errorf("%w: %s", ErrStoreClosed, day.Reason)
	}

	if start.IsBefore(day.OpenTime) || end.IsAfter(day.CloseTime) {
		return fmt.Errorf("%w: салон работает с %s до %s", ErrStoreClosed, day.OpenTime, day.CloseTime)
	}

	return nil
}

// Административные операции

// GetStoreHours возвращает недельное расписание салона
func (s *Service) GetStoreHours(ctx context.Context) (*models.StoreHoursResponse, error) {
	hours, err := s.scheduleRepo.GetStoreHours(ctx)
	if err != nil {
		s.logger.Error("GetStoreHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetStoreHours - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainStoreHours(hours), nil
}

// UpdateStoreHours перезаписывает расписание салона на переданные дни недели
func (s *Service) UpdateStoreHours(ctx context.Context, req *models.UpdateStoreHoursRequest) (*models.StoreHoursResponse, error) {
	s.logger.Info("UpdateStoreHours: updating %d day(s)", len(req.Days))

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: days list is empty", ErrInvalidInput)
	}

	for _, d := range req.Days {
		hours, err := s.toDomainStoreHours(d)
		if err != nil {
			s.logger.Warn("UpdateStoreHours: invalid day entry dayOfWeek=%d: %v", d.DayOfWeek, err)
			return nil, err
		}
		if err := s.scheduleRepo.UpsertStoreHours(ctx, hours); err != nil {
			s.logger.Error("UpdateStoreHours: failed to upsert dayOfWeek=%d: %v", d.DayOfWeek, err)
			return nil, fmt.Errorf("%w: UpdateStoreHours - repository error: %w", ErrInternal, err)
		}
	}

	return s.GetStoreHours(ctx)
}

// CreateException создаёт исключение из расписания на дату
func (s *Service) CreateException(ctx context.Context, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("CreateException: date=%s isOpen=%t", req.Date, req.IsOpen)

	date, err := types.NewDateStringFromString(req.Date)
	if err != nil {
		s.logger.Warn("CreateException: invalid date=%s", req.Date)
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	exception := &domain.StoreException{
		Date:   date,
		IsOpen: req.IsOpen,
		Reason: req.Reason,
	}

	if req.IsOpen {
		if req.OpenTime == nil || req.CloseTime == nil {
			return nil, fmt.Errorf("%w: openTime and closeTime are required for an open exception", ErrInvalidInput)
		}
		open, closeT, err := parseWindow(*req.OpenTime, *req.CloseTime)
		if err != nil {
			s.logger.Warn("CreateException: invalid window for date=%s: %v", req.Date, err)
			return nil, err
		}
		exception.OpenTime = &open
		exception.CloseTime = &closeT
	}

	created, err := s.scheduleRepo.CreateException(ctx, exception)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionExists) {
			s.logger.Warn("CreateException: exception for date=%s already exists", req.Date)
			return nil, ErrExceptionExists
		}
		s.logger.Error("CreateException: repository error for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: CreateException - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateException: created exception id=%d for date=%s", created.ID, req.Date)
	return models.FromDomainException(created), nil
}

// DeleteException удаляет исключение на дату
func (s *Service) DeleteException(ctx context.Context, rawDate string) error {
	date, err := types.NewDateStringFromString(rawDate)
	if err != nil {
		return fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	if err := s.scheduleRepo.DeleteExceptionByDate(ctx, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: exception for date=%s not found", rawDate)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for date=%s: %v", rawDate, err)
		return fmt.Errorf("%w: DeleteException - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("DeleteException: deleted exception for date=%s", rawDate)
	return nil
}

// GetStaffSchedule возвращает недельный график мастера
func (s *Service) GetStaffSchedule(ctx context.Context, staffID int64) (*models.StaffScheduleResponse, error) {
	if _, err := s.catalogRepo.GetStaffByID(ctx, staffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetStaffSchedule: failed to get staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - repository error: %w", ErrInternal, err)
	}

	schedules, err := s.scheduleRepo.GetStaffSchedule(ctx, staffID)
	if err != nil {
		s.logger.Error("GetStaffSchedule: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainStaffSchedule(staffID, schedules), nil
}

// UpdateStaffSchedule перезаписывает график мастера на переданные дни недели
func (s *Service) UpdateStaffSchedule(ctx context.Context, staffID int64, req *models.UpdateStaffScheduleRequest) (*models.StaffScheduleResponse, error) {
	s.logger.Info("UpdateStaffSchedule: staff=%d, updating %d day(s)", staffID, len(req.Days))

	if _, err := s.catalogRepo.GetStaffByID(ctx, staffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			s.logger.Warn("UpdateStaffSchedule: staff=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("UpdateStaffSchedule: failed to get staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: UpdateStaffSchedule - repository error: %w", ErrInternal, err)
	}

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: days list is empty", ErrInvalidInput)
	}

	for _, d := range req.Days {
		schedule, err := s.toDomainStaffSchedule(staffID, d)
		if err != nil {
			s.logger.Warn("UpdateStaffSchedule: invalid day entry staff=%d dayOfWeek=%d: %v", staffID, d.DayOfWeek, err)
			return nil, err
		}
		if err := s.scheduleRepo.UpsertStaffSchedule(ctx, schedule); err != nil {
			s.logger.Error("UpdateStaffSchedule: failed to upsert staff=%d dayOfWeek=%d: %v", staffID, d.DayOfWeek, err)
			return nil, fmt.Errorf("%w: UpdateStaffSchedule - repository error: %w", ErrInternal, err)
		}
	}

	return s.GetStaffSchedule(ctx, staffID)
}

// Вспомогательные методы

func (s *Service) toDomainStoreHours(d models.DayHours) (*domain.StoreHours, error) {
	if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	hours := &domain.StoreHours{DayOfWeek: d.DayOfWeek, IsOpen: d.IsOpen}

	// Для закрытого дня окно не обязательно, но строка всё равно хранится
	open, closeT, err := parseWindow(d.OpenTime, d.CloseTime)
	if err != nil {
		if d.IsOpen {
			return nil, err
		}
		open, closeT = "00:00:00", "00:00:00"
	}
	hours.OpenTime = open
	hours.CloseTime = closeT

	return hours, nil
}

func (s *Service) toDomainStaffSchedule(staffID int64, d models.StaffDayHours) (*domain.StaffSchedule, error) {
	if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	schedule := &domain.StaffSchedule{StaffID: staffID, DayOfWeek: d.DayOfWeek, IsDayOff: d.IsDayOff}

	start, end, err := parseWindow(d.StartTime, d.EndTime)
	if err != nil {
		if !d.IsDayOff {
			return nil, err
		}
		start, end = "00:00:00", "00:00:00"
	}
	schedule.StartTime = start
	schedule.EndTime = end

	return schedule, nil
}

// parseWindow валидирует пару времён и требует start < end
func parseWindow(rawStart, rawEnd string) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(rawStart)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid time format, expected HH:MM", ErrInvalidInput)
	}
	end, err := types.NewTimeStringFromString(rawEnd)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid time format, expected HH:MM", ErrInvalidInput)
	}
	if !start.IsBefore(end) {
		return "", "", fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	return start, end, nil
}
