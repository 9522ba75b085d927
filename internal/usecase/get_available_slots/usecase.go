package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/config"
	"github.com/m04kA/SalonBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
)

// UseCase use case получения доступных слотов на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	scheduleSvc     ScheduleResolver
	staffAssignment string
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	scheduleSvc ScheduleResolver,
	staffAssignment string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		scheduleSvc:     scheduleSvc,
		staffAssignment: staffAssignment,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, staff=%v, date=%s", req.ServiceID, req.StaffID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата в прошлом - слотов не бывает
	if err := validateDateNotPast(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date=%s is in the past", req.Date)
		return nil, err
	}

	// 3. Получаем услугу - её длительность задаёт шаг сетки слотов
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Рабочее окно салона на дату (исключение или недельное расписание)
	storeDay, err := uc.scheduleSvc.ResolveStoreDay(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve store day for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: failed to resolve store day: %w", ErrInternal, err)
	}

	if !storeDay.IsOpen {
		uc.logger.Info("GetAvailableSlots: store is closed on %s (%s)", req.Date, storeDay.Reason)
		return uc.emptyResponse(req), nil
	}

	// 5. Генерируем слоты в зависимости от запрошенного мастера
	var slots []domain.Slot
	switch {
	case req.StaffID != nil:
		slots, err = uc.slotsForStaff(ctx, req, service, storeDay, *req.StaffID)
	case uc.staffAssignment == config.StaffAssignmentUnassigned:
		slots, err = uc.slotsUnassigned(ctx, req, service, storeDay)
	default:
		slots, err = uc.slotsAnyStaff(ctx, req, service, storeDay)
	}
	if err != nil {
		return nil, err
	}

	// 6. На сегодняшнюю дату прошедшие слоты не показываем
	slots = filterPastSlots(slots, req.Date, now)

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s", len(slots), req.ServiceID, req.Date)

	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Slots:     slots,
	}, nil
}

// slotsForStaff генерирует слоты конкретного мастера: сетка строится по
// пересечению окна салона и окна мастера, конфликты считаются только
// по записям этого мастера.
func (uc *UseCase) slotsForStaff(ctx context.Context, req *Request, service *domain.Service, storeDay domain.StoreDay, staffID int64) ([]domain.Slot, error) {
	staff, err := uc.catalogRepo.GetStaffByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
	}

	if !staff.IsActive {
		uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", staffID)
		return nil, ErrStaffInactive
	}

	staffDay, err := uc.scheduleSvc.ResolveStaffDay(ctx, staffID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve staff day for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to resolve staff day: %w", ErrInternal, err)
	}

	if staffDay.IsDayOff {
		return []domain.Slot{}, nil
	}

	start, end, ok := domain.IntersectWindows(storeDay.OpenTime, storeDay.CloseTime, staffDay.StartTime, staffDay.EndTime)
	if !ok {
		return []domain.Slot{}, nil
	}

	tiled, err := tileWindow(start, end, service.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to tile window: %w", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetForDay(ctx, domain.DayFilter{Date: req.Date, StaffID: &staffID})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for staff=%d date=%s: %v", staffID, req.Date, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	return filterConflicts(tiled, appointments), nil
}

// slotsAnyStaff генерирует объединение слотов всех активных мастеров:
// слот доступен, если хотя бы один мастер может принять клиента.
func (uc *UseCase) slotsAnyStaff(ctx context.Context, req *Request, service *domain.Service, storeDay domain.StoreDay) ([]domain.Slot, error) {
	staffList, err := uc.catalogRepo.ListActiveStaff(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list active staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %w", ErrInternal, err)
	}

	perStaff := make([][]domain.Slot, 0, len(staffList))
	for _, staff := range staffList {
		slots, err := uc.slotsForStaff(ctx, req, service, storeDay, staff.ID)
		if err != nil {
			// Мастер мог быть деактивирован между ListActiveStaff и выборкой
			if errors.Is(err, ErrStaffInactive) || errors.Is(err, ErrStaffNotFound) {
				continue
			}
			return nil, err
		}
		perStaff = append(perStaff, slots)
	}

	return mergeSlots(perStaff...), nil
}

// slotsUnassigned генерирует слоты по окну салона без привязки к мастеру.
// Конфликты считаются только по записям без назначенного мастера.
func (uc *UseCase) slotsUnassigned(ctx context.Context, req *Request, service *domain.Service, storeDay domain.StoreDay) ([]domain.Slot, error) {
	tiled, err := tileWindow(storeDay.OpenTime, storeDay.CloseTime, service.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to tile window: %w", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetForDay(ctx, domain.DayFilter{Date: req.Date, UnassignedOnly: true})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get unassigned appointments for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	return filterConflicts(tiled, appointments), nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Slots:     []domain.Slot{},
	}
}
