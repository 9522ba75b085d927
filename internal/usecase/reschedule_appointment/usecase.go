package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/config"
	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// UseCase use case переноса записи на другой слот
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	scheduleSvc     ScheduleResolver
	txManager       TransactionManager
	staffAssignment string
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	scheduleSvc ScheduleResolver,
	txManager TransactionManager,
	staffAssignment string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		scheduleSvc:     scheduleSvc,
		txManager:       txManager,
		staffAssignment: staffAssignment,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи.
// Новый слот проверяется по тем же правилам, что и при создании,
// в сериализуемой транзакции. Сама запись в конфликтах не участвует.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, user=%d, date=%s, time=%s",
		req.AppointmentID, req.UserID, req.Date, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Новое начало не в прошлом
	if err := validateStartNotPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("RescheduleAppointment: start is in the past: date=%s time=%s", req.Date, req.StartTime)
		return nil, err
	}

	var result *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Запись существует и принадлежит клиенту
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		if appointment.UserID != req.UserID {
			uc.logger.Warn("RescheduleAppointment: access denied for user=%d to appointment id=%d", req.UserID, req.AppointmentID)
			return ErrAccessDenied
		}

		if !appointment.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d has status=%s", req.AppointmentID, appointment.Status)
			return ErrCannotReschedule
		}

		// 2.2. Конец интервала из денормализованной длительности услуги
		startTime, err := req.StartTime.Normalized()
		if err != nil {
			return fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
		}
		endTime, err := startTime.AddMinutes(appointment.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: appointment does not fit into the day", ErrInvalidInput)
		}

		// 2.3. Интервал внутри окна салона
		storeDay, err := uc.scheduleSvc.ResolveStoreDay(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to resolve store day: %w", ErrInternal, err)
		}
		if !storeDay.IsOpen {
			uc.logger.Warn("RescheduleAppointment: store is closed on %s (%s)", req.Date, storeDay.Reason)
			return ErrStoreClosed
		}
		if startTime.IsBefore(storeDay.OpenTime) || endTime.IsAfter(storeDay.CloseTime) {
			return ErrStoreClosed
		}

		// 2.4. Определяем мастера для нового слота
		staffID, err := uc.resolveStaff(txCtx, req, appointment, startTime, endTime)
		if err != nil {
			return err
		}

		// 2.5. Переносим
		appointment.StaffID = staffID
		appointment.Date = req.Date
		appointment.StartTime = startTime
		appointment.EndTime = endTime
		if req.Notes != nil {
			appointment.Notes = req.Notes
		}

		if err := uc.appointmentRepo.Reschedule(txCtx, appointment); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				uc.logger.Warn("RescheduleAppointment: slot taken by concurrent request, date=%s time=%s", req.Date, startTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("RescheduleAppointment: failed to reschedule id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to reschedule: %w", ErrInternal, err)
		}

		result = appointment
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully moved appointment id=%d to %s %s",
		result.ID, result.Date, result.StartTime)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		ServiceID:       result.ServiceID,
		StaffID:         result.StaffID,
		Date:            result.Date,
		StartTime:       result.StartTime.String(),
		EndTime:         result.EndTime.String(),
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		DurationMinutes: result.DurationMinutes,
		Notes:           result.Notes,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveStaff выбирает мастера для нового слота: явный из запроса,
// текущий мастер записи, либо автоназначение/пул без назначения
func (uc *UseCase) resolveStaff(ctx context.Context, req *Request, appointment *domain.Appointment, start, end types.TimeString) (*int64, error) {
	target := req.StaffID
	if target == nil {
		target = appointment.StaffID
	}

	if target != nil {
		if err := uc.checkStaffAvailable(ctx, *target, appointment.ID, req.Date, start, end); err != nil {
			return nil, err
		}
		return target, nil
	}

	if uc.staffAssignment == config.StaffAssignmentUnassigned {
		appointments, err := uc.appointmentRepo.GetForDay(ctx, domain.DayFilter{Date: req.Date, UnassignedOnly: true})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}
		if hasConflict(appointments, appointment.ID, start, end) {
			return nil, ErrSlotNotAvailable
		}
		return nil, nil
	}

	staffList, err := uc.catalogRepo.ListActiveStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list staff: %w", ErrInternal, err)
	}

	for _, staff := range staffList {
		err := uc.checkStaffAvailable(ctx, staff.ID, appointment.ID, req.Date, start, end)
		if err == nil {
			return &staff.ID, nil
		}
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrOutsideSchedule) ||
			errors.Is(err, ErrStaffInactive) || errors.Is(err, ErrStaffNotFound) {
			continue
		}
		return nil, err
	}

	return nil, ErrSlotNotAvailable
}

// checkStaffAvailable проверяет окно мастера и конфликты,
// исключая переносимую запись
func (uc *UseCase) checkStaffAvailable(ctx context.Context, staffID, excludeID int64, date types.DateString, start, end types.TimeString) error {
	staff, err := uc.catalogRepo.GetStaffByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
	}
	if !staff.IsActive {
		return ErrStaffInactive
	}

	staffDay, err := uc.scheduleSvc.ResolveStaffDay(ctx, staffID, date)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve staff day: %w", ErrInternal, err)
	}
	if !staffDay.Contains(start, end) {
		return ErrOutsideSchedule
	}

	appointments, err := uc.appointmentRepo.GetForDay(ctx, domain.DayFilter{Date: date, StaffID: &staffID})
	if err != nil {
		return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}
	if hasConflict(appointments, excludeID, start, end) {
		return ErrSlotNotAvailable
	}

	return nil
}

// hasConflict проверяет пересечение интервала с активными записями,
// пропуская запись excludeID
func hasConflict(appointments []*domain.Appointment, excludeID int64, start, end types.TimeString) bool {
	for _, a := range appointments {
		if a.ID == excludeID {
			continue
		}
		if a.BlocksSlot() && a.Overlaps(start, end) {
			return true
		}
	}
	return false
}
