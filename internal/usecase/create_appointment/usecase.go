package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/m04kA/SalonBookingService/internal/config"
	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SalonBookingService/internal/integrations/paygate"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// UseCase use case создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	paymentRepo     PaymentRepository
	scheduleSvc     ScheduleResolver
	payGate         PayGate
	mailer          Mailer
	txManager       TransactionManager
	staffAssignment string
	currency        string
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	paymentRepo PaymentRepository,
	scheduleSvc ScheduleResolver,
	payGate PayGate,
	mailer Mailer,
	txManager TransactionManager,
	staffAssignment string,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		paymentRepo:     paymentRepo,
		scheduleSvc:     scheduleSvc,
		payGate:         payGate,
		mailer:          mailer,
		txManager:       txManager,
		staffAssignment: staffAssignment,
		currency:        currency,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка доступности слота и вставка выполняются в сериализуемой
// транзакции: двум конкурирующим запросам один слот не достанется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, service=%d, staff=%v, date=%s, time=%s",
		req.UserID, req.ServiceID, req.StaffID, req.Date, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата и время начала не в прошлом
	if err := validateStartNotPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateAppointment: start is in the past: date=%s time=%s", req.Date, req.StartTime)
		return nil, err
	}

	// 3. Получаем услугу - длительность и цена фиксируются в записи
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Конец интервала вычисляется на сервере из длительности услуги
	startTime, err := req.StartTime.Normalized()
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
	}
	endTime, err := startTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: interval crosses midnight: time=%s duration=%d", startTime, service.DurationMinutes)
		return nil, fmt.Errorf("%w: appointment does not fit into the day", ErrInvalidInput)
	}

	// 5. Для онлайн-оплаты создаём checkout-сессию до транзакции.
	// Если транзакция не пройдёт, неоплаченная сессия просто истечёт.
	var checkout *paygate.CheckoutSession
	if req.PaymentMethod == string(domain.PaymentMethodOnline) {
		email := ""
		if req.Email != nil {
			email = *req.Email
		}
		description := fmt.Sprintf("%s, %s %s", service.Name, req.Date, startTime)
		checkout, err = uc.payGate.CreateCheckoutSession(minorUnits(service.Price), uc.currency, description, email)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create checkout session: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
	}

	var result *domain.Appointment

	// 6. Проверка доступности и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Интервал внутри рабочего окна салона
		storeDay, err := uc.scheduleSvc.ResolveStoreDay(txCtx, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to resolve store day: %v", err)
			return fmt.Errorf("%w: failed to resolve store day: %w", ErrInternal, err)
		}
		if !storeDay.IsOpen {
			uc.logger.Warn("CreateAppointment: store is closed on %s (%s)", req.Date, storeDay.Reason)
			return ErrStoreClosed
		}
		if startTime.IsBefore(storeDay.OpenTime) || endTime.IsAfter(storeDay.CloseTime) {
			uc.logger.Warn("CreateAppointment: interval %s-%s is outside store hours %s-%s",
				startTime, endTime, storeDay.OpenTime, storeDay.CloseTime)
			return ErrStoreClosed
		}

		// 6.2. Определяем мастера и проверяем конфликты
		staffID, err := uc.resolveStaff(txCtx, req, startTime, endTime)
		if err != nil {
			return err
		}

		// 6.3. Создаём запись с денормализацией данных услуги
		appointment := &domain.Appointment{
			UserID:          req.UserID,
			ServiceID:       req.ServiceID,
			StaffID:         staffID,
			Date:            req.Date,
			StartTime:       startTime,
			EndTime:         endTime,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DurationMinutes: service.DurationMinutes,
			Notes:           req.Notes,
			PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				// Уникальный индекс поймал гонку, которую не увидела выборка
				uc.logger.Warn("CreateAppointment: slot taken by concurrent request, date=%s time=%s", req.Date, startTime)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		// 6.4. Платёж создаётся в той же транзакции, ровно один на запись
		payment := &domain.Payment{
			AppointmentID: created.ID,
			Provider:      domain.ProviderInStore,
			Amount:        minorUnits(service.Price),
			Currency:      uc.currency,
			Status:        domain.PaymentPending,
		}
		if checkout != nil {
			payment.Provider = domain.ProviderStripe
			payment.SessionID = &checkout.ID
		}
		if _, err := uc.paymentRepo.Create(txCtx, payment); err != nil {
			uc.logger.Error("CreateAppointment: failed to create payment: %v", err)
			return fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 7. Письмо-подтверждение не влияет на результат бронирования
	uc.sendConfirmation(req, result)

	resp := &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		ServiceID:       result.ServiceID,
		StaffID:         result.StaffID,
		Date:            result.Date,
		StartTime:       result.StartTime.String(),
		EndTime:         result.EndTime.String(),
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		DurationMinutes: result.DurationMinutes,
		Notes:           result.Notes,
		PaymentMethod:   string(result.PaymentMethod),
		CreatedAt:       result.CreatedAt,
	}
	if checkout != nil {
		resp.PaymentURL = &checkout.URL
	}

	return resp, nil
}

// resolveStaff возвращает мастера для записи согласно политике назначения.
// Внутри транзакции выборки записей блокируют день (FOR UPDATE).
func (uc *UseCase) resolveStaff(ctx context.Context, req *Request, start, end types.TimeString) (*int64, error) {
	// Клиент выбрал конкретного мастера
	if req.StaffID != nil {
		if err := uc.checkStaffAvailable(ctx, *req.StaffID, req.Date, start, end); err != nil {
			return nil, err
		}
		return req.StaffID, nil
	}

	// Запись остаётся без мастера: конфликты считаются только
	// внутри пула записей без назначения
	if uc.staffAssignment == config.StaffAssignmentUnassigned {
		appointments, err := uc.appointmentRepo.GetForDay(ctx, domain.DayFilter{Date: req.Date, UnassignedOnly: true})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get unassigned appointments: %v", err)
			return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}
		if hasConflict(appointments, start, end) {
			return nil, ErrSlotNotAvailable
		}
		return nil, nil
	}

	// Автоназначение: первый активный мастер со свободным окном
	staffList, err := uc.catalogRepo.ListActiveStaff(ctx)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to list active staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %w", ErrInternal, err)
	}

	for _, staff := range staffList {
		err := uc.checkStaffAvailable(ctx, staff.ID, req.Date, start, end)
		if err == nil {
			uc.logger.Info("CreateAppointment: auto-assigned staff id=%d", staff.ID)
			return &staff.ID, nil
		}
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrOutsideSchedule) ||
			errors.Is(err, ErrStaffInactive) || errors.Is(err, ErrStaffNotFound) {
			continue
		}
		return nil, err
	}

	uc.logger.Warn("CreateAppointment: no staff available for date=%s time=%s", req.Date, start)
	return nil, ErrSlotNotAvailable
}

// checkStaffAvailable проверяет, что мастер работает в интервале
// и не имеет пересекающихся записей
func (uc *UseCase) checkStaffAvailable(ctx context.Context, staffID int64, date types.DateString, start, end types.TimeString) error {
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
	if hasConflict(appointments, start, end) {
		return ErrSlotNotAvailable
	}

	return nil
}

// hasConflict проверяет пересечение интервала с активными записями
func hasConflict(appointments []*domain.Appointment, start, end types.TimeString) bool {
	for _, a := range appointments {
		if a.BlocksSlot() && a.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// sendConfirmation отправляет письмо-подтверждение, если указан email.
// Ошибки отправки только логируются.
func (uc *UseCase) sendConfirmation(req *Request, a *domain.Appointment) {
	if req.Email == nil || *req.Email == "" {
		return
	}

	subject := "Запись подтверждена"
	body := fmt.Sprintf("Вы записаны на %q %s в %s.", a.ServiceName, a.Date, a.StartTime)
	if err := uc.mailer.Send(*req.Email, "", subject, body); err != nil {
		uc.logger.Warn("CreateAppointment: failed to send confirmation email for appointment id=%d: %v", a.ID, err)
	}
}

// minorUnits переводит цену в минимальные единицы валюты
func minorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
