package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SalonBookingService/internal/service/appointments/models"
	"github.com/m04kA/SalonBookingService/internal/usecase/complete_appointment"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	payGate         PayGate
	completer       Completer
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	payGate PayGate,
	completer Completer,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		payGate:         payGate,
		completer:       completer,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - пользователь может видеть только свою запись
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if appointment.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetUserAppointments получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetStaffDayAppointments получает записи на день: все, конкретного мастера
// или пул без мастера. Используется администраторами салона
func (s *Service) GetStaffDayAppointments(ctx context.Context, req *models.StaffDayRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetStaffDayAppointments: fetching appointments for date=%s, staff=%v", req.Date, req.StaffID)

	if err := req.Date.Validate(); err != nil {
		s.logger.Warn("GetStaffDayAppointments: invalid date=%s", req.Date)
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetForDay(ctx, domain.DayFilter{
		Date:            req.Date,
		StaffID:         req.StaffID,
		UnassignedOnly:  req.UnassignedOnly,
		IncludeInactive: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("GetStaffDayAppointments: repository error for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: GetStaffDayAppointments - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetStaffDayAppointments: successfully fetched %d appointments for date=%s", len(appointments), req.Date)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись клиента.
// Для оплаченных онлайн записей инициирует возврат через платёжный шлюз;
// неуспешный возврат не откатывает отмену, а остаётся на платеже в статусе
// succeeded для ручного разбора
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) (*models.CancelResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	var payment *domain.Payment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		if appointment.UserID != req.UserID {
			s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
			return ErrAccessDenied
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, appointmentID, req.CancellationReason); err != nil {
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		payment, err = s.paymentRepo.GetByAppointmentID(txCtx, appointmentID)
		if err != nil && !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Error("Cancel: failed to get payment for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - failed to get payment: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Возврат вне транзакции: отмена уже зафиксирована
	refunded := s.refundIfPaid(ctx, appointmentID, payment)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d, refunded=%t", appointmentID, refunded)
	return &models.CancelResponse{
		ID:       appointmentID,
		Status:   string(domain.StatusCancelled),
		Refunded: refunded,
	}, nil
}

// UpdateStatus переводит запись в новый статус по машине состояний.
// Переход в completed делегируется use case завершения, который начисляет
// баллы лояльности и закрывает платёж
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.UpdateStatusResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", appointmentID, req.Status)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	if newStatus == domain.StatusCompleted {
		resp, err := s.completer.Execute(ctx, &complete_appointment.Request{AppointmentID: appointmentID})
		if err != nil {
			return nil, s.mapCompletionError(appointmentID, err)
		}
		return &models.UpdateStatusResponse{
			ID:           resp.ID,
			Status:       resp.Status,
			PointsEarned: resp.PointsEarned,
		}, nil
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		if !appointment.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				appointment.Status, newStatus, appointmentID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
		}

		if newStatus == domain.StatusCancelled {
			return s.cancelInTx(txCtx, appointmentID)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointmentID, newStatus); err != nil {
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return &models.UpdateStatusResponse{ID: appointmentID, Status: string(newStatus)}, nil
}

// GetLoyaltyAccount возвращает баланс баллов лояльности пользователя.
// Для пользователя без начислений возвращается нулевой баланс
func (s *Service) GetLoyaltyAccount(ctx context.Context, userID int64) (*models.LoyaltyAccountResponse, error) {
	s.logger.Info("GetLoyaltyAccount: fetching balance for user=%d", userID)

	account, err := s.paymentRepo.GetLoyaltyAccount(ctx, userID)
	if err != nil {
		s.logger.Error("GetLoyaltyAccount: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetLoyaltyAccount - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainLoyaltyAccount(account), nil
}

// Вспомогательные методы

// cancelInTx отменяет запись без причины внутри уже открытой транзакции
func (s *Service) cancelInTx(ctx context.Context, appointmentID int64) error {
	if err := s.appointmentRepo.Cancel(ctx, appointmentID, ""); err != nil {
		s.logger.Error("UpdateStatus: failed to cancel appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
	}
	return nil
}

// refundIfPaid возвращает деньги за оплаченный онлайн платёж.
// Ошибки возврата только логируются
func (s *Service) refundIfPaid(ctx context.Context, appointmentID int64, payment *domain.Payment) bool {
	if payment == nil || payment.Provider != domain.ProviderStripe || !payment.IsPaid() {
		return false
	}
	if payment.SessionID == nil {
		s.logger.Error("Cancel: paid stripe payment id=%d has no session id", payment.ID)
		return false
	}

	if err := s.payGate.RefundBySessionID(*payment.SessionID); err != nil {
		s.logger.Error("Cancel: refund failed for appointment id=%d, payment id=%d: %v", appointmentID, payment.ID, err)
		return false
	}

	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentRefunded); err != nil {
		s.logger.Error("Cancel: failed to mark payment id=%d as refunded: %v", payment.ID, err)
		return false
	}

	s.logger.Info("Cancel: refunded payment id=%d for appointment id=%d", payment.ID, appointmentID)
	return true
}

// mapCompletionError приводит ошибки use case завершения к ошибкам сервиса
func (s *Service) mapCompletionError(appointmentID int64, err error) error {
	switch {
	case errors.Is(err, complete_appointment.ErrAppointmentNotFound):
		s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
		return ErrAppointmentNotFound
	case errors.Is(err, complete_appointment.ErrInvalidTransition),
		errors.Is(err, complete_appointment.ErrPaymentNotCompleted),
		errors.Is(err, complete_appointment.ErrPaymentRefunded):
		s.logger.Warn("UpdateStatus: cannot complete appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	default:
		s.logger.Error("UpdateStatus: completion failed for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - completion failed: %w", ErrInternal, err)
	}
}
