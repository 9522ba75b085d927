package complete_appointment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/payment"
)

// UseCase use case завершения записи с начислением баллов лояльности
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	earnRate        float64
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	earnRate float64,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		earnRate:        earnRate,
		logger:          logger,
	}
}

// Execute выполняет use case завершения записи.
// Операция идемпотентна: повторный вызов для уже завершённой записи
// возвращает успех и не начисляет баллы второй раз. Перевод статуса,
// закрытие платежа на месте и начисление баллов выполняются в одной
// сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteAppointment: id=%d", req.AppointmentID)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInternal)
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("CompleteAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("CompleteAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		// Идемпотентность: запись уже завершена
		if appointment.Status == domain.StatusCompleted {
			uc.logger.Info("CompleteAppointment: appointment id=%d already completed", req.AppointmentID)
			resp = &Response{ID: appointment.ID, Status: string(domain.StatusCompleted)}
			return nil
		}

		if !appointment.CanTransitionTo(domain.StatusCompleted) {
			uc.logger.Warn("CompleteAppointment: appointment id=%d has status=%s", req.AppointmentID, appointment.Status)
			return fmt.Errorf("%w: status is %s", ErrInvalidTransition, appointment.Status)
		}

		if err := uc.settlePayment(txCtx, appointment); err != nil {
			return err
		}

		if err := uc.appointmentRepo.UpdateStatus(txCtx, appointment.ID, domain.StatusCompleted); err != nil {
			uc.logger.Error("CompleteAppointment: failed to update status id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		points := earnedPoints(appointment.ServicePrice, uc.earnRate)
		if points > 0 {
			if err := uc.paymentRepo.AddLoyaltyPoints(txCtx, appointment.UserID, points); err != nil {
				uc.logger.Error("CompleteAppointment: failed to add loyalty points user=%d: %v", appointment.UserID, err)
				return fmt.Errorf("%w: failed to add loyalty points: %w", ErrInternal, err)
			}
		}

		resp = &Response{
			ID:           appointment.ID,
			Status:       string(domain.StatusCompleted),
			PointsEarned: points,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CompleteAppointment: appointment id=%d completed, points=%d", resp.ID, resp.PointsEarned)

	return resp, nil
}

// settlePayment закрывает платёж при завершении записи: оплата на месте
// переводится в succeeded, онлайн-платёж обязан быть оплачен заранее
func (uc *UseCase) settlePayment(ctx context.Context, appointment *domain.Appointment) error {
	payment, err := uc.paymentRepo.GetByAppointmentID(ctx, appointment.ID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			// Записи без платежа завершаем без расчётов
			uc.logger.Warn("CompleteAppointment: no payment for appointment id=%d", appointment.ID)
			return nil
		}
		uc.logger.Error("CompleteAppointment: failed to get payment for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
	}

	switch payment.Status {
	case domain.PaymentSucceeded:
		return nil
	case domain.PaymentRefunded:
		uc.logger.Warn("CompleteAppointment: payment id=%d is refunded", payment.ID)
		return ErrPaymentRefunded
	}

	if payment.Provider == domain.ProviderStripe {
		uc.logger.Warn("CompleteAppointment: online payment id=%d is not completed", payment.ID)
		return ErrPaymentNotCompleted
	}

	if err := uc.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentSucceeded); err != nil {
		uc.logger.Error("CompleteAppointment: failed to update payment id=%d: %v", payment.ID, err)
		return fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
	}

	return nil
}

// earnedPoints считает баллы лояльности: floor(цена * ставка)
func earnedPoints(price, rate float64) int64 {
	if price <= 0 || rate <= 0 {
		return 0
	}
	return int64(math.Floor(price * rate))
}
