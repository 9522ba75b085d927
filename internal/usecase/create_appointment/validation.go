package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.PaymentMethod != string(domain.PaymentMethodOnline) && req.PaymentMethod != string(domain.PaymentMethodInStore) {
		return fmt.Errorf("%w: paymentMethod must be %q or %q", ErrInvalidInput, domain.PaymentMethodOnline, domain.PaymentMethodInStore)
	}

	return nil
}

// validateStartNotPast проверяет, что дата и время начала не в прошлом
func validateStartNotPast(date types.DateString, start types.TimeString, now time.Time) error {
	today := types.NewDateString(now)
	if date.IsBefore(today) {
		return ErrInvalidDate
	}
	if date.Equal(today) && start.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: start time is in the past", ErrInvalidDate)
	}
	return nil
}
