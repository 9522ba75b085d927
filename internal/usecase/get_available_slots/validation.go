package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
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

	return nil
}

// validateDateNotPast проверяет, что дата не в прошлом.
// Сравниваются календарные даты, а не инстанты: "сегодня" прошлым не считается.
func validateDateNotPast(date types.DateString, now time.Time) error {
	today := types.NewDateString(now)
	if date.IsBefore(today) {
		return ErrInvalidDate
	}
	return nil
}
