package reschedule_appointment

import (
	rescheduleAppointment "github.com/m04kA/SalonBookingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date      string  `json:"date"`      // "2026-01-10"
	StartTime string  `json:"startTime"` // "10:30"
	StaffID   *int64  `json:"staffId,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, userID int64) *rescheduleAppointment.Request {
	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
		Date:          types.DateString(r.Date),
		StartTime:     types.TimeString(r.StartTime),
		StaffID:       r.StaffID,
		Notes:         r.Notes,
	}
}
