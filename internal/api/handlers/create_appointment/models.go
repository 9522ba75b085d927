package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/SalonBookingService/internal/usecase/create_appointment"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID     int64   `json:"serviceId"`
	StaffID       *int64  `json:"staffId,omitempty"`
	Date          string  `json:"date"`      // "2026-01-10"
	StartTime     string  `json:"startTime"` // "10:30"
	Notes         *string `json:"notes,omitempty"`
	PaymentMethod string  `json:"paymentMethod"` // "online" | "in_store"
	Email         *string `json:"email,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	ServiceID       int64   `json:"serviceId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	DurationMinutes int     `json:"durationMinutes"`
	Notes           *string `json:"notes,omitempty"`
	PaymentMethod   string  `json:"paymentMethod"`
	CheckoutURL     *string `json:"checkoutUrl,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) *createAppointment.Request {
	return &createAppointment.Request{
		UserID:        userID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		Date:          types.DateString(r.Date),
		StartTime:     types.TimeString(r.StartTime),
		Notes:         r.Notes,
		PaymentMethod: r.PaymentMethod,
		Email:         r.Email,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		ServiceID:       resp.ServiceID,
		StaffID:         resp.StaffID,
		Date:            resp.Date.String(),
		StartTime:       resp.StartTime,
		EndTime:         resp.EndTime,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		DurationMinutes: resp.DurationMinutes,
		Notes:           resp.Notes,
		PaymentMethod:   resp.PaymentMethod,
		CheckoutURL:     resp.PaymentURL,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
