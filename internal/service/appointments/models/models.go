package models

import (
	"errors"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// GetUserAppointmentsRequest запрос на получение записей пользователя
type GetUserAppointmentsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// StaffDayRequest запрос на получение записей мастера на день
type StaffDayRequest struct {
	Date             types.DateString `json:"date"`
	StaffID          *int64           `json:"staffId,omitempty"`
	UnassignedOnly   bool             `json:"unassignedOnly,omitempty"`
	IncludeCancelled bool             `json:"includeCancelled,omitempty"`
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted,
		domain.StatusCancelled, domain.StatusNoShow:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	ServiceID int64  `json:"serviceId"`
	StaffID   *int64 `json:"staffId,omitempty"`
	Date      string `json:"date"`      // "2026-01-10"
	StartTime string `json:"startTime"` // "10:30:00"
	EndTime   string `json:"endTime"`   // "11:15:00"
	Status    string `json:"status"`

	// Денормализованные данные
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	DurationMinutes int     `json:"durationMinutes"`
	Notes           *string `json:"notes,omitempty"`

	PaymentMethod string `json:"paymentMethod"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// CancelResponse результат отмены записи
type CancelResponse struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Refunded bool   `json:"refunded"`
}

// LoyaltyAccountResponse баланс баллов лояльности пользователя
type LoyaltyAccountResponse struct {
	UserID int64 `json:"userId"`
	Points int64 `json:"points"`
}

// FromDomainLoyaltyAccount конвертирует domain.LoyaltyAccount в response модель
func FromDomainLoyaltyAccount(acc *domain.LoyaltyAccount) *LoyaltyAccountResponse {
	return &LoyaltyAccountResponse{
		UserID: acc.UserID,
		Points: acc.Points,
	}
}

// UpdateStatusResponse результат смены статуса
type UpdateStatusResponse struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	PointsEarned int64  `json:"pointsEarned,omitempty"`
}

// FromDomainAppointment конвертирует domain.Appointment в response модель
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		ServiceID:       a.ServiceID,
		StaffID:         a.StaffID,
		Date:            a.Date.String(),
		StartTime:       a.StartTime.String(),
		EndTime:         a.EndTime.String(),
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		DurationMinutes: a.DurationMinutes,
		Notes:           a.Notes,
		PaymentMethod:   string(a.PaymentMethod),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	resp.CancellationReason = a.CancellationReason
	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain.Appointment в response модель
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	list := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		list = append(list, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: list}
}
