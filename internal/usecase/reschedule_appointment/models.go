package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64            // ID переносимой записи
	UserID        int64            // ID клиента (владелец записи)
	Date          types.DateString // Новая дата
	StartTime     types.TimeString // Новое время начала
	StaffID       *int64           // Новый мастер (опционально, иначе сохраняется текущий)
	Notes         *string          // Обновлённые пожелания (опционально)
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"userId"`
	ServiceID       int64            `json:"serviceId"`
	StaffID         *int64           `json:"staffId,omitempty"`
	Date            types.DateString `json:"date"`
	StartTime       string           `json:"startTime"`
	EndTime         string           `json:"endTime"`
	Status          string           `json:"status"`
	ServiceName     string           `json:"serviceName"`
	DurationMinutes int              `json:"durationMinutes"`
	Notes           *string          `json:"notes,omitempty"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}
