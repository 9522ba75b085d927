package create_appointment

import (
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID        int64            // ID клиента
	ServiceID     int64            // ID услуги
	StaffID       *int64           // ID мастера (опционально)
	Date          types.DateString // Дата записи
	StartTime     types.TimeString // Время начала, должно лежать на сетке слотов
	Notes         *string          // Пожелания клиента
	PaymentMethod string           // "online" или "in_store"
	Email         *string          // Email для подтверждения (опционально)
}

// Response модель ответа с созданной записью
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
	ServicePrice    float64          `json:"servicePrice"`
	DurationMinutes int              `json:"durationMinutes"`
	Notes           *string          `json:"notes,omitempty"`
	PaymentMethod   string           `json:"paymentMethod"`
	PaymentURL      *string          `json:"paymentUrl,omitempty"` // Ссылка на оплату для online
	CreatedAt       time.Time        `json:"createdAt"`
}
