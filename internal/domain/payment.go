package domain

import "time"

// PaymentStatus статус платежа за запись
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Платёжные провайдеры
const (
	ProviderStripe  = "stripe"
	ProviderInStore = "in_store"
)

// Payment платёж, привязанный к записи (ровно один на запись).
// Для оплаты на месте создаётся со статусом pending и провайдером in_store
// и переводится в succeeded при завершении записи.
type Payment struct {
	ID              int64
	AppointmentID   int64
	Provider        string
	SessionID       *string // checkout session id для stripe
	PaymentIntentID *string // проставляется вебхуком checkout.session.completed
	Amount          int64   // в минимальных единицах валюты
	Currency        string
	Status          PaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPaid returns true once the payment has succeeded
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentSucceeded
}

// LoyaltyAccount баланс баллов лояльности пользователя
type LoyaltyAccount struct {
	UserID    int64
	Points    int64
	UpdatedAt time.Time
}
