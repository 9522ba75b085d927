package paygate

import "errors"

var (
	// ErrSessionCreate возвращается при ошибке создания checkout-сессии
	ErrSessionCreate = errors.New("paygate: failed to create checkout session")

	// ErrSessionNotFound возвращается, когда checkout-сессия не найдена
	ErrSessionNotFound = errors.New("paygate: checkout session not found")

	// ErrRefund возвращается при ошибке возврата платежа
	ErrRefund = errors.New("paygate: failed to refund payment")

	// ErrWebhookSignature возвращается при невалидной подписи вебхука
	ErrWebhookSignature = errors.New("paygate: invalid webhook signature")
)
