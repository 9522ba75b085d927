package complete_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition возвращается, когда запись нельзя завершить
	// из текущего статуса
	ErrInvalidTransition = errors.New("appointment cannot be completed")

	// ErrPaymentNotCompleted возвращается, когда онлайн-платёж ещё не прошёл
	ErrPaymentNotCompleted = errors.New("online payment is not completed")

	// ErrPaymentRefunded возвращается, когда платёж уже возвращён
	ErrPaymentRefunded = errors.New("payment has been refunded")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
