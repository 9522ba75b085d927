package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("service is inactive")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStaffInactive возвращается, когда мастер отключён
	ErrStaffInactive = errors.New("staff member is inactive")

	// ErrStoreClosed возвращается, когда салон закрыт или интервал
	// выходит за его рабочее окно
	ErrStoreClosed = errors.New("store is closed at this time")

	// ErrOutsideSchedule возвращается, когда интервал выходит за
	// рабочее окно мастера
	ErrOutsideSchedule = errors.New("time is outside the staff schedule")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidDate возвращается для даты или времени в прошлом
	ErrInvalidDate = errors.New("invalid date")

	// ErrPaymentFailed возвращается при ошибке создания платёжной сессии
	ErrPaymentFailed = errors.New("failed to initiate payment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
