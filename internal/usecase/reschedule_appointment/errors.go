package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда запись принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotReschedule возвращается для завершённых и отменённых записей
	ErrCannotReschedule = errors.New("appointment cannot be rescheduled")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStaffInactive возвращается, когда мастер отключён
	ErrStaffInactive = errors.New("staff member is inactive")

	// ErrStoreClosed возвращается, когда интервал выходит за окно салона
	ErrStoreClosed = errors.New("store is closed at this time")

	// ErrOutsideSchedule возвращается, когда интервал выходит за окно мастера
	ErrOutsideSchedule = errors.New("time is outside the staff schedule")

	// ErrSlotNotAvailable возвращается, когда новый слот занят
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidDate возвращается для даты или времени в прошлом
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
