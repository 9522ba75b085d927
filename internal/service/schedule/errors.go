package schedule

import "errors"

var (
	// ErrStoreClosed возвращается, когда салон закрыт на запрошенную дату
	ErrStoreClosed = errors.New("store is closed on this date")

	// ErrExceptionNotFound возвращается, когда исключение на дату не найдено
	ErrExceptionNotFound = errors.New("store exception not found")

	// ErrExceptionExists возвращается, когда исключение на дату уже существует
	ErrExceptionExists = errors.New("store exception already exists")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
