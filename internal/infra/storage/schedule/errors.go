package schedule

import "errors"

var (
	// ErrStoreHoursNotFound возвращается, когда расписание на день недели не задано
	ErrStoreHoursNotFound = errors.New("schedule.repository: store hours not found")

	// ErrExceptionNotFound возвращается, когда исключение на дату не найдено
	ErrExceptionNotFound = errors.New("schedule.repository: store exception not found")

	// ErrExceptionExists возвращается при попытке создать второе исключение на ту же дату
	ErrExceptionExists = errors.New("schedule.repository: store exception already exists")

	// ErrStaffScheduleNotFound возвращается, когда график мастера на день недели не задан
	ErrStaffScheduleNotFound = errors.New("schedule.repository: staff schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
