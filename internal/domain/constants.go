package domain

// Time format constants
const (
	TimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxNotesLength            = 500
	MaxCancelReasonLength     = 500
)

// ValidStatuses все допустимые статусы записи
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseStatus валидирует строку и возвращает статус записи
func ParseStatus(s string) (AppointmentStatus, bool) {
	for _, valid := range ValidStatuses {
		if AppointmentStatus(s) == valid {
			return valid, true
		}
	}
	return "", false
}
