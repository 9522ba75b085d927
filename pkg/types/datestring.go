package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateString возвращается при некорректном формате даты
var ErrInvalidDateString = errors.New("invalid date string format")

// DateString календарная дата "YYYY-MM-DD" без привязки к таймзоне.
// Строка разбирается на компоненты год/месяц/день вручную и никогда
// не интерпретируется как инстант: парсинг ISO-даты как момента времени
// даёт сдвиг на день в зависимости от таймзоны сервера.
type DateString string

// NewDateString создает DateString из time.Time (берёт только календарную дату)
func NewDateString(t time.Time) DateString {
	return DateString(t.Format("2006-01-02"))
}

// NewDateStringFromString парсит и валидирует строку "YYYY-MM-DD"
func NewDateStringFromString(s string) (DateString, error) {
	d := DateString(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// components разбирает дату на год, месяц и день
func (d DateString) components() (int, int, int, error) {
	parts := strings.Split(string(d), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}

	return year, month, day, nil
}

// Validate проверяет формат и существование календарной даты
// (отсекает "2026-02-30" и подобное)
func (d DateString) Validate() error {
	year, month, day, err := d.components()
	if err != nil {
		return err
	}

	// time.Date нормализует некорректные даты (30 февраля -> 2 марта),
	// поэтому проверяем обратным сравнением компонентов
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return fmt.Errorf("%w: %q", ErrInvalidDateString, string(d))
	}

	return nil
}

// String возвращает строковое представление "YYYY-MM-DD"
func (d DateString) String() string {
	return string(d)
}

// IsZero возвращает true, если дата не задана
func (d DateString) IsZero() bool {
	return d == ""
}

// Weekday возвращает день недели календарной даты
func (d DateString) Weekday() (time.Weekday, error) {
	year, month, day, err := d.components()
	if err != nil {
		return 0, err
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday(), nil
}

// IsBefore возвращает true, если дата строго раньше other.
// Формат YYYY-MM-DD сравнивается лексикографически.
func (d DateString) IsBefore(other DateString) bool {
	return string(d) < string(other)
}

// Equal возвращает true, если даты совпадают
func (d DateString) Equal(other DateString) bool {
	return d == other
}
