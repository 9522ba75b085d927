package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time overflows the day")
)

// TimeString время суток в виде строки "HH:MM:SS"
// Хранится нормализованным, поэтому лексикографическое сравнение
// совпадает с хронологическим. Никаких таймзон и инстантов -
// это "время на настенных часах" салона.
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только время суток)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04:05"))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
// и нормализует её к "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	h, m, sec, err := splitTime(s)
	if err != nil {
		return "", err
	}
	return TimeString(fmt.Sprintf("%02d:%02d:%02d", h, m, sec)), nil
}

// splitTime разбирает строку времени на компоненты с валидацией диапазонов
func splitTime(s string) (int, int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		nums[i] = n
	}

	h, m, sec := nums[0], nums[1], nums[2]
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return h, m, sec, nil
}

// String возвращает строковое представление "HH:MM:SS"
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет корректность формата
func (t TimeString) Validate() error {
	_, _, _, err := splitTime(string(t))
	return err
}

// Normalized возвращает время, нормализованное к "HH:MM:SS"
// ("10:00" становится "10:00:00")
func (t TimeString) Normalized() (TimeString, error) {
	return NewTimeStringFromString(string(t))
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// secondsOfDay возвращает число секунд с начала суток
func (t TimeString) secondsOfDay() (int, error) {
	h, m, sec, err := splitTime(string(t))
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + sec, nil
}

// AddMinutes возвращает время, сдвинутое на m минут вперёд.
// Переход через полночь считается ошибкой: рабочий день салона
// не пересекает границу суток.
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	total, err := t.secondsOfDay()
	if err != nil {
		return "", err
	}

	total += m * 60
	if total < 0 || total >= 24*3600 {
		return "", fmt.Errorf("%w: %s + %d min", ErrTimeOverflow, t, m)
	}

	return TimeString(fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)), nil
}
