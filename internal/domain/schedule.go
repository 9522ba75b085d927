package domain

import (
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// StoreHours recurring weekly opening hours, one row per weekday
type StoreHours struct {
	ID        int64
	DayOfWeek int // 0 = Sunday ... 6 = Saturday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsOpen    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreException dated override of the weekly hours (holiday, special hours).
// When present for a date it fully replaces the weekday row, no merging.
type StoreException struct {
	ID        int64
	Date      types.DateString
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
	IsOpen    bool
	Reason    *string
	CreatedAt time.Time
}

// StaffSchedule a staff member's recurring weekly working window
type StaffSchedule struct {
	ID        int64
	StaffID   int64
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
	IsDayOff  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreDay resolved open/closed state of the salon for one calendar date
type StoreDay struct {
	IsOpen    bool
	Reason    string // человекочитаемая причина, когда закрыто
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// ClosedStoreDay возвращает закрытый день с причиной
func ClosedStoreDay(reason string) StoreDay {
	return StoreDay{IsOpen: false, Reason: reason}
}

// StaffDay resolved working window of one staff member for one calendar date.
// Either a day off or a working window - never both.
type StaffDay struct {
	IsDayOff  bool
	StartTime types.TimeString
	EndTime   types.TimeString
}

// WorkingDay возвращает рабочий день с окном [start, end)
func WorkingDay(start, end types.TimeString) StaffDay {
	return StaffDay{StartTime: start, EndTime: end}
}

// DayOff возвращает выходной день
func DayOff() StaffDay {
	return StaffDay{IsDayOff: true}
}

// Contains reports whether [start, end) lies fully inside the working window
func (d StaffDay) Contains(start, end types.TimeString) bool {
	if d.IsDayOff {
		return false
	}
	return !start.IsBefore(d.StartTime) && !end.IsAfter(d.EndTime)
}

// IntersectWindows возвращает пересечение двух окон [aStart, aEnd) и [bStart, bEnd).
// ok=false, если окна не пересекаются или пересечение пустое.
func IntersectWindows(aStart, aEnd, bStart, bEnd types.TimeString) (types.TimeString, types.TimeString, bool) {
	start := aStart
	if bStart.IsAfter(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.IsBefore(end) {
		end = bEnd
	}
	if !start.IsBefore(end) {
		return "", "", false
	}
	return start, end, true
}
