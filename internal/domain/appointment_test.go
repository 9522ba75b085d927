package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusNoShow, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			assert.Equal(t, tt.want, a.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointment_Overlaps(t *testing.T) {
	a := &Appointment{StartTime: "10:00:00", EndTime: "10:45:00"}

	// Реальное пересечение
	assert.True(t, a.Overlaps("10:30:00", "11:15:00"))
	assert.True(t, a.Overlaps("09:30:00", "10:15:00"))
	assert.True(t, a.Overlaps("10:00:00", "10:45:00"))
	assert.True(t, a.Overlaps("09:00:00", "12:00:00"))

	// Граничащие интервалы не пересекаются (полуоткрытые интервалы)
	assert.False(t, a.Overlaps("09:15:00", "10:00:00"))
	assert.False(t, a.Overlaps("10:45:00", "11:30:00"))
}

func TestAppointment_BlocksSlot(t *testing.T) {
	for _, status := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow} {
		a := &Appointment{Status: status}
		assert.True(t, a.BlocksSlot(), "status %s must keep the slot occupied", status)
	}

	cancelled := &Appointment{Status: StatusCancelled}
	assert.False(t, cancelled.BlocksSlot())
}

func TestIntersectWindows(t *testing.T) {
	// Окно мастера внутри окна салона
	start, end, ok := IntersectWindows("09:00:00", "18:00:00", "10:00:00", "16:00:00")
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("10:00:00"), start)
	assert.Equal(t, types.TimeString("16:00:00"), end)

	// Частичное пересечение
	start, end, ok = IntersectWindows("09:00:00", "14:00:00", "12:00:00", "20:00:00")
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("12:00:00"), start)
	assert.Equal(t, types.TimeString("14:00:00"), end)

	// Нет пересечения
	_, _, ok = IntersectWindows("09:00:00", "12:00:00", "13:00:00", "18:00:00")
	assert.False(t, ok)

	// Нулевое пересечение (границы касаются)
	_, _, ok = IntersectWindows("09:00:00", "12:00:00", "12:00:00", "18:00:00")
	assert.False(t, ok)
}

func TestStaffDay_Contains(t *testing.T) {
	day := WorkingDay("10:00:00", "16:00:00")

	assert.True(t, day.Contains("10:00:00", "10:45:00"))
	assert.True(t, day.Contains("15:15:00", "16:00:00"))
	assert.False(t, day.Contains("09:30:00", "10:15:00"))
	assert.False(t, day.Contains("15:30:00", "16:15:00"))

	assert.False(t, DayOff().Contains("10:00:00", "10:45:00"))
}
