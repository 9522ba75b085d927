package domain

import (
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// PaymentMethod how the client pays for the appointment
type PaymentMethod string

const (
	PaymentMethodOnline  PaymentMethod = "online"
	PaymentMethodInStore PaymentMethod = "in_store"
)

// Appointment represents a booked service interval in the salon
type Appointment struct {
	ID        int64
	UserID    int64
	ServiceID int64
	StaffID   *int64 // nil = запись без закреплённого мастера
	Date      types.DateString
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    AppointmentStatus

	// Denormalized data for history
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int
	Notes           *string

	PaymentMethod PaymentMethod

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlocksSlot returns true if the appointment still occupies its interval.
// Only cancelled appointments free the slot; a no-show is discovered after
// the fact and never conflicts with anything in the future.
func (a *Appointment) BlocksSlot() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment can be moved to another slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanTransitionTo reports whether the status state machine allows the move.
// pending -> confirmed -> completed; pending|confirmed -> cancelled|no_show;
// completed and cancelled are terminal.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCompleted ||
			next == StatusCancelled || next == StatusNoShow
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled || next == StatusNoShow
	default:
		return false
	}
}

// Overlaps reports whether [start, end) intersects the appointment's interval.
// Intervals are half-open: touching boundaries do not overlap.
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	return a.StartTime.IsBefore(end) && a.EndTime.IsAfter(start)
}

// AssignedTo returns true if the appointment is assigned to the given staff member
func (a *Appointment) AssignedTo(staffID int64) bool {
	return a.StaffID != nil && *a.StaffID == staffID
}

// IsUnassigned returns true if no staff member is recorded on the appointment
func (a *Appointment) IsUnassigned() bool {
	return a.StaffID == nil
}

// DayFilter фильтр выборки записей на день
type DayFilter struct {
	Date            types.DateString
	StaffID         *int64 // записи конкретного мастера
	UnassignedOnly  bool   // только записи без мастера
	IncludeInactive bool   // включать отменённые записи
}
