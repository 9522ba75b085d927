package domain

import "github.com/m04kA/SalonBookingService/pkg/types"

// Slot represents a bookable time interval of exactly one service duration
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}
