package domain

import "time"

// Service a bookable salon service; duration drives slot length
type Service struct {
	ID              int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Staff a salon staff member
type Staff struct {
	ID          int64
	UserID      int64
	DisplayName string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
