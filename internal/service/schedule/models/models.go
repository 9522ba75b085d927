package models

import (
	"github.com/m04kA/SalonBookingService/internal/domain"
)

// Request модели

// DayHours часы работы на один день недели
type DayHours struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "18:00"
	IsOpen    bool   `json:"isOpen"`
}

// UpdateStoreHoursRequest запрос на обновление недельного расписания салона
type UpdateStoreHoursRequest struct {
	Days []DayHours `json:"days"`
}

// CreateExceptionRequest запрос на создание исключения на дату
type CreateExceptionRequest struct {
	Date      string  `json:"date"` // "2026-01-01"
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`  // обязательно при isOpen=true
	CloseTime *string `json:"closeTime,omitempty"` // обязательно при isOpen=true
	Reason    *string `json:"reason,omitempty"`
}

// StaffDayHours график мастера на один день недели
type StaffDayHours struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsDayOff  bool   `json:"isDayOff"`
}

// UpdateStaffScheduleRequest запрос на обновление недельного графика мастера
type UpdateStaffScheduleRequest struct {
	Days []StaffDayHours `json:"days"`
}

// Response модели

// StoreHoursResponse недельное расписание салона
type StoreHoursResponse struct {
	Days []DayHours `json:"days"`
}

// ExceptionResponse исключение из расписания на дату
type ExceptionResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// StaffScheduleResponse недельный график мастера
type StaffScheduleResponse struct {
	StaffID int64           `json:"staffId"`
	Days    []StaffDayHours `json:"days"`
}

// FromDomainStoreHours конвертирует расписание салона в response
func FromDomainStoreHours(hours []*domain.StoreHours) *StoreHoursResponse {
	days := make([]DayHours, 0, len(hours))
	for _, h := range hours {
		days = append(days, DayHours{
			DayOfWeek: h.DayOfWeek,
			OpenTime:  h.OpenTime.String(),
			CloseTime: h.CloseTime.String(),
			IsOpen:    h.IsOpen,
		})
	}
	return &StoreHoursResponse{Days: days}
}

// FromDomainException конвертирует исключение в response
func FromDomainException(e *domain.StoreException) *ExceptionResponse {
	resp := &ExceptionResponse{
		ID:     e.ID,
		Date:   e.Date.String(),
		IsOpen: e.IsOpen,
		Reason: e.Reason,
	}
	if e.OpenTime != nil {
		open := e.OpenTime.String()
		resp.OpenTime = &open
	}
	if e.CloseTime != nil {
		closeT := e.CloseTime.String()
		resp.CloseTime = &closeT
	}
	return resp
}

// FromDomainStaffSchedule конвертирует график мастера в response
func FromDomainStaffSchedule(staffID int64, schedules []*domain.StaffSchedule) *StaffScheduleResponse {
	days := make([]StaffDayHours, 0, len(schedules))
	for _, s := range schedules {
		days = append(days, StaffDayHours{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			IsDayOff:  s.IsDayOff,
		})
	}
	return &StaffScheduleResponse{StaffID: staffID, Days: days}
}
