package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SalonBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string          `json:"date"`
	ServiceID      int64           `json:"serviceId"`
	StaffID        *int64          `json:"staffId,omitempty"`
	AvailableSlots []AvailableSlot `json:"availableSlots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToUseCaseRequest конвертирует query-параметры в модель use case
func ToUseCaseRequest(serviceID int64, staffID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date := types.DateString(dateStr)
	if err := date.Validate(); err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		StaffID:   staffID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		}
	}

	return &AvailableSlotsResponse{
		Date:           resp.Date.String(),
		ServiceID:      resp.ServiceID,
		StaffID:        resp.StaffID,
		AvailableSlots: slots,
	}
}
