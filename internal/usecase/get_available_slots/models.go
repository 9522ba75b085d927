package get_available_slots

import (
	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64            // ID услуги (длительность услуги задаёт шаг сетки)
	StaffID   *int64           // ID мастера (опционально)
	Date      types.DateString // Дата, на которую запрашиваются слоты
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      types.DateString // Дата, на которую запрашивались слоты
	ServiceID int64            // ID услуги
	StaffID   *int64           // ID мастера, если был указан в запросе
	Slots     []domain.Slot    // Список доступных слотов, отсортированный по началу
}
