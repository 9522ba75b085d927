package get_available_slots

import (
	"errors"
	"sort"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// tileWindow нарезает окно [open, close) на слоты фиксированной длительности
// без зазоров: каждый следующий слот начинается там, где закончился предыдущий.
// Неполный хвост, не вмещающий полную услугу, отбрасывается.
func tileWindow(open, close types.TimeString, durationMinutes int) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0)
	current := open

	for current.IsBefore(close) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			if errors.Is(err, types.ErrTimeOverflow) {
				// Слот вылез за полночь - хвост окна слишком короткий
				break
			}
			return nil, err
		}
		if slotEnd.IsAfter(close) {
			break
		}

		slots = append(slots, domain.Slot{StartTime: current, EndTime: slotEnd})
		current = slotEnd
	}

	return slots, nil
}

// filterConflicts оставляет слоты, не пересекающиеся ни с одной активной записью.
// Интервалы полуоткрытые: запись, заканчивающаяся ровно в начале слота,
// конфликтом не считается.
func filterConflicts(slots []domain.Slot, appointments []*domain.Appointment) []domain.Slot {
	free := make([]domain.Slot, 0, len(slots))

	for _, slot := range slots {
		conflict := false
		for _, a := range appointments {
			if !a.BlocksSlot() {
				continue
			}
			if a.Overlaps(slot.StartTime, slot.EndTime) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, slot)
		}
	}

	return free
}

// filterPastSlots для сегодняшней даты убирает слоты, начавшиеся до текущего
// момента. Для будущих дат возвращает слоты как есть.
func filterPastSlots(slots []domain.Slot, date types.DateString, now time.Time) []domain.Slot {
	if !date.Equal(types.NewDateString(now)) {
		return slots
	}

	nowTime := types.NewTimeString(now)
	upcoming := make([]domain.Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.StartTime.IsBefore(nowTime) {
			upcoming = append(upcoming, slot)
		}
	}

	return upcoming
}

// mergeSlots объединяет наборы слотов разных мастеров в один отсортированный
// список без дубликатов по времени начала
func mergeSlots(slotSets ...[]domain.Slot) []domain.Slot {
	seen := make(map[types.TimeString]domain.Slot)
	for _, set := range slotSets {
		for _, slot := range set {
			seen[slot.StartTime] = slot
		}
	}

	merged := make([]domain.Slot, 0, len(seen))
	for _, slot := range seen {
		merged = append(merged, slot)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].StartTime.IsBefore(merged[j].StartTime)
	})

	return merged
}
