package schedule_admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/service/schedule"
	"github.com/m04kA/SalonBookingService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные расписания"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgStaffNotFound      = "мастер не найден"
	msgExceptionNotFound  = "исключение на эту дату не найдено"
	msgExceptionExists    = "исключение на эту дату уже существует"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGetStoreHours GET /api/store-hours
// Ненастроенное расписание - это пустой список дней, не ошибка
func (h *Handler) HandleGetStoreHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetStoreHours(r.Context())
	if err != nil {
		h.logger.Error("GET /store-hours - Failed to get store hours: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdateStoreHours PUT /api/store-hours
func (h *Handler) HandleUpdateStoreHours(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStoreHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /store-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStoreHours(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /store-hours - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("PUT /store-hours - Failed to update store hours: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /store-hours - Store hours updated: days=%d", len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleCreateException POST /api/store-exceptions
func (h *Handler) HandleCreateException(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /store-exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateException(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /store-exceptions - Invalid input: date=%s, error=%v", req.Date, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, schedule.ErrExceptionExists):
			h.logger.Warn("POST /store-exceptions - Exception already exists: date=%s", req.Date)
			handlers.RespondError(w, http.StatusConflict, msgExceptionExists)

		default:
			h.logger.Error("POST /store-exceptions - Failed to create exception: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /store-exceptions - Exception created: date=%s, is_open=%t", result.Date, result.IsOpen)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleDeleteException DELETE /api/store-exceptions/{date}
func (h *Handler) HandleDeleteException(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	date := vars["date"]

	if err := h.service.DeleteException(r.Context(), date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /store-exceptions/{date} - Invalid date: date=%s", date)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /store-exceptions/{date} - Exception not found: date=%s", date)
			handlers.RespondNotFound(w, msgExceptionNotFound)

		default:
			h.logger.Error("DELETE /store-exceptions/{date} - Failed to delete exception: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /store-exceptions/{date} - Exception deleted: date=%s", date)
	handlers.RespondNoContent(w)
}

// HandleGetStaffSchedule GET /api/staff/{staffId}/schedule
func (h *Handler) HandleGetStaffSchedule(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.staffIDFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetStaffSchedule(r.Context(), staffID)
	if err != nil {
		if errors.Is(err, schedule.ErrStaffNotFound) {
			h.logger.Warn("GET /staff/{staffId}/schedule - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)
			return
		}
		h.logger.Error("GET /staff/{staffId}/schedule - Failed to get schedule: staff_id=%d, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdateStaffSchedule PUT /api/staff/{staffId}/schedule
func (h *Handler) HandleUpdateStaffSchedule(w http.ResponseWriter, r *http.Request) {
	staffID, ok := h.staffIDFromRequest(w, r)
	if !ok {
		return
	}

	var req models.UpdateStaffScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/{staffId}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStaffSchedule(r.Context(), staffID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("PUT /staff/{staffId}/schedule - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /staff/{staffId}/schedule - Invalid input: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /staff/{staffId}/schedule - Failed to update schedule: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/{staffId}/schedule - Schedule updated: staff_id=%d, days=%d", staffID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// staffIDFromRequest извлекает staffId из URL
func (h *Handler) staffIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("Invalid staff ID in path: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return 0, false
	}
	return staffID, true
}
