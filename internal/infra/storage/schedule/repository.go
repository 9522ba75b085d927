package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Repository репозиторий расписаний: часы салона, исключения и графики мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetStoreHours возвращает недельное расписание салона, по строке на день недели
func (r *Repository) GetStoreHours(ctx context.Context) ([]*domain.StoreHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "day_of_week", "open_time", "close_time", "is_open", "created_at", "updated_at").
		From("store_hours").
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStoreHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStoreHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.StoreHours, 0, 7)
	for rows.Next() {
		var h domain.StoreHours
		if err := rows.Scan(&h.ID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsOpen, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetStoreHours - scan row: %v", ErrScanRow, err)
		}
		hours = append(hours, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStoreHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// GetStoreHoursByDay возвращает часы салона на день недели (0 = воскресенье)
func (r *Repository) GetStoreHoursByDay(ctx context.Context, dayOfWeek int) (*domain.StoreHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "day_of_week", "open_time", "close_time", "is_open", "created_at", "updated_at").
		From("store_hours").
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStoreHoursByDay - build select query: %v", ErrBuildQuery, err)
	}

	var h domain.StoreHours
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&h.ID, &h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsOpen, &h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStoreHoursByDay - scan row: %v", ErrScanRow, err)
	}

	return &h, nil
}

// UpsertStoreHours задаёт часы салона на день недели, перезаписывая существующую строку
func (r *Repository) UpsertStoreHours(ctx context.Context, h *domain.StoreHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("store_hours").
		Columns("day_of_week", "open_time", "close_time", "is_open").
		Values(h.DayOfWeek, h.OpenTime, h.CloseTime, h.IsOpen).
		Suffix("ON CONFLICT (day_of_week) DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, is_open = EXCLUDED.is_open, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertStoreHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertStoreHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetExceptionByDate возвращает исключение на дату, если оно есть
func (r *Repository) GetExceptionByDate(ctx context.Context, date types.DateString) (*domain.StoreException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "date", "open_time", "close_time", "is_open", "reason", "created_at").
		From("store_exceptions").
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByDate - build select query: %v", ErrBuildQuery, err)
	}

	var e domain.StoreException
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID, &e.Date, &e.OpenTime, &e.CloseTime, &e.IsOpen, &e.Reason, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByDate - scan row: %v", ErrScanRow, err)
	}

	return &e, nil
}

// CreateException создаёт исключение на дату
func (r *Repository) CreateException(ctx context.Context, e *domain.StoreException) (*domain.StoreException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("store_exceptions").
		Columns("date", "open_time", "close_time", "is_open", "reason").
		Values(e.Date, e.OpenTime, e.CloseTime, e.IsOpen, e.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrExceptionExists
		}
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	return e, nil
}

// DeleteExceptionByDate удаляет исключение на дату
func (r *Repository) DeleteExceptionByDate(ctx context.Context, date types.DateString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("store_exceptions").
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteExceptionByDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteExceptionByDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteExceptionByDate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// GetStaffSchedule возвращает недельный график мастера
func (r *Repository) GetStaffSchedule(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "staff_id", "day_of_week", "start_time", "end_time", "is_day_off", "created_at", "updated_at").
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffSchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.StaffSchedule, 0, 7)
	for rows.Next() {
		var s domain.StaffSchedule
		if err := rows.Scan(&s.ID, &s.StaffID, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.IsDayOff, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetStaffSchedule - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStaffSchedule - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// GetStaffScheduleByDay возвращает график мастера на день недели
func (r *Repository) GetStaffScheduleByDay(ctx context.Context, staffID int64, dayOfWeek int) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "staff_id", "day_of_week", "start_time", "end_time", "is_day_off", "created_at", "updated_at").
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID, "day_of_week": dayOfWeek}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffScheduleByDay - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.StaffSchedule
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.StaffID, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.IsDayOff, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffScheduleByDay - scan row: %v", ErrScanRow, err)
	}

	return &s, nil
}

// UpsertStaffSchedule задаёт график мастера на день недели
func (r *Repository) UpsertStaffSchedule(ctx context.Context, s *domain.StaffSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_schedules").
		Columns("staff_id", "day_of_week", "start_time", "end_time", "is_day_off").
		Values(s.StaffID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsDayOff).
		Suffix("ON CONFLICT (staff_id, day_of_week) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, is_day_off = EXCLUDED.is_day_off, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertStaffSchedule - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertStaffSchedule - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
