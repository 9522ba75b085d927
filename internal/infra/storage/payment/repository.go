package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

var paymentColumns = []string{
	"id",
	"appointment_id",
	"provider",
	"session_id",
	"payment_intent_id",
	"amount",
	"currency",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежей и баллов лояльности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платёж для записи
func (r *Repository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("appointment_id", "provider", "session_id", "amount", "currency", "status").
		Values(p.AppointmentID, p.Provider, p.SessionID, p.Amount, p.Currency, p.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// GetByAppointmentID получает платёж по ID записи
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"appointment_id": appointmentID})

	// Внутри транзакции завершения записи платёж блокируется,
	// чтобы вебхук и завершение не перезаписали статус друг друга
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByAppointmentID")
}

// GetBySessionID получает платёж по checkout session id
func (r *Repository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"session_id": sessionID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySessionID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetBySessionID")
}

// GetByPaymentIntentID получает платёж по stripe payment intent id.
// Используется вебхуком charge.refunded, где session id недоступен
func (r *Repository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"payment_intent_id": paymentIntentID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentIntentID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByPaymentIntentID")
}

// MarkSucceeded переводит платёж в succeeded и сохраняет payment intent id
func (r *Repository) MarkSucceeded(ctx context.Context, id int64, paymentIntentID *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentSucceeded).
		Set("payment_intent_id", paymentIntentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkSucceeded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkSucceeded - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkSucceeded - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// UpdateStatus обновляет статус платежа
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// AddLoyaltyPoints начисляет баллы пользователю, создавая счёт при первом начислении
func (r *Repository) AddLoyaltyPoints(ctx context.Context, userID int64, points int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("loyalty_accounts").
		Columns("user_id", "points").
		Values(userID, points).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET points = loyalty_accounts.points + EXCLUDED.points, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddLoyaltyPoints - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddLoyaltyPoints - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetLoyaltyAccount возвращает счёт лояльности пользователя.
// Для пользователя без начислений возвращает нулевой баланс.
func (r *Repository) GetLoyaltyAccount(ctx context.Context, userID int64) (*domain.LoyaltyAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id", "points", "updated_at").
		From("loyalty_accounts").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLoyaltyAccount - build select query: %v", ErrBuildQuery, err)
	}

	var acc domain.LoyaltyAccount
	err = executor.QueryRowContext(ctx, query, args...).Scan(&acc.UserID, &acc.Points, &acc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.LoyaltyAccount{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLoyaltyAccount - scan row: %v", ErrScanRow, err)
	}

	return &acc, nil
}

func (r *Repository) scanOne(row *sql.Row, op string) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.AppointmentID,
		&p.Provider,
		&p.SessionID,
		&p.PaymentIntentID,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
	}

	return &p, nil
}
