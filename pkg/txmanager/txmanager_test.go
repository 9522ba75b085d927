package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.commits++
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rollbacks++
	return nil
}

type fakeTxBeginner struct {
	tx *fakeTx
}

func (f *fakeTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	return f.tx, nil
}

var errInternal = errors.New("usecase: internal error")

// serializationFailure собирает ошибку в том виде, в каком она доходит
// до txmanager из usecase: sentinel слоя бизнес-логики поверх обёртки
// репозитория поверх исходной ошибки драйвера с SQLSTATE 40001
func serializationFailure() error {
	pqErr := &pq.Error{Code: "40001", Message: "could not serialize access"}
	repoErr := fmt.Errorf("infra/storage/appointment.GetForDay - failed to execute query: %w", pqErr)
	return fmt.Errorf("%w: failed to get appointments: %w", errInternal, repoErr)
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeTxBeginner{tx: tx})

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return serializationFailure()
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, attempts)
	assert.Equal(t, maxSerializableRetries, tx.rollbacks)
	assert.Zero(t, tx.commits)

	// Цепочка ошибки не рвётся по пути наверх
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
	assert.True(t, errors.Is(err, errInternal))
}

func TestDoSerializable_SucceedsAfterRetry(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeTxBeginner{tx: tx})

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return serializationFailure()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Equal(t, 1, tx.commits)
}

func TestDoSerializable_DoesNotRetryOtherErrors(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeTxBeginner{tx: tx})

	wantErr := errors.New("boom")
	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	m := NewTransactionManager(&fakeTxBeginner{tx: tx})

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Zero(t, tx.rollbacks)
}
