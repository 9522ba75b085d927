package complete_appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	byID map[int64]*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := f.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

type fakePaymentRepo struct {
	byAppointment map[int64]*domain.Payment
	points        map[int64]int64
}

func (f *fakePaymentRepo) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Payment, error) {
	p, ok := f.byAppointment[appointmentID]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	for _, p := range f.byAppointment {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) AddLoyaltyPoints(ctx context.Context, userID int64, points int64) error {
	if f.points == nil {
		f.points = make(map[int64]int64)
	}
	f.points[userID] += points
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:           1,
		UserID:       100,
		ServiceID:    1,
		Date:         "2026-01-10",
		StartTime:    "10:30:00",
		EndTime:      "11:15:00",
		Status:       domain.StatusConfirmed,
		ServiceName:  "Стрижка",
		ServicePrice: 1500,
	}
}

func inStorePayment() *domain.Payment {
	return &domain.Payment{
		ID:            10,
		AppointmentID: 1,
		Provider:      domain.ProviderInStore,
		Amount:        150000,
		Currency:      "eur",
		Status:        domain.PaymentPending,
	}
}

func newTestUseCase(appointments *fakeAppointmentRepo, payments *fakePaymentRepo) *UseCase {
	return NewUseCase(appointments, payments, fakeTxManager{}, 0.1, noopLogger{})
}

func TestExecute_CompletesAndAccruesPoints(t *testing.T) {
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment()}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{1: inStorePayment()}}
	uc := newTestUseCase(appointments, payments)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	// floor(1500 * 0.1) = 150 баллов
	assert.Equal(t, int64(150), resp.PointsEarned)
	assert.Equal(t, int64(150), payments.points[100])

	assert.Equal(t, domain.StatusCompleted, appointments.byID[1].Status)
	// Оплата на месте закрыта при завершении
	assert.Equal(t, domain.PaymentSucceeded, payments.byAppointment[1].Status)
}

func TestExecute_Idempotent(t *testing.T) {
	done := confirmedAppointment()
	done.Status = domain.StatusCompleted
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: done}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{1: inStorePayment()}}
	uc := newTestUseCase(appointments, payments)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	// Баллы не начисляются второй раз
	assert.Equal(t, int64(0), resp.PointsEarned)
	assert.Empty(t, payments.points)
}

func TestExecute_PointsFloored(t *testing.T) {
	a := confirmedAppointment()
	a.ServicePrice = 1999.99
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: a}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{1: inStorePayment()}}
	uc := newTestUseCase(appointments, payments)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	require.NoError(t, err)

	// floor(1999.99 * 0.1) = 199
	assert.Equal(t, int64(199), resp.PointsEarned)
}

func TestExecute_PendingOnlinePaymentBlocksCompletion(t *testing.T) {
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment()}}
	payment := &domain.Payment{
		ID:            10,
		AppointmentID: 1,
		Provider:      domain.ProviderStripe,
		SessionID:     ptr.Ptr("cs_test_123"),
		Status:        domain.PaymentPending,
	}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{1: payment}}
	uc := newTestUseCase(appointments, payments)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	assert.Equal(t, domain.StatusConfirmed, appointments.byID[1].Status)
}

func TestExecute_PaidOnlinePayment(t *testing.T) {
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment()}}
	payment := &domain.Payment{
		ID:            10,
		AppointmentID: 1,
		Provider:      domain.ProviderStripe,
		SessionID:     ptr.Ptr("cs_test_123"),
		Status:        domain.PaymentSucceeded,
	}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{1: payment}}
	uc := newTestUseCase(appointments, payments)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(150), resp.PointsEarned)
}

func TestExecute_RefundedPayment(t *testing.T) {
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment()}}
	payment := inStorePayment()
	payment.Status = domain.PaymentRefunded
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{1: payment}}
	uc := newTestUseCase(appointments, payments)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	assert.ErrorIs(t, err, ErrPaymentRefunded)
}

func TestExecute_CancelledCannotBeCompleted(t *testing.T) {
	cancelled := confirmedAppointment()
	cancelled.Status = domain.StatusCancelled
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: cancelled}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{}}
	uc := newTestUseCase(appointments, payments)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_NotFound(t *testing.T) {
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{}}
	uc := newTestUseCase(appointments, payments)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_NoPaymentRow(t *testing.T) {
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment()}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{}}
	uc := newTestUseCase(appointments, payments)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 1})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
}
