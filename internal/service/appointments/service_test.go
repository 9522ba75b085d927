package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SalonBookingService/internal/service/appointments/models"
	"github.com/m04kA/SalonBookingService/internal/usecase/complete_appointment"
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

func (f *fakeAppointmentRepo) GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.byID {
		if a.UserID != userID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) GetForDay(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.byID {
		if !a.Date.Equal(filter.Date) {
			continue
		}
		if filter.StaffID != nil && !a.AssignedTo(*filter.StaffID) {
			continue
		}
		if filter.UnassignedOnly && !a.IsUnassigned() {
			continue
		}
		if !filter.IncludeInactive && !a.BlocksSlot() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := f.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	a, ok := f.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = domain.StatusCancelled
	if reason != "" {
		a.CancellationReason = &reason
	}
	now := time.Now()
	a.CancelledAt = &now
	return nil
}

type fakePaymentRepo struct {
	byAppointment map[int64]*domain.Payment
	loyaltyPoints int64
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

func (f *fakePaymentRepo) GetLoyaltyAccount(ctx context.Context, userID int64) (*domain.LoyaltyAccount, error) {
	return &domain.LoyaltyAccount{UserID: userID, Points: f.loyaltyPoints}, nil
}

type fakePayGate struct {
	refunded []string
	fail     bool
}

func (f *fakePayGate) RefundBySessionID(sessionID string) error {
	if f.fail {
		return errors.New("gateway unavailable")
	}
	f.refunded = append(f.refunded, sessionID)
	return nil
}

type fakeCompleter struct {
	resp *complete_appointment.Response
	err  error
}

func (f *fakeCompleter) Execute(ctx context.Context, req *complete_appointment.Request) (*complete_appointment.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
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

func confirmedAppointment(id, userID int64) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		UserID:        userID,
		ServiceID:     1,
		StaffID:       ptr.Ptr(int64(1)),
		Date:          "2026-01-10",
		StartTime:     "10:30:00",
		EndTime:       "11:15:00",
		Status:        domain.StatusConfirmed,
		ServiceName:   "Стрижка",
		ServicePrice:  1500,
		PaymentMethod: domain.PaymentMethodInStore,
	}
}

func newTestService(appointments *fakeAppointmentRepo, payments *fakePaymentRepo, payGate *fakePayGate, completer *fakeCompleter) *Service {
	if payments == nil {
		payments = &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{}}
	}
	if payGate == nil {
		payGate = &fakePayGate{}
	}
	if completer == nil {
		completer = &fakeCompleter{}
	}
	return NewService(appointments, payments, payGate, completer, fakeTxManager{}, noopLogger{})
}

func TestGetByID_Owner(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	svc := newTestService(repo, nil, nil, nil)

	resp, err := svc.GetByID(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, "10:30:00", resp.StartTime)
}

func TestGetByID_ForeignUser(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.GetByID(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.GetByID(context.Background(), 42, 100)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetUserAppointments_FilterByStatus(t *testing.T) {
	cancelled := confirmedAppointment(2, 100)
	cancelled.Status = domain.StatusCancelled
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{
		1: confirmedAppointment(1, 100),
		2: cancelled,
		3: confirmedAppointment(3, 200),
	}}
	svc := newTestService(repo, nil, nil, nil)

	resp, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: 100,
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
}

func TestGetUserAppointments_InvalidStatus(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: 100,
		Status: ptr.Ptr("finished"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetStaffDayAppointments(t *testing.T) {
	other := confirmedAppointment(2, 200)
	other.StaffID = ptr.Ptr(int64(2))
	cancelled := confirmedAppointment(3, 300)
	cancelled.Status = domain.StatusCancelled
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{
		1: confirmedAppointment(1, 100),
		2: other,
		3: cancelled,
	}}
	svc := newTestService(repo, nil, nil, nil)

	resp, err := svc.GetStaffDayAppointments(context.Background(), &models.StaffDayRequest{
		Date:    "2026-01-10",
		StaffID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)
	// Отменённая запись мастера 1 не попадает без includeCancelled
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
}

func TestCancel_InStorePayment(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{
		1: {ID: 10, AppointmentID: 1, Provider: domain.ProviderInStore, Status: domain.PaymentPending},
	}}
	payGate := &fakePayGate{}
	svc := newTestService(repo, payments, payGate, nil)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             100,
		CancellationReason: "передумал",
	})
	require.NoError(t, err)

	assert.False(t, resp.Refunded)
	assert.Empty(t, payGate.refunded)
	assert.Equal(t, domain.StatusCancelled, repo.byID[1].Status)
	require.NotNil(t, repo.byID[1].CancellationReason)
	assert.Equal(t, "передумал", *repo.byID[1].CancellationReason)
}

func TestCancel_PaidOnlineRefunds(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{
		1: {
			ID:            10,
			AppointmentID: 1,
			Provider:      domain.ProviderStripe,
			SessionID:     ptr.Ptr("cs_test_123"),
			Status:        domain.PaymentSucceeded,
		},
	}}
	payGate := &fakePayGate{}
	svc := newTestService(repo, payments, payGate, nil)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 100})
	require.NoError(t, err)

	assert.True(t, resp.Refunded)
	assert.Equal(t, []string{"cs_test_123"}, payGate.refunded)
	assert.Equal(t, domain.PaymentRefunded, payments.byAppointment[1].Status)
}

func TestCancel_RefundFailureKeepsCancellation(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{
		1: {
			ID:            10,
			AppointmentID: 1,
			Provider:      domain.ProviderStripe,
			SessionID:     ptr.Ptr("cs_test_123"),
			Status:        domain.PaymentSucceeded,
		},
	}}
	payGate := &fakePayGate{fail: true}
	svc := newTestService(repo, payments, payGate, nil)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 100})
	require.NoError(t, err)

	// Запись отменена, платёж остаётся succeeded для ручного разбора
	assert.False(t, resp.Refunded)
	assert.Equal(t, domain.StatusCancelled, repo.byID[1].Status)
	assert.Equal(t, domain.PaymentSucceeded, payments.byAppointment[1].Status)
}

func TestCancel_ForeignUser(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusConfirmed, repo.byID[1].Status)
}

func TestCancel_CompletedCannotBeCancelled(t *testing.T) {
	done := confirmedAppointment(1, 100)
	done.Status = domain.StatusCompleted
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: done}}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_Confirm(t *testing.T) {
	pending := confirmedAppointment(1, 100)
	pending.Status = domain.StatusPending
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: pending}}
	svc := newTestService(repo, nil, nil, nil)

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.byID[1].Status)
}

func TestUpdateStatus_CompletedDelegates(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	completer := &fakeCompleter{resp: &complete_appointment.Response{
		ID:           1,
		Status:       "completed",
		PointsEarned: 150,
	}}
	svc := newTestService(repo, nil, nil, completer)

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, int64(150), resp.PointsEarned)
}

func TestUpdateStatus_CompletionErrorMapped(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	completer := &fakeCompleter{err: complete_appointment.ErrPaymentNotCompleted}
	svc := newTestService(repo, nil, nil, completer)

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	done := confirmedAppointment(1, 100)
	done.Status = domain.StatusCompleted
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: done}}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetLoyaltyAccount(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	payments := &fakePaymentRepo{byAppointment: map[int64]*domain.Payment{}, loyaltyPoints: 420}
	svc := newTestService(repo, payments, nil, nil)

	resp, err := svc.GetLoyaltyAccount(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(420), resp.Points)
}

func TestUpdateStatus_NoShow(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{1: confirmedAppointment(1, 100)}}
	svc := newTestService(repo, nil, nil, nil)

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "no_show"})
	require.NoError(t, err)
	assert.Equal(t, "no_show", resp.Status)
	assert.Equal(t, domain.StatusNoShow, repo.byID[1].Status)
}
