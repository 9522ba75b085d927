package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/config"
	"github.com/m04kA/SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SalonBookingService/internal/integrations/paygate"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

const testDate = types.DateString("2026-01-10")

// fakeAppointmentRepo in-memory репозиторий записей
type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	nextID       int64
	failCreate   error // если задано, Create возвращает эту ошибку
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.appointments = append(f.appointments, a)
	return a, nil
}

func (f *fakeAppointmentRepo) GetForDay(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if !a.Date.Equal(filter.Date) {
			continue
		}
		if filter.StaffID != nil && (a.StaffID == nil || *a.StaffID != *filter.StaffID) {
			continue
		}
		if filter.UnassignedOnly && a.StaffID != nil {
			continue
		}
		if !filter.IncludeInactive && !a.BlocksSlot() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeCatalog struct {
	services map[int64]*domain.Service
	staff    []*domain.Staff
}

func (f *fakeCatalog) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetStaffByID(ctx context.Context, id int64) (*domain.Staff, error) {
	for _, s := range f.staff {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, catalogRepo.ErrStaffNotFound
}

func (f *fakeCatalog) ListActiveStaff(ctx context.Context) ([]*domain.Staff, error) {
	out := make([]*domain.Staff, 0)
	for _, s := range f.staff {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments []*domain.Payment
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	p.ID = int64(len(f.payments) + 1)
	f.payments = append(f.payments, p)
	return p, nil
}

type fakeSchedule struct {
	storeDays map[types.DateString]domain.StoreDay
	staffDays map[int64]domain.StaffDay
}

func (f *fakeSchedule) ResolveStoreDay(ctx context.Context, date types.DateString) (domain.StoreDay, error) {
	if day, ok := f.storeDays[date]; ok {
		return day, nil
	}
	return domain.ClosedStoreDay("салон не работает в этот день недели"), nil
}

func (f *fakeSchedule) ResolveStaffDay(ctx context.Context, staffID int64, date types.DateString) (domain.StaffDay, error) {
	if day, ok := f.staffDays[staffID]; ok {
		return day, nil
	}
	return domain.DayOff(), nil
}

type fakePayGate struct {
	sessions int
	fail     error
}

func (f *fakePayGate) CreateCheckoutSession(amount int64, currency, description, customerEmail string) (*paygate.CheckoutSession, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.sessions++
	return &paygate.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.test/cs_test_123"}, nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) Send(toEmail, toName, subject, body string) error {
	f.sent = append(f.sent, toEmail)
	return nil
}

// fakeTxManager выполняет функцию без реальной транзакции
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

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type testEnv struct {
	uc       *UseCase
	appts    *fakeAppointmentRepo
	payments *fakePaymentRepo
	payGate  *fakePayGate
	mailer   *fakeMailer
}

func newTestEnv(assignment string) *testEnv {
	appts := &fakeAppointmentRepo{}
	payments := &fakePaymentRepo{}
	payGate := &fakePayGate{}
	mailer := &fakeMailer{}

	catalog := &fakeCatalog{
		services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Стрижка", DurationMinutes: 45, Price: 1500, IsActive: true},
		},
		staff: []*domain.Staff{
			{ID: 1, DisplayName: "Анна", IsActive: true},
			{ID: 2, DisplayName: "Мария", IsActive: true},
		},
	}

	schedule := &fakeSchedule{
		storeDays: map[types.DateString]domain.StoreDay{
			testDate: {IsOpen: true, OpenTime: "09:00:00", CloseTime: "18:00:00"},
		},
		staffDays: map[int64]domain.StaffDay{
			1: domain.WorkingDay("09:00:00", "18:00:00"),
			2: domain.WorkingDay("10:00:00", "16:00:00"),
		},
	}

	uc := NewUseCase(appts, catalog, payments, schedule, payGate, mailer, fakeTxManager{},
		assignment, "rub", noopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)}

	return &testEnv{uc: uc, appts: appts, payments: payments, payGate: payGate, mailer: mailer}
}

func validRequest() *Request {
	return &Request{
		UserID:        100,
		ServiceID:     1,
		Date:          testDate,
		StartTime:     "10:30",
		PaymentMethod: string(domain.PaymentMethodInStore),
	}
}

func TestExecute_CreatesAppointmentWithServerSideEndTime(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "10:30:00", resp.StartTime)
	// Конец интервала вычислен из длительности услуги
	assert.Equal(t, "11:15:00", resp.EndTime)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 45, resp.DurationMinutes)
	// Автоназначение выбрало первого свободного мастера
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(1), *resp.StaffID)
	assert.Nil(t, resp.PaymentURL)

	// Платёж создан в той же операции
	require.Len(t, env.payments.payments, 1)
	assert.Equal(t, domain.ProviderInStore, env.payments.payments[0].Provider)
	assert.Equal(t, int64(150000), env.payments.payments[0].Amount)
	assert.Equal(t, domain.PaymentPending, env.payments.payments[0].Status)
}

func TestExecute_ExplicitStaffConflict(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)
	env.appts.appointments = []*domain.Appointment{
		{ID: 1, StaffID: ptr.Ptr(int64(1)), Date: testDate, StartTime: "10:00:00", EndTime: "10:45:00", Status: domain.StatusConfirmed},
	}

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(1))

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_TouchingIntervalsDoNotConflict(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)
	env.appts.appointments = []*domain.Appointment{
		{ID: 1, StaffID: ptr.Ptr(int64(1)), Date: testDate, StartTime: "09:45:00", EndTime: "10:30:00", Status: domain.StatusConfirmed},
	}

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(1))

	// Новая запись начинается ровно там, где кончается существующая
	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "10:30:00", resp.StartTime)
}

func TestExecute_AutoAssignSkipsBusyStaff(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)
	env.appts.appointments = []*domain.Appointment{
		{ID: 1, StaffID: ptr.Ptr(int64(1)), Date: testDate, StartTime: "10:00:00", EndTime: "10:45:00", Status: domain.StatusConfirmed},
	}

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	// Мастер 1 занят, запись уходит мастеру 2
	assert.Equal(t, int64(2), *resp.StaffID)
}

func TestExecute_NoStaffAvailable(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)
	env.appts.appointments = []*domain.Appointment{
		{ID: 1, StaffID: ptr.Ptr(int64(1)), Date: testDate, StartTime: "10:00:00", EndTime: "10:45:00", Status: domain.StatusConfirmed},
		{ID: 2, StaffID: ptr.Ptr(int64(2)), Date: testDate, StartTime: "10:30:00", EndTime: "11:15:00", Status: domain.StatusPending},
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_UnassignedPolicy(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentUnassigned)
	// Запись мастера 1 не мешает пулу без назначения
	env.appts.appointments = []*domain.Appointment{
		{ID: 1, StaffID: ptr.Ptr(int64(1)), Date: testDate, StartTime: "10:30:00", EndTime: "11:15:00", Status: domain.StatusConfirmed},
	}

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.StaffID)

	// Вторая запись без мастера на тот же слот - конфликт
	_, err = env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_StoreClosed(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)

	req := validRequest()
	req.Date = "2026-01-11"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestExecute_OutsideStoreWindow(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)

	req := validRequest()
	req.StartTime = "17:30" // 17:30 + 45 минут = 18:15, позже закрытия

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestExecute_OutsideStaffSchedule(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(2)) // мастер 2 работает с 10:00
	req.StartTime = "09:30"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideSchedule)
}

func TestExecute_RaceLostOnUniqueIndex(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)
	env.appts.failCreate = appointmentRepo.ErrSlotTaken

	req := validRequest()
	req.StaffID = ptr.Ptr(int64(1))

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_PastStartRejected(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)
	env.uc.timeProvider = fixedTime{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}

	req := validRequest()
	req.StartTime = "10:30" // сегодня, но уже прошло

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_OnlinePayment(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)

	req := validRequest()
	req.PaymentMethod = string(domain.PaymentMethodOnline)
	req.Email = ptr.Ptr("client@example.com")

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.PaymentURL)
	assert.Equal(t, "https://checkout.test/cs_test_123", *resp.PaymentURL)
	assert.Equal(t, 1, env.payGate.sessions)

	require.Len(t, env.payments.payments, 1)
	p := env.payments.payments[0]
	assert.Equal(t, domain.ProviderStripe, p.Provider)
	require.NotNil(t, p.SessionID)
	assert.Equal(t, "cs_test_123", *p.SessionID)

	// Подтверждение ушло на указанный адрес
	assert.Equal(t, []string{"client@example.com"}, env.mailer.sent)
}

func TestExecute_CheckoutFailureAborts(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)
	env.payGate.fail = paygate.ErrSessionCreate

	req := validRequest()
	req.PaymentMethod = string(domain.PaymentMethodOnline)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	// Запись не создана
	assert.Empty(t, env.appts.appointments)
}

func TestExecute_InvalidPaymentMethod(t *testing.T) {
	env := newTestEnv(config.StaffAssignmentAuto)

	req := validRequest()
	req.PaymentMethod = "crypto"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
