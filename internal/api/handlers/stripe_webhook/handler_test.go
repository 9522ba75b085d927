package stripe_webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/m04kA/SalonBookingService/internal/domain"
	paymentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SalonBookingService/internal/integrations/paygate"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
)

type fakePayGate struct {
	event stripe.Event
	fail  bool
}

func (f *fakePayGate) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	if f.fail {
		return stripe.Event{}, paygate.ErrWebhookSignature
	}
	return f.event, nil
}

type fakePaymentRepo struct {
	payments []*domain.Payment
}

func (f *fakePaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	for _, p := range f.payments {
		if p.SessionID != nil && *p.SessionID == sessionID {
			return p, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Payment, error) {
	for _, p := range f.payments {
		if p.PaymentIntentID != nil && *p.PaymentIntentID == paymentIntentID {
			return p, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) MarkSucceeded(ctx context.Context, id int64, paymentIntentID *string) error {
	for _, p := range f.payments {
		if p.ID == id {
			p.Status = domain.PaymentSucceeded
			p.PaymentIntentID = paymentIntentID
			return nil
		}
	}
	return paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	for _, p := range f.payments {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return paymentRepo.ErrPaymentNotFound
}

type fakeAppointmentRepo struct {
	byID map[int64]*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return f.byID[id], nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	f.byID[id].Status = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	f.byID[id].Status = domain.StatusCancelled
	f.byID[id].CancellationReason = &reason
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

func sessionCompletedEvent(t *testing.T, sessionID, paymentIntentID string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"id":             sessionID,
		"payment_intent": map[string]interface{}{"id": paymentIntentID},
	})
	require.NoError(t, err)
	return stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func chargeRefundedEvent(t *testing.T, paymentIntentID string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"payment_intent": map[string]interface{}{"id": paymentIntentID},
	})
	require.NoError(t, err)
	return stripe.Event{
		Type: "charge.refunded",
		Data: &stripe.EventData{Raw: raw},
	}
}

func serve(h *Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func newTestHandler(payGate *fakePayGate, payments *fakePaymentRepo, appointments *fakeAppointmentRepo) *Handler {
	return NewHandler(payGate, payments, appointments, fakeTxManager{}, noopLogger{})
}

func TestHandle_SessionCompleted(t *testing.T) {
	payments := &fakePaymentRepo{payments: []*domain.Payment{{
		ID:            10,
		AppointmentID: 1,
		Provider:      domain.ProviderStripe,
		SessionID:     ptr.Ptr("cs_test_123"),
		Status:        domain.PaymentPending,
	}}}
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{
		1: {ID: 1, Status: domain.StatusPending},
	}}
	h := newTestHandler(&fakePayGate{event: sessionCompletedEvent(t, "cs_test_123", "pi_test_1")}, payments, appointments)

	rec := serve(h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaymentSucceeded, payments.payments[0].Status)
	require.NotNil(t, payments.payments[0].PaymentIntentID)
	assert.Equal(t, "pi_test_1", *payments.payments[0].PaymentIntentID)
	assert.Equal(t, domain.StatusConfirmed, appointments.byID[1].Status)
}

func TestHandle_SessionCompletedIdempotent(t *testing.T) {
	payments := &fakePaymentRepo{payments: []*domain.Payment{{
		ID:            10,
		AppointmentID: 1,
		Provider:      domain.ProviderStripe,
		SessionID:     ptr.Ptr("cs_test_123"),
		Status:        domain.PaymentPending,
	}}}
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{
		1: {ID: 1, Status: domain.StatusPending},
	}}
	h := newTestHandler(&fakePayGate{event: sessionCompletedEvent(t, "cs_test_123", "pi_test_1")}, payments, appointments)

	// Stripe может доставить событие несколько раз
	assert.Equal(t, http.StatusOK, serve(h).Code)
	assert.Equal(t, http.StatusOK, serve(h).Code)

	assert.Equal(t, domain.PaymentSucceeded, payments.payments[0].Status)
	assert.Equal(t, domain.StatusConfirmed, appointments.byID[1].Status)
}

func TestHandle_UnknownSessionAcknowledged(t *testing.T) {
	payments := &fakePaymentRepo{}
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	h := newTestHandler(&fakePayGate{event: sessionCompletedEvent(t, "cs_unknown", "pi_x")}, payments, appointments)

	assert.Equal(t, http.StatusOK, serve(h).Code)
}

func TestHandle_ChargeRefunded(t *testing.T) {
	payments := &fakePaymentRepo{payments: []*domain.Payment{{
		ID:              10,
		AppointmentID:   1,
		Provider:        domain.ProviderStripe,
		SessionID:       ptr.Ptr("cs_test_123"),
		PaymentIntentID: ptr.Ptr("pi_test_1"),
		Status:          domain.PaymentSucceeded,
	}}}
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{
		1: {ID: 1, Status: domain.StatusConfirmed},
	}}
	h := newTestHandler(&fakePayGate{event: chargeRefundedEvent(t, "pi_test_1")}, payments, appointments)

	rec := serve(h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaymentRefunded, payments.payments[0].Status)
	assert.Equal(t, domain.StatusCancelled, appointments.byID[1].Status)
}

func TestHandle_ChargeRefundedCompletedAppointmentKept(t *testing.T) {
	payments := &fakePaymentRepo{payments: []*domain.Payment{{
		ID:              10,
		AppointmentID:   1,
		PaymentIntentID: ptr.Ptr("pi_test_1"),
		Status:          domain.PaymentSucceeded,
	}}}
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{
		1: {ID: 1, Status: domain.StatusCompleted},
	}}
	h := newTestHandler(&fakePayGate{event: chargeRefundedEvent(t, "pi_test_1")}, payments, appointments)

	assert.Equal(t, http.StatusOK, serve(h).Code)
	// Платёж помечен возвращённым, но завершённая запись не отменяется
	assert.Equal(t, domain.PaymentRefunded, payments.payments[0].Status)
	assert.Equal(t, domain.StatusCompleted, appointments.byID[1].Status)
}

func TestHandle_BadSignature(t *testing.T) {
	payments := &fakePaymentRepo{}
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	h := newTestHandler(&fakePayGate{fail: true}, payments, appointments)

	assert.Equal(t, http.StatusBadRequest, serve(h).Code)
}

func TestHandle_UnhandledEventType(t *testing.T) {
	payments := &fakePaymentRepo{}
	appointments := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	h := newTestHandler(&fakePayGate{event: stripe.Event{Type: "invoice.created", Data: &stripe.EventData{Raw: []byte("{}")}}}, payments, appointments)

	assert.Equal(t, http.StatusOK, serve(h).Code)
}
