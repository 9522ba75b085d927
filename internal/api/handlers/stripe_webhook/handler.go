package stripe_webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"

	"github.com/m04kA/SalonBookingService/internal/domain"
	paymentRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/payment"
)

// Лимит на тело вебхука, рекомендованный stripe
const maxBodyBytes = int64(65536)

const refundCancellationReason = "оплата возвращена платёжным шлюзом"

type Handler struct {
	payGate         PayGate
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

func NewHandler(
	payGate PayGate,
	paymentRepo PaymentRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Handler {
	return &Handler{
		payGate:         payGate,
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Handle POST /api/webhooks/stripe
// Stripe повторяет доставку событий, поэтому обработка идемпотентна:
// повторное событие для уже обработанного платежа отвечает 200 без изменений
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("POST /webhooks/stripe - Failed to read body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := h.payGate.ConstructWebhookEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			h.logger.Warn("POST /webhooks/stripe - Malformed checkout.session.completed: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.handleSessionCompleted(r.Context(), &sess); err != nil {
			h.logger.Error("POST /webhooks/stripe - Failed to process checkout.session.completed: session_id=%s, error=%v",
				sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			h.logger.Warn("POST /webhooks/stripe - Malformed charge.refunded: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.handleChargeRefunded(r.Context(), &charge); err != nil {
			h.logger.Error("POST /webhooks/stripe - Failed to process charge.refunded: error=%v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	default:
		h.logger.Info("POST /webhooks/stripe - Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

// handleSessionCompleted переводит платёж в succeeded и подтверждает запись
func (h *Handler) handleSessionCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	var paymentIntentID *string
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		paymentIntentID = &sess.PaymentIntent.ID
	}

	return h.txManager.Do(ctx, func(txCtx context.Context) error {
		payment, err := h.paymentRepo.GetBySessionID(txCtx, sess.ID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				// Сессия не из этого сервиса - подтверждаем доставку, но логируем
				h.logger.Warn("POST /webhooks/stripe - Unknown session: session_id=%s", sess.ID)
				return nil
			}
			return err
		}

		// Повторная доставка события
		if payment.Status == domain.PaymentSucceeded {
			h.logger.Info("POST /webhooks/stripe - Payment already succeeded: payment_id=%d", payment.ID)
			return nil
		}

		if err := h.paymentRepo.MarkSucceeded(txCtx, payment.ID, paymentIntentID); err != nil {
			return err
		}

		appointment, err := h.appointmentRepo.GetByID(txCtx, payment.AppointmentID)
		if err != nil {
			return err
		}

		if appointment.Status == domain.StatusPending {
			if err := h.appointmentRepo.UpdateStatus(txCtx, appointment.ID, domain.StatusConfirmed); err != nil {
				return err
			}
		}

		h.logger.Info("POST /webhooks/stripe - Payment succeeded, appointment confirmed: payment_id=%d, appointment_id=%d",
			payment.ID, appointment.ID)
		return nil
	})
}

// handleChargeRefunded переводит платёж в refunded и отменяет запись
func (h *Handler) handleChargeRefunded(ctx context.Context, charge *stripe.Charge) error {
	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		h.logger.Warn("POST /webhooks/stripe - charge.refunded without payment intent")
		return nil
	}

	return h.txManager.Do(ctx, func(txCtx context.Context) error {
		payment, err := h.paymentRepo.GetByPaymentIntentID(txCtx, charge.PaymentIntent.ID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				h.logger.Warn("POST /webhooks/stripe - Unknown payment intent: payment_intent_id=%s",
					charge.PaymentIntent.ID)
				return nil
			}
			return err
		}

		if payment.Status == domain.PaymentRefunded {
			h.logger.Info("POST /webhooks/stripe - Payment already refunded: payment_id=%d", payment.ID)
			return nil
		}

		if err := h.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentRefunded); err != nil {
			return err
		}

		appointment, err := h.appointmentRepo.GetByID(txCtx, payment.AppointmentID)
		if err != nil {
			return err
		}

		if appointment.CanBeCancelled() {
			if err := h.appointmentRepo.Cancel(txCtx, appointment.ID, refundCancellationReason); err != nil {
				return err
			}
		}

		h.logger.Info("POST /webhooks/stripe - Payment refunded, appointment cancelled: payment_id=%d, appointment_id=%d",
			payment.ID, appointment.ID)
		return nil
	})
}
