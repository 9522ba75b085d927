package paygate

import (
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Client клиент платёжного шлюза поверх Stripe Checkout
type Client struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	log           Logger
}

// NewClient создает новый экземпляр платёжного клиента.
// apiKey устанавливается глобально для всего процесса - так работает SDK.
func NewClient(apiKey, webhookSecret, successURL, cancelURL string, log Logger) *Client {
	stripe.Key = apiKey
	return &Client{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		log:           log,
	}
}

// CreateCheckoutSession создает checkout-сессию на оплату услуги.
// amount задаётся в минимальных единицах валюты (копейки, центы).
func (c *Client) CreateCheckoutSession(amount int64, currency, description, customerEmail string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		c.log.Error("CreateCheckoutSession: stripe error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreate, err)
	}

	c.log.Info("CreateCheckoutSession: created session id=%s", sess.ID)
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// RefundBySessionID делает полный возврат платежа по checkout-сессии
func (c *Client) RefundBySessionID(sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		c.log.Error("RefundBySessionID: failed to get session id=%s: %v", sessionID, err)
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("%w: no payment intent for session %s", ErrRefund, sessionID)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	if _, err := refund.New(params); err != nil {
		c.log.Error("RefundBySessionID: refund failed for session id=%s: %v", sessionID, err)
		return fmt.Errorf("%w: %v", ErrRefund, err)
	}

	c.log.Info("RefundBySessionID: refunded session id=%s", sessionID)
	return nil
}

// ConstructWebhookEvent проверяет подпись вебхука и разбирает событие
func (c *Client) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}
	return event, nil
}
