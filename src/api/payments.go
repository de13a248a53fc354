package api

import (
	"context"
	"net/http"
	"ticketmate/src/types"
)

// CreatePaymentIntent asks the backend for a payment sheet. amount is
// in minor units (cents). The idempotency key guards against double
// capture when the caller retries after a transport failure.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, email, idempotencyKey string) (*types.PaymentSheetParams, error) {
	body := types.CreatePaymentIntentRequestBody{
		Amount:         amount,
		Email:          email,
		IdempotencyKey: idempotencyKey,
	}
	var params types.PaymentSheetParams
	if err := c.do(ctx, "CreatePaymentIntent", http.MethodPost, "/api/payments/create-payment-intent", &body, &params, true); err != nil {
		return nil, err
	}
	return &params, nil
}

// HandleSuccessfulPayment triggers the buyer receipt email.
func (c *Client) HandleSuccessfulPayment(ctx context.Context, userID, paymentIntentID string) error {
	body := types.SuccessfulPaymentRequestBody{
		UserID:          userID,
		PaymentIntentID: paymentIntentID,
	}
	return c.do(ctx, "HandleSuccessfulPayment", http.MethodPost, "/api/payments/handle-successful-payment", &body, nil, true)
}

// SendSellerEmail dispatches one seller's payout notification.
func (c *Client) SendSellerEmail(ctx context.Context, body types.SellerEmailRequestBody) error {
	return c.do(ctx, "SendSellerEmail", http.MethodPost, "/api/payments/send-seller-email", &body, nil, true)
}
