package lib

import (
	"context"
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// PresentPaymentSheet drives the provider handshake for an intent the
// backend created: look the intent up, then confirm it with the given
// payment method. Returns the confirmed intent id.
func PresentPaymentSheet(ctx context.Context, paymentIntentID, paymentMethod string) (string, error) {
	sc := GetStripeClient()
	intent, err := sc.V1PaymentIntents.Retrieve(ctx, paymentIntentID, nil)
	if err != nil {
		return "", err
	}
	if intent.Status == stripe.PaymentIntentStatusSucceeded {
		return intent.ID, nil
	}
	params := stripe.PaymentIntentConfirmParams{}
	if paymentMethod != "" {
		params.PaymentMethod = stripe.String(paymentMethod)
	}
	confirmed, err := sc.V1PaymentIntents.Confirm(ctx, paymentIntentID, &params)
	if err != nil {
		return "", err
	}
	if confirmed.Status != stripe.PaymentIntentStatusSucceeded &&
		confirmed.Status != stripe.PaymentIntentStatusProcessing {
		return "", fmt.Errorf("payment intent %s not completed: %s", confirmed.ID, confirmed.Status)
	}
	return confirmed.ID, nil
}
