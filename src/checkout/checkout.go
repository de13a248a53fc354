package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"ticketmate/src/api"
	"ticketmate/src/lib"
	"ticketmate/src/models"
	"ticketmate/src/types"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type State string

const (
	StatePending   State = "pending"
	StatePaid      State = "paid"
	StateCommitted State = "committed"
	// StateFailedNeedsReconciliation marks a checkout whose payment
	// was captured but whose inventory commit failed. The client only
	// reports it; the backend owns the reconciliation.
	StateFailedNeedsReconciliation State = "failed-needs-reconciliation"
)

var (
	ErrEmptySelection   = errors.New("No tickets selected")
	ErrNotAuthenticated = errors.New("You must be signed in to buy tickets")
	ErrTermsNotAgreed   = errors.New("You must agree to the terms before checkout")
	ErrPurchaseFailed   = errors.New("Ticket Purchase Failed")
)

// ConfirmPaymentFunc drives the provider UI handshake and returns the
// confirmed payment intent id.
type ConfirmPaymentFunc func(ctx context.Context, clientSecret, paymentIntentID string) (string, error)

// Workflow drives the two-phase checkout: payment capture first, then
// inventory commit, with post-purchase notifications as side effects.
type Workflow struct {
	gateway  *api.Client
	validate *validator.Validate
	confirm  ConfirmPaymentFunc

	// PaymentMethod is handed to the provider at confirm time.
	PaymentMethod string
}

func NewWorkflow(gateway *api.Client) *Workflow {
	w := &Workflow{
		gateway:  gateway,
		validate: validator.New(),
	}
	w.confirm = func(ctx context.Context, clientSecret, paymentIntentID string) (string, error) {
		return lib.PresentPaymentSheet(ctx, paymentIntentID, w.PaymentMethod)
	}
	return w
}

// NewWorkflowWithConfirm injects the provider handshake, for callers
// that present the payment sheet themselves.
func NewWorkflowWithConfirm(gateway *api.Client, confirm ConfirmPaymentFunc) *Workflow {
	w := NewWorkflow(gateway)
	w.confirm = confirm
	return w
}

// Checkout is one purchase attempt moving through the saga states
// pending -> paid -> committed. It keeps the payment intent id and
// ticket ids so a failed commit can be handed to support.
type Checkout struct {
	State           State
	UserID          string
	PayerEmail      string
	Tickets         []models.Ticket
	TicketIDs       []string
	Amount          decimal.Decimal
	AmountMinor     int64
	IdempotencyKey  string
	PaymentIntentID string
}

// InitiateCheckout validates the preconditions and freezes the
// selection into a pending checkout. No network calls are made;
// violations surface as user-visible errors.
func (w *Workflow) InitiateCheckout(sel *Selection, user *models.User, agreedToTerms bool) (*Checkout, error) {
	if sel == nil || sel.Len() == 0 {
		return nil, ErrEmptySelection
	}
	if user == nil || user.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}
	if !agreedToTerms {
		return nil, ErrTermsNotAgreed
	}
	if err := w.validate.Var(user.Email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid payer email %q", user.Email)
	}
	total := sel.Total()
	return &Checkout{
		State:          StatePending,
		UserID:         user.ID,
		PayerEmail:     user.Email,
		Tickets:        sel.Tickets(),
		TicketIDs:      sel.IDs(),
		Amount:         total,
		AmountMinor:    total.Round(2).Mul(decimal.NewFromInt(100)).IntPart(),
		IdempotencyKey: uuid.NewString(),
	}, nil
}

// CapturePayment requests a payment sheet from the backend and drives
// the provider handshake. Any sub-step failure aborts the checkout
// with ticket ownership untouched; the provider's message is kept
// verbatim in the error chain.
func (w *Workflow) CapturePayment(ctx context.Context, co *Checkout) error {
	if co.State != StatePending {
		return fmt.Errorf("cannot capture payment from state %q", co.State)
	}
	params, err := w.gateway.CreatePaymentIntent(ctx, co.AmountMinor, co.PayerEmail, co.IdempotencyKey)
	if err != nil {
		log.Printf("Error creating payment intent: %s\n", err.Error())
		return err
	}
	intentID, err := w.confirm(ctx, params.ClientSecret, params.PaymentIntentID)
	if err != nil {
		log.Printf("Error confirming payment: %s\n", err.Error())
		return fmt.Errorf("payment failed: %w", err)
	}
	co.PaymentIntentID = intentID
	co.State = StatePaid
	return nil
}

// CommitPurchase transfers ticket ownership. Called only after the
// payment was confirmed. On failure the money is already captured, so
// the checkout parks in failed-needs-reconciliation and the error is
// worded distinctly from a payment failure.
func (w *Workflow) CommitPurchase(ctx context.Context, co *Checkout) error {
	if co.State != StatePaid {
		return fmt.Errorf("cannot commit purchase from state %q", co.State)
	}
	if err := w.gateway.PurchaseTickets(ctx, co.UserID, co.TicketIDs); err != nil {
		co.State = StateFailedNeedsReconciliation
		log.Printf("Error committing purchase for payment %s: %s\n", co.PaymentIntentID, err.Error())
		return fmt.Errorf("%w: %v", ErrPurchaseFailed, err)
	}
	co.State = StateCommitted
	w.notifyPurchase(ctx, co)
	return nil
}

// Purchase runs the full sequence. The selection itself is never
// mutated here, so a failed attempt can be retried as-is.
func (w *Workflow) Purchase(ctx context.Context, sel *Selection, user *models.User, agreedToTerms bool) (*Checkout, error) {
	co, err := w.InitiateCheckout(sel, user, agreedToTerms)
	if err != nil {
		return nil, err
	}
	if err := w.CapturePayment(ctx, co); err != nil {
		return co, err
	}
	if err := w.CommitPurchase(ctx, co); err != nil {
		return co, err
	}
	return co, nil
}

// notifyPurchase fires the buyer receipt and one payout email per
// distinct seller. Failures are logged, not surfaced: the purchase
// already committed.
func (w *Workflow) notifyPurchase(ctx context.Context, co *Checkout) {
	if err := w.gateway.HandleSuccessfulPayment(ctx, co.UserID, co.PaymentIntentID); err != nil {
		log.Printf("Error sending buyer receipt for payment %s: %s\n", co.PaymentIntentID, err.Error())
	}
	for _, payout := range GroupPayouts(co.Tickets) {
		body := types.SellerEmailRequestBody{
			UserID:           payout.OwnerID,
			AmountSold:       payout.Gross.InexactFloat64(),
			CommissionAmount: payout.Commission.InexactFloat64(),
			TotalTransferred: payout.Net.InexactFloat64(),
			Tickets:          payout.TicketIDs,
		}
		if err := w.gateway.SendSellerEmail(ctx, body); err != nil {
			log.Printf("Error sending payout email to seller %s: %s\n", payout.OwnerID, err.Error())
		}
	}
}
