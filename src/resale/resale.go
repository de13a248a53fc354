package resale

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"ticketmate/src/api"
	"ticketmate/src/config"
	"ticketmate/src/models"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidPrice = errors.New("Price must be a positive number")
	// ErrCutoff blocks listings inside the pre-event window.
	ErrCutoff   = errors.New("Tickets can no longer be listed this close to the event start")
	ErrDeclined = errors.New("delisting cancelled")
)

// Confirmer asks the user a yes/no question before a destructive
// action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Workflow lets a ticket owner list and delist tickets for resale.
type Workflow struct {
	gateway  *api.Client
	confirm  Confirmer
	validate *validator.Validate
	now      func() time.Time
}

func NewWorkflow(gateway *api.Client, confirm Confirmer) *Workflow {
	return &Workflow{
		gateway:  gateway,
		confirm:  confirm,
		validate: validator.New(),
		now:      time.Now,
	}
}

// ListForSale puts a ticket on the resale market at the given price.
// The price must parse as a positive number and the event must start
// more than the configured cutoff from now; violations return before
// any network call. On success the owner's ticket list is re-fetched.
func (w *Workflow) ListForSale(ctx context.Context, ticket models.Ticket, eventStart time.Time, price string) ([]models.Ticket, error) {
	amount, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return nil, ErrInvalidPrice
	}
	if err := w.validate.Var(amount, "gt=0"); err != nil {
		return nil, ErrInvalidPrice
	}
	if eventStart.Sub(w.now()) <= config.RESALE_CUTOFF {
		return nil, fmt.Errorf("%w: resale closes %s before the start", ErrCutoff, config.RESALE_CUTOFF)
	}
	if err := w.gateway.UpdateTicketPrice(ctx, ticket.ID, amount, true); err != nil {
		log.Printf("Error listing ticket %s for sale: %s\n", ticket.ID, err.Error())
		return nil, err
	}
	tickets, err := w.gateway.GetTicketsByUserAndEventID(ctx, ticket.OwnerID, ticket.EventID)
	if err != nil {
		log.Printf("Error refreshing tickets after listing: %s\n", err.Error())
		return nil, err
	}
	return tickets, nil
}

// Delist takes a ticket off the resale market after the user confirms.
func (w *Workflow) Delist(ctx context.Context, ticketID string) error {
	if w.confirm != nil && !w.confirm.Confirm("Remove this ticket from sale?") {
		return ErrDeclined
	}
	if err := w.gateway.RemoveTicketFromSale(ctx, ticketID); err != nil {
		log.Printf("Error removing ticket %s from sale: %s\n", ticketID, err.Error())
		return err
	}
	return nil
}
