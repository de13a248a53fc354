package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID            string    `json:"_id"`
	Barcode       string    `json:"barcode,omitempty"`
	EventID       string    `json:"eventId"`
	Position      string    `json:"position,omitempty"`
	OriginalPrice float64   `json:"originalPrice"`
	ResalePrice   *float64  `json:"resalePrice,omitempty"`
	OwnerID       string    `json:"ownerId"`
	OnSale        bool      `json:"onSale"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// BuyerPrice is the amount a buyer pays for this ticket: the resale
// price when the ticket is relisted, the original price otherwise.
func (t Ticket) BuyerPrice() decimal.Decimal {
	if t.ResalePrice != nil {
		return decimal.NewFromFloat(*t.ResalePrice)
	}
	return decimal.NewFromFloat(t.OriginalPrice)
}

// Resold reports whether a peer seller is owed a payout for this
// ticket. Primary-market tickets carry no resale price.
func (t Ticket) Resold() bool {
	return t.ResalePrice != nil
}
