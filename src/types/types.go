package types

import (
	"github.com/golang-jwt/jwt/v5"
)

type EventStatus string

const (
	EVENT_SOLD_OUT       EventStatus = "sold out"
	EVENT_ON_SALE        EventStatus = "on sale"
	EVENT_UPCOMING       EventStatus = "upcoming"
	EVENT_CANCELLED      EventStatus = "cancelled"
	EVENT_ENDED          EventStatus = "ended"
	EVENT_ABOUT_TO_START EventStatus = "about to start"
	EVENT_STARTED        EventStatus = "started"
)

// CanBuy reports whether the buy action is offered for an event in
// this status. The status itself is backend-owned; the client never
// transitions it.
func (s EventStatus) CanBuy() bool {
	return s == EVENT_ON_SALE || s == EVENT_ABOUT_TO_START
}

// CanSubscribe reports whether the notify-me action is offered.
// Subscribing only makes sense while tickets are unavailable.
func (s EventStatus) CanSubscribe() bool {
	return s == EVENT_SOLD_OUT || s == EVENT_UPCOMING
}

type SessionClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

type LoginRequestBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequestBody struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

type UpdateUserRequestBody struct {
	FirstName  string  `json:"firstName,omitempty"`
	LastName   string  `json:"lastName,omitempty"`
	PictureURL *string `json:"pictureUrl,omitempty"`
}

type RefreshTokenRequestBody struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type PurchaseRequestBody struct {
	UserID    string   `json:"userId" validate:"required"`
	TicketIDs []string `json:"ticketIds" validate:"required,min=1"`
}

type UpdateTicketPriceRequestBody struct {
	ResalePrice float64 `json:"resalePrice" validate:"gt=0"`
	OnSale      bool    `json:"onSale"`
}

type CreatePaymentIntentRequestBody struct {
	Amount         int64  `json:"amount" validate:"gt=0"`
	Email          string `json:"email" validate:"required,email"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

type PaymentSheetParams struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type SuccessfulPaymentRequestBody struct {
	UserID          string `json:"userId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// SellerEmailRequestBody carries one seller's payout breakdown. One
// request is sent per distinct seller in a purchase.
type SellerEmailRequestBody struct {
	UserID           string   `json:"userId"`
	AmountSold       float64  `json:"amountSold"`
	CommissionAmount float64  `json:"commissionAmount"`
	TotalTransferred float64  `json:"totalTransferred"`
	Tickets          []string `json:"tickets"`
}

type NotificationRequestBody struct {
	UserID  string `json:"userId" validate:"required"`
	EventID string `json:"eventId" validate:"required"`
}
