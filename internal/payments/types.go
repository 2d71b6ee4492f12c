package payments

import (
	"encoding/json"
	"time"
)

// Transaction statuses reported by the provider.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
	StatusPending   = "pending"
	StatusReversed  = "reversed"
)

// Webhook event types handled by the giving flow.
const (
	EventChargeSuccess   = "charge.success"
	EventChargeFailed    = "charge.failed"
	EventRefundProcessed = "refund.processed"
)

// Donor identifies who is paying.
type Donor struct {
	Name  string
	Email string
	Phone string
}

// InitRequest starts a hosted checkout for amount minor units.
type InitRequest struct {
	Donor     Donor
	Amount    int64
	Currency  string
	Reference string
	Metadata  map[string]string
}

type Checkout struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

// Verification is the provider's view of a transaction.
type Verification struct {
	Reference     string
	Status        string
	TransactionID string
	Amount        int64
	Currency      string
	Channel       string
	CardLast4     string
	PaidAt        *time.Time
}

type Refund struct {
	Reference string
	Status    string
	Amount    int64
}

// Event is a verified webhook delivery. Data is left raw for the handler to decode.
type Event struct {
	Type string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// EventData is the part of charge and refund payloads the giving flow reads.
type EventData struct {
	ID            json.Number `json:"id"`
	Reference     string      `json:"reference"`
	Status        string      `json:"status"`
	Amount        int64       `json:"amount"`
	PaidAt        *time.Time  `json:"paid_at"`
	Authorization struct {
		Last4 string `json:"last4"`
	} `json:"authorization"`
	// refund.processed nests the charge reference here
	TransactionReference string `json:"transaction_reference"`
}

// Ref returns the charge reference an event is about.
func (d EventData) Ref() string {
	if d.TransactionReference != "" {
		return d.TransactionReference
	}
	return d.Reference
}

// Paystack wire types.

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeBody struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	ID            json.Number `json:"id"`
	Status        string      `json:"status"`
	Reference     string      `json:"reference"`
	Amount        int64       `json:"amount"`
	Currency      string      `json:"currency"`
	Channel       string      `json:"channel"`
	PaidAt        *time.Time  `json:"paid_at"`
	Authorization struct {
		Last4 string `json:"last4"`
	} `json:"authorization"`
}

type refundBody struct {
	Transaction string `json:"transaction"`
	Amount      int64  `json:"amount,omitempty"`
}

type refundData struct {
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Transaction struct {
		Reference string `json:"reference"`
	} `json:"transaction"`
}
