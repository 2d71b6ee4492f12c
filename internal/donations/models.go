package donations

import (
	"time"

	"github.com/gracecity/church-backend/internal/store"
)

const (
	StatusPending   = "pending"
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"

	ChannelPaystack = "paystack"
	ChannelManual   = "manual"

	// channelBankTransfer is what the giving form sends for offline transfers.
	channelBankTransfer = "bank_transfer"

	DefaultCurrency = "NGN"
)

// Donation is one gift. Amount is in minor units of Currency.
type Donation struct {
	store.Base
	DonorName        string     `gorm:"not null" json:"donorName"`
	Email            string     `gorm:"index;not null" json:"email"`
	Phone            string     `json:"phone,omitempty"`
	Amount           int64      `gorm:"not null" json:"amount"`
	Currency         string     `gorm:"type:varchar(3);not null" json:"currency"`
	Purpose          string     `gorm:"index" json:"purpose"`
	Message          string     `gorm:"type:text" json:"message,omitempty"`
	IsAnonymous      bool       `json:"isAnonymous"`
	PaymentChannel   string     `gorm:"not null" json:"paymentChannel"`
	Reference        string     `gorm:"uniqueIndex;not null" json:"reference"`
	AuthorizationURL string     `json:"authorizationUrl,omitempty"`
	Status           string     `gorm:"index;not null" json:"status"`
	TransactionID    string     `json:"transactionId,omitempty"`
	CardLast4        string     `gorm:"column:card_last4" json:"cardLast4,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	RefundedAt       *time.Time `json:"refundedAt,omitempty"`
}

func (Donation) TableName() string {
	return "church.donations"
}

// Receipt is the part of a donation shown to whoever holds its reference.
type Receipt struct {
	Reference      string     `json:"reference"`
	Status         string     `json:"status"`
	Amount         int64      `json:"amount"`
	Currency       string     `json:"currency"`
	Purpose        string     `json:"purpose,omitempty"`
	PaymentChannel string     `json:"paymentChannel"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
}

func (d Donation) receipt() Receipt {
	return Receipt{
		Reference:      d.Reference,
		Status:         d.Status,
		Amount:         d.Amount,
		Currency:       d.Currency,
		Purpose:        d.Purpose,
		PaymentChannel: d.PaymentChannel,
		PaidAt:         d.PaidAt,
	}
}

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusSuccess:   true,
	StatusFailed:    true,
	StatusCancelled: true,
	StatusRefunded:  true,
}

// Summary is the admin giving overview.
type Summary struct {
	Count          int              `json:"count"`
	SuccessCount   int              `json:"successCount"`
	TotalsByStatus map[string]int   `json:"byStatus"`
	Raised         map[string]int64 `json:"raised"`
	ByPurpose      map[string]int64 `json:"byPurpose"`
	ByChannel      map[string]int64 `json:"byChannel"`
}
