package entity

import (
	"net/http"
	"time"

	"fondeo/lib/validate"

	"github.com/shopspring/decimal"
)

type TopUpStatus string

const (
	TopUpPending  TopUpStatus = "pending"
	TopUpApproved TopUpStatus = "approved"
)

// ApprovalVia names the channel a top-up approval arrived through.
// All channels converge on the same ledger operation.
type ApprovalVia string

const (
	ViaAdmin      ApprovalVia = "admin"
	ViaSignedLink ApprovalVia = "link"
	ViaBot        ApprovalVia = "bot"
	ViaStripe     ApprovalVia = "stripe"
)

// TopUpRequest is a pending credit to an account balance. Amounts are
// fixed at creation time; once approved the record is immutable and
// re-approving it is a no-op.
type TopUpRequest struct {
	ID          int64           `json:"id"`
	Ref         string          `json:"ref"` // external reference, used in stripe metadata
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Cashback    decimal.Decimal `json:"cashback"`
	PromoID     int64           `json:"-"`
	PromoCode   string          `json:"promo_code,omitempty"`
	PromoBonus  decimal.Decimal `json:"promo_bonus"`
	Receipt     string          `json:"receipt,omitempty"`
	Status      TopUpStatus     `json:"status"`
	ActivatedAt *time.Time      `json:"activated_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (t *TopUpRequest) IsApproved() bool {
	return t.Status == TopUpApproved
}

type TopUpParams struct {
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	PromoCode string          `json:"promo_code" validate:"omitempty,max=64"`
	Receipt   string          `json:"receipt" validate:"omitempty,max=512"`
	// Card requests a hosted checkout link instead of manual approval.
	Card bool `json:"card" validate:"omitempty"`
}

func (p *TopUpParams) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

// TopUpTicket is returned to the caller after a top-up request is
// accepted. Token authorizes out-of-band approval links.
type TopUpTicket struct {
	TransactionID int64           `json:"transaction_id"`
	Status        TopUpStatus     `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Cashback      decimal.Decimal `json:"cashback"`
	PromoBonus    decimal.Decimal `json:"promo_bonus"`
	Token         string          `json:"token"`
	PaymentLink   string          `json:"payment_link,omitempty"`
}
