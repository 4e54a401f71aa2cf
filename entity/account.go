package entity

import (
	"net/http"
	"time"

	"fondeo/lib/validate"

	"github.com/shopspring/decimal"
)

// Account is a platform user identified by phone number. Balance is
// mutated only by the ledger core; no other code path writes it.
type Account struct {
	ID           int64           `json:"id"`
	Phone        string          `json:"phone_number"`
	FullName     string          `json:"full_name,omitempty"`
	PasswordHash string          `json:"-"`
	Token        string          `json:"-"`
	Balance      decimal.Decimal `json:"balance"`
	ReferralCode string          `json:"referral_code,omitempty"`
	ReferredBy   int64           `json:"-"`
	IsInvestor   bool            `json:"is_investor"`
	IsSubscribed bool            `json:"is_subscribed"`
	IsStaff      bool            `json:"is_staff"`
	IsActive     bool            `json:"is_active"`
	TelegramId   int64           `json:"-"`
	CreatedAt    time.Time       `json:"date_joined"`
}

type RegisterParams struct {
	Phone        string `json:"phone_number" validate:"required,min=5,max=32"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"omitempty,max=255"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=16"`
}

func (p *RegisterParams) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

type LoginParams struct {
	Phone    string `json:"phone_number" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (p *LoginParams) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

// Profile is the /auth/me view of an account.
type Profile struct {
	Account
	ReferralsCount int64 `json:"referrals_count"`
}
