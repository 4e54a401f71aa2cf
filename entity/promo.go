package entity

import "time"

// PromoCode grants a percentage bonus on a top-up, once per account.
// Lookup is case-insensitive; percent is snapshotted onto the request
// at creation and not re-read on approval.
type PromoCode struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Percent   int       `json:"percent"` // 1..100
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// PromoUsage marks that an account has redeemed a code. The (account,
// promo) pair is unique in storage, which is what enforces the
// at-most-one-bonus rule regardless of how many requests cite the code.
type PromoUsage struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	PromoID   int64     `json:"promo_id"`
	CreatedAt time.Time `json:"created_at"`
}
