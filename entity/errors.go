package entity

import "errors"

// Error taxonomy for ledger operations. Handlers map these onto HTTP
// status codes; anything else is treated as an internal error.
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrUnknownPromo        = errors.New("unknown or inactive promo code")
	ErrPromoAlreadyUsed    = errors.New("promo code already used")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("not found")
	ErrInvalidToken        = errors.New("invalid approval token")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPhoneTaken          = errors.New("phone number already registered")
)
