package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

var cashbackRate = decimal.NewFromFloat(0.01)

// round2 normalizes a monetary value to two fractional digits,
// half away from zero. Applied after every computation step so no
// extra precision is carried between them.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Cashback is the unconditional 1% bonus credited on every approved
// top-up, fixed at request time.
func Cashback(amount decimal.Decimal) decimal.Decimal {
	return round2(amount.Mul(cashbackRate))
}

// PromoBonus computes the percentage bonus for a promo code. Percent is
// snapshotted at request time; approval does not re-read the live code.
func PromoBonus(amount decimal.Decimal, percent int) decimal.Decimal {
	return round2(amount.Mul(decimal.NewFromInt(int64(percent))).Div(decimal.NewFromInt(100)))
}

// NewReferralCode returns an 8-hex-character code. Uniqueness is
// enforced by the storage constraint; callers retry on collision.
func NewReferralCode() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
