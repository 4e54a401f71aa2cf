package ledger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TokenSigner mints and checks approval tokens for out-of-band links.
// A token is the keyed hash of "<requestId>:<accountId>" under the
// server secret, hex-encoded, so a link can prove it was issued by the
// system without carrying any authentication context.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

func (s *TokenSigner) Sign(requestID, accountID int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d:%d", requestID, accountID)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the token and compares in constant time.
func (s *TokenSigner) Verify(requestID, accountID int64, token string) bool {
	expected := s.Sign(requestID, accountID)
	return hmac.Equal([]byte(expected), []byte(token))
}
