package stripeclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
)

func testClient(secret string) *StripeClient {
	return &StripeClient{
		webhookSecret: secret,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func signPayload(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "whsec_test"
	c := testClient(secret)
	payload := []byte(`{"id":"evt_1"}`)

	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(secret, ts, payload))
	if !c.VerifySignature(payload, header, 5*time.Minute) {
		t.Error("valid signature rejected")
	}

	// Wrong secret.
	header = fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_other", ts, payload))
	if c.VerifySignature(payload, header, 5*time.Minute) {
		t.Error("signature under wrong secret accepted")
	}

	// Tampered payload.
	header = fmt.Sprintf("t=%d,v1=%s", ts, signPayload(secret, ts, payload))
	if c.VerifySignature([]byte(`{"id":"evt_2"}`), header, 5*time.Minute) {
		t.Error("tampered payload accepted")
	}

	// Stale timestamp.
	old := time.Now().Add(-time.Hour).Unix()
	header = fmt.Sprintf("t=%d,v1=%s", old, signPayload(secret, old, payload))
	if c.VerifySignature(payload, header, 5*time.Minute) {
		t.Error("stale timestamp accepted")
	}

	// Missing parts.
	for _, h := range []string{"", "t=123", "v1=deadbeef", "nonsense"} {
		if c.VerifySignature(payload, h, 5*time.Minute) {
			t.Errorf("header %q accepted", h)
		}
	}
}

func TestTopUpRef(t *testing.T) {
	c := testClient("whsec_test")

	evt := &stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{
			Object: map[string]interface{}{
				"metadata": map[string]interface{}{"topup_ref": "ref-42"},
			},
		},
	}
	if got := c.TopUpRef(evt); got != "ref-42" {
		t.Errorf("ref = %q, want ref-42", got)
	}

	evt.Type = stripe.EventTypeInvoiceFinalized
	if got := c.TopUpRef(evt); got != "" {
		t.Errorf("ignored event type returned ref %q", got)
	}

	noMeta := &stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Object: map[string]interface{}{}},
	}
	if got := c.TopUpRef(noMeta); got != "" {
		t.Errorf("event without metadata returned ref %q", got)
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"10.00", 1000},
		{"0.01", 1},
		{"1234.56", 123456},
	}
	for _, tt := range tests {
		if got := minorUnits(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("minorUnits(%s) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
