package stripeclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"fondeo/entity"
	"fondeo/internal/config"
	"fondeo/lib/sl"
)

// metadataRef is the checkout session metadata key carrying the top-up
// reference; the webhook handler reads it back to approve the request.
const metadataRef = "topup_ref"

type StripeClient struct {
	sc            *client.API
	webhookSecret string
	successUrl    string
	cancelUrl     string
	log           *slog.Logger
}

func New(conf *config.Config, logger *slog.Logger) *StripeClient {
	sc := &client.API{}
	sc.Init(conf.Stripe.APIKey, nil)
	return &StripeClient{
		sc:            sc,
		webhookSecret: conf.Stripe.WebhookSecret,
		successUrl:    conf.Stripe.SuccessUrl,
		cancelUrl:     conf.Stripe.CancelUrl,
		log:           logger.With(sl.Module("stripe")),
	}
}

// TopUpLink creates a hosted checkout session for a card top-up. Only
// the requested amount is charged; cashback and promo bonus are credited
// on approval, not collected from the card.
func (s *StripeClient) TopUpLink(ctx context.Context, t *entity.TopUpRequest) (string, error) {
	log := s.log.With(
		slog.Int64("topup_id", t.ID),
		slog.String("ref", t.Ref),
		slog.String("amount", t.Amount.StringFixed(2)),
	)

	csParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Balance top-up"),
					},
					UnitAmount: stripe.Int64(minorUnits(t.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata:          map[string]string{metadataRef: t.Ref},
		ClientReferenceID: stripe.String(t.Ref),
		SuccessURL:        stripe.String(s.successUrl),
		CancelURL:         stripe.String(s.cancelUrl),
	}
	csParams.Context = ctx

	cs, err := s.sc.CheckoutSessions.New(csParams)
	if err != nil {
		err = s.parseErr(err)
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}

	log.With(slog.String("session_id", cs.ID)).Info("payment link created")
	return cs.URL, nil
}

// TopUpRef extracts the top-up reference from a completed checkout
// event; returns an empty string for events this service ignores.
func (s *StripeClient) TopUpRef(evt *stripe.Event) string {
	if evt.Type != stripe.EventTypeCheckoutSessionCompleted {
		return ""
	}
	if evt.Data == nil {
		return ""
	}
	meta, ok := evt.Data.Object["metadata"].(map[string]interface{})
	if !ok {
		return ""
	}
	ref, _ := meta[metadataRef].(string)
	return ref
}

func (s *StripeClient) VerifySignature(payload []byte, header string, tolerance time.Duration) bool {
	secret := s.webhookSecret
	parts := strings.Split(header, ",")
	var ts, sig string
	for _, p := range parts {
		if strings.HasPrefix(p, "t=") {
			ts = strings.TrimPrefix(p, "t=")
		}
		if strings.HasPrefix(p, "v1=") {
			sig = strings.TrimPrefix(p, "v1=")
		}
	}
	if ts == "" || sig == "" {
		s.log.Warn("missing timestamp or signature in header")
		return false
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		s.log.With(
			slog.Any("error", err),
		).Warn("failed to parse timestamp")
		return false
	}

	eventTime := time.Unix(tsInt, 0)
	timeSince := time.Since(eventTime)
	if timeSince > tolerance {
		s.log.With(
			slog.Time("timestamp", eventTime),
			slog.Duration("age", timeSince),
			slog.Duration("tolerance", tolerance),
		).Warn("webhook timestamp too old")
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	isValid := hmac.Equal([]byte(expected), []byte(sig))
	if !isValid {
		s.log.With(
			sl.Secret("secret", secret),
		).Warn("signature mismatch")
	}
	return isValid
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
