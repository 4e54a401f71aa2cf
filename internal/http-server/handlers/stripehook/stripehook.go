package stripehook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"

	"fondeo/entity"
	"fondeo/lib/sl"
)

type Verifier interface {
	VerifySignature(payload []byte, header string, tolerance time.Duration) bool
	TopUpRef(evt *stripe.Event) string
}

type Core interface {
	ApproveTopUpByRef(ctx context.Context, ref string, via entity.ApprovalVia) (bool, error)
}

// Event settles card top-ups. Stripe retries deliveries, so the same
// completed session may arrive more than once; the ledger treats the
// repeats as no-ops.
func Event(logger *slog.Logger, verifier Verifier, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const tolerance = 5 * time.Minute
		log := logger.With(
			sl.Module("http.handlers.stripehook"),
			slog.String("path", r.URL.Path),
		)

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("read request body", sl.Err(err))
			http.Error(w, "read", http.StatusBadRequest)
			return
		}

		sig := r.Header.Get("Stripe-Signature")
		if !verifier.VerifySignature(payload, sig, tolerance) {
			log.Error("invalid webhook signature")
			http.Error(w, "signature", http.StatusBadRequest)
			return
		}

		var evt stripe.Event
		if err = json.Unmarshal(payload, &evt); err != nil {
			log.Error("unmarshal event", sl.Err(err))
			http.Error(w, "json", http.StatusBadRequest)
			return
		}

		log = log.With(
			slog.String("event_id", evt.ID),
			slog.Any("type", evt.Type),
		)

		ref := verifier.TopUpRef(&evt)
		if ref == "" {
			log.Debug("event carries no top-up reference, skipping")
			w.WriteHeader(http.StatusOK)
			return
		}

		applied, err := handler.ApproveTopUpByRef(r.Context(), ref, entity.ViaStripe)
		if err != nil {
			log.With(slog.String("ref", ref)).Error("approve by ref", sl.Err(err))
			http.Error(w, "approve", http.StatusInternalServerError)
			return
		}
		log.With(
			slog.String("ref", ref),
			slog.Bool("applied", applied),
		).Info("card top-up settled")

		w.WriteHeader(http.StatusOK)
	}
}
