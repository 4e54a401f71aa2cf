package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"fondeo/entity"
	"fondeo/lib/api/cont"
	"fondeo/lib/api/response"
	"fondeo/lib/sl"
)

type Core interface {
	RequestTopUp(ctx context.Context, accountID int64, p *entity.TopUpParams) (*entity.TopUpTicket, error)
}

// TopUp accepts a top-up request and returns the pending ticket. The
// balance does not change until the request is approved through one of
// the approval channels.
func TopUp(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.wallet")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var params entity.TopUpParams
		if err := render.Bind(r, &params); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		acc := cont.GetAccount(r.Context())
		logger = logger.With(
			slog.Int64("account_id", acc.ID),
			slog.String("amount", params.Amount.StringFixed(2)),
		)

		ticket, err := handler.RequestTopUp(r.Context(), acc.ID, &params)
		if err != nil {
			switch {
			case errors.Is(err, entity.ErrInvalidAmount):
				render.Status(r, 400)
				render.JSON(w, r, response.Error("Amount must be positive"))
			case errors.Is(err, entity.ErrUnknownPromo):
				render.Status(r, 400)
				render.JSON(w, r, response.Error("Unknown or inactive promo code"))
			case errors.Is(err, entity.ErrPromoAlreadyUsed):
				render.Status(r, 409)
				render.JSON(w, r, response.Error("Promo code already used"))
			default:
				logger.Error("request topup", sl.Err(err))
				render.Status(r, 500)
				render.JSON(w, r, response.Error("Top-up request failed"))
			}
			return
		}
		logger.With(slog.Int64("topup_id", ticket.TransactionID)).Info("topup requested")

		render.Status(r, 201)
		render.JSON(w, r, response.Ok(ticket))
	}
}
