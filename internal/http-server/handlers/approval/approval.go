// Package approval serves the signed approve/reject links embedded in
// top-up tickets, and registers externally posted control messages.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"fondeo/entity"
	"fondeo/lib/api/response"
	"fondeo/lib/sl"
)

type Core interface {
	VerifyLinkToken(ctx context.Context, requestID int64, token string) error
	ApproveTopUp(ctx context.Context, requestID int64, via entity.ApprovalVia) (bool, error)
	RejectTopUp(ctx context.Context, requestID int64) error
	RegisterControlRef(ctx context.Context, ref *entity.MessageRef) error
}

func Approve(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.approval")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := authorize(w, r, logger, handler)
		if !ok {
			return
		}
		logger = logger.With(slog.Int64("topup_id", id))

		applied, err := handler.ApproveTopUp(r.Context(), id, entity.ViaSignedLink)
		if err != nil {
			logger.Error("approve topup", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Approval failed"))
			return
		}

		render.JSON(w, r, response.Ok(map[string]bool{"applied": applied}))
	}
}

func Reject(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.approval")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := authorize(w, r, logger, handler)
		if !ok {
			return
		}

		if err := handler.RejectTopUp(r.Context(), id); err != nil {
			logger.With(slog.Int64("topup_id", id)).Error("reject topup", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Reject failed"))
			return
		}

		render.JSON(w, r, response.Ok(map[string]bool{"applied": false}))
	}
}

// RegisterMessage stores the chat coordinates of an approval control
// posted outside this process, keyed by the top-up it belongs to.
func RegisterMessage(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.approval")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var ref entity.MessageRef
		if err := render.Bind(r, &ref); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		if err := handler.RegisterControlRef(r.Context(), &ref); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				render.Status(r, 404)
				render.JSON(w, r, response.Error("Top-up not found"))
				return
			}
			logger.With(slog.Int64("topup_id", ref.TopUpID)).Error("register control ref", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to register message"))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}

// authorize parses tx and token query parameters and verifies the
// signature. Writes the error response itself when verification fails.
func authorize(w http.ResponseWriter, r *http.Request, logger *slog.Logger, handler Core) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("tx"), 10, 64)
	if err != nil || id <= 0 {
		render.Status(r, 400)
		render.JSON(w, r, response.Error("Invalid transaction id"))
		return 0, false
	}
	token := r.URL.Query().Get("token")

	err = handler.VerifyLinkToken(r.Context(), id, token)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		render.Status(r, 404)
		render.JSON(w, r, response.Error("Top-up not found"))
		return 0, false
	case errors.Is(err, entity.ErrInvalidToken):
		logger.With(slog.Int64("topup_id", id)).Warn("invalid approval token")
		render.Status(r, 403)
		render.JSON(w, r, response.Error("Invalid token"))
		return 0, false
	case err != nil:
		logger.Error("verify link token", sl.Err(err))
		render.Status(r, 500)
		render.JSON(w, r, response.Error("Verification failed"))
		return 0, false
	}
	return id, true
}
