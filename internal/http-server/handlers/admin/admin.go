package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"fondeo/entity"
	"fondeo/lib/api/response"
	"fondeo/lib/sl"
	"fondeo/lib/validate"
)

type Core interface {
	PendingTopUps(ctx context.Context) ([]*entity.TopUpRequest, error)
	BulkApprove(ctx context.Context, ids []int64) (int, error)
}

type bulkParams struct {
	Ids []int64 `json:"ids" validate:"required,min=1"`
}

func (p *bulkParams) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

func Pending(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		topups, err := handler.PendingTopUps(r.Context())
		if err != nil {
			logger.Error("list pending topups", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to list pending top-ups"))
			return
		}

		render.JSON(w, r, response.Ok(topups))
	}
}

// BulkApprove approves a batch of pending requests. Requests already
// approved or failing individually do not abort the batch; the response
// reports how many were actually applied.
func BulkApprove(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.admin")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var params bulkParams
		if err := render.Bind(r, &params); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		applied, err := handler.BulkApprove(r.Context(), params.Ids)
		if err != nil {
			logger.Error("bulk approve", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Bulk approve failed"))
			return
		}
		logger.With(
			slog.Int("requested", len(params.Ids)),
			slog.Int("applied", applied),
		).Info("bulk approve processed")

		render.JSON(w, r, response.Ok(map[string]int{"applied": applied}))
	}
}
