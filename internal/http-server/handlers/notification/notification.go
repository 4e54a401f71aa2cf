package notification

import (
	"context"
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
	Notifications(ctx context.Context, accountID int64) ([]*entity.Notification, error)
	MarkNotificationsRead(ctx context.Context, accountID int64) error
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.notification")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		acc := cont.GetAccount(r.Context())
		items, err := handler.Notifications(r.Context(), acc.ID)
		if err != nil {
			logger.With(slog.Int64("account_id", acc.ID)).Error("list notifications", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to list notifications"))
			return
		}

		render.JSON(w, r, response.Ok(items))
	}
}

func MarkRead(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.notification")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		acc := cont.GetAccount(r.Context())
		if err := handler.MarkNotificationsRead(r.Context(), acc.ID); err != nil {
			logger.With(slog.Int64("account_id", acc.ID)).Error("mark notifications read", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to mark notifications read"))
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
