package account

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
	Register(ctx context.Context, p *entity.RegisterParams) (*entity.Account, error)
	Profile(ctx context.Context, accountID int64) (*entity.Profile, error)
}

type Auth interface {
	Login(ctx context.Context, phone, password string) (*entity.Account, error)
}

// authResponse carries the opaque API token alongside the account;
// the token is excluded from the account's own JSON form.
type authResponse struct {
	Token   string          `json:"token"`
	Account *entity.Account `json:"account"`
}

func Register(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.account")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var params entity.RegisterParams
		if err := render.Bind(r, &params); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}
		logger = logger.With(slog.String("phone", params.Phone))

		acc, err := handler.Register(r.Context(), &params)
		if err != nil {
			if errors.Is(err, entity.ErrPhoneTaken) {
				render.Status(r, 409)
				render.JSON(w, r, response.Error("Phone number already registered"))
				return
			}
			logger.Error("register account", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Registration failed"))
			return
		}
		logger.With(slog.Int64("account_id", acc.ID)).Info("account registered")

		render.Status(r, 201)
		render.JSON(w, r, response.Ok(authResponse{Token: acc.Token, Account: acc}))
	}
}

func Login(log *slog.Logger, handler Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.account")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var params entity.LoginParams
		if err := render.Bind(r, &params); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		acc, err := handler.Login(r.Context(), params.Phone, params.Password)
		if err != nil {
			if errors.Is(err, entity.ErrInvalidCredentials) {
				render.Status(r, 401)
				render.JSON(w, r, response.Error("Invalid credentials"))
				return
			}
			logger.Error("login", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Login failed"))
			return
		}

		render.JSON(w, r, response.Ok(authResponse{Token: acc.Token, Account: acc}))
	}
}

func Me(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.account")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		acc := cont.GetAccount(r.Context())
		profile, err := handler.Profile(r.Context(), acc.ID)
		if err != nil {
			logger.Error("load profile", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to load profile"))
			return
		}

		render.JSON(w, r, response.Ok(profile))
	}
}
