package project

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
	StartProject(ctx context.Context, ownerID int64, p *entity.StartProjectParams) (*entity.Project, error)
	CreateIdeaConfig(ctx context.Context, ownerID int64, c *entity.IdeaConfig) (*entity.IdeaConfig, error)
	IdeaConfigs(ctx context.Context, ownerID int64) ([]*entity.IdeaConfig, error)
	Projects(ctx context.Context, ownerID int64) ([]*entity.Project, error)
	CreateListing(ctx context.Context, ownerID int64, p *entity.ListingParams) (*entity.ProjectListing, error)
	Listings(ctx context.Context, ownerID int64, all bool) ([]*entity.ProjectListing, error)
}

// Start creates a project, charging the fixed fee from the owner's
// balance in the same transaction.
func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var params entity.StartProjectParams
		if err := render.Bind(r, &params); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		acc := cont.GetAccount(r.Context())
		logger = logger.With(slog.Int64("account_id", acc.ID))

		proj, err := handler.StartProject(r.Context(), acc.ID, &params)
		if err != nil {
			if errors.Is(err, entity.ErrInsufficientBalance) {
				render.Status(r, 402)
				render.JSON(w, r, response.Error("Insufficient balance"))
				return
			}
			logger.Error("start project", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to start project"))
			return
		}
		logger.With(slog.Int64("project_id", proj.ID)).Info("project started")

		render.Status(r, 201)
		render.JSON(w, r, response.Ok(proj))
	}
}

func CreateConfig(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var conf entity.IdeaConfig
		if err := render.Bind(r, &conf); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		acc := cont.GetAccount(r.Context())
		created, err := handler.CreateIdeaConfig(r.Context(), acc.ID, &conf)
		if err != nil {
			logger.With(slog.Int64("account_id", acc.ID)).Error("create idea config", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to create configuration"))
			return
		}

		render.Status(r, 201)
		render.JSON(w, r, response.Ok(created))
	}
}

func ListConfigs(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		acc := cont.GetAccount(r.Context())
		configs, err := handler.IdeaConfigs(r.Context(), acc.ID)
		if err != nil {
			logger.With(slog.Int64("account_id", acc.ID)).Error("list idea configs", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to list configurations"))
			return
		}

		render.JSON(w, r, response.Ok(configs))
	}
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		acc := cont.GetAccount(r.Context())
		projects, err := handler.Projects(r.Context(), acc.ID)
		if err != nil {
			logger.With(slog.Int64("account_id", acc.ID)).Error("list projects", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to list projects"))
			return
		}

		render.JSON(w, r, response.Ok(projects))
	}
}

func CreateListing(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var params entity.ListingParams
		if err := render.Bind(r, &params); err != nil {
			logger.Error("bind request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
			return
		}

		acc := cont.GetAccount(r.Context())
		listing, err := handler.CreateListing(r.Context(), acc.ID, &params)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				render.Status(r, 404)
				render.JSON(w, r, response.Error("Project not found"))
				return
			}
			logger.With(slog.Int64("account_id", acc.ID)).Error("create listing", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to create listing"))
			return
		}

		render.Status(r, 201)
		render.JSON(w, r, response.Ok(listing))
	}
}

// Listings returns the caller's own listings, or the whole marketplace
// when ?all=1 is set.
func Listings(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.project")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		acc := cont.GetAccount(r.Context())
		all := r.URL.Query().Get("all") == "1"

		listings, err := handler.Listings(r.Context(), acc.ID, all)
		if err != nil {
			logger.With(slog.Int64("account_id", acc.ID)).Error("list listings", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Failed to list listings"))
			return
		}

		render.JSON(w, r, response.Ok(listings))
	}
}
