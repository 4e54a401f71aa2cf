package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"fondeo/internal/config"
	"fondeo/internal/http-server/handlers/account"
	"fondeo/internal/http-server/handlers/admin"
	"fondeo/internal/http-server/handlers/approval"
	"fondeo/internal/http-server/handlers/errors"
	"fondeo/internal/http-server/handlers/notification"
	"fondeo/internal/http-server/handlers/project"
	"fondeo/internal/http-server/handlers/stripehook"
	"fondeo/internal/http-server/handlers/telegramhook"
	"fondeo/internal/http-server/handlers/wallet"
	"fondeo/internal/http-server/middleware/authenticate"
	"fondeo/internal/http-server/middleware/timeout"
	"fondeo/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// Core is the ledger surface the HTTP layer drives.
type Core interface {
	account.Core
	wallet.Core
	approval.Core
	admin.Core
	notification.Core
	project.Core
	stripehook.Core
}

// Auth resolves tokens for the middleware and credentials for login.
type Auth interface {
	authenticate.Authenticate
	account.Auth
}

// Deps carries the optional adapters; nil entries disable their routes.
type Deps struct {
	Bot    telegramhook.Bot
	Stripe stripehook.Verifier
}

func New(conf *config.Config, log *slog.Logger, core Core, auth Auth, deps Deps) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/v1", func(rootApi chi.Router) {
		rootApi.Post("/auth/register", account.Register(log, core))
		rootApi.Post("/auth/login", account.Login(log, auth))

		rootApi.Group(func(private chi.Router) {
			private.Use(authenticate.New(log, auth))
			private.Get("/auth/me", account.Me(log, core))

			private.Post("/wallet/topup", wallet.TopUp(log, core))

			private.Get("/notifications", notification.List(log, core))
			private.Post("/notifications/mark-read", notification.MarkRead(log, core))

			private.Post("/projects/start", project.Start(log, core))
			private.Get("/projects", project.List(log, core))
			private.Get("/configs", project.ListConfigs(log, core))
			private.Post("/configs", project.CreateConfig(log, core))
			private.Get("/listings", project.Listings(log, core))
			private.Post("/listings", project.CreateListing(log, core))

			private.Route("/admin", func(adm chi.Router) {
				adm.Use(authenticate.Staff(log))
				adm.Get("/topups", admin.Pending(log, core))
				adm.Post("/topups/approve", admin.BulkApprove(log, core))
			})
		})
	})

	// Signed links carry their own authorization token.
	router.Get("/approve", approval.Approve(log, core))
	router.Get("/reject", approval.Reject(log, core))
	router.Post("/register-topup-message", approval.RegisterMessage(log, core))

	router.Route("/webhook", func(rootWH chi.Router) {
		rootWH.Post("/telegram", telegramhook.Event(log, deps.Bot))
		if deps.Stripe != nil {
			rootWH.Post("/stripe", stripehook.Event(log, deps.Stripe, core))
		}
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
