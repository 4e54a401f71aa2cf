package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"fondeo/bot"
	"fondeo/impl/auth"
	"fondeo/impl/ledger"
	"fondeo/internal/config"
	"fondeo/internal/database"
	"fondeo/internal/http-server/api"
	"fondeo/internal/stripeclient"
	"fondeo/lib/sl"
)

const (
	envLocal    = "local"
	envDev      = "dev"
	envProd     = "prod"
	logFileName = "fondeo.log"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	logger := setupLogger(conf.Env, *logPath)
	logger.Info("starting fondeo", slog.String("config", *configPath), slog.String("env", conf.Env))

	db, err := database.NewSQLClient(conf, logger)
	if err != nil {
		logger.Error("connecting to mysql", sl.Err(err))
		os.Exit(1)
	}

	core := ledger.New(db, ledger.Config{
		Secret:        conf.Ledger.Secret,
		ProjectFee:    mustDecimal(conf.Ledger.ProjectFee),
		ReferralBonus: mustDecimal(conf.Ledger.ReferralBonus),
	}, logger)

	if mongo := database.NewMongoClient(conf); mongo != nil {
		core.SetJournal(mongo)
		logger.Info("audit journal enabled")
	}

	cache, err := database.NewRedisCache(conf)
	if err != nil {
		logger.Error("connecting to redis", sl.Err(err))
		os.Exit(1)
	}
	if cache != nil {
		core.SetMessageRefs(cache)
	}

	deps := api.Deps{}
	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, conf.Telegram.AdminChatId, logger)
		if err != nil {
			logger.Error("starting telegram bot", sl.Err(err))
			os.Exit(1)
		}
		tgBot.SetCore(core)
		core.SetMessenger(tgBot)
		deps.Bot = tgBot
	}
	if conf.Stripe.Enabled {
		sc := stripeclient.New(conf, logger)
		core.SetPaymentLinker(sc)
		deps.Stripe = sc
	}

	authService := auth.New(db)

	err = api.New(conf, logger, core, authService, deps)
	if err != nil {
		logger.Error("api server stopped", sl.Err(err))
		os.Exit(1)
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatal("invalid decimal in config: ", s)
	}
	return d
}

func setupLogger(env, path string) *slog.Logger {
	var logger *slog.Logger
	var logFile *os.File
	var err error

	if env != envLocal {
		logPath := logFilePath(path)
		logFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("error opening log file: ", err)
		}
		log.Printf("env: %s; log file: %s", env, logPath)
	}

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		logger = slog.New(
			slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		logger = slog.New(
			slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log.Fatal("invalid environment: ", env)
	}

	return logger
}

func logFilePath(path string) string {
	return filepath.Join(path, logFileName)
}
