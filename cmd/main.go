package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/data/db/postgres"
	redisClient "bookshelf_tgbot/data/redis"
	"bookshelf_tgbot/data/session"
	"bookshelf_tgbot/internal/covers"
	"bookshelf_tgbot/internal/mailer"
	"bookshelf_tgbot/internal/scheduler"
	"bookshelf_tgbot/internal/service/shelfService"
	"bookshelf_tgbot/internal/sessions"
	"bookshelf_tgbot/internal/shelfstore"
	"bookshelf_tgbot/internal/tgbot"
	"bookshelf_tgbot/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store          shelfService.Store
		backupStore    shelfService.Store
		sessionStorage telegram.Session
	)

	switch cfg.Storage.Backend {
	case "redis":
		rdb := redisClient.MustInitRedis(cfg)
		defer rdb.Close()

		store = shelfstore.NewRedisStore(rdb, cfg.Shelf.SlotKey)
		backupStore = shelfstore.NewRedisStore(rdb, cfg.Shelf.SlotKey+":backup")
		sessionStorage = session.NewRedisSession(cfg, rdb)
	case "postgres":
		postgresDb := postgres.MustInitPostgres(cfg)
		defer postgresDb.Close()

		store = shelfstore.NewPostgresStore(postgresDb, cfg.Shelf.SlotKey)
		backupStore = shelfstore.NewPostgresStore(postgresDb, cfg.Shelf.SlotKey+":backup")
	default:
		store = shelfstore.NewFileStore(cfg.Storage.FilePath)
		backupStore = shelfstore.NewFileStore(cfg.Storage.FilePath + ".backup")
	}

	if sessionStorage == nil {
		if cfg.Redis.Host != "" {
			rdb := redisClient.MustInitRedis(cfg)
			defer rdb.Close()
			sessionStorage = session.NewRedisSession(cfg, rdb)
		} else {
			sessionStorage = sessions.NewMemorySession(cfg.SessionExpiration)
		}
	}

	var coverResolver shelfService.CoverResolver
	if cfg.Covers.Enabled {
		coverResolver = covers.NewOpenLibraryResolver(cfg)
	}

	shelf, err := shelfService.New(ctx, cfg, store, coverResolver)
	if err != nil {
		slog.Error("failed to load shelf, refusing to start over saved data", slog.String("err", err.Error()))
		os.Exit(1)
	}

	shelf.Subscribe(func() {
		slog.Debug("shelf changed", slog.Int("books", shelf.Len()))
	})

	Mailer := mailer.New(cfg)

	sched := scheduler.New()
	sched.NewIntervalJob("backup shelf", func(jobCtx context.Context) error {
		return backupStore.Save(jobCtx, shelf.Books())
	}, cfg.Jobs.BackupInterval, false)
	sched.Start()
	defer sched.Stop()

	tgController := telegram.NewController(cfg, shelf, sessionStorage, Mailer)

	tgBot := tgbot.New(cfg, tgController, sessionStorage)

	tgBot.Start()
	defer tgBot.Stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
