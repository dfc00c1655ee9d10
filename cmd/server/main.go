package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"news_server/internal/auth"
	"news_server/internal/cache"
	"news_server/internal/config"
	"news_server/internal/provider"
	"news_server/internal/publisher"
	"news_server/internal/server"
	"news_server/internal/service"
	"news_server/internal/storage/memory"
	"news_server/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Select the user directory backend
	var store service.UserStore
	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		logger.Info("connected to database", "host", cfg.Database.Host)
		store = postgres.NewUserStore(db)
	} else {
		logger.Info("using in-memory user directory")
		store = memory.NewUserStore()
	}

	// Optional fetched-news publisher
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	// Provider chain, in priority order: GNews first, then NewsAPI.
	providers := []service.Provider{
		provider.NewGNews(provider.GNewsConfig{
			APIKey:   cfg.News.GNewsAPIKey,
			BaseURL:  cfg.News.GNewsBaseURL,
			PageSize: cfg.News.PageSize,
			Timeout:  cfg.News.Timeout,
		}, logger),
		provider.NewNewsAPI(provider.NewsAPIConfig{
			APIKey:   cfg.News.NewsAPIKey,
			BaseURL:  cfg.News.NewsAPIBaseURL,
			PageSize: cfg.News.PageSize,
			Timeout:  cfg.News.Timeout,
		}, logger),
	}

	newsCache := cache.New(cfg.News.CacheTTL)
	go newsCache.RunSweeper(ctx, cfg.News.SweepInterval, logger)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	newsService := service.NewNewsService(providers, newsCache, pub, cfg.News.DefaultQuery, logger)
	userService := service.NewUserService(store, tokens, logger)

	srv := server.New(userService, newsService, tokens, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting news server",
		"addr", cfg.Server.Addr,
		"gnews_configured", cfg.News.GNewsAPIKey != "",
		"newsapi_configured", cfg.News.NewsAPIKey != "",
		"cache_ttl", cfg.News.CacheTTL,
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
