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
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/chopbill/internal/auth"
	"github.com/mmynk/chopbill/internal/config"
	"github.com/mmynk/chopbill/internal/events"
	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/internal/lock"
	"github.com/mmynk/chopbill/internal/middleware"
	"github.com/mmynk/chopbill/internal/service"
	"github.com/mmynk/chopbill/internal/storage/sqlite"
	"github.com/mmynk/chopbill/pkg/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("CHOPBILL_CONFIG"), "Path to a TOML config file")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.RequireJWTSecret(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	opts := []ledger.Option{
		ledger.WithDashboardConcurrency(cfg.Ledger.DashboardConcurrency),
		ledger.WithRecentExpenseLimit(cfg.Ledger.RecentExpenseLimit),
		ledger.WithLockTimeout(cfg.Ledger.LockTimeout.Duration),
	}

	if cfg.Redis.URL != "" {
		locker, err := lock.NewRedisLocker(ctx, cfg.Redis.URL, cfg.Redis.LockTTL.Duration)
		if err != nil {
			return err
		}
		defer locker.Close()
		opts = append(opts, ledger.WithLocker(locker))
		slog.Info("Using Redis group lock", "lock_ttl", cfg.Redis.LockTTL.Duration)
	}

	if cfg.AMQP.URL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, ledger.WithPublisher(publisher))
		slog.Info("Publishing ledger events", "exchange", cfg.AMQP.Exchange)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration)
	router := service.NewRouter(ledger.New(store, opts...),
		middleware.RequireAuth(jwtManager, service.PublicProcedures()...),
		middleware.LoggingInterceptor(),
	)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		// h2c serves HTTP/2 without TLS for Connect clients
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
