package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/showcase/backend/internal/config"
	"github.com/showcase/backend/internal/handler"
	"github.com/showcase/backend/internal/logging"
	"github.com/showcase/backend/internal/metrics"
	"github.com/showcase/backend/internal/notify"
	"github.com/showcase/backend/internal/repository"
	"github.com/showcase/backend/internal/service"
	"github.com/showcase/backend/internal/storage"
	"github.com/showcase/backend/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, repository.StoreConfig{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		logging.Fatal("failed to open store", "driver", cfg.DBDriver, "error", err)
	}
	defer store.Close()

	m := metrics.New()
	images := storage.NewLocalStorage(cfg.MediaDir, cfg.MediaURL)
	views := view.NewBuilder(images)

	catalogService := service.NewCatalogService(store.Catalog, views)
	contactService := service.NewContactService(store.Contacts, newSender(cfg.Email), service.ContactServiceConfig{
		From:            cfg.Email.From,
		OperatorAddress: cfg.Email.OperatorAddress,
		NotifyTimeout:   cfg.Email.Timeout,
		Metrics:         m,
	})

	h := handler.New(store.DB, cfg.CORSAllowedOrigins)
	mux := handler.NewRouter(handler.Routes{
		Base:        h,
		Catalog:     handler.NewCatalogHandler(catalogService),
		Contact:     handler.NewContactHandler(contactService, views),
		Limiter:     handler.NewRateLimiter(ctx, cfg.ContactRateLimit, cfg.TrustedProxies),
		Media:       http.FileServer(http.Dir(cfg.MediaDir)),
		MediaPrefix: cfg.MediaURL,
		Metrics:     m.Handler(),
	})

	// RequestLogger reads the matched pattern back from the request, so
	// nothing between it and the mux may replace the request.
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.RequestID(handler.RequestLogger(m)(handler.SecurityHeaders(h.CORS(mux)))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "driver", cfg.DBDriver, "email_backend", cfg.Email.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newSender(cfg config.Email) notify.Sender {
	if cfg.Backend == config.EmailSMTP {
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			UseTLS:   cfg.UseTLS,
			Timeout:  cfg.Timeout,
		})
	}
	return notify.NewConsoleSender(nil)
}
