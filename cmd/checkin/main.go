package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/club-attendance/internal/application"
	"github.com/example/club-attendance/internal/config"
	httptransport "github.com/example/club-attendance/internal/http"
	"github.com/example/club-attendance/internal/logging"
	"github.com/example/club-attendance/internal/metrics"
	"github.com/example/club-attendance/internal/persistence"
	"github.com/example/club-attendance/internal/persistence/memory"
	"github.com/example/club-attendance/internal/persistence/sheets"
	"github.com/example/club-attendance/internal/persistence/sqlite"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pinger, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	collectors, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	handler := newHandler(cfg, store, pinger, collectors, promhttp.Handler(), time.Now, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("check-in API listening", "addr", server.Addr, "store", cfg.Store, "timezone", cfg.Location.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// openStore returns the configured backend, an optional health pinger and a
// close function.
func openStore(ctx context.Context, cfg config.Config) (persistence.TabularStore, httptransport.Pinger, func() error, error) {
	switch cfg.Store {
	case config.StoreMemory:
		store := memory.New(persistence.Tables()...)
		return store, nil, store.Close, nil
	case config.StoreSheets:
		store, err := sheets.Open(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsFile)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() error { return nil }, nil
	default:
		store, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		if err := store.EnsureTables(ctx, persistence.Tables()...); err != nil {
			store.Close()
			return nil, nil, nil, err
		}
		return store, store, store.Close, nil
	}
}

func newHandler(cfg config.Config, backend persistence.TabularStore, pinger httptransport.Pinger, collectors *metrics.Collectors, metricsHandler http.Handler, now func() time.Time, logger *slog.Logger) http.Handler {
	store := persistence.NewInstrumented(backend, collectors)

	codes := application.NewMeetingCodeService(store, now, application.MeetingCodeOptions{
		Location: cfg.Location,
		Window:   cfg.CodeWindow,
		CacheTTL: cfg.CodeCacheTTL,
		Metrics:  collectors,
		Logger:   logger,
	})
	matrix := application.NewMatrixWriter(store)
	checkins := application.NewCheckinServiceWithLogger(store, codes, matrix, now, cfg.Location, collectors, logger)
	admin := application.NewAdminAuthenticatorWithLogger(application.AdminAuthConfig{
		PasswordHash:    cfg.AdminPasswordHash,
		SigningKey:      []byte(cfg.SessionSecret),
		SessionTTL:      cfg.SessionTTL,
		LoginsPerMinute: cfg.AdminLoginRate,
	}, application.VerifyPassword, uuid.NewString, now, logger)
	flows := application.NewFlowCodec([]byte(cfg.SessionSecret), cfg.SessionTTL, now)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Checkins:     httptransport.NewCheckinHandler(checkins, logger),
		MeetingCodes: httptransport.NewMeetingCodeHandler(codes, logger),
		Admin:        httptransport.NewAdminHandler(admin, logger),
		Flow:         httptransport.NewFlowHandler(flows, logger),
		RequireAdmin: httptransport.RequireAdmin(admin, logger),
		Health:       httptransport.HealthHandler(pinger, logger),
		Metrics:      metricsHandler,
		Middleware:   []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})
}

// hashPassword reads a password from the first line of in and writes its
// argon2id hash for CHECKIN_ADMIN_PASSWORD_HASH.
func hashPassword(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	hash, err := application.CreatePasswordHash(password, application.DefaultArgon2idParams)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
