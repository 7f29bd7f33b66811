package main

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tmarts/boxoffice/internal/app"
	"github.com/tmarts/boxoffice/internal/clock"
	"github.com/tmarts/boxoffice/internal/config"
	"github.com/tmarts/boxoffice/internal/logger"
	"github.com/tmarts/boxoffice/internal/metrics"
	"github.com/tmarts/boxoffice/internal/storage/postgres"
	transporthttp "github.com/tmarts/boxoffice/internal/transport/http"
	"github.com/tmarts/boxoffice/migrations"
	"go.uber.org/zap"
)

func main() {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	metrics.Register()

	startupCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.StartupTimeoutSec)*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("parse database url", zap.Error(err))
	}
	poolCfg.MaxConns = int32(cfg.DBMaxConns)

	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		zlog.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		zlog.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		zlog.Fatal("apply migrations", zap.Error(err))
	}

	eventRepo := postgres.NewEventRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	clk := clock.NewSystem()

	purchaseSvc := app.NewPurchaseService(eventRepo, purchaseRepo, clk, zlog)
	catalogSvc := app.NewCatalogService(eventRepo, clk)
	rankingSvc := app.NewRankingService(purchaseRepo, eventRepo, clk)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/purchases", transporthttp.HandlePurchaseTickets(purchaseSvc))
	mux.Handle("/events", transporthttp.HandleListEvents(catalogSvc))
	mux.Handle("/events/popular", transporthttp.HandlePopularEvents(rankingSvc))
	mux.Handle("/admin/events", transporthttp.HandleCreateEvent(catalogSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	corsOrigins := parseCSV(cfg.CORSOrigins)
	handler := transporthttp.RequestLogger(transporthttp.CORS(corsOrigins, mux), zlog)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	zlog.Info("api listening", zap.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		zlog.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Error("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// loadEnvFile loads a .env from the current or a parent directory before the
// config is read. Existing environment variables win.
func loadEnvFile() {
	path, err := findEnvFile()
	if err != nil || path == "" {
		return
	}

	file, err := os.Open(path)
	if err != nil {
		log.Printf("WARN: failed to open %s: %v", path, err)
		return
	}
	defer func() { _ = file.Close() }()

	if err := parseEnvFile(file); err != nil {
		log.Printf("WARN: failed to load %s: %v", path, err)
	}
}

func findEnvFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for i := 0; i < 6; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

func parseEnvFile(file *os.File) error {
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = trimQuotes(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			log.Printf("WARN: failed to set %s from env file", key)
		}
	}
	return scanner.Err()
}

func trimQuotes(value string) string {
	if len(value) < 2 {
		return value
	}
	if (value[0] == '"' && value[len(value)-1] == '"') ||
		(value[0] == '\'' && value[len(value)-1] == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
