package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/haidang/fintrack-backend/internal/adapter/httpapi"
	"github.com/haidang/fintrack-backend/internal/adapter/repository/postgres"
	"github.com/haidang/fintrack-backend/internal/usecase/engine"
	"github.com/haidang/fintrack-backend/internal/usecase/ledger"
	"github.com/haidang/fintrack-backend/internal/usecase/trade"
	"github.com/haidang/fintrack-backend/internal/usecase/wallet"
)

const (
	defaultAPIToken = "dev-token"
	defaultHTTPAddr = ":8080"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. Setup Database
	db, err := postgres.NewDB(dbConnString())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	walletRepo := postgres.NewWalletRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	rateRepo := postgres.NewRateRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	tradeRepo := postgres.NewTradeRepository(db)
	recalculator := postgres.NewRecalculator(db)

	// 3. Initialize Services (Use Cases)
	balanceLedger := ledger.New(walletRepo)
	txEngine := engine.New(walletRepo, transactionRepo, rateRepo, recalculator, balanceLedger, logger)
	walletService := wallet.NewService(walletRepo, snapshotRepo, logger)
	tradeService := trade.NewService(tradeRepo, walletRepo, logger)

	// 4. Start HTTP Server
	apiToken := os.Getenv("API_TOKEN")
	if apiToken == "" {
		apiToken = defaultAPIToken
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = defaultHTTPAddr
	}

	handler := httpapi.NewHandler(txEngine, walletService, tradeService, logger)
	server := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(handler, apiToken),
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// dbConnString builds the Postgres connection string from DB_CONN_STR or
// individual vars (Docker friendly)
func dbConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	dbname := envOr("DB_NAME", "fintrack")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server
func waitForShutdown(server *http.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("http server stopped")
}
