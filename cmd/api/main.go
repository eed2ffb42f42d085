package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ajay05krish/BankingApplication/internal/config"
	"github.com/Ajay05krish/BankingApplication/internal/handler"
	"github.com/Ajay05krish/BankingApplication/internal/logging"
	"github.com/Ajay05krish/BankingApplication/internal/middleware"
	"github.com/Ajay05krish/BankingApplication/internal/repository"
	"github.com/Ajay05krish/BankingApplication/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("transaction-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactions := repository.NewTransactionRepository(db)
	details := repository.NewDetailRepository(db)
	ledger := service.NewBankClient(
		cfg.BankServiceURL,
		time.Duration(cfg.LedgerCallTimeoutS)*time.Second,
		cfg.LedgerCallRetries,
	)
	svc := service.NewService(transactions, details, ledger)
	transactionHandler := handler.NewTransactionHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("PUT /api/transaction/transfer", transactionHandler.Transfer)
	mux.HandleFunc("PUT /api/transaction/reverse", transactionHandler.Reverse)
	mux.HandleFunc("GET /api/transaction/{id}", transactionHandler.GetByID)
	mux.HandleFunc("GET /api/transaction/history/{accountNumber}", transactionHandler.History)
	mux.HandleFunc("GET /api/transaction/statement/{accountNumber}", transactionHandler.Statement)
	mux.HandleFunc("POST /api/transaction/details", transactionHandler.RecordDetail)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     root,
		ReadTimeout: 15 * time.Second,
		// A transfer response waits for both legs, each with its own
		// timeout and retry budget against the account store.
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var err error
	for i := range 30 {
		var db *sql.DB
		db, err = repository.NewPostgresDB(context.Background(), cfg.DatabaseURL, pool)
		if err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
