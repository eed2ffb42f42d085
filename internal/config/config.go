package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	// Base URL of the bank (account store) service, used by the transfer
	// orchestrator and reversal engine.
	BankServiceURL string `env:"BANK_SERVICE_URL" envDefault:"http://bank:9097"`
	// Base URL of the transaction service, used by the bank service's
	// detail recorder.
	TransactionServiceURL string `env:"TRANSACTION_SERVICE_URL" envDefault:"http://api:8080"`

	// Every remote call to the account store carries a bounded timeout and a
	// bounded retry budget; exhaustion counts as a leg failure.
	LedgerCallTimeoutS int `env:"LEDGER_CALL_TIMEOUT_S" envDefault:"5"`
	LedgerCallRetries  int `env:"LEDGER_CALL_RETRIES" envDefault:"3"`

	RecorderWorkers   int `env:"RECORDER_WORKERS" envDefault:"4"`
	RecorderQueueSize int `env:"RECORDER_QUEUE_SIZE" envDefault:"256"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
