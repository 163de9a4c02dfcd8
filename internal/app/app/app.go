package app

import (
	"database/sql"
	"embed"
	"fmt"

	"bankledger/internal/app/config"
	"bankledger/internal/app/ledger"
	"bankledger/internal/app/logger"
	"bankledger/internal/app/service/account"
	"bankledger/internal/app/session"
	"bankledger/internal/app/storage"
	"bankledger/internal/app/storage/memory"
	"bankledger/internal/app/storage/postgres"
)

type App struct {
	config   config.Config
	logger   logger.Logger
	ledger   *ledger.Ledger
	accounts *account.Service
	session  session.Manager
	db       *sql.DB
	stopCh   chan struct{}
}

func New(cfg config.Config, logger logger.Logger, e embed.FS) (*App, error) {
	var (
		db           *sql.DB
		accountRepo  storage.AccountRepository
		transactions storage.TransactionRepository
	)

	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}

		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("db ping: %w", err)
		}

		if err := applyMigrations(e, db); err != nil {
			return nil, fmt.Errorf("db migrate: %w", err)
		}

		accountRepo, err = postgres.NewAccountRepository(db)
		if err != nil {
			return nil, fmt.Errorf("account repository init: %w", err)
		}

		transactions, err = postgres.NewTransactionRepository(db)
		if err != nil {
			return nil, fmt.Errorf("transaction repository init: %w", err)
		}
	} else {
		logger.Info().Msg("No database configured, running on in-memory stores")
		accountRepo = memory.NewAccountRepository()
		transactions = memory.NewTransactionRepository()
	}

	led := ledger.New(accountRepo, transactions)

	a := &App{
		config:   cfg,
		logger:   logger,
		ledger:   led,
		accounts: account.New(led),
		session:  session.NewMemory(cfg.SecretKey),
		db:       db,
		stopCh:   make(chan struct{}),
	}

	go func() {
		<-a.stopCh
		a.logger.Info().Msg("Shutting down application")
	}()

	return a, nil
}

func (a *App) Stop() {
	close(a.stopCh)
	if a.db != nil {
		_ = a.db.Close()
	}
}
