// Package storage defines the persistence collaborator contracts: two
// ordered stores, one for accounts and one for transactions. Listing
// order must equal insertion order in every implementation.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/app/model"
)

type AccountRepository interface {
	// Create a new model.Account entry. Fails with
	// apperr.ErrDuplicateAccount if the id was ever issued before.
	Create(ctx context.Context, m *model.Account) error
	// Read an active model.Account. Fails with apperr.ErrUnknownAccount
	// for closed or never-opened ids.
	Read(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// Remove an active account entry. Its transactions are not touched.
	Remove(ctx context.Context, id uuid.UUID) error
	// All active accounts in creation order.
	All(ctx context.Context) ([]model.Account, error)
	// Issued reports whether the id was ever handed out, including
	// accounts closed since.
	Issued(ctx context.Context, id uuid.UUID) (bool, error)
}

type TransactionRepository interface {
	// Create appends a new model.Transaction. Records are append-only.
	Create(ctx context.Context, m *model.Transaction) error
	// All transactions in recording order.
	All(ctx context.Context) ([]model.Transaction, error)
	// AllByAccount returns one account's transactions in recording order.
	AllByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Transaction, error)
	// ExistsByAccount reports whether the account has any transaction.
	ExistsByAccount(ctx context.Context, accountID uuid.UUID) (bool, error)
	// BalanceByAccount derives the signed sum of the account's
	// transactions: credits add, debits subtract. Zero when none exist.
	BalanceByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	// DebitSumOnDate sums the account's debits dated the given civil day.
	DebitSumOnDate(ctx context.Context, accountID uuid.UUID, day time.Time) (decimal.Decimal, error)
}
