// Package ledger is the system of record: the ordered account and
// transaction stores behind a single aggregate, and the only place a
// balance comes from.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/model"
	"bankledger/internal/app/storage"
)

type Ledger struct {
	accounts     storage.AccountRepository
	transactions storage.TransactionRepository
}

func New(accounts storage.AccountRepository, transactions storage.TransactionRepository) *Ledger {
	return &Ledger{
		accounts:     accounts,
		transactions: transactions,
	}
}

// RecordAccount adds a new entry to the account store.
func (l *Ledger) RecordAccount(ctx context.Context, m *model.Account) error {
	return l.accounts.Create(ctx, m)
}

// Account returns an active account.
func (l *Ledger) Account(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return l.accounts.Read(ctx, id)
}

// RemoveAccount deletes the account entry only; the account's
// transactions stay queryable forever.
func (l *Ledger) RemoveAccount(ctx context.Context, id uuid.UUID) error {
	return l.accounts.Remove(ctx, id)
}

// RecordTransaction appends to the transaction store. The referenced
// account must have been issued at some point, active or closed; amounts
// must be positive and the kind must be known.
func (l *Ledger) RecordTransaction(ctx context.Context, m *model.Transaction) error {
	if !m.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction amount must be positive", apperr.ErrInvalidInput)
	}
	if m.Kind != model.KindCredit && m.Kind != model.KindDebit {
		return fmt.Errorf("%w: unknown transaction kind %q", apperr.ErrInvalidInput, m.Kind)
	}

	issued, err := l.accounts.Issued(ctx, m.AccountID)
	if err != nil {
		return fmt.Errorf("issued check: %w", err)
	}
	if !issued {
		return apperr.ErrUnknownAccount
	}

	return l.transactions.Create(ctx, m)
}

// BalanceOf derives the account balance as the signed sum of its
// transactions. It answers for closed accounts too, and reports zero for
// an id with no transactions.
func (l *Ledger) BalanceOf(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	return l.transactions.BalanceByAccount(ctx, id)
}

// DebitSumOn sums the account's debits dated the given civil day.
func (l *Ledger) DebitSumOn(ctx context.Context, id uuid.UUID, day time.Time) (decimal.Decimal, error) {
	return l.transactions.DebitSumOnDate(ctx, id, day)
}

// HasTransactions reports whether the account has any recorded history.
func (l *Ledger) HasTransactions(ctx context.Context, id uuid.UUID) (bool, error) {
	return l.transactions.ExistsByAccount(ctx, id)
}

// TransactionsOf returns the account's transactions in recording order as
// a restartable sequence over a snapshot; ranging it never exposes the
// underlying store.
func (l *Ledger) TransactionsOf(ctx context.Context, id uuid.UUID) (iter.Seq[model.Transaction], error) {
	mm, err := l.transactions.AllByAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	return func(yield func(model.Transaction) bool) {
		for _, m := range mm {
			if !yield(m) {
				return
			}
		}
	}, nil
}

// Accounts lists active accounts in creation order.
func (l *Ledger) Accounts(ctx context.Context) ([]model.Account, error) {
	return l.accounts.All(ctx)
}

// Transactions lists all transactions in recording order.
func (l *Ledger) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return l.transactions.All(ctx)
}
