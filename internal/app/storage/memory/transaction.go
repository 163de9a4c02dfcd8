package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/app/model"
	"bankledger/internal/app/storage"
)

// storage.TransactionRepository interface implementation
var _ storage.TransactionRepository = (*TransactionRepository)(nil)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions []model.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create implementation of interface storage.TransactionRepository
func (r *TransactionRepository) Create(_ context.Context, m *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions = append(r.transactions, *m)

	return nil
}

// All implementation of interface storage.TransactionRepository
func (r *TransactionRepository) All(_ context.Context) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Transaction, len(r.transactions))
	copy(res, r.transactions)

	return res, nil
}

// AllByAccount implementation of interface storage.TransactionRepository
func (r *TransactionRepository) AllByAccount(_ context.Context, accountID uuid.UUID) ([]model.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Transaction, 0)
	for _, m := range r.transactions {
		if m.AccountID == accountID {
			res = append(res, m)
		}
	}

	return res, nil
}

// ExistsByAccount implementation of interface storage.TransactionRepository
func (r *TransactionRepository) ExistsByAccount(_ context.Context, accountID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.transactions {
		if m.AccountID == accountID {
			return true, nil
		}
	}

	return false, nil
}

// BalanceByAccount implementation of interface storage.TransactionRepository.
// The balance is replayed from the full history on every call; nothing is
// cached.
func (r *TransactionRepository) BalanceByAccount(_ context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	for _, m := range r.transactions {
		if m.AccountID == accountID {
			sum = sum.Add(m.Signed())
		}
	}

	return sum, nil
}

// DebitSumOnDate implementation of interface storage.TransactionRepository
func (r *TransactionRepository) DebitSumOnDate(_ context.Context, accountID uuid.UUID, day time.Time) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	date := model.DateOf(day)
	sum := decimal.Zero
	for _, m := range r.transactions {
		if m.AccountID == accountID && m.Kind == model.KindDebit && m.OccurredOn.Equal(date) {
			sum = sum.Add(m.Amount)
		}
	}

	return sum, nil
}
