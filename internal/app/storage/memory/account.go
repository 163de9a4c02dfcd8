// Package memory implements the storage contracts on insertion-ordered
// in-memory maps. It backs the service when no database is configured and
// doubles as the store used by the test suites.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/model"
	"bankledger/internal/app/storage"
)

// storage.AccountRepository interface implementation
var _ storage.AccountRepository = (*AccountRepository)(nil)

type AccountRepository struct {
	mu       sync.RWMutex
	order    []uuid.UUID
	accounts map[uuid.UUID]model.Account
	issued   map[uuid.UUID]struct{}
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uuid.UUID]model.Account),
		issued:   make(map[uuid.UUID]struct{}),
	}
}

// Create implementation of interface storage.AccountRepository
func (r *AccountRepository) Create(_ context.Context, m *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.issued[m.ID]; ok {
		return apperr.ErrDuplicateAccount
	}

	r.accounts[m.ID] = *m
	r.issued[m.ID] = struct{}{}
	r.order = append(r.order, m.ID)

	return nil
}

// Read implementation of interface storage.AccountRepository
func (r *AccountRepository) Read(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.accounts[id]
	if !ok {
		return nil, apperr.ErrUnknownAccount
	}

	return &m, nil
}

// Remove implementation of interface storage.AccountRepository.
// The id stays in the issued set so the account's transactions remain
// attributable after closing.
func (r *AccountRepository) Remove(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return apperr.ErrUnknownAccount
	}

	delete(r.accounts, id)

	return nil
}

// All implementation of interface storage.AccountRepository
func (r *AccountRepository) All(_ context.Context) ([]model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Account, 0, len(r.accounts))
	for _, id := range r.order {
		if m, ok := r.accounts[id]; ok {
			res = append(res, m)
		}
	}

	return res, nil
}

// Issued implementation of interface storage.AccountRepository
func (r *AccountRepository) Issued(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.issued[id]

	return ok, nil
}
