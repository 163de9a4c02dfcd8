package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/app/model"
	"bankledger/internal/app/storage"
)

// storage.TransactionRepository interface implementation
var _ storage.TransactionRepository = (*TransactionRepository)(nil)

type TransactionRepository struct {
	db *sql.DB
}

func (r *TransactionRepository) LoggerComponent() string {
	return "TransactionRepository"
}

func NewTransactionRepository(db *sql.DB) (*TransactionRepository, error) {
	s := &TransactionRepository{
		db: db,
	}

	return s, nil
}

// Create implementation of interface storage.TransactionRepository
func (r *TransactionRepository) Create(ctx context.Context, m *model.Transaction) error {
	const SQL = `
		INSERT INTO transactions (id, account_id, kind, amount, occurred_on)
		VALUES ($1, $2, $3, $4, $5)
`

	_, err := r.db.ExecContext(ctx, SQL, m.ID, m.AccountID, string(m.Kind), m.Amount, m.OccurredOn)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

// All implementation of interface storage.TransactionRepository
func (r *TransactionRepository) All(ctx context.Context) ([]model.Transaction, error) {
	const SQL = `
		SELECT id, account_id, kind, amount, occurred_on
		FROM transactions
		ORDER BY seq
`

	return r.query(ctx, SQL)
}

// AllByAccount implementation of interface storage.TransactionRepository
func (r *TransactionRepository) AllByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Transaction, error) {
	const SQL = `
		SELECT id, account_id, kind, amount, occurred_on
		FROM transactions
		WHERE account_id=$1
		ORDER BY seq
`

	return r.query(ctx, SQL, accountID)
}

// ExistsByAccount implementation of interface storage.TransactionRepository
func (r *TransactionRepository) ExistsByAccount(ctx context.Context, accountID uuid.UUID) (bool, error) {
	const SQL = `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE account_id=$1)
`
	var exists bool

	if err := r.db.QueryRowContext(ctx, SQL, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("select: %w", err)
	}

	return exists, nil
}

// BalanceByAccount implementation of interface storage.TransactionRepository.
// The balance is derived from the transaction rows on every call; there is
// no stored balance column to drift out of sync.
func (r *TransactionRepository) BalanceByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	const SQL = `
		SELECT coalesce(sum(CASE WHEN kind='credit' THEN amount ELSE -amount END), 0) AS b
		FROM transactions
		WHERE account_id=$1
`
	sum := decimal.NewFromInt(0)

	err := r.db.QueryRowContext(ctx, SQL, accountID).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sum, nil
		}
		return sum, fmt.Errorf("select: %w", err)
	}

	return sum, nil
}

// DebitSumOnDate implementation of interface storage.TransactionRepository
func (r *TransactionRepository) DebitSumOnDate(ctx context.Context, accountID uuid.UUID, day time.Time) (decimal.Decimal, error) {
	const SQL = `
		SELECT coalesce(sum(amount), 0) AS b
		FROM transactions
		WHERE account_id=$1 AND kind='debit' AND occurred_on=$2
`
	sum := decimal.NewFromInt(0)

	err := r.db.QueryRowContext(ctx, SQL, accountID, model.DateOf(day)).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sum, nil
		}
		return sum, fmt.Errorf("select: %w", err)
	}

	return sum, nil
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]model.Transaction, 0)

	for rows.Next() {
		m := model.Transaction{}
		var kind string
		if err := rows.Scan(&m.ID, &m.AccountID, &kind, &m.Amount, &m.OccurredOn); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		m.Kind = model.Kind(kind)
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return res, nil
}
