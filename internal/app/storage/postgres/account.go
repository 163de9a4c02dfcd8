// Package postgres implements the storage contracts on PostgreSQL.
// Closed accounts are kept as soft-deleted rows so their ids stay issued
// and their transactions remain attributable; a bigserial seq column
// preserves insertion order for listing.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/model"
	"bankledger/internal/app/storage"
)

// storage.AccountRepository interface implementation
var _ storage.AccountRepository = (*AccountRepository)(nil)

type AccountRepository struct {
	db *sql.DB
}

func (r *AccountRepository) LoggerComponent() string {
	return "AccountRepository"
}

func NewAccountRepository(db *sql.DB) (*AccountRepository, error) {
	s := &AccountRepository{
		db: db,
	}

	return s, nil
}

// Create implementation of interface storage.AccountRepository
func (r *AccountRepository) Create(ctx context.Context, m *model.Account) error {
	const SQL = `
		INSERT INTO accounts (id, variant, opened_on)
		VALUES ($1, $2, $3)
`

	_, err := r.db.ExecContext(ctx, SQL, m.ID, string(m.Variant), m.OpenedOn)
	if err != nil {
		if pgErr, ok := err.(*pg.Error); ok {
			if pgerrcode.IsIntegrityConstraintViolation(string(pgErr.Code)) {
				return apperr.ErrDuplicateAccount
			}
		}

		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

// Read implementation of interface storage.AccountRepository
func (r *AccountRepository) Read(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	const SQL = `
		SELECT id, variant, opened_on
		FROM accounts
		WHERE id=$1 AND closed_at IS NULL
`
	m := &model.Account{}
	var variant string

	err := r.db.QueryRowContext(ctx, SQL, id).Scan(&m.ID, &variant, &m.OpenedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrUnknownAccount
		}
		return nil, fmt.Errorf("select: %w", err)
	}
	m.Variant = model.Variant(variant)

	return m, nil
}

// Remove implementation of interface storage.AccountRepository.
// The row is soft-deleted so the id remains issued.
func (r *AccountRepository) Remove(ctx context.Context, id uuid.UUID) error {
	const SQL = `
		UPDATE accounts
		SET closed_at=now()
		WHERE id=$1 AND closed_at IS NULL
`

	res, err := r.db.ExecContext(ctx, SQL, id)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrUnknownAccount
	}

	return nil
}

// All implementation of interface storage.AccountRepository
func (r *AccountRepository) All(ctx context.Context) ([]model.Account, error) {
	const SQL = `
		SELECT id, variant, opened_on
		FROM accounts
		WHERE closed_at IS NULL
		ORDER BY seq
`
	rows, err := r.db.QueryContext(ctx, SQL)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]model.Account, 0)

	for rows.Next() {
		m := model.Account{}
		var variant string
		if err := rows.Scan(&m.ID, &variant, &m.OpenedOn); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		m.Variant = model.Variant(variant)
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return res, nil
}

// Issued implementation of interface storage.AccountRepository
func (r *AccountRepository) Issued(ctx context.Context, id uuid.UUID) (bool, error) {
	const SQL = `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE id=$1)
`
	var issued bool

	if err := r.db.QueryRowContext(ctx, SQL, id).Scan(&issued); err != nil {
		return false, fmt.Errorf("select: %w", err)
	}

	return issued, nil
}
