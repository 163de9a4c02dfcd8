// Package account orchestrates the account use cases: open, deposit,
// withdraw and close. It combines the variant policy with the ledger
// state and records the resulting transaction, or nothing at all.
package account

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ferdypruis/go-luhn"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/ledger"
	"bankledger/internal/app/logger"
	"bankledger/internal/app/model"
	"bankledger/internal/app/policy"
)

type Service struct {
	// mu serializes mutations so every validation observes a settled
	// transaction history
	mu     sync.Mutex
	ledger *ledger.Ledger
	logger logger.Logger
}

func (s *Service) LoggerComponent() string {
	return "Account.Service"
}

func New(l *ledger.Ledger) *Service {
	s := &Service{
		ledger: l,
	}
	s.logger = logger.Global().Component(s)

	return s
}

type OpenInput struct {
	Variant  model.Variant
	OpenedOn time.Time
}

type DepositInput struct {
	AccountID  uuid.UUID
	Amount     decimal.Decimal
	OccurredOn time.Time
}

type WithdrawInput struct {
	AccountID  uuid.UUID
	Amount     decimal.Decimal
	ATM        bool
	CardNumber string
	OccurredOn time.Time
}

type CloseInput struct {
	AccountID  uuid.UUID
	OccurredOn time.Time
}

// Open creates an account of the requested variant and records it.
func (s *Service) Open(ctx context.Context, in OpenInput) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := policy.ForVariant(in.Variant); err != nil {
		return nil, err
	}

	m := model.NewAccount(in.Variant, in.OpenedOn)
	if err := s.ledger.RecordAccount(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("account_id", m.ID.String()).
		Str("variant", string(m.Variant)).
		Msg("Account opened")

	return m, nil
}

// Deposit validates the amount against the account's policy and records a
// credit transaction. Nothing is written when validation fails.
func (s *Service) Deposit(ctx context.Context, in DepositInput) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperr.ErrInvalidInput)
	}

	acct, err := s.ledger.Account(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	p, err := policy.ForVariant(acct.Variant)
	if err != nil {
		return nil, err
	}

	hasHistory, err := s.ledger.HasTransactions(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	if err := p.ValidateDeposit(in.Amount, hasHistory); err != nil {
		return nil, err
	}

	m := model.NewTransaction(in.AccountID, model.KindCredit, in.Amount, in.OccurredOn)
	if err := s.ledger.RecordTransaction(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("account_id", in.AccountID.String()).
		Str("transaction_id", m.ID.String()).
		Msg("Deposit recorded")

	return m, nil
}

// Withdraw validates the request against the account's policy and the
// day's prior withdrawals, then records a debit transaction.
func (s *Service) Withdraw(ctx context.Context, in WithdrawInput) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", apperr.ErrInvalidInput)
	}
	if in.ATM && !luhn.Valid(in.CardNumber) {
		return nil, fmt.Errorf("%w: invalid card number", apperr.ErrInvalidInput)
	}

	acct, err := s.ledger.Account(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	p, err := policy.ForVariant(acct.Variant)
	if err != nil {
		return nil, err
	}

	if err := s.validateWithdraw(ctx, p, in.AccountID, in.Amount, in.ATM, in.OccurredOn); err != nil {
		return nil, err
	}

	m := model.NewTransaction(in.AccountID, model.KindDebit, in.Amount, in.OccurredOn)
	if err := s.ledger.RecordTransaction(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("account_id", in.AccountID.String()).
		Str("transaction_id", m.ID.String()).
		Bool("atm", in.ATM).
		Msg("Withdrawal recorded")

	return m, nil
}

// Close removes the account from the ledger. A positive balance is first
// withdrawn in full, subject to the same rules as any other withdrawal,
// so a restricted account whose balance exceeds the day's remaining
// allowance cannot be closed that day. The closed account's transactions
// survive.
func (s *Service) Close(ctx context.Context, in CloseInput) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.ledger.Account(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	p, err := policy.ForVariant(acct.Variant)
	if err != nil {
		return nil, err
	}

	if !p.Closeable() {
		return nil, apperr.ErrAccountNotCloseable
	}

	balance, err := s.ledger.BalanceOf(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	// zero balance closes without a transaction and without consulting
	// the withdrawal rules: there is no amount to exceed a limit with
	var m *model.Transaction
	if balance.IsPositive() {
		if err := s.validateWithdraw(ctx, p, in.AccountID, balance, false, in.OccurredOn); err != nil {
			return nil, err
		}

		m = model.NewTransaction(in.AccountID, model.KindDebit, balance, in.OccurredOn)
		if err := s.ledger.RecordTransaction(ctx, m); err != nil {
			return nil, err
		}
	}

	if err := s.ledger.RemoveAccount(ctx, in.AccountID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("account_id", in.AccountID.String()).
		Msg("Account closed")

	return m, nil
}

func (s *Service) validateWithdraw(ctx context.Context, p policy.Policy, id uuid.UUID, amount decimal.Decimal, atm bool, occurredOn time.Time) error {
	balance, err := s.ledger.BalanceOf(ctx, id)
	if err != nil {
		return err
	}

	withdrawnToday, err := s.ledger.DebitSumOn(ctx, id, occurredOn)
	if err != nil {
		return err
	}

	return p.ValidateWithdraw(policy.WithdrawRequest{
		Amount:         amount,
		Balance:        balance,
		WithdrawnToday: withdrawnToday,
		OccurredOn:     occurredOn,
		ATM:            atm,
	})
}
