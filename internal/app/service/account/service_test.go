package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/ledger"
	"bankledger/internal/app/model"
	"bankledger/internal/app/service/account"
	"bankledger/internal/app/storage/memory"
)

const validCard = "4111111111111111"

var (
	beforeCutover = time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	cutoverPlus1  = time.Date(2020, time.April, 2, 0, 0, 0, 0, time.UTC)
	mayFirst      = time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	ledger  *ledger.Ledger
	service *account.Service
}

func newFixture() *fixture {
	l := ledger.New(memory.NewAccountRepository(), memory.NewTransactionRepository())
	return &fixture{ledger: l, service: account.New(l)}
}

func (f *fixture) open(t *testing.T, v model.Variant, on time.Time) *model.Account {
	t.Helper()
	m, err := f.service.Open(context.Background(), account.OpenInput{Variant: v, OpenedOn: on})
	if err != nil {
		t.Fatalf("Open(%s): %v", v, err)
	}
	return m
}

func (f *fixture) deposit(t *testing.T, id uuid.UUID, amount int64, on time.Time) {
	t.Helper()
	_, err := f.service.Deposit(context.Background(), account.DepositInput{
		AccountID:  id,
		Amount:     decimal.NewFromInt(amount),
		OccurredOn: on,
	})
	if err != nil {
		t.Fatalf("Deposit(%d): %v", amount, err)
	}
}

func (f *fixture) balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.BalanceOf(context.Background(), id)
	if err != nil {
		t.Fatalf("BalanceOf: %v", err)
	}
	return b
}

func TestOpenRejectsUnknownVariant(t *testing.T) {
	f := newFixture()
	_, err := f.service.Open(context.Background(), account.OpenInput{
		Variant:  model.Variant("offshore"),
		OpenedOn: beforeCutover,
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestCompanyFirstDepositMinimum(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantCompany, beforeCutover)

	_, err := f.service.Deposit(ctx, account.DepositInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(4999),
		OccurredOn: beforeCutover,
	})
	if !errors.Is(err, apperr.ErrMinimumLoanDepositNotMet) {
		t.Fatalf("first deposit of 4999: want ErrMinimumLoanDepositNotMet, got %v", err)
	}
	if !f.balance(t, acct.ID).IsZero() {
		t.Fatal("failed deposit must not change the ledger")
	}

	f.deposit(t, acct.ID, 5000, beforeCutover)
	f.deposit(t, acct.ID, 1, beforeCutover)

	if got, want := f.balance(t, acct.ID), decimal.NewFromInt(5001); !got.Equal(want) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

func TestInternationalIgnoresRestrictions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantInternational, beforeCutover)
	f.deposit(t, acct.ID, 2500, beforeCutover)

	m, err := f.service.Withdraw(ctx, account.WithdrawInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(2000),
		ATM:        true,
		CardNumber: validCard,
		OccurredOn: mayFirst,
	})
	if err != nil {
		t.Fatalf("international ATM withdrawal after cutover: %v", err)
	}
	if m.Kind != model.KindDebit || !m.Amount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected transaction %+v", m)
	}
	if got, want := f.balance(t, acct.ID), decimal.NewFromInt(500); !got.Equal(want) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

func TestCovidDailyLimitAndATMBan(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantCovid, beforeCutover)
	f.deposit(t, acct.ID, 3000, beforeCutover)

	if _, err := f.service.Withdraw(ctx, account.WithdrawInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(1000),
		OccurredOn: cutoverPlus1,
	}); err != nil {
		t.Fatalf("withdrawal within the daily limit: %v", err)
	}

	if _, err := f.service.Withdraw(ctx, account.WithdrawInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(1),
		OccurredOn: cutoverPlus1,
	}); !errors.Is(err, apperr.ErrDailyLimitExceeded) {
		t.Fatalf("one unit over the daily limit: want ErrDailyLimitExceeded, got %v", err)
	}

	if _, err := f.service.Withdraw(ctx, account.WithdrawInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(1),
		ATM:        true,
		CardNumber: validCard,
		OccurredOn: cutoverPlus1,
	}); !errors.Is(err, apperr.ErrATMWithdrawalDisallowed) {
		t.Fatalf("atm withdrawal after cutover: want ErrATMWithdrawalDisallowed, got %v", err)
	}

	// next day the allowance resets
	if _, err := f.service.Withdraw(ctx, account.WithdrawInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(1000),
		OccurredOn: cutoverPlus1.AddDate(0, 0, 1),
	}); err != nil {
		t.Fatalf("withdrawal on the next day: %v", err)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantInternational, beforeCutover)
	f.deposit(t, acct.ID, 100, beforeCutover)

	if _, err := f.service.Withdraw(ctx, account.WithdrawInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(101),
		OccurredOn: beforeCutover,
	}); !errors.Is(err, apperr.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	// all-or-nothing: the failed withdrawal left no debit behind
	if got, want := f.balance(t, acct.ID), decimal.NewFromInt(100); !got.Equal(want) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

func TestWithdrawATMRequiresValidCard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantInternational, beforeCutover)
	f.deposit(t, acct.ID, 100, beforeCutover)

	if _, err := f.service.Withdraw(ctx, account.WithdrawInput{
		AccountID:  acct.ID,
		Amount:     decimal.NewFromInt(10),
		ATM:        true,
		CardNumber: "4111111111111112",
		OccurredOn: beforeCutover,
	}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestWithdrawUnknownAccount(t *testing.T) {
	f := newFixture()
	if _, err := f.service.Withdraw(context.Background(), account.WithdrawInput{
		AccountID:  uuid.New(),
		Amount:     decimal.NewFromInt(1),
		OccurredOn: beforeCutover,
	}); !errors.Is(err, apperr.ErrUnknownAccount) {
		t.Fatalf("want ErrUnknownAccount, got %v", err)
	}
}

func TestCompanyAccountIsNeverCloseable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantCompany, beforeCutover)

	// empty or funded, close is refused
	if _, err := f.service.Close(ctx, account.CloseInput{AccountID: acct.ID, OccurredOn: beforeCutover}); !errors.Is(err, apperr.ErrAccountNotCloseable) {
		t.Fatalf("close of empty company account: want ErrAccountNotCloseable, got %v", err)
	}

	f.deposit(t, acct.ID, 5000, beforeCutover)
	if _, err := f.service.Close(ctx, account.CloseInput{AccountID: acct.ID, OccurredOn: beforeCutover}); !errors.Is(err, apperr.ErrAccountNotCloseable) {
		t.Fatalf("close of funded company account: want ErrAccountNotCloseable, got %v", err)
	}
}

func TestCloseEmptyAccountRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantCovid, cutoverPlus1)

	m, err := f.service.Close(ctx, account.CloseInput{AccountID: acct.ID, OccurredOn: cutoverPlus1})
	if err != nil {
		t.Fatalf("close of empty restricted account after cutover: %v", err)
	}
	if m != nil {
		t.Fatalf("zero-balance close recorded a transaction: %+v", m)
	}

	accounts, err := f.ledger.Accounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 0 {
		t.Fatalf("accounts after close = %+v, want none", accounts)
	}

	// the closed account's (empty) history still resolves
	seq, err := f.ledger.TransactionsOf(ctx, acct.ID)
	if err != nil {
		t.Fatalf("TransactionsOf after close: %v", err)
	}
	for range seq {
		t.Fatal("expected no transactions")
	}
}

func TestCloseWithdrawsFullBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantInternational, beforeCutover)
	f.deposit(t, acct.ID, 750, beforeCutover)

	m, err := f.service.Close(ctx, account.CloseInput{AccountID: acct.ID, OccurredOn: beforeCutover})
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m == nil || m.Kind != model.KindDebit || !m.Amount.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("closing withdrawal unexpected: %+v", m)
	}

	if !f.balance(t, acct.ID).IsZero() {
		t.Fatal("closed account should have derived balance 0")
	}

	// the history survives the account entry
	all, err := f.ledger.Transactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("transactions = %d, want 2", len(all))
	}
}

func TestCloseBlockedByDailyLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantCovid, beforeCutover)
	f.deposit(t, acct.ID, 1500, beforeCutover)

	// closing is withdrawal-shaped: 1500 exceeds the 1000 daily allowance
	_, err := f.service.Close(ctx, account.CloseInput{AccountID: acct.ID, OccurredOn: cutoverPlus1})
	if !errors.Is(err, apperr.ErrDailyLimitExceeded) {
		t.Fatalf("want ErrDailyLimitExceeded, got %v", err)
	}

	// the account stays active with its balance untouched
	if _, err := f.ledger.Account(ctx, acct.ID); err != nil {
		t.Fatalf("account should still be active: %v", err)
	}
	if got, want := f.balance(t, acct.ID), decimal.NewFromInt(1500); !got.Equal(want) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

func TestCloseBeforeCutoverIgnoresLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantCovid, beforeCutover)
	f.deposit(t, acct.ID, 1500, beforeCutover)

	if _, err := f.service.Close(ctx, account.CloseInput{AccountID: acct.ID, OccurredOn: beforeCutover}); err != nil {
		t.Fatalf("close before cutover: %v", err)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	acct := f.open(t, model.VariantCovid, beforeCutover)

	for _, amount := range []int64{0, -5} {
		if _, err := f.service.Deposit(ctx, account.DepositInput{
			AccountID:  acct.ID,
			Amount:     decimal.NewFromInt(amount),
			OccurredOn: beforeCutover,
		}); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("deposit of %d: want ErrInvalidInput, got %v", amount, err)
		}
	}
}
