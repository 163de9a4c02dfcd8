package ledger_test

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
	"bankledger/internal/app/storage/memory"
)

var day = time.Date(2020, time.February, 10, 0, 0, 0, 0, time.UTC)

func newLedger() *ledger.Ledger {
	return ledger.New(memory.NewAccountRepository(), memory.NewTransactionRepository())
}

func TestBalanceIsSignedSumOfHistory(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	acct := model.NewAccount(model.VariantInternational, day)
	if err := l.RecordAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}

	amounts := []struct {
		kind   model.Kind
		amount int64
	}{
		{model.KindCredit, 400},
		{model.KindDebit, 200},
		{model.KindCredit, 300},
		{model.KindDebit, 150},
	}
	for _, a := range amounts {
		m := model.NewTransaction(acct.ID, a.kind, decimal.NewFromInt(a.amount), day)
		if err := l.RecordTransaction(ctx, m); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	balance, err := l.BalanceOf(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := decimal.NewFromInt(350); !balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", balance, want)
	}

	// recomputation with no intervening writes yields the same value
	again, err := l.BalanceOf(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(balance) {
		t.Fatalf("recomputed balance = %s, want %s", again, balance)
	}
}

func TestBalanceOfAccountWithoutTransactions(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	acct := model.NewAccount(model.VariantCovid, day)
	if err := l.RecordAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}

	balance, err := l.BalanceOf(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !balance.IsZero() {
		t.Fatalf("balance = %s, want 0", balance)
	}
}

func TestRecordTransactionRequiresIssuedAccount(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	m := model.NewTransaction(uuid.New(), model.KindCredit, decimal.NewFromInt(10), day)
	if err := l.RecordTransaction(ctx, m); !errors.Is(err, apperr.ErrUnknownAccount) {
		t.Fatalf("want ErrUnknownAccount, got %v", err)
	}
}

func TestRecordTransactionForClosedAccount(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	acct := model.NewAccount(model.VariantCovid, day)
	if err := l.RecordAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}
	if err := l.RemoveAccount(ctx, acct.ID); err != nil {
		t.Fatal(err)
	}

	// a closed account id was issued once, so its history stays writable
	// for the closing withdrawal and queryable afterwards
	m := model.NewTransaction(acct.ID, model.KindDebit, decimal.NewFromInt(5), day)
	if err := l.RecordTransaction(ctx, m); err != nil {
		t.Fatalf("RecordTransaction after close: %v", err)
	}
}

func TestRecordTransactionRejectsBadRecords(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	acct := model.NewAccount(model.VariantCovid, day)
	if err := l.RecordAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}

	zero := model.NewTransaction(acct.ID, model.KindCredit, decimal.Zero, day)
	if err := l.RecordTransaction(ctx, zero); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("zero amount: want ErrInvalidInput, got %v", err)
	}

	bad := model.NewTransaction(acct.ID, model.Kind("refund"), decimal.NewFromInt(1), day)
	if err := l.RecordTransaction(ctx, bad); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("bad kind: want ErrInvalidInput, got %v", err)
	}
}

func TestDuplicateAccount(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	acct := model.NewAccount(model.VariantCompany, day)
	if err := l.RecordAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}
	if err := l.RecordAccount(ctx, acct); !errors.Is(err, apperr.ErrDuplicateAccount) {
		t.Fatalf("want ErrDuplicateAccount, got %v", err)
	}
}

func TestTransactionsOfIsRestartable(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	acct := model.NewAccount(model.VariantInternational, day)
	if err := l.RecordAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}
	for i := int64(1); i <= 3; i++ {
		m := model.NewTransaction(acct.ID, model.KindCredit, decimal.NewFromInt(i), day)
		if err := l.RecordTransaction(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	seq, err := l.TransactionsOf(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}

	// two full passes over the same sequence
	for pass := 0; pass < 2; pass++ {
		var got []int64
		for m := range seq {
			got = append(got, m.Amount.IntPart())
		}
		if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
			t.Fatalf("pass %d: amounts = %v, want [1 2 3]", pass, got)
		}
	}
}

func TestTransactionsOfEmptyAndClosed(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	acct := model.NewAccount(model.VariantCovid, day)
	if err := l.RecordAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}
	if err := l.RemoveAccount(ctx, acct.ID); err != nil {
		t.Fatal(err)
	}

	seq, err := l.TransactionsOf(ctx, acct.ID)
	if err != nil {
		t.Fatalf("TransactionsOf on closed account: %v", err)
	}
	count := 0
	for range seq {
		count++
	}
	if count != 0 {
		t.Fatalf("transactions = %d, want 0", count)
	}

	accounts, err := l.Accounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 0 {
		t.Fatalf("Accounts() after close = %+v, want empty", accounts)
	}
}

func TestListingOrders(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	a1 := model.NewAccount(model.VariantInternational, day)
	a2 := model.NewAccount(model.VariantCovid, day)
	for _, a := range []*model.Account{a1, a2} {
		if err := l.RecordAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	t1 := model.NewTransaction(a2.ID, model.KindCredit, decimal.NewFromInt(7), day)
	t2 := model.NewTransaction(a1.ID, model.KindCredit, decimal.NewFromInt(8), day)
	for _, m := range []*model.Transaction{t1, t2} {
		if err := l.RecordTransaction(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	accounts, err := l.Accounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if accounts[0].ID != a1.ID || accounts[1].ID != a2.ID {
		t.Fatalf("accounts not in creation order: %+v", accounts)
	}

	transactions, err := l.Transactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if transactions[0].ID != t1.ID || transactions[1].ID != t2.ID {
		t.Fatalf("transactions not in recording order: %+v", transactions)
	}
}
