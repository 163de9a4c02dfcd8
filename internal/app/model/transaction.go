package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateFormat is the civil date layout used on the wire and in logs.
const DateFormat = "2006-01-02"

// Kind of a transaction: a credit raises the derived balance, a debit
// lowers it.
type Kind string

const (
	KindCredit Kind = "credit"
	KindDebit  Kind = "debit"
)

// Transaction is an immutable record of a single monetary movement.
// Once recorded it is never updated or deleted, even after its owning
// account is closed.
type Transaction struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Kind       Kind
	Amount     decimal.Decimal
	OccurredOn time.Time
}

func NewTransaction(accountID uuid.UUID, kind Kind, amount decimal.Decimal, occurredOn time.Time) *Transaction {
	return &Transaction{
		ID:         uuid.New(),
		AccountID:  accountID,
		Kind:       kind,
		Amount:     amount,
		OccurredOn: DateOf(occurredOn),
	}
}

// Signed returns the amount as it contributes to the account balance:
// positive for a credit, negative for a debit.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindDebit {
		return t.Amount.Neg()
	}

	return t.Amount
}

// MarshalJSON implements the json.Marshaler interface.
func (t Transaction) MarshalJSON() ([]byte, error) {
	o := struct {
		ID         string          `json:"transaction_id"`
		AccountID  string          `json:"account_id"`
		Kind       string          `json:"kind"`
		Amount     decimal.Decimal `json:"amount"`
		OccurredOn string          `json:"occurred_on"`
	}{
		ID:         t.ID.String(),
		AccountID:  t.AccountID.String(),
		Kind:       string(t.Kind),
		Amount:     t.Amount,
		OccurredOn: t.OccurredOn.Format(DateFormat),
	}

	return json.Marshal(o)
}

// DateOf truncates a timestamp to its civil date in UTC. All policy rules
// compare dates, never instants.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
