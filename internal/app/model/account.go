package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bankledger/internal/app/apperr"
)

// Variant is the regulatory kind of a bank account. It determines which
// withdrawal, deposit and close rules apply.
type Variant string

const (
	VariantInternational Variant = "international"
	VariantCovid         Variant = "covid"
	VariantCompany       Variant = "company"
)

// ParseVariant maps external input onto a known Variant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantInternational, VariantCovid, VariantCompany:
		return v, nil
	}

	return "", fmt.Errorf("%w: unknown account variant %q", apperr.ErrInvalidInput, s)
}

type Account struct {
	ID       uuid.UUID
	Variant  Variant
	OpenedOn time.Time
}

// NewAccount issues a fresh account id. Balance is never part of the
// account; it is always derived from the transaction history.
func NewAccount(v Variant, openedOn time.Time) *Account {
	return &Account{
		ID:       uuid.New(),
		Variant:  v,
		OpenedOn: DateOf(openedOn),
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (a Account) MarshalJSON() ([]byte, error) {
	o := struct {
		ID       string `json:"account_id"`
		Variant  string `json:"type"`
		OpenedOn string `json:"opened_on"`
	}{
		ID:       a.ID.String(),
		Variant:  string(a.Variant),
		OpenedOn: a.OpenedOn.Format(DateFormat),
	}

	return json.Marshal(o)
}
