// Package policy implements the per-variant account rules: when money may
// be withdrawn or deposited and whether an account may be closed at all.
// Policies are pure; they never touch the ledger themselves.
package policy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/model"
)

// RestrictionStart is the cutover date on and after which restricted
// (non-international) accounts lose ATM access and gain a daily debit cap.
var RestrictionStart = time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC)

// MaxDailyWithdrawal is the per-day debit cap on restricted accounts
// after the cutover.
var MaxDailyWithdrawal = decimal.NewFromInt(1000)

// MinCompanyFirstDeposit is the non-returnable government loan a company
// account must receive as its very first transaction.
var MinCompanyFirstDeposit = decimal.NewFromInt(5000)

// WithdrawRequest carries the state a policy needs to rule on a single
// withdrawal. WithdrawnToday is the sum of the account's debits dated the
// same day as OccurredOn.
type WithdrawRequest struct {
	Amount         decimal.Decimal
	Balance        decimal.Decimal
	WithdrawnToday decimal.Decimal
	OccurredOn     time.Time
	ATM            bool
}

// Policy is the capability set every account variant implements.
type Policy interface {
	// ValidateWithdraw rules on a withdrawal without applying it.
	ValidateWithdraw(r WithdrawRequest) error
	// ValidateDeposit rules on a deposit. hasHistory reports whether the
	// account has any recorded transaction.
	ValidateDeposit(amount decimal.Decimal, hasHistory bool) error
	// Closeable reports whether the variant allows closing at all.
	Closeable() bool
}

// ForVariant returns the rule set for an account variant.
func ForVariant(v model.Variant) (Policy, error) {
	switch v {
	case model.VariantInternational:
		return international{}, nil
	case model.VariantCovid:
		return covid{}, nil
	case model.VariantCompany:
		return company{}, nil
	}

	return nil, fmt.Errorf("%w: no policy for variant %q", apperr.ErrInvalidInput, v)
}

// checkFunds is the rule common to every variant: the balance may never
// go negative. It is checked before any variant-specific restriction.
func checkFunds(r WithdrawRequest) error {
	if r.Amount.GreaterThan(r.Balance) {
		return apperr.ErrInsufficientFunds
	}

	return nil
}

// international accounts are foreign accounts; the cutover restrictions
// never apply to them.
type international struct{}

func (international) ValidateWithdraw(r WithdrawRequest) error {
	return checkFunds(r)
}

func (international) ValidateDeposit(decimal.Decimal, bool) error {
	return nil
}

func (international) Closeable() bool {
	return true
}

// covid accounts are domestic accounts restricted after the cutover date.
type covid struct{}

func (covid) ValidateWithdraw(r WithdrawRequest) error {
	if err := checkFunds(r); err != nil {
		return err
	}

	return checkRestrictions(r)
}

func (covid) ValidateDeposit(decimal.Decimal, bool) error {
	return nil
}

func (covid) Closeable() bool {
	return true
}

// checkRestrictions applies the cutover rules shared by covid and company
// accounts: no ATM channel, at most MaxDailyWithdrawal debited per day.
func checkRestrictions(r WithdrawRequest) error {
	if model.DateOf(r.OccurredOn).Before(RestrictionStart) {
		return nil
	}

	if r.ATM {
		return apperr.ErrATMWithdrawalDisallowed
	}

	if r.WithdrawnToday.Add(r.Amount).GreaterThan(MaxDailyWithdrawal) {
		return apperr.ErrDailyLimitExceeded
	}

	return nil
}

// company accounts carry the covid withdrawal restrictions, require a
// minimum first deposit and can never be closed.
type company struct {
	covid
}

func (company) ValidateDeposit(amount decimal.Decimal, hasHistory bool) error {
	if !hasHistory && amount.LessThan(MinCompanyFirstDeposit) {
		return apperr.ErrMinimumLoanDepositNotMet
	}

	return nil
}

func (company) Closeable() bool {
	return false
}
