// Package apperr holds the domain error kinds surfaced to callers.
// Handlers translate them to transport status codes with errors.Is.
package apperr

import "github.com/pkg/errors"

var (
	// ErrDuplicateAccount an account with this id was already opened
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrUnknownAccount the account is not active (never opened or closed)
	ErrUnknownAccount = errors.New("account not found")
	// ErrInsufficientFunds the requested amount exceeds the current balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDailyLimitExceeded the daily withdrawal cap on restricted accounts
	ErrDailyLimitExceeded = errors.New("daily withdrawal limit exceeded")
	// ErrATMWithdrawalDisallowed ATM channel blocked on restricted accounts
	ErrATMWithdrawalDisallowed = errors.New("atm withdrawals are not allowed")
	// ErrMinimumLoanDepositNotMet company accounts open with a government loan
	ErrMinimumLoanDepositNotMet = errors.New("minimum first deposit not met")
	// ErrAccountNotCloseable company accounts are permanent
	ErrAccountNotCloseable = errors.New("account cannot be closed")
	// ErrInvalidInput malformed request data
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized missing or invalid session
	ErrUnauthorized = errors.New("unauthorized")
)
