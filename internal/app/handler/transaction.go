package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"bankledger/internal/app/ledger"
	"bankledger/internal/app/logger"
	"bankledger/internal/app/model"
	"bankledger/internal/app/service/account"
)

type TransactionHandler struct {
	ledger  *ledger.Ledger
	service *account.Service
}

func NewTransactionHandler(l *ledger.Ledger, s *account.Service) *TransactionHandler {
	return &TransactionHandler{
		ledger:  l,
		service: s,
	}
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Transaction.Deposit")

	id, err := accountID(r)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	in := struct {
		Amount decimal.Decimal `json:"amount"`
		Date   string          `json:"date"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	occurredOn, err := parseDate(in.Date)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	m, err := h.service.Deposit(r.Context(), account.DepositInput{
		AccountID:  id,
		Amount:     in.Amount,
		OccurredOn: occurredOn,
	})
	if err != nil {
		l.Debug().Err(err).Str("account_id", id.String()).Send()
		WriteError(w, err, statusFor(err))
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Transaction.Withdraw")

	id, err := accountID(r)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	in := struct {
		Amount     decimal.Decimal `json:"amount"`
		ATM        bool            `json:"atm"`
		CardNumber string          `json:"card_number"`
		Date       string          `json:"date"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	occurredOn, err := parseDate(in.Date)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	m, err := h.service.Withdraw(r.Context(), account.WithdrawInput{
		AccountID:  id,
		Amount:     in.Amount,
		ATM:        in.ATM,
		CardNumber: in.CardNumber,
		OccurredOn: occurredOn,
	})
	if err != nil {
		l.Debug().Err(err).Str("account_id", id.String()).Send()
		WriteError(w, err, statusFor(err))
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

func (h *TransactionHandler) Balance(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Transaction.Balance")

	id, err := accountID(r)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	// answers for closed accounts too; only the account entry is gone
	balance, err := h.ledger.BalanceOf(r.Context(), id)
	if err != nil {
		l.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	out := struct {
		AccountID string          `json:"account_id"`
		Balance   decimal.Decimal `json:"balance"`
	}{
		AccountID: id.String(),
		Balance:   balance,
	}

	WriteResponse(w, out, http.StatusOK)
}

func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Transaction.ListByAccount")

	id, err := accountID(r)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	seq, err := h.ledger.TransactionsOf(r.Context(), id)
	if err != nil {
		l.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	out := make([]model.Transaction, 0)
	for m := range seq {
		out = append(out, m)
	}

	WriteResponse(w, out, http.StatusOK)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Transaction.List")

	mm, err := h.ledger.Transactions(r.Context())
	if err != nil {
		l.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}
