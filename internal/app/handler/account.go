package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/ledger"
	"bankledger/internal/app/logger"
	"bankledger/internal/app/model"
	"bankledger/internal/app/service/account"
)

type AccountHandler struct {
	ledger  *ledger.Ledger
	service *account.Service
}

func NewAccountHandler(l *ledger.Ledger, s *account.Service) *AccountHandler {
	return &AccountHandler{
		ledger:  l,
		service: s,
	}
}

// accountDetails is the display shape for an account: the stored entry
// plus its derived balance.
type accountDetails struct {
	ID       string          `json:"account_id"`
	Variant  string          `json:"type"`
	OpenedOn string          `json:"opened_on"`
	Balance  decimal.Decimal `json:"balance"`
}

func (h *AccountHandler) details(r *http.Request, m model.Account) (accountDetails, error) {
	balance, err := h.ledger.BalanceOf(r.Context(), m.ID)
	if err != nil {
		return accountDetails{}, err
	}

	return accountDetails{
		ID:       m.ID.String(),
		Variant:  string(m.Variant),
		OpenedOn: m.OpenedOn.Format(model.DateFormat),
		Balance:  balance,
	}, nil
}

func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Account.Open")

	in := struct {
		Variant string `json:"type" validate:"required"`
		Date    string `json:"date"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	variant, err := model.ParseVariant(in.Variant)
	if err != nil {
		l.Debug().Err(err).Msg("Bad variant")
		WriteError(w, err, statusFor(err))
		return
	}

	openedOn, err := parseDate(in.Date)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	m, err := h.service.Open(r.Context(), account.OpenInput{
		Variant:  variant,
		OpenedOn: openedOn,
	})
	if err != nil {
		l.Debug().Err(err).Send()
		WriteError(w, err, statusFor(err))
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Account.List")

	mm, err := h.ledger.Accounts(r.Context())
	if err != nil {
		l.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	out := make([]accountDetails, 0, len(mm))
	for _, m := range mm {
		d, err := h.details(r, m)
		if err != nil {
			l.Error().Err(err).Send()
			WriteError(w, err, http.StatusInternalServerError)
			return
		}
		out = append(out, d)
	}

	WriteResponse(w, out, http.StatusOK)
}

func (h *AccountHandler) Read(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Account.Read")

	id, err := accountID(r)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	m, err := h.ledger.Account(r.Context(), id)
	if err != nil {
		l.Debug().Err(err).Send()
		WriteError(w, err, statusFor(err))
		return
	}

	d, err := h.details(r, *m)
	if err != nil {
		l.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	WriteResponse(w, d, http.StatusOK)
}

func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	l := logger.Get(r.Context(), "Handler.Account.Close")

	id, err := accountID(r)
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	occurredOn, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		WriteError(w, err, statusFor(err))
		return
	}

	m, err := h.service.Close(r.Context(), account.CloseInput{
		AccountID:  id,
		OccurredOn: occurredOn,
	})
	if err != nil {
		l.Debug().Err(err).Str("account_id", id.String()).Send()
		WriteError(w, err, statusFor(err))
		return
	}

	out := struct {
		AccountID  string             `json:"account_id"`
		Withdrawal *model.Transaction `json:"closing_withdrawal,omitempty"`
	}{
		AccountID:  id.String(),
		Withdrawal: m,
	}

	WriteResponse(w, out, http.StatusOK)
}

// accountID reads the account id from the route.
func accountID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		return uuid.Nil, apperr.ErrInvalidInput
	}

	return id, nil
}
