package handler

import (
	"crypto/subtle"
	"net/http"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/config"
	"bankledger/internal/app/logger"
	"bankledger/internal/app/session"
)

type SessionHandler struct {
	sessions session.Creator
	operator config.OperatorConfig
}

func NewSessionHandler(sessions session.Creator, operator config.OperatorConfig) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		operator: operator,
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.Get(r.Context(), "Handler.Session.Create")

	in := struct {
		Login    string `json:"login" validate:"required,min=1,max=32"`
		Password string `json:"password" validate:"required,min=1,max=72"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	loginOK := subtle.ConstantTimeCompare([]byte(in.Login), []byte(h.operator.Login)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(in.Password), []byte(h.operator.Password)) == 1
	if !loginOK || !passwordOK {
		log.Debug().Str("login", in.Login).Msg("Bad credentials")
		WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.Create(r.Context(), in.Login)
	if err != nil {
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	out := struct {
		Token string `json:"token"`
	}{token}

	w.Header().Add("Authorization", "Bearer "+token)

	WriteResponse(w, out, http.StatusOK)
}
