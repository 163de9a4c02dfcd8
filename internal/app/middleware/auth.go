package middleware

import (
	"context"
	"net/http"
	"strings"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/handler"
	"bankledger/internal/app/logger"
	"bankledger/internal/app/session"
)

// Auth guards routes behind a bearer session token.
func Auth(sessions session.Reader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.Get(r.Context(), "Middleware.Auth")

			reqHeader := r.Header.Get("Authorization")
			splitToken := strings.Split(reqHeader, "Bearer ")
			if len(splitToken) != 2 {
				log.Debug().Str("header", reqHeader).Msg("Invalid Authorization header")
				handler.WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			operator, err := sessions.Read(r.Context(), splitToken[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				handler.WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			log.Debug().Str("operator", operator).Msg("Operator authorized")
			r = r.WithContext(context.WithValue(r.Context(), handler.ContextKeyOperator{}, operator))
			next.ServeHTTP(w, r)
		})
	}
}
