package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"bankledger/internal/app/apperr"
	"bankledger/internal/app/model"
)

// readBody into json struct
func readBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		return fmt.Errorf("body read: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

type jsonError struct {
	Message string `json:"error"`
}

// WriteError formatted in json
func WriteError(w http.ResponseWriter, err error, statusCode int) {
	WriteResponse(w, &jsonError{Message: err.Error()}, statusCode)
}

// WriteResponse formatted in json
func WriteResponse(w http.ResponseWriter, v interface{}, statusCode int) {
	resBody, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(resBody)
}

// statusFor maps the domain error kinds onto transport status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnknownAccount):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrDuplicateAccount),
		errors.Is(err, apperr.ErrAccountNotCloseable):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, apperr.ErrDailyLimitExceeded),
		errors.Is(err, apperr.ErrATMWithdrawalDisallowed),
		errors.Is(err, apperr.ErrMinimumLoanDepositNotMet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}

type ValidationErrorResponse struct {
	Errors ValidationErrors `json:"errors"`
}

type ValidationErrors []ValidationError

type ValidationError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
	Value string `json:"value"`
}

// validateData and send errors, returns true if no validation errors
func validateData(w http.ResponseWriter, v interface{}) bool {
	validate := validator.New()
	err := validate.Struct(v)
	if err != nil {
		errs := make(ValidationErrors, 0)
		for _, err := range err.(validator.ValidationErrors) {
			errs = append(errs, ValidationError{
				Msg:   err.Error(),
				Param: err.Field(),
				Value: fmt.Sprintf("%v", err.Value()),
			})
		}
		WriteResponse(w, ValidationErrorResponse{errs}, http.StatusBadRequest)
		return false
	}

	return true
}

// parseDate reads an optional effective date in model.DateFormat; an
// empty value means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}

	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", apperr.ErrInvalidInput, s)
	}

	return d, nil
}

type ContextKeyOperator struct{}

// ReadContextOperator returns the operator the auth middleware attached
// to the request context.
func ReadContextOperator(ctx context.Context) (string, error) {
	if operator, ok := ctx.Value(ContextKeyOperator{}).(string); ok {
		return operator, nil
	}

	return "", apperr.ErrUnauthorized
}
