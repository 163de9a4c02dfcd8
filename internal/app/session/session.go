// Package session issues and validates operator session tokens for the
// HTTP surface.
package session

import (
	"context"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	jwt.StandardClaims
	Operator string `json:"operator"`
}

type Creator interface {
	// Create a session for the named operator and return its token
	Create(ctx context.Context, operator string) (string, error)
}

type Reader interface {
	// Read a token and return the operator it belongs to
	Read(ctx context.Context, token string) (string, error)
}

type Manager interface {
	Creator
	Reader
}
