// Package auth issues and verifies bearer tokens.
package auth

import (
	"context"
	"errors"

	"github.com/judyrop/storefront/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what the middleware attaches to an authenticated request.
type Identity struct {
	UserID uint
	Email  string
	Role   models.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
}

// Chain tries each authenticator in order and returns the first identity.
type Chain []Authenticator

func (c Chain) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	err := ErrInvalidToken
	for _, a := range c {
		identity, aErr := a.Authenticate(ctx, rawToken)
		if aErr == nil {
			return identity, nil
		}
		err = aErr
	}
	return nil, err
}
