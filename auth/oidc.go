package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/judyrop/storefront/models"
)

// UserLookup resolves a verified email to a storefront account.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// OIDCAuthenticator accepts ID tokens from an external identity provider
// for accounts that already exist locally.
type OIDCAuthenticator struct {
	verifier *oidc.IDTokenVerifier
	users    UserLookup
}

func NewOIDCAuthenticator(ctx context.Context, issuer, clientID string, users UserLookup) (*OIDCAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider %s: %w", issuer, err)
	}
	return NewOIDCAuthenticatorWithVerifier(provider.Verifier(&oidc.Config{ClientID: clientID}), users), nil
}

func NewOIDCAuthenticatorWithVerifier(verifier *oidc.IDTokenVerifier, users UserLookup) *OIDCAuthenticator {
	return &OIDCAuthenticator{verifier: verifier, users: users}
}

func (a *OIDCAuthenticator) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	idToken, err := a.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}
