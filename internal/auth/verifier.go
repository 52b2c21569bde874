// Package auth verifies bearer identity tokens from the third-party
// identity provider.
package auth

import (
	"context"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"

	"tubecert-service/internal/domain"
)

// Identity is the verified caller.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Verifier checks a bearer token and resolves the caller's identity.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// GoogleVerifier validates Google-signed ID tokens against the
// configured OAuth client IDs.
type GoogleVerifier struct {
	audiences []string
}

func NewGoogleVerifier(clientIDs ...string) *GoogleVerifier {
	return &GoogleVerifier{audiences: clientIDs}
}

func (v *GoogleVerifier) Verify(_ context.Context, idToken string) (Identity, error) {
	verifier := googleAuthIDTokenVerifier.Verifier{}
	if err := verifier.VerifyIDToken(idToken, v.audiences); err != nil {
		return Identity{}, domain.ErrUnauthorized
	}
	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return Identity{}, domain.ErrUnauthorized
	}
	return Identity{UserID: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}

// StaticVerifier maps fixed tokens to identities (tests and local runs
// without an identity provider).
type StaticVerifier map[string]Identity

func (v StaticVerifier) Verify(_ context.Context, idToken string) (Identity, error) {
	identity, ok := v[idToken]
	if !ok {
		return Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}
