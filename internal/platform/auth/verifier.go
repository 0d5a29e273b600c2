// Package auth authenticates requests with Firebase ID tokens.
package auth

import (
	"context"
	"errors"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// User is the authenticated caller.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
}

var (
	ErrNoToken          = errors.New("auth: missing authorization header")
	ErrInvalidToken     = errors.New("auth: invalid token")
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrTokenRevoked     = errors.New("auth: token revoked")
	ErrUserDisabled     = errors.New("auth: user disabled")
	ErrCertificateFetch = errors.New("auth: failed to fetch certificates")
)

// Verifier validates an ID token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// FirebaseVerifier verifies tokens with the Firebase Admin SDK, including a
// revocation check.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify maps Admin SDK failures onto the package sentinels.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*User, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	switch {
	case err == nil:
	case fbauth.IsCertificateFetchFailed(err):
		return nil, ErrCertificateFetch
	case fbauth.IsIDTokenExpired(err):
		return nil, ErrTokenExpired
	case fbauth.IsIDTokenRevoked(err):
		return nil, ErrTokenRevoked
	case fbauth.IsUserDisabled(err):
		return nil, ErrUserDisabled
	default:
		return nil, ErrInvalidToken
	}

	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)
	return &User{UID: token.UID, Email: email, EmailVerified: verified}, nil
}

// StaticVerifier accepts any token and returns User, or fails with Err. It is
// used by tests and local development.
type StaticVerifier struct {
	User *User
	Err  error
}

func (v StaticVerifier) Verify(context.Context, string) (*User, error) {
	if v.Err != nil {
		return nil, v.Err
	}
	return v.User, nil
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidToken
	}
	return token, nil
}

var (
	_ Verifier = (*FirebaseVerifier)(nil)
	_ Verifier = StaticVerifier{}
)
