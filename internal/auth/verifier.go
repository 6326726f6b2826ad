// Package auth validates bearer tokens issued by the external identity
// collaborator. This service never mints or refreshes tokens itself.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/mtzalva/backend-taller/internal/common"
)

// Verifier checks HS256 access tokens against the shared secret.
type Verifier struct {
	Secret    []byte
	Issuer    string
	ClockSkew time.Duration
}

// ParseAccessToken verifies the token signature and claims and returns the
// subject (user identifier).
func (v Verifier) ParseAccessToken(token string) (string, error) {
	if len(v.Secret) == 0 {
		return "", errors.New("auth: verifier secret not configured")
	}
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, v.Secret),
		jwt.WithValidate(true),
	}
	if v.ClockSkew > 0 {
		opts = append(opts, jwt.WithAcceptableSkew(v.ClockSkew))
	}
	if strings.TrimSpace(v.Issuer) != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	tok, err := jwt.Parse([]byte(token), opts...)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "missing or invalid token", http.StatusUnauthorized, err)
	}
	sub := strings.TrimSpace(tok.Subject())
	if sub == "" {
		return "", common.NewAppError("UNAUTHORIZED", "token missing subject", http.StatusUnauthorized, nil)
	}
	return sub, nil
}
