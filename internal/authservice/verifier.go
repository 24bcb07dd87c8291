package authservice

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid authentication token")

// NewTokenVerifier returns a verifier for bearer tokens signed by the identity
// provider with the shared HMAC secret. An empty issuer disables the issuer
// check.
func NewTokenVerifier(secret []byte, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: secret, issuer: issuer}
}

// Verify validates the credential and extracts the identity carried by it.
// Malformed, expired, or signature-invalid tokens all yield ErrInvalidToken;
// unverified claims are never returned.
func (v *TokenVerifier) Verify(credential string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	identity := &Identity{
		Subject:  subject,
		Session:  stringClaim(claims, "sid"),
		Email:    stringClaim(claims, "email"),
		Username: stringClaim(claims, "username"),
		Claims:   claims,
	}

	return identity, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}
