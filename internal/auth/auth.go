// Package auth implements stateless bearer-token identity: HS256 tokens
// signed with a shared secret, verified without any user-store lookup. A
// verified token proves only that the caller holds a valid credential; it is
// not a per-resource authorization check.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = time.Hour

var (
	// ErrNoToken means the request carried no bearer credential at all.
	ErrNoToken = errors.New("no token provided")
	// ErrInvalidToken means a credential was present but failed
	// verification: bad signature, malformed structure, or expired.
	ErrInvalidToken = errors.New("invalid token")
)

type claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// Verifier issues and verifies identity tokens against a shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Issue signs a token embedding the subject id, expiring after TokenTTL.
func (v *Verifier) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded subject id.
func (v *Verifier) Verify(tokenString string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if c.ID == "" {
		return "", ErrInvalidToken
	}
	return c.ID, nil
}

// ExtractBearer pulls the token out of an Authorization header value.
// Returns ErrNoToken when the header is empty or carries no token part,
// ErrInvalidToken when a credential is present but malformed.
func ExtractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrNoToken
	}
	// "Bearer <token>" per convention; a bare token is tolerated.
	parts := strings.Fields(header)
	if len(parts) > 2 {
		// A credential was presented, just not a usable one.
		return "", ErrInvalidToken
	}
	token := parts[len(parts)-1]
	if strings.EqualFold(token, "bearer") {
		return "", ErrNoToken
	}
	return token, nil
}

type subjectKey struct{}

// ContextWithSubject threads the verified caller identity through a request
// context. The identity lives only for the lifetime of the request.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the verified caller identity, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}
