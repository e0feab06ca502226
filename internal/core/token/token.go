// Package token issues and verifies the signed identity tokens exchanged
// between the services. Tokens are HS256 JWTs carrying the subject email and
// a role claim, valid for a fixed ten hours from issuance. They are never
// stored server-side; validity is determined solely by signature and expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the fixed lifetime of every issued token.
const tokenTTL = 10 * time.Hour

// ErrInvalidToken is the single failure kind reported by Verify. Malformed
// structure, wrong signature, and expiry all collapse into it.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of a token.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Service signs and verifies tokens with a single symmetric key. The secret
// is injected at construction and must never be logged in cleartext.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue builds a token for the given subject and role. Subject and role
// formats are the caller's responsibility.
func (s *Service) Issue(subject, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify re-parses the token under the signing key and returns its claims.
// Any parse, signature, or expiry failure yields ErrInvalidToken.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	out := &Claims{Subject: sub, Role: role}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
