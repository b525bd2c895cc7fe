package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"unify-backend/internal/domain"
)

// All token errors wrap domain.ErrUnauthenticated.
var (
	ErrMissingToken = fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	ErrExpiredToken = fmt.Errorf("%w: token has expired", domain.ErrUnauthenticated)
	ErrNoEmail      = fmt.Errorf("%w: token carries no email claim", domain.ErrUnauthenticated)
)

// Claims is what we read out of an identity provider token. Cognito puts the
// groups under "cognito:groups"; other issuers use "groups".
type Claims struct {
	Email         string   `json:"email,omitempty"`
	Groups        []string `json:"groups,omitempty"`
	CognitoGroups []string `json:"cognito:groups,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() (*domain.Identity, error) {
	email := domain.NormalizeEmail(c.Email)
	if email == "" {
		return nil, ErrNoEmail
	}
	groups := append([]string{}, c.Groups...)
	groups = append(groups, c.CognitoGroups...)
	return &domain.Identity{Email: email, Groups: groups}, nil
}

// TokenDecoder turns a raw bearer token into the caller's identity.
type TokenDecoder interface {
	Decode(ctx context.Context, token string) (*domain.Identity, error)
}

type jwtDecoder struct {
	secret []byte
}

// NewJWTDecoder verifies HS256 signatures with secret. An empty secret means
// the token was verified upstream and only its claims are read.
func NewJWTDecoder(secret string) TokenDecoder {
	return &jwtDecoder{secret: []byte(secret)}
}

func (d *jwtDecoder) Decode(_ context.Context, tokenString string) (*domain.Identity, error) {
	claims := &Claims{}
	if len(d.secret) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, ErrInvalidToken
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, ErrExpiredToken
		}
		return claims.Identity()
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return d.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims.Identity()
}

// BearerToken pulls the token out of an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// TokenIssuer mints HS256 tokens in the shape the decoder expects. Used by
// cmd/devtoken and tests; production tokens come from the identity provider.
type TokenIssuer struct {
	secret []byte
	issuer string
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: "unify-dev"}
}

func (i *TokenIssuer) Issue(email string, groups []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:  email,
		Groups: groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
