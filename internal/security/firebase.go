package security

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
)

type firebaseDecoder struct {
	client *auth.Client
}

// NewFirebaseDecoder verifies Firebase ID tokens. Groups come from the
// "groups" custom claim.
func NewFirebaseDecoder(client *auth.Client) TokenDecoder {
	return &firebaseDecoder{client: client}
}

func (d *firebaseDecoder) Decode(ctx context.Context, tokenString string) (*domain.Identity, error) {
	token, err := d.client.VerifyIDToken(ctx, tokenString)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		logger.Debug("Firebase token rejected", "error", err)
		return nil, ErrInvalidToken
	}
	return identityFromClaims(token.Claims)
}

func identityFromClaims(claims map[string]interface{}) (*domain.Identity, error) {
	c := &Claims{}
	if email, ok := claims["email"].(string); ok {
		c.Email = email
	}
	c.Groups = stringSlice(claims["groups"])
	c.CognitoGroups = stringSlice(claims["cognito:groups"])
	return c.Identity()
}

func stringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, x := range vals {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{vals}
	}
	return nil
}
