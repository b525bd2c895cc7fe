package security

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify-backend/internal/domain"
)

func TestJWTDecoder_Verified(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	decoder := NewJWTDecoder("secret")
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token, err := issuer.Issue("Alice@X.edu", []string{"Students"}, time.Hour)
		require.NoError(t, err)

		id, err := decoder.Decode(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "alice@x.edu", id.Email)
		assert.True(t, id.HasRole(domain.RoleStudent))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := issuer.Issue("alice@x.edu", nil, -time.Minute)
		require.NoError(t, err)

		_, err = decoder.Decode(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other").Issue("alice@x.edu", nil, time.Hour)
		require.NoError(t, err)

		_, err = decoder.Decode(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := decoder.Decode(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTDecoder_Unverified(t *testing.T) {
	decoder := NewJWTDecoder("")
	ctx := context.Background()

	t.Run("reads cognito groups without checking the signature", func(t *testing.T) {
		claims := Claims{
			Email:         "head@x.edu",
			CognitoGroups: []string{"ChapterHeads"},
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-key"))
		require.NoError(t, err)

		id, err := decoder.Decode(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "head@x.edu", id.Email)
		assert.True(t, id.HasRole(domain.RoleChapterHead))
	})

	t.Run("still rejects expired tokens", func(t *testing.T) {
		token, err := NewTokenIssuer("k").Issue("alice@x.edu", nil, -time.Minute)
		require.NoError(t, err)

		_, err = decoder.Decode(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing email", func(t *testing.T) {
		token, err := NewTokenIssuer("k").Issue("", []string{"admin"}, time.Hour)
		require.NoError(t, err)

		_, err = decoder.Decode(ctx, token)
		assert.ErrorIs(t, err, ErrNoEmail)
	})
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = BearerToken("bearer   xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc"} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrMissingToken, h)
	}
}

func TestIdentityFromClaims(t *testing.T) {
	id, err := identityFromClaims(map[string]interface{}{
		"email":  "Head@X.edu",
		"groups": []interface{}{"chapter_head", 42},
	})
	require.NoError(t, err)
	assert.Equal(t, "head@x.edu", id.Email)
	assert.Equal(t, []string{"chapter_head"}, id.Groups)
	assert.True(t, id.HasRole(domain.RoleChapterHead))

	_, err = identityFromClaims(map[string]interface{}{"groups": "admin"})
	assert.ErrorIs(t, err, ErrNoEmail)
}
