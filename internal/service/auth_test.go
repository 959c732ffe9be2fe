package service

import (
	"context"
	"testing"
	"time"

	"github.com/campuslink/channel-delivery-service/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "campus-portal-test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuth() *AuthService {
	return NewAuthService(&config.Config{JWT: config.JWTConfig{Secret: testSecret}})
}

func TestAuthService_Verify(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("should yield the identity from a valid token", func(t *testing.T) {
		req := require.New(t)
		token := signToken(t, testSecret, Claims{
			Name: "Dana Scully",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		identity, err := newAuth().Verify(ctx, token)

		req.NoError(err)
		req.Equal(userID, identity.UserID)
		req.Equal("Dana Scully", identity.Name)
	})

	t.Run("should refuse an empty credential", func(t *testing.T) {
		req := require.New(t)

		_, err := newAuth().Verify(ctx, "")

		req.ErrorIs(err, ErrMissingCredential)
	})

	t.Run("should refuse a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		token := signToken(t, "wrong-secret", Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := newAuth().Verify(ctx, token)

		req.ErrorIs(err, ErrInvalidCredential)
	})

	t.Run("should refuse an expired token", func(t *testing.T) {
		req := require.New(t)
		token := signToken(t, testSecret, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})

		_, err := newAuth().Verify(ctx, token)

		req.ErrorIs(err, ErrInvalidCredential)
	})

	t.Run("should refuse a subject that is not a user id", func(t *testing.T) {
		req := require.New(t)
		token := signToken(t, testSecret, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "not-a-uuid",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := newAuth().Verify(ctx, token)

		req.ErrorIs(err, ErrInvalidCredential)
	})
}
