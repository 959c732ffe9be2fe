package service

import (
	"context"
	"fmt"

	"github.com/campuslink/channel-delivery-service/config"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Auther verifies a bearer credential and yields the connection's identity.
// It is the only contact point with the identity collaborator; everything
// downstream trusts the returned Identity for the connection's lifetime.
type Auther interface {
	Verify(ctx context.Context, token string) (model.Identity, error)
}

// Claims carries the verified user attributes inside the bearer token.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

var _ Auther = (*AuthService)(nil)

type AuthService struct {
	secret []byte
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{secret: []byte(cfg.JWT.Secret)}
}

func (s *AuthService) Verify(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, ErrMissingCredential
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return model.Identity{}, ErrInvalidCredential
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidCredential)
	}

	return model.Identity{UserID: userID, Name: claims.Name}, nil
}
