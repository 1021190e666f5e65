package service

import (
	"errors"
	"fmt"
	"time"

	"mindcheck/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// IdentityService issues anonymous client tokens. A token only namespaces
// one browser's persisted state; there are no credentials.
type IdentityService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewIdentityService creates an identity service; ttl 0 issues tokens that
// never expire
func NewIdentityService(secret string, ttl time.Duration) *IdentityService {
	return &IdentityService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue creates a new client id and its signed token
func (s *IdentityService) Issue() (*model.ClientResponse, error) {
	clientID := uuid.New().String()
	now := s.now()

	claims := &model.ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  clientID,
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign client token: %w", err)
	}

	return &model.ClientResponse{
		Token:    tokenString,
		ClientID: clientID,
	}, nil
}

// Validate checks a client token and returns its claims
func (s *IdentityService) Validate(tokenString string) (*model.ClientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ClientClaims)
	if !ok || !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
