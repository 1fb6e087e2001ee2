package auth

import (
	"context"
	"fmt"
	"time"

	"country-converter/internal/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// TokenKey is the storage key holding the single active access token.
const TokenKey = "ac_access_token"

// now is a small indirection to allow test stubbing.
var now = time.Now

// DecodeUser returns the claims of token without verifying its signature.
// Decoding failures are returned to the caller.
func DecodeUser(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}
	return claims, nil
}

// IsExpired reports whether the exp claim of token lies in the past.
// A token that cannot be decoded, or has no exp, is reported as not expired.
func IsExpired(token string) bool {
	claims, err := DecodeUser(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now())
}

// TokenStore keeps the access token in the client's durable storage.
type TokenStore struct {
	storage cache.Storage
	logger  logrus.FieldLogger
}

// NewTokenStore creates a TokenStore on top of storage.
func NewTokenStore(storage cache.Storage, logger logrus.FieldLogger) *TokenStore {
	return &TokenStore{storage: storage, logger: logger}
}

// Store replaces the active token.
func (s *TokenStore) Store(ctx context.Context, token string) error {
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

// Remove deletes the active token, if any.
func (s *TokenStore) Remove(ctx context.Context) error {
	if err := s.storage.Remove(ctx, TokenKey); err != nil {
		return fmt.Errorf("remove access token: %w", err)
	}
	return nil
}

// Read returns the stored token as is.
func (s *TokenStore) Read(ctx context.Context) (mo.Option[string], error) {
	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return mo.None[string](), fmt.Errorf("read access token: %w", err)
	}
	if !ok || token == "" {
		return mo.None[string](), nil
	}
	return mo.Some(token), nil
}

// PurgeIfExpired removes the stored token when IsExpired says so.
func (s *TokenStore) PurgeIfExpired(ctx context.Context) error {
	stored, err := s.Read(ctx)
	if err != nil {
		return err
	}
	token, ok := stored.Get()
	if !ok || !IsExpired(token) {
		return nil
	}
	s.logger.Info("removing expired access token")
	return s.Remove(ctx)
}

// AccessToken purges an expired token and then returns what is left.
func (s *TokenStore) AccessToken(ctx context.Context) (mo.Option[string], error) {
	if err := s.PurgeIfExpired(ctx); err != nil {
		return mo.None[string](), err
	}
	return s.Read(ctx)
}
