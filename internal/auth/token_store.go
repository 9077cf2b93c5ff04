package auth

import (
	"context"
	"time"

	"bugtrail/internal/cache"
)

const revokedTokenKeyPrefix = "revoked_token:"

// TokenStoreInterface defines the interface for token revocation storage.
type TokenStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore tracks revoked token IDs in Redis until their natural expiry.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeToken marks a token ID as revoked for the token's remaining lifetime.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	key := revokedTokenKeyPrefix + tokenID
	// Store a simple marker
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

// IsTokenRevoked checks whether a token ID has been revoked.
func (s *TokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := revokedTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, nil // fail safe: redis outage does not lock everyone out
	}
	return data != nil, nil
}
