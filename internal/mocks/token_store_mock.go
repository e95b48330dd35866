package mocks

import (
	"context"
	"time"

	"go-healthcare-records/pkg/jwt"

	"github.com/stretchr/testify/mock"
)

type TokenStore struct{ mock.Mock }

func (m *TokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenType, userID, tokenID, ttl).Error(0)
}

func (m *TokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenType, userID, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *TokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, userID int64, tokenID string) error {
	return m.Called(ctx, tokenType, userID, tokenID).Error(0)
}

func (m *TokenStore) RevokeAll(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}
