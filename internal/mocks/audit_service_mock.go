package mocks

import (
	"context"

	"go-healthcare-records/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

type AuditService struct{ mock.Mock }

func (m *AuditService) LogChanges(ctx context.Context, actorID *int64, changes []entity.Change) {
	m.Called(ctx, actorID, changes)
}

func (m *AuditService) LogAuth(ctx context.Context, userID int64, action string) {
	m.Called(ctx, userID, action)
}
