package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetAllAuditLogs_ClampsPaging(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	uc := NewAuditLogUsecase(nil, quietLogger(), repo)
	logs := []entity.AuditLog{
		{ID: 2, Action: "CREATE_PATIENT", CreatedAt: time.Now()},
		{ID: 1, Action: "USER_LOGIN", CreatedAt: time.Now()},
	}
	repo.On("FindAll", mock.Anything, 1, defaultPageLimit).Return(logs, int64(2), nil).Once()

	resp, err := uc.GetAllAuditLogs(context.Background(), 0, 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Logs, 2)
	assert.Equal(t, "CREATE_PATIENT", resp.Logs[0].Action)
	repo.AssertExpectations(t)
}

func TestGetAllAuditLogs_RepositoryError(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	uc := NewAuditLogUsecase(nil, quietLogger(), repo)
	repo.On("FindAll", mock.Anything, 1, 10).Return(nil, int64(0), errors.New("db down"))

	_, err := uc.GetAllAuditLogs(context.Background(), 1, 10)

	assert.EqualError(t, err, "db down")
}

func TestGetAuditLog(t *testing.T) {
	repo := new(mocks.AuditLogRepository)
	uc := NewAuditLogUsecase(nil, quietLogger(), repo)
	repo.On("FindByID", mock.Anything, int64(7)).Return(&entity.AuditLog{ID: 7, Action: "DELETE_USER"}, nil)
	repo.On("FindByID", mock.Anything, int64(8)).Return(nil, nil)

	resp, err := uc.GetAuditLog(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)

	_, err = uc.GetAuditLog(context.Background(), 8)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
