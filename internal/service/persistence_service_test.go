package service

import (
	"context"
	"errors"
	"testing"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/mocks"
	"go-healthcare-records/internal/store"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPersistenceService_Hydrate(t *testing.T) {
	log, _ := test.NewNullLogger()
	repo := new(mocks.RecordRepository)
	svc := NewPersistenceService(nil, log, repo)
	st := store.New(store.WithLogger(log))

	records := []entity.Record{
		&entity.User{ID: 3, Username: "admin", Password: "hash", Role: entity.RoleAdmin},
		&entity.LabTest{ID: 1, TestName: "CBC"},
	}
	repo.On("LoadAll", mock.Anything, mock.Anything).Return(entity.Dump{
		Records: records,
		LastIDs: map[entity.Kind]int64{entity.KindUser: 7},
		Retired: []entity.RetiredKey{{Kind: "users", Field: "username", Value: "former"}},
	}, nil).Once()

	require.NoError(t, svc.Hydrate(context.Background(), st))

	assert.Equal(t, 1, st.Count(entity.KindUser))
	assert.Equal(t, 1, st.Count(entity.KindLabTest))

	// ids continue after the persisted sequence, not after the highest row
	id, err := st.Create(context.Background(), &entity.User{Username: "second", Password: "hash", Role: entity.RolePatient})
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	_, err = st.Create(context.Background(), &entity.User{Username: "former", Password: "hash", Role: entity.RolePatient})
	assert.ErrorIs(t, err, store.ErrUniqueness)
	repo.AssertExpectations(t)
}

func TestPersistenceService_HydrateLoadError(t *testing.T) {
	log, hook := test.NewNullLogger()
	repo := new(mocks.RecordRepository)
	svc := NewPersistenceService(nil, log, repo)
	repo.On("LoadAll", mock.Anything, mock.Anything).Return(entity.Dump{}, errors.New("connection refused"))

	err := svc.Hydrate(context.Background(), store.New(store.WithLogger(log)))

	assert.EqualError(t, err, "connection refused")
	assert.Contains(t, hook.LastEntry().Message, "Failed to load records")
}
