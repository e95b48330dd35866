package mocks

import (
	"context"

	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

type RecordUsecase struct{ mock.Mock }

func (m *RecordUsecase) Create(ctx context.Context, actorID *int64, kind entity.Kind, body []byte) (entity.Record, error) {
	args := m.Called(ctx, actorID, kind, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Record), args.Error(1)
}

func (m *RecordUsecase) CreateRecord(ctx context.Context, actorID *int64, rec entity.Record) (entity.Record, error) {
	args := m.Called(ctx, actorID, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Record), args.Error(1)
}

func (m *RecordUsecase) Get(ctx context.Context, kind entity.Kind, id int64) (entity.Record, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Record), args.Error(1)
}

func (m *RecordUsecase) List(ctx context.Context, filter *entity.RecordFilter) (*dto.RecordListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecordListResponse), args.Error(1)
}

func (m *RecordUsecase) Update(ctx context.Context, actorID *int64, kind entity.Kind, id int64, body []byte) (entity.Record, error) {
	args := m.Called(ctx, actorID, kind, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Record), args.Error(1)
}

func (m *RecordUsecase) Delete(ctx context.Context, actorID *int64, kind entity.Kind, id int64) (*dto.DeleteResponse, error) {
	args := m.Called(ctx, actorID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteResponse), args.Error(1)
}
