package mocks

import (
	"context"

	"go-healthcare-records/internal/domain/entity"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type RecordRepository struct{ mock.Mock }

func (m *RecordRepository) Apply(db *gorm.DB, batch entity.Batch) error {
	return m.Called(db, batch).Error(0)
}

func (m *RecordRepository) LoadAll(ctx context.Context, db *gorm.DB) (entity.Dump, error) {
	args := m.Called(ctx, db)
	return args.Get(0).(entity.Dump), args.Error(1)
}
