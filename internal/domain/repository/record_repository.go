package repository

import (
	"context"

	"go-healthcare-records/internal/domain/entity"

	"gorm.io/gorm"
)

// RecordRepository mirrors the in-memory store into PostgreSQL.
type RecordRepository interface {
	// Apply replays a store batch on db, which is expected to be a transaction.
	Apply(db *gorm.DB, batch entity.Batch) error
	// LoadAll reads every record table, the id sequences and the retired keys.
	LoadAll(ctx context.Context, db *gorm.DB) (entity.Dump, error)
}
