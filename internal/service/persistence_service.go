package service

import (
	"context"
	"fmt"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/repository"
	"go-healthcare-records/internal/store"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PersistenceService writes store batches through to PostgreSQL and loads
// them back on startup. It is installed on the store as its Committer.
type PersistenceService struct {
	db         *gorm.DB
	log        *logrus.Logger
	recordRepo repository.RecordRepository
}

func NewPersistenceService(db *gorm.DB, log *logrus.Logger, recordRepo repository.RecordRepository) *PersistenceService {
	return &PersistenceService{
		db:         db,
		log:        log,
		recordRepo: recordRepo,
	}
}

// Commit replays batch in a single database transaction.
func (s *PersistenceService) Commit(ctx context.Context, batch entity.Batch) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	if err := s.recordRepo.Apply(tx, batch); err != nil {
		s.log.Warnf("Failed to apply %d changes: %+v", len(batch.Changes), err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.log.Warnf("Failed commit transaction: %+v", err)
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Hydrate replaces the contents of st with what is stored in the database.
func (s *PersistenceService) Hydrate(ctx context.Context, st *store.Store) error {
	dump, err := s.recordRepo.LoadAll(ctx, s.db)
	if err != nil {
		s.log.Errorf("Failed to load records: %+v", err)
		return err
	}

	if err := st.Restore(dump); err != nil {
		s.log.Errorf("Failed to restore records: %+v", err)
		return err
	}

	s.log.Infof("Loaded %d records from database", len(dump.Records))
	return nil
}
