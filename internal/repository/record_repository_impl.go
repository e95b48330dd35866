package repository

import (
	"context"
	"errors"
	"fmt"

	"go-healthcare-records/internal/domain/entity"
	domainRepo "go-healthcare-records/internal/domain/repository"
	"go-healthcare-records/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

type recordRepository struct{}

func NewRecordRepository() domainRepo.RecordRepository {
	return &recordRepository{}
}

func (r *recordRepository) Apply(db *gorm.DB, batch entity.Batch) error {
	for _, c := range batch.Changes {
		var err error
		switch c.Op {
		case entity.OpInsert:
			err = insert(db, c.After).Error
		case entity.OpUpdate:
			err = db.Save(c.After).Error
		case entity.OpDelete:
			err = db.Delete(c.Before).Error
		default:
			err = fmt.Errorf("unknown change op %q", c.Op)
		}
		if err != nil {
			return translateError(c.Kind, err)
		}
	}

	for _, kind := range batch.SequenceKinds() {
		seq := &entity.IDSequence{Kind: string(kind), LastID: batch.Sequences[kind]}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_id"}),
		}).Create(seq).Error
		if err != nil {
			return fmt.Errorf("upsert id sequence %s: %w", kind, err)
		}
	}

	for _, key := range batch.Retired {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&key).Error
		if err != nil {
			return fmt.Errorf("retire %s.%s: %w", key.Kind, key.Field, err)
		}
	}

	return nil
}

// insert writes every column of rec, zero values included. Column defaults
// belong to the schema, so a zero the store accepted is never replaced.
func insert(db *gorm.DB, rec entity.Record) *gorm.DB {
	return db.Select("*").Create(rec)
}

type loader func(db *gorm.DB) ([]entity.Record, error)

var loaders = map[entity.Kind]loader{
	entity.KindUser:             load[entity.User],
	entity.KindDoctor:           load[entity.Doctor],
	entity.KindPatient:          load[entity.Patient],
	entity.KindMedicine:         load[entity.Medicine],
	entity.KindAppointment:      load[entity.Appointment],
	entity.KindPrescription:     load[entity.Prescription],
	entity.KindBilling:          load[entity.Billing],
	entity.KindHospitalResource: load[entity.HospitalResource],
	entity.KindLabTest:          load[entity.LabTest],
	entity.KindFeedback:         load[entity.Feedback],
}

func load[T any, PT interface {
	*T
	entity.Record
}](db *gorm.DB) ([]entity.Record, error) {
	var rows []T
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Record, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}

// LoadAll reads the record tables, the id sequences and the retired keys
// concurrently. Records are returned grouped by kind in declaration order.
func (r *recordRepository) LoadAll(ctx context.Context, db *gorm.DB) (entity.Dump, error) {
	kinds := entity.Kinds()
	results := make([][]entity.Record, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			rows, err := loaders[kind](db.WithContext(gctx))
			if err != nil {
				return fmt.Errorf("load %s: %w", kind, err)
			}
			results[i] = rows
			return nil
		})
	}

	var seqs []entity.IDSequence
	g.Go(func() error {
		if err := db.WithContext(gctx).Find(&seqs).Error; err != nil {
			return fmt.Errorf("load id sequences: %w", err)
		}
		return nil
	})

	var retired []entity.RetiredKey
	g.Go(func() error {
		if err := db.WithContext(gctx).Find(&retired).Error; err != nil {
			return fmt.Errorf("load retired keys: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return entity.Dump{}, err
	}

	dump := entity.Dump{
		LastIDs: make(map[entity.Kind]int64, len(seqs)),
		Retired: retired,
	}
	for _, rows := range results {
		dump.Records = append(dump.Records, rows...)
	}
	for _, s := range seqs {
		kind, err := entity.ParseKind(s.Kind)
		if err != nil {
			continue
		}
		dump.LastIDs[kind] = s.LastID
	}

	return dump, nil
}

// translateError maps constraint violations raised by PostgreSQL onto the
// store's error kinds so callers see the same errors with or without a database.
func translateError(kind entity.Kind, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &store.UniquenessError{Kind: kind, Field: pgErr.ConstraintName, Value: pgErr.Detail}
		case pgForeignKeyViolation:
			return &store.ReferenceError{Kind: kind, Field: pgErr.ConstraintName}
		case pgCheckViolation:
			return &store.ValidationError{Kind: kind, Field: pgErr.ConstraintName, Message: pgErr.Message}
		}
	}
	return fmt.Errorf("persist %s: %w", kind, err)
}
