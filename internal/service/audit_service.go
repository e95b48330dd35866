package service

import (
	"context"
	"strconv"

	"go-healthcare-records/internal/converter"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService records who changed what. Failures are logged and never
// reported to the caller: the change itself has already been committed.
type AuditService interface {
	LogChanges(ctx context.Context, actorID *int64, changes []entity.Change)
	LogAuth(ctx context.Context, userID int64, action string)
}

type auditService struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

// NewAuditService returns an audit service that writes audit_logs rows when
// db is not nil and only logs otherwise.
func NewAuditService(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogChanges(ctx context.Context, actorID *int64, changes []entity.Change) {
	for _, c := range changes {
		metadata := entity.JSON{
			"entity":    string(c.Kind),
			"entity_id": strconv.FormatInt(c.ID, 10),
			"old_value": auditValue(c.Before),
			"new_value": auditValue(c.After),
		}
		s.write(ctx, actorID, entity.AuditAction(c.Kind, c.Op), metadata)
	}
}

func (s *auditService) LogAuth(ctx context.Context, userID int64, action string) {
	s.write(ctx, &userID, action, entity.JSON{
		"entity":    string(entity.KindUser),
		"entity_id": strconv.FormatInt(userID, 10),
	})
}

func (s *auditService) write(ctx context.Context, actorID *int64, action string, metadata entity.JSON) {
	fields := logrus.Fields{
		"action":    action,
		"entity":    metadata["entity"],
		"entity_id": metadata["entity_id"],
	}
	if actorID != nil {
		fields["actor_id"] = *actorID
	}
	s.log.WithFields(fields).Info("audit")

	if s.db == nil || s.auditRepo == nil {
		return
	}

	auditLog := &entity.AuditLog{
		UserID:   actorID,
		Action:   action,
		Metadata: metadata,
	}
	if err := s.auditRepo.Create(s.db.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
	}
}

func auditValue(rec entity.Record) interface{} {
	if rec == nil {
		return nil
	}
	return converter.Sanitize(rec)
}
