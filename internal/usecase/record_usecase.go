package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-healthcare-records/internal/converter"
	"go-healthcare-records/internal/delivery/dto"
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/schema"
	"go-healthcare-records/internal/service"
	"go-healthcare-records/internal/store"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidBody   = errors.New("invalid request body")
	ErrInvalidFilter = errors.New("invalid filter")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// passwordCost is lowered by tests.
var passwordCost = bcrypt.DefaultCost

type RecordUsecase interface {
	Create(ctx context.Context, actorID *int64, kind entity.Kind, body []byte) (entity.Record, error)
	CreateRecord(ctx context.Context, actorID *int64, rec entity.Record) (entity.Record, error)
	Get(ctx context.Context, kind entity.Kind, id int64) (entity.Record, error)
	List(ctx context.Context, filter *entity.RecordFilter) (*dto.RecordListResponse, error)
	Update(ctx context.Context, actorID *int64, kind entity.Kind, id int64, body []byte) (entity.Record, error)
	Delete(ctx context.Context, actorID *int64, kind entity.Kind, id int64) (*dto.DeleteResponse, error)
}

type recordUsecase struct {
	store        *store.Store
	log          *logrus.Logger
	auditService service.AuditService
	tokenStore   service.TokenStore
}

// NewRecordUsecase wires the record operations. tokenStore may be nil, in
// which case sessions are not revoked when a user changes.
func NewRecordUsecase(
	st *store.Store,
	log *logrus.Logger,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) RecordUsecase {
	return &recordUsecase{
		store:        st,
		log:          log,
		auditService: auditService,
		tokenStore:   tokenStore,
	}
}

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// prepareBody hashes a plaintext "password" attribute of a users body so
// the hash is computed outside the store lock.
func prepareBody(kind entity.Kind, body []byte) ([]byte, error) {
	if kind != entity.KindUser {
		return body, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	raw, ok := fields["password"]
	if !ok {
		return body, nil
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, fmt.Errorf("%w: password must be a string", ErrInvalidBody)
	}
	if plain == "" {
		return body, nil
	}

	hashed, err := hashPassword(plain)
	if err != nil {
		return nil, err
	}
	fields["password"], _ = json.Marshal(hashed)
	return json.Marshal(fields)
}

func decodeInto(body []byte, rec entity.Record) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

func (u *recordUsecase) Create(ctx context.Context, actorID *int64, kind entity.Kind, body []byte) (entity.Record, error) {
	rec, err := entity.New(kind)
	if err != nil {
		return nil, err
	}

	body, err = prepareBody(kind, body)
	if err != nil {
		return nil, err
	}
	if err := decodeInto(body, rec); err != nil {
		return nil, err
	}

	return u.create(ctx, actorID, rec)
}

// CreateRecord stores an already built record. A user's Password is taken
// as plaintext and hashed.
func (u *recordUsecase) CreateRecord(ctx context.Context, actorID *int64, rec entity.Record) (entity.Record, error) {
	if user, ok := rec.(*entity.User); ok && user.Password != "" {
		hashed, err := hashPassword(user.Password)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		c := *user
		c.Password = hashed
		rec = &c
	}
	return u.create(ctx, actorID, rec)
}

func (u *recordUsecase) create(ctx context.Context, actorID *int64, rec entity.Record) (entity.Record, error) {
	id, err := u.store.Create(ctx, rec)
	if err != nil {
		u.log.Warnf("Failed to create %s: %+v", rec.Kind(), err)
		return nil, err
	}

	created, err := u.store.Get(rec.Kind(), id)
	if err != nil {
		return nil, err
	}

	u.auditService.LogChanges(ctx, actorID, []entity.Change{
		{Op: entity.OpInsert, Kind: created.Kind(), ID: id, After: created},
	})

	return converter.Sanitize(created), nil
}

func (u *recordUsecase) Get(ctx context.Context, kind entity.Kind, id int64) (entity.Record, error) {
	rec, err := u.store.Get(kind, id)
	if err != nil {
		return nil, err
	}
	return converter.Sanitize(rec), nil
}

func (u *recordUsecase) List(ctx context.Context, filter *entity.RecordFilter) (*dto.RecordListResponse, error) {
	if _, err := entity.ParseKind(string(filter.Kind)); err != nil {
		return nil, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	pred, err := equalsPredicate(filter.Kind, filter.Equals)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	records := make([]entity.Record, 0, limit)
	var total int64
	for rec := range u.store.List(filter.Kind, pred) {
		if total >= int64(offset) && len(records) < limit {
			records = append(records, converter.Sanitize(rec))
		}
		total++
	}

	return &dto.RecordListResponse{
		Kind:    filter.Kind,
		Records: records,
		Page:    page,
		Limit:   limit,
		Total:   total,
	}, nil
}

// equalsPredicate matches records whose foreign keys hold the given ids.
func equalsPredicate(kind entity.Kind, equals map[string]int64) (func(entity.Record) bool, error) {
	if len(equals) == 0 {
		return nil, nil
	}

	type cond struct {
		rel schema.Relation
		id  int64
	}
	conds := make([]cond, 0, len(equals))
	for field, id := range equals {
		rel, ok := schema.Default().Lookup(kind, field)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no foreign key %q", ErrInvalidFilter, kind, field)
		}
		conds = append(conds, cond{rel: rel, id: id})
	}

	return func(rec entity.Record) bool {
		for _, c := range conds {
			ref, ok := c.rel.Ref(rec)
			if !ok || ref != c.id {
				return false
			}
		}
		return true
	}, nil
}

// Update merges body into the stored record. Attributes missing from body
// keep their value; null clears an optional reference.
func (u *recordUsecase) Update(ctx context.Context, actorID *int64, kind entity.Kind, id int64, body []byte) (entity.Record, error) {
	if _, err := entity.ParseKind(string(kind)); err != nil {
		return nil, err
	}

	body, err := prepareBody(kind, body)
	if err != nil {
		return nil, err
	}

	var before entity.Record
	updated, err := u.store.Update(ctx, kind, id, func(rec entity.Record) error {
		before = rec.Clone()
		return decodeInto(body, rec)
	})
	if err != nil {
		u.log.Warnf("Failed to update %s %d: %+v", kind, id, err)
		return nil, err
	}

	u.auditService.LogChanges(ctx, actorID, []entity.Change{
		{Op: entity.OpUpdate, Kind: kind, ID: id, Before: before, After: updated},
	})

	if prev, ok := before.(*entity.User); ok {
		next := updated.(*entity.User)
		if prev.Password != next.Password || prev.Role != next.Role || prev.Username != next.Username {
			u.revokeSessions(ctx, id)
		}
	}

	return converter.Sanitize(updated), nil
}

// Delete removes the record and everything cascading from it.
func (u *recordUsecase) Delete(ctx context.Context, actorID *int64, kind entity.Kind, id int64) (*dto.DeleteResponse, error) {
	changes, err := u.store.Delete(ctx, kind, id)
	if err != nil {
		u.log.Warnf("Failed to delete %s %d: %+v", kind, id, err)
		return nil, err
	}

	u.auditService.LogChanges(ctx, actorID, changes)

	for _, c := range changes {
		if c.Kind == entity.KindUser && c.Op == entity.OpDelete {
			u.revokeSessions(ctx, c.ID)
		}
	}

	return converter.ChangesToDeleteResponse(changes), nil
}

func (u *recordUsecase) revokeSessions(ctx context.Context, userID int64) {
	if u.tokenStore == nil {
		return
	}
	if err := u.tokenStore.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke sessions of user %d: %+v", userID, err)
	}
}
