// Package store holds every healthcare record in memory and enforces the
// schema's integrity rules on each mutation.
//
// Mutations are serialised by a single write lock and run against a
// copy-on-write working state. The working state is published only after
// the whole unit of work (validation, cascades and the optional Committer)
// has succeeded, so readers never see partial effects.
package store

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/schema"
	"go-healthcare-records/pkg/validator"

	"github.com/sirupsen/logrus"
)

// Committer receives every batch before it is published. A returned error
// discards the batch.
type Committer interface {
	Commit(ctx context.Context, batch entity.Batch) error
}

// CommitterFunc adapts a function to Committer.
type CommitterFunc func(ctx context.Context, batch entity.Batch) error

func (f CommitterFunc) Commit(ctx context.Context, batch entity.Batch) error {
	return f(ctx, batch)
}

type Option func(*Store)

// WithCommitter installs a write-through hook such as the database repository.
func WithCommitter(c Committer) Option {
	return func(s *Store) { s.committer = c }
}

// WithClock overrides the time source used for created_at defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.log = log }
}

type Store struct {
	mu        sync.RWMutex
	state     *state
	graph     *schema.Graph
	validator *validator.CustomValidator
	committer Committer
	nowFn     func() time.Time
	log       *logrus.Logger
}

func New(opts ...Option) *Store {
	s := &Store{
		state:     newState(),
		graph:     schema.Default(),
		validator: validator.NewValidator(),
		nowFn:     func() time.Time { return time.Now().UTC() },
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) mutate(ctx context.Context, fn func(tx *txn) error) (entity.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTxn(s.state, s.nowFn())
	if err := fn(tx); err != nil {
		return entity.Batch{}, err
	}

	batch := tx.batch()
	if s.committer != nil && len(batch.Changes) > 0 {
		if err := s.committer.Commit(ctx, batch); err != nil {
			s.log.Warnf("Failed to commit batch of %d changes: %+v", len(batch.Changes), err)
			return entity.Batch{}, fmt.Errorf("commit: %w", err)
		}
	}

	s.state = tx.publish()
	return batch, nil
}

func knownKind(kind entity.Kind) error {
	_, err := entity.ParseKind(string(kind))
	return err
}

// Create validates rec and stores a copy under the next id of its kind.
func (s *Store) Create(ctx context.Context, rec entity.Record) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("%w: nil record", ErrValidation)
	}

	var id int64
	_, err := s.mutate(ctx, func(tx *txn) error {
		r := rec.Clone()
		r.SetID(0)
		if d, ok := r.(entity.Defaulter); ok {
			d.ApplyDefaults(tx.now)
		}
		if err := s.validate(r); err != nil {
			return err
		}
		if err := s.checkReferences(tx, r, nil); err != nil {
			return err
		}
		if err := s.checkUnique(tx, r); err != nil {
			return err
		}
		id = tx.nextID(r.Kind())
		r.SetID(id)
		tx.insert(r)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies patch to a copy of the record and stores it if the result
// is still valid. Foreign keys are only re-checked when patch changed them.
func (s *Store) Update(ctx context.Context, kind entity.Kind, id int64, patch func(entity.Record) error) (entity.Record, error) {
	if err := knownKind(kind); err != nil {
		return nil, err
	}

	var updated entity.Record
	_, err := s.mutate(ctx, func(tx *txn) error {
		before, ok := tx.get(kind, id)
		if !ok {
			return &NotFoundError{Kind: kind, ID: id}
		}
		next := before.Clone()
		if err := patch(next); err != nil {
			return err
		}
		next.SetID(id)
		if err := s.validate(next); err != nil {
			return err
		}
		if err := s.checkReferences(tx, next, before); err != nil {
			return err
		}
		if err := s.checkUnique(tx, next); err != nil {
			return err
		}
		tx.update(before, next)
		s.release(tx, before, next)
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the record and, transitively, everything that depends on
// it. The returned changes list nullified rows as updates followed by the
// removals, root last.
func (s *Store) Delete(ctx context.Context, kind entity.Kind, id int64) ([]entity.Change, error) {
	if err := knownKind(kind); err != nil {
		return nil, err
	}

	batch, err := s.mutate(ctx, func(tx *txn) error {
		if _, ok := tx.get(kind, id); !ok {
			return &NotFoundError{Kind: kind, ID: id}
		}
		return s.deleteCascade(tx, kind, id)
	})
	if err != nil {
		return nil, err
	}
	if len(batch.Changes) > 1 {
		s.log.Debugf("Cascade delete %s %d touched %d rows", kind, id, len(batch.Changes))
	}
	return batch.Changes, nil
}

// Get returns a copy of the record.
func (s *Store) Get(kind entity.Kind, id int64) (entity.Record, error) {
	return s.Snapshot().Get(kind, id)
}

// List returns a lazy sequence of the records of kind matching pred (nil
// matches all) in ascending id order. Each iteration reads the state current
// when it starts.
func (s *Store) List(kind entity.Kind, pred func(entity.Record) bool) iter.Seq[entity.Record] {
	return func(yield func(entity.Record) bool) {
		for rec := range s.Snapshot().List(kind, pred) {
			if !yield(rec) {
				return
			}
		}
	}
}

// Count returns the number of records of kind.
func (s *Store) Count(kind entity.Kind) int {
	return s.Snapshot().Count(kind)
}

// Snapshot returns a read-only view pinned to the currently published state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{state: s.state}
}

// Restore replaces the whole state with a persisted dump. A sequence never
// falls below the highest restored id of its kind.
func (s *Store) Restore(dump entity.Dump) error {
	st := newState()
	for _, rec := range dump.Records {
		if err := knownKind(rec.Kind()); err != nil {
			return err
		}
		st.tables[rec.Kind()][rec.GetID()] = rec.Clone()
		if rec.GetID() > st.seq[rec.Kind()] {
			st.seq[rec.Kind()] = rec.GetID()
		}
	}
	for k, v := range dump.LastIDs {
		if v > st.seq[k] {
			st.seq[k] = v
		}
	}
	for _, key := range dump.Retired {
		st.retired[key] = struct{}{}
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// Snapshot is a consistent read-only view of the store.
type Snapshot struct {
	state *state
}

func (v *Snapshot) Get(kind entity.Kind, id int64) (entity.Record, error) {
	if err := knownKind(kind); err != nil {
		return nil, err
	}
	rec, ok := v.state.tables[kind][id]
	if !ok {
		return nil, &NotFoundError{Kind: kind, ID: id}
	}
	return rec.Clone(), nil
}

func (v *Snapshot) List(kind entity.Kind, pred func(entity.Record) bool) iter.Seq[entity.Record] {
	return func(yield func(entity.Record) bool) {
		t := v.state.tables[kind]
		for _, id := range sortedIDs(t) {
			rec := t[id].Clone()
			if pred != nil && !pred(rec) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (v *Snapshot) Count(kind entity.Kind) int {
	return len(v.state.tables[kind])
}

// LastID returns the last id handed out for kind.
func (v *Snapshot) LastID(kind entity.Kind) int64 {
	return v.state.seq[kind]
}
