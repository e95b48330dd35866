package store

import (
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/schema"
	"go-healthcare-records/pkg/validator"
)

func (s *Store) validate(rec entity.Record) error {
	err := s.validator.Validate(rec)
	if err == nil {
		return nil
	}
	if fe, ok := s.validator.FirstError(err); ok {
		return &ValidationError{Kind: rec.Kind(), Field: fe.Field, Message: validator.Describe(fe)}
	}
	return &ValidationError{Kind: rec.Kind(), Message: err.Error()}
}

// checkReferences verifies every non-null foreign key of rec. When before is
// set only keys that differ from it are looked up.
func (s *Store) checkReferences(tx *txn, rec, before entity.Record) error {
	for _, rel := range s.graph.References(rec.Kind()) {
		ref, ok := rel.Ref(rec)
		if !ok {
			continue
		}
		if before != nil {
			if prev, had := rel.Ref(before); had && prev == ref {
				continue
			}
		}
		if _, exists := tx.get(rel.To, ref); !exists {
			return &ReferenceError{Kind: rec.Kind(), Field: rel.Field, Target: rel.To, ID: ref}
		}
	}
	return nil
}

func (s *Store) checkUnique(tx *txn, rec entity.Record) error {
	for _, key := range s.graph.UniqueKeys(rec.Kind()) {
		value := key.Value(rec)
		if key.Retained && tx.isRetired(retiredKey(key, value)) {
			return &UniquenessError{Kind: rec.Kind(), Field: key.Field, Value: value}
		}
		for id, other := range tx.table(rec.Kind()) {
			if id != rec.GetID() && key.Value(other) == value {
				return &UniquenessError{Kind: rec.Kind(), Field: key.Field, Value: value}
			}
		}
	}
	return nil
}

func retiredKey(key schema.UniqueKey, value string) entity.RetiredKey {
	return entity.RetiredKey{Kind: string(key.Kind), Field: key.Field, Value: value}
}

// release retires the retained unique values of before that after no longer
// holds. after is nil when the record is removed.
func (s *Store) release(tx *txn, before, after entity.Record) {
	for _, key := range s.graph.UniqueKeys(before.Kind()) {
		if !key.Retained {
			continue
		}
		value := key.Value(before)
		if after != nil && key.Value(after) == value {
			continue
		}
		tx.retire(retiredKey(key, value))
	}
}
