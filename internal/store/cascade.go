package store

import (
	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/schema"
)

type rowKey struct {
	kind entity.Kind
	id   int64
}

// deleteCascade removes kind/id together with its transitive closure of
// cascading dependents. The closure is computed against the state before
// anything is touched; rows reachable only through SetNull relations are
// then nullified, and finally every row in the closure is removed with
// dependents ahead of what they reference.
func (s *Store) deleteCascade(tx *txn, kind entity.Kind, id int64) error {
	var order []rowKey
	seen := make(map[rowKey]bool)
	s.collect(tx, rowKey{kind, id}, seen, &order)

	for _, key := range order {
		for _, rel := range s.graph.Dependents(key.kind) {
			if rel.OnDelete != schema.SetNull {
				continue
			}
			for _, depID := range tx.referencing(rel, key.id) {
				if seen[rowKey{rel.From, depID}] {
					continue
				}
				cur, _ := tx.get(rel.From, depID)
				next := cur.Clone()
				rel.Clear(next)
				tx.update(cur, next)
			}
		}
	}

	for _, key := range order {
		rec, ok := tx.get(key.kind, key.id)
		if !ok {
			continue
		}
		s.release(tx, rec, nil)
		tx.remove(rec)
	}
	return nil
}

// collect appends the cascade closure of key to order in post-order:
// dependents in relation declaration order, rows in ascending id order.
func (s *Store) collect(tx *txn, key rowKey, seen map[rowKey]bool, order *[]rowKey) {
	if seen[key] {
		return
	}
	seen[key] = true
	for _, rel := range s.graph.Dependents(key.kind) {
		if rel.OnDelete != schema.Cascade {
			continue
		}
		for _, depID := range tx.referencing(rel, key.id) {
			s.collect(tx, rowKey{rel.From, depID}, seen, order)
		}
	}
	*order = append(*order, key)
}
