package store

import (
	"maps"
	"slices"
	"sort"
	"time"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/internal/domain/schema"
)

type table map[int64]entity.Record

// state is published by pointer. Once published neither the maps nor the
// records they hold are modified again.
type state struct {
	tables  map[entity.Kind]table
	seq     map[entity.Kind]int64 // last id handed out per kind
	retired map[entity.RetiredKey]struct{}
}

func newState() *state {
	st := &state{
		tables:  make(map[entity.Kind]table),
		seq:     make(map[entity.Kind]int64),
		retired: make(map[entity.RetiredKey]struct{}),
	}
	for _, k := range entity.Kinds() {
		st.tables[k] = table{}
	}
	return st
}

func sortedIDs(t table) []int64 {
	ids := make([]int64, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// txn is a copy-on-write working view over a published state. A table is
// copied the first time it is written; untouched tables stay shared.
type txn struct {
	base    *state
	tables  map[entity.Kind]table
	seq     map[entity.Kind]int64
	retired []entity.RetiredKey
	changes []entity.Change
	now     time.Time
}

func newTxn(base *state, now time.Time) *txn {
	return &txn{
		base:   base,
		tables: make(map[entity.Kind]table),
		seq:    make(map[entity.Kind]int64),
		now:    now,
	}
}

func (tx *txn) table(kind entity.Kind) table {
	if t, ok := tx.tables[kind]; ok {
		return t
	}
	return tx.base.tables[kind]
}

func (tx *txn) writable(kind entity.Kind) table {
	if t, ok := tx.tables[kind]; ok {
		return t
	}
	src := tx.base.tables[kind]
	t := make(table, len(src)+1)
	for id, rec := range src {
		t[id] = rec
	}
	tx.tables[kind] = t
	return t
}

func (tx *txn) get(kind entity.Kind, id int64) (entity.Record, bool) {
	rec, ok := tx.table(kind)[id]
	return rec, ok
}

func (tx *txn) nextID(kind entity.Kind) int64 {
	last, ok := tx.seq[kind]
	if !ok {
		last = tx.base.seq[kind]
	}
	last++
	tx.seq[kind] = last
	return last
}

func (tx *txn) isRetired(key entity.RetiredKey) bool {
	if _, ok := tx.base.retired[key]; ok {
		return true
	}
	return slices.Contains(tx.retired, key)
}

func (tx *txn) retire(key entity.RetiredKey) {
	if !tx.isRetired(key) {
		tx.retired = append(tx.retired, key)
	}
}

func (tx *txn) insert(rec entity.Record) {
	tx.writable(rec.Kind())[rec.GetID()] = rec
	tx.changes = append(tx.changes, entity.Change{Op: entity.OpInsert, Kind: rec.Kind(), ID: rec.GetID(), After: rec})
}

func (tx *txn) update(before, after entity.Record) {
	tx.writable(after.Kind())[after.GetID()] = after
	tx.changes = append(tx.changes, entity.Change{Op: entity.OpUpdate, Kind: after.Kind(), ID: after.GetID(), Before: before, After: after})
}

func (tx *txn) remove(rec entity.Record) {
	delete(tx.writable(rec.Kind()), rec.GetID())
	tx.changes = append(tx.changes, entity.Change{Op: entity.OpDelete, Kind: rec.Kind(), ID: rec.GetID(), Before: rec})
}

// referencing returns, in ascending id order, the rows of rel.From whose
// foreign key rel.Field holds id.
func (tx *txn) referencing(rel schema.Relation, id int64) []int64 {
	t := tx.table(rel.From)
	var out []int64
	for _, depID := range sortedIDs(t) {
		if ref, ok := rel.Ref(t[depID]); ok && ref == id {
			out = append(out, depID)
		}
	}
	return out
}

// batch returns the recorded changes with private copies of every image.
func (tx *txn) batch() entity.Batch {
	b := entity.Batch{
		Changes:   make([]entity.Change, len(tx.changes)),
		Sequences: make(map[entity.Kind]int64, len(tx.seq)),
	}
	for i, c := range tx.changes {
		if c.Before != nil {
			c.Before = c.Before.Clone()
		}
		if c.After != nil {
			c.After = c.After.Clone()
		}
		b.Changes[i] = c
	}
	for k, v := range tx.seq {
		b.Sequences[k] = v
	}
	b.Retired = slices.Clone(tx.retired)
	return b
}

func (tx *txn) publish() *state {
	st := &state{
		tables:  make(map[entity.Kind]table, len(tx.base.tables)),
		seq:     make(map[entity.Kind]int64, len(tx.base.seq)),
		retired: tx.base.retired,
	}
	for k, t := range tx.base.tables {
		st.tables[k] = t
	}
	for k, t := range tx.tables {
		st.tables[k] = t
	}
	for k, v := range tx.base.seq {
		st.seq[k] = v
	}
	for k, v := range tx.seq {
		st.seq[k] = v
	}
	if len(tx.retired) > 0 {
		st.retired = maps.Clone(tx.base.retired)
		for _, key := range tx.retired {
			st.retired[key] = struct{}{}
		}
	}
	return st
}
