package entity

import "sort"

// Op is the kind of mutation a Change records.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change is one row-level effect of a store mutation. Before is nil for
// inserts, After is nil for deletes.
type Change struct {
	Op     Op
	Kind   Kind
	ID     int64
	Before Record
	After  Record
}

// Batch is the ordered set of changes produced by a single store call,
// together with the id sequences it advanced and the unique values it retired.
type Batch struct {
	Changes   []Change
	Sequences map[Kind]int64
	Retired   []RetiredKey
}

// SequenceKinds returns the advanced kinds in declaration order.
func (b Batch) SequenceKinds() []Kind {
	out := make([]Kind, 0, len(b.Sequences))
	for k := range b.Sequences {
		out = append(out, k)
	}
	order := make(map[Kind]int, len(kinds))
	for i, k := range kinds {
		order[k] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

// IDSequence persists the last id handed out per kind so ids survive restarts
// without being reused.
type IDSequence struct {
	Kind   string `gorm:"type:varchar(50);primaryKey"`
	LastID int64  `gorm:"not null"`
}

func (IDSequence) TableName() string {
	return "id_sequences"
}

// RetiredKey is a unique value released by a deleted or changed record. It
// cannot be taken again.
type RetiredKey struct {
	Kind  string `gorm:"type:varchar(50);primaryKey"`
	Field string `gorm:"type:varchar(50);primaryKey"`
	Value string `gorm:"type:varchar(255);primaryKey"`
}

func (RetiredKey) TableName() string {
	return "retired_keys"
}

// Dump is the persisted image a store is restored from.
type Dump struct {
	Records []Record
	LastIDs map[Kind]int64
	Retired []RetiredKey
}
