// Package schema declares the foreign keys and unique keys between entity kinds.
// The reverse dependency graph walked by cascading deletes is built once at init.
package schema

import (
	"strconv"

	"go-healthcare-records/internal/domain/entity"
)

// Action is what happens to a dependent row when its referenced row is deleted.
type Action string

const (
	Cascade Action = "cascade"
	SetNull Action = "set_null"
)

// Relation is a foreign key from From.Field to To.
type Relation struct {
	From     entity.Kind
	Field    string
	To       entity.Kind
	OnDelete Action

	ref   func(entity.Record) (int64, bool)
	clear func(entity.Record)
}

// Ref returns the referenced id held by rec, false when the column is null.
func (r Relation) Ref(rec entity.Record) (int64, bool) {
	return r.ref(rec)
}

// Clear nulls the referencing column on rec. Only valid for SetNull relations.
func (r Relation) Clear(rec entity.Record) {
	if r.clear != nil {
		r.clear(rec)
	}
}

// UniqueKey is a column whose value may appear at most once per kind.
// Retained values stay taken after their record is deleted or changes them.
type UniqueKey struct {
	Kind     entity.Kind
	Field    string
	Retained bool

	value func(entity.Record) string
}

// Value returns the key value of rec.
func (u UniqueKey) Value(rec entity.Record) string {
	return u.value(rec)
}

func required(get func(entity.Record) int64) func(entity.Record) (int64, bool) {
	return func(rec entity.Record) (int64, bool) {
		return get(rec), true
	}
}

// relations are listed in declaration order of the referencing kind.
var relations = []Relation{
	{From: entity.KindDoctor, Field: "user_id", To: entity.KindUser, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Doctor).UserID })},
	{From: entity.KindPatient, Field: "user_id", To: entity.KindUser, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Patient).UserID })},
	{From: entity.KindAppointment, Field: "patient_id", To: entity.KindPatient, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Appointment).PatientID })},
	{From: entity.KindAppointment, Field: "doctor_id", To: entity.KindDoctor, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Appointment).DoctorID })},
	{From: entity.KindPrescription, Field: "appointment_id", To: entity.KindAppointment, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Prescription).AppointmentID })},
	{From: entity.KindPrescription, Field: "med_id", To: entity.KindMedicine, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Prescription).MedID })},
	{From: entity.KindBilling, Field: "appointment_id", To: entity.KindAppointment, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Billing).AppointmentID })},
	{From: entity.KindLabTest, Field: "patient_id", To: entity.KindPatient, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.LabTest).PatientID })},
	{From: entity.KindLabTest, Field: "doctor_id", To: entity.KindDoctor, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.LabTest).DoctorID })},
	{From: entity.KindFeedback, Field: "patient_id", To: entity.KindPatient, OnDelete: Cascade,
		ref: required(func(r entity.Record) int64 { return r.(*entity.Feedback).PatientID })},
	{From: entity.KindFeedback, Field: "doctor_id", To: entity.KindDoctor, OnDelete: SetNull,
		ref: func(r entity.Record) (int64, bool) {
			f := r.(*entity.Feedback)
			if f.DoctorID == nil {
				return 0, false
			}
			return *f.DoctorID, true
		},
		clear: func(r entity.Record) { r.(*entity.Feedback).DoctorID = nil }},
}

var uniqueKeys = []UniqueKey{
	{Kind: entity.KindUser, Field: "username", Retained: true,
		value: func(r entity.Record) string { return r.(*entity.User).Username }},
	{Kind: entity.KindDoctor, Field: "user_id",
		value: func(r entity.Record) string { return itoa(r.(*entity.Doctor).UserID) }},
	{Kind: entity.KindPatient, Field: "user_id",
		value: func(r entity.Record) string { return itoa(r.(*entity.Patient).UserID) }},
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// Graph is the adjacency structure of the schema.
type Graph struct {
	all        []Relation
	outgoing   map[entity.Kind][]Relation
	dependents map[entity.Kind][]Relation
	unique     map[entity.Kind][]UniqueKey
}

var graph = build(relations, uniqueKeys)

func build(rels []Relation, keys []UniqueKey) *Graph {
	g := &Graph{
		all:        rels,
		outgoing:   make(map[entity.Kind][]Relation),
		dependents: make(map[entity.Kind][]Relation),
		unique:     make(map[entity.Kind][]UniqueKey),
	}
	for _, r := range rels {
		g.outgoing[r.From] = append(g.outgoing[r.From], r)
		g.dependents[r.To] = append(g.dependents[r.To], r)
	}
	for _, k := range keys {
		g.unique[k.Kind] = append(g.unique[k.Kind], k)
	}
	return g
}

// Default returns the graph of the healthcare schema.
func Default() *Graph {
	return graph
}

// References returns the foreign keys declared on kind.
func (g *Graph) References(kind entity.Kind) []Relation {
	return g.outgoing[kind]
}

// Dependents returns the foreign keys pointing at kind, in declaration order.
func (g *Graph) Dependents(kind entity.Kind) []Relation {
	return g.dependents[kind]
}

// UniqueKeys returns the unique columns of kind.
func (g *Graph) UniqueKeys(kind entity.Kind) []UniqueKey {
	return g.unique[kind]
}

// Lookup finds the foreign key kind.field.
func (g *Graph) Lookup(kind entity.Kind, field string) (Relation, bool) {
	for _, r := range g.outgoing[kind] {
		if r.Field == field {
			return r, true
		}
	}
	return Relation{}, false
}

// Relations returns every declared foreign key.
func (g *Graph) Relations() []Relation {
	out := make([]Relation, len(g.all))
	copy(out, g.all)
	return out
}
