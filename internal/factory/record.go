// Package factory implements composite record construction: builders
// accumulate field values and parent relationships, materialize records
// locally ("build"), or commit whole relationship graphs atomically
// through a transactional unit of work in dependency order.
package factory

import (
	"git.home.luguber.info/inful/seedkit/internal/foundation"
	"git.home.luguber.info/inful/seedkit/internal/schema"
)

// Record is the materialized entity produced by a Builder: field values
// plus an optional identifier. An absent identifier means the record is
// new and not yet persisted. Each Record is owned by exactly one
// Builder; the persistence collaborator mutates it in place when
// identifiers are assigned at commit.
type Record struct {
	kind   schema.EntityKind
	fields map[schema.FieldKey]any
	id     foundation.Option[string]
}

// NewRecord creates an empty, unidentified record of the given kind.
// Builders create their record at construction; direct use is intended
// for persistence collaborators and their tests.
func NewRecord(kind schema.EntityKind) *Record {
	return &Record{
		kind:   kind,
		fields: make(map[schema.FieldKey]any),
		id:     foundation.None[string](),
	}
}

// Kind returns the entity kind this record belongs to.
func (r *Record) Kind() schema.EntityKind { return r.kind }

// ID returns the record identifier; None means "new".
func (r *Record) ID() foundation.Option[string] { return r.id }

// Field returns the value stored under key, comma-ok style.
func (r *Record) Field(key schema.FieldKey) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Fields returns a copy of the record's field values.
func (r *Record) Fields() map[schema.FieldKey]any {
	out := make(map[schema.FieldKey]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// SetField stores value under key, overwriting any prior value. Called
// by the owning builder during build/prepare and by the persistence
// collaborator when resolving relationship fields at commit.
func (r *Record) SetField(key schema.FieldKey, value any) {
	r.fields[key] = value
}

// AssignID sets the record identifier. Called by the owning builder for
// "build as existing" and by the persistence collaborator after a
// successful commit.
func (r *Record) AssignID(id string) {
	r.id = foundation.Some(id)
}
