// Package schema defines the opaque identifier types used to address
// entity kinds, plain fields, and parent relationships on records.
//
// The types are deliberately thin: the builder core only needs
// comparable keys, not a full schema metadata system. Anything richer
// (display names for diagnostics) is supplied through the Catalog
// collaborator.
package schema

// EntityKind tags the entity type a builder produces (e.g. "user",
// "invoice"). Opaque to the core; only the persistence layer and the
// identifier source interpret it.
type EntityKind string

func (k EntityKind) String() string { return string(k) }

// FieldKey addresses a plain value field on a record.
type FieldKey string

func (f FieldKey) String() string { return string(f) }

// RelationKey addresses a parent relationship on a record. A relation
// key doubles as the field under which the parent's identifier is
// stored once the relationship is resolved.
type RelationKey string

func (r RelationKey) String() string { return string(r) }

// Field returns the field key the resolved parent identifier is stored
// under.
func (r RelationKey) Field() FieldKey { return FieldKey(r) }
