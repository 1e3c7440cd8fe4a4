package factory

import (
	"git.home.luguber.info/inful/seedkit/internal/errors"
	"git.home.luguber.info/inful/seedkit/internal/schema"
	"git.home.luguber.info/inful/seedkit/internal/util/sets"
)

// State is the builder lifecycle state. Transitions are
// Fresh -> Registered -> Built (via a coordinator commit) or
// Fresh -> Built (via direct Build). Built is terminal.
type State int

const (
	StateFresh State = iota
	StateRegistered
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateRegistered:
		return "registered"
	case StateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// Factory carries the collaborators shared by the builders it creates:
// the identifier source for "build as existing" and the schema catalog
// used to format diagnostics.
type Factory struct {
	ids     IdentifierSource
	catalog schema.Catalog
}

// New creates a Factory. A nil catalog falls back to
// schema.PlainCatalog.
func New(ids IdentifierSource, catalog schema.Catalog) *Factory {
	if catalog == nil {
		catalog = schema.PlainCatalog{}
	}
	return &Factory{ids: ids, catalog: catalog}
}

// Builder creates a fresh builder for the given entity kind.
func (f *Factory) Builder(kind schema.EntityKind) *Builder {
	return &Builder{
		factory: f,
		kind:    kind,
		fields:  make(map[schema.FieldKey]any),
		parents: make(map[schema.RelationKey]*Builder),
		state:   StateFresh,
		rec:     NewRecord(kind),
	}
}

// Builder accumulates field values and parent relationships for one
// record. It owns the Record it produces and tracks a lifecycle state
// that rejects illegal operation sequences (double build, double
// registration, direct build of a registered builder).
//
// Builders are not safe for concurrent use; the calling environment is
// responsible for serializing access.
type Builder struct {
	factory  *Factory
	kind     schema.EntityKind
	fields   map[schema.FieldKey]any
	parents  map[schema.RelationKey]*Builder
	state    State
	rec      *Record
	hooks    Hooks
	registry *Registry
}

// Kind returns the entity kind this builder produces.
func (b *Builder) Kind() schema.EntityKind { return b.kind }

// State returns the current lifecycle state.
func (b *Builder) State() State { return b.state }

// Record returns the record owned by this builder. Before a build or
// commit it is empty and unidentified.
func (b *Builder) Record() *Record { return b.rec }

// SetHooks attaches lifecycle callbacks. Fails once the builder is
// Built.
func (b *Builder) SetHooks(h Hooks) error {
	if b.state == StateBuilt {
		return errors.StateError("cannot set hooks on built %s builder", b.kind)
	}
	b.hooks = h
	return nil
}

// SetField stores value under key, overwriting any prior value. Fails
// once the builder is Built.
func (b *Builder) SetField(key schema.FieldKey, value any) error {
	if b.state == StateBuilt {
		return errors.StateError("cannot set field %q on built %s builder", key, b.kind)
	}
	b.fields[key] = value
	return nil
}

// SetParent assigns a parent builder under the relation key; the last
// assignment to a key wins. The parent's state is not validated here —
// validation is deferred to build/commit. Fails once the builder is
// Built.
func (b *Builder) SetParent(rel schema.RelationKey, parent *Builder) error {
	if b.state == StateBuilt {
		return errors.StateError("cannot set parent %q on built %s builder", rel, b.kind)
	}
	b.parents[rel] = parent
	return nil
}

// Register adds this builder to the registry for a later coordinated
// batch commit. Fails if the builder is already Registered or Built.
func (b *Builder) Register(reg *Registry) error {
	switch b.state {
	case StateRegistered:
		return errors.StateError("%s builder is already registered", b.kind)
	case StateBuilt:
		return errors.StateError("%s builder is already built", b.kind)
	}
	reg.add(b)
	b.registry = reg
	b.state = StateRegistered
	return nil
}

// Build materializes the record locally, without persistence. Parents
// that are still Fresh are built recursively as existing; parents that
// are Registered or were built as new fail the build. With asNew the
// identifier stays absent ("new"); otherwise a fresh identifier is
// generated, simulating an already-persisted record.
//
// On error the builder's record may retain field values applied before
// the failure; discard the builder in that case.
func (b *Builder) Build(asNew bool) (*Record, error) {
	switch b.state {
	case StateRegistered:
		return nil, errors.StateError("%s builder is registered; registered builders are committed through a coordinator", b.kind)
	case StateBuilt:
		return nil, errors.StateError("%s builder is already built", b.kind)
	}
	return b.build(asNew, sets.New[*Builder]())
}

func (b *Builder) build(asNew bool, visiting sets.Set[*Builder]) (*Record, error) {
	visiting.Add(b)
	defer visiting.Delete(b)

	b.hooks.beforeBuild(b)
	for k, v := range b.fields {
		b.rec.SetField(k, v)
	}
	// Each relationship targets a distinct field, so map iteration
	// order does not affect the result.
	for rel, parent := range b.parents {
		if err := b.resolveParent(rel, parent, visiting); err != nil {
			return nil, err
		}
	}
	if !asNew {
		b.rec.AssignID(b.factory.ids.Generate(b.kind))
	}
	b.state = StateBuilt
	b.hooks.afterBuild(b)
	return b.rec, nil
}

// resolveParent materializes one parent relationship for a direct
// build and stores the parent identifier under the relation field.
func (b *Builder) resolveParent(rel schema.RelationKey, parent *Builder, visiting sets.Set[*Builder]) error {
	desc := b.factory.catalog.DescribeRelation(b.kind, rel)
	if visiting.Has(parent) {
		return errors.GraphError("relationship cycle through %s", desc)
	}
	switch parent.state {
	case StateRegistered:
		return errors.GraphError("parent for %s is registered for batch commit and cannot be resolved by a direct build", desc)
	case StateBuilt:
		if parent.rec.ID().IsNone() {
			return errors.GraphError("parent for %s was built as new and has no identifier to reference", desc)
		}
	default:
		// Fresh: the only place recursion auto-resolves an un-built
		// parent, always as existing.
		if _, err := parent.build(false, visiting); err != nil {
			return err
		}
	}
	b.rec.SetField(rel.Field(), parent.rec.ID().Unwrap())
	return nil
}

// finalize transitions the builder to Built after a successful
// coordinated commit, detaching it from its registry.
func (b *Builder) finalize() {
	b.state = StateBuilt
	if b.registry != nil {
		b.registry.remove(b)
		b.registry = nil
	}
	b.hooks.afterInsert(b)
}
