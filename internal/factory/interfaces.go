package factory

import (
	"context"

	"git.home.luguber.info/inful/seedkit/internal/schema"
)

// UnitOfWork is the transactional persistence collaborator. Records and
// relationships are registered during commit preparation; CommitWork
// either fully succeeds (assigning identifiers to newly inserted
// records, observable through the Record objects passed in) or fully
// fails.
type UnitOfWork interface {
	// RegisterNew schedules a record for insertion. The coordinator
	// guarantees every ancestor reachable through relationships is
	// registered before its descendants.
	RegisterNew(rec *Record) error

	// RegisterRelationship schedules the resolution of a relationship
	// field: at commit time the child record's relation field is set to
	// the parent record's (possibly freshly assigned) identifier.
	RegisterRelationship(child *Record, rel schema.RelationKey, parent *Record) error

	// CommitWork atomically applies everything registered since the
	// last commit. On failure nothing is applied.
	CommitWork(ctx context.Context) error
}

// IdentifierSource generates identifiers for records built as
// "existing" outside a real commit, simulating already-persisted rows.
type IdentifierSource interface {
	Generate(kind schema.EntityKind) string
}

// Hooks are optional callbacks invoked at the extension points of a
// builder's lifecycle. Nil callbacks are skipped. Specialized entity
// builders use these to inject defaults or side effects without
// subclassing.
type Hooks struct {
	// BeforeBuild runs at the start of a direct build, before field
	// values are applied to the record.
	BeforeBuild func(b *Builder)

	// AfterBuild runs after a direct build transitioned the builder to
	// Built.
	AfterBuild func(b *Builder)

	// BeforeInsert runs at the start of commit preparation for this
	// builder.
	BeforeInsert func(b *Builder)

	// AfterInsert runs after a successful commit finalized this
	// builder.
	AfterInsert func(b *Builder)
}

func (h Hooks) beforeBuild(b *Builder) {
	if h.BeforeBuild != nil {
		h.BeforeBuild(b)
	}
}

func (h Hooks) afterBuild(b *Builder) {
	if h.AfterBuild != nil {
		h.AfterBuild(b)
	}
}

func (h Hooks) beforeInsert(b *Builder) {
	if h.BeforeInsert != nil {
		h.BeforeInsert(b)
	}
}

func (h Hooks) afterInsert(b *Builder) {
	if h.AfterInsert != nil {
		h.AfterInsert(b)
	}
}
