package factory

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/seedkit/internal/errors"
	"git.home.luguber.info/inful/seedkit/internal/logfields"
	"git.home.luguber.info/inful/seedkit/internal/metrics"
	"git.home.luguber.info/inful/seedkit/internal/util/sets"
)

// Coordinator commits sets of builders and their transitively required
// ancestors through a UnitOfWork in one atomic operation.
//
// Preparation is a depth-first pre-order traversal: every ancestor
// reachable through relationships is registered with the unit of work
// strictly before its descendants, satisfying insert-order/foreign-key
// requirements, and the prepared set deduplicates ancestors shared by
// multiple descendants so each builder is registered at most once per
// call.
type Coordinator struct {
	recorder metrics.Recorder
}

// NewCoordinator creates a coordinator with metrics disabled.
func NewCoordinator() *Coordinator {
	return &Coordinator{recorder: metrics.NoopRecorder{}}
}

// WithRecorder swaps in a metrics recorder and returns the coordinator.
func (c *Coordinator) WithRecorder(r metrics.Recorder) *Coordinator {
	if r != nil {
		c.recorder = r
	}
	return c
}

// Persist commits the batch and its not-yet-registered ancestors. On
// success every prepared builder is Built, detached from its registry,
// and its after-insert hook has run. On failure no builder state
// changes; the unit of work's pre-commit state is its own concern.
//
// A parent that is Registered but not part of this batch fails with a
// graph error: cross-batch commits are not supported, the parent must
// be committed through the registry that owns it.
func (c *Coordinator) Persist(ctx context.Context, work UnitOfWork, batch []*Builder) error {
	start := time.Now()
	prepared := sets.New[*Builder]()
	order := make([]*Builder, 0, len(batch))
	// Registered parents referenced during preparation; they must all
	// turn out to be members of this batch.
	outside := make(map[*Builder]string)

	for _, b := range batch {
		if prepared.Has(b) {
			continue
		}
		if b.state == StateBuilt {
			c.recorder.IncCommitOutcome(metrics.OutcomeFailure)
			return errors.StateError("%s builder is already built and cannot be persisted", b.kind)
		}
		if err := c.prepare(b, work, prepared, &order, outside, sets.New[*Builder]()); err != nil {
			c.recorder.IncCommitOutcome(metrics.OutcomeFailure)
			return err
		}
	}

	for parent, desc := range outside {
		if !prepared.Has(parent) {
			c.recorder.IncCommitOutcome(metrics.OutcomeFailure)
			return errors.GraphError("parent for %s is registered in a different batch; commit it through its own registry", desc).
				WithContext("parent_kind", parent.kind.String())
		}
	}

	if err := work.CommitWork(ctx); err != nil {
		c.recorder.IncCommitOutcome(metrics.OutcomeFailure)
		return errors.PersistError(err, "commit work")
	}

	for _, b := range order {
		b.finalize()
	}

	c.recorder.IncCommitOutcome(metrics.OutcomeSuccess)
	c.recorder.ObserveCommitDuration(time.Since(start))
	c.recorder.ObserveBatchSize(len(order))
	c.recorder.IncRecordsCommitted(len(order))
	slog.Debug("Committed record batch",
		logfields.BatchSize(len(order)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
	return nil
}

// PersistRegistered commits everything currently in the registry. On
// success the registry is empty; on failure membership is untouched so
// the batch can be retried.
func (c *Coordinator) PersistRegistered(ctx context.Context, work UnitOfWork, reg *Registry) error {
	return c.Persist(ctx, work, reg.Members())
}

// PersistOne commits a single builder together with its
// not-yet-registered ancestors.
func (c *Coordinator) PersistOne(ctx context.Context, work UnitOfWork, b *Builder) error {
	return c.Persist(ctx, work, []*Builder{b})
}

// prepare registers one builder and, depth-first, the ancestors it
// requires. Pre-order with respect to the unit of work: ancestors are
// fully registered before this builder's record is.
func (c *Coordinator) prepare(b *Builder, work UnitOfWork, prepared sets.Set[*Builder], order *[]*Builder, outside map[*Builder]string, visiting sets.Set[*Builder]) error {
	visiting.Add(b)
	defer visiting.Delete(b)

	b.hooks.beforeInsert(b)
	for k, v := range b.fields {
		b.rec.SetField(k, v)
	}

	for rel, parent := range b.parents {
		desc := b.factory.catalog.DescribeRelation(b.kind, rel)
		if parent.state == StateRegistered {
			if !prepared.Has(parent) {
				// Possibly a later member of this batch; checked after
				// the batch loop.
				outside[parent] = desc
			}
		} else {
			if parent.state == StateBuilt {
				return errors.GraphError("parent for %s is already built and cannot be re-submitted for insertion", desc)
			}
			if visiting.Has(parent) {
				return errors.GraphError("relationship cycle through %s", desc)
			}
			if !prepared.Has(parent) {
				if err := c.prepare(parent, work, prepared, order, outside, visiting); err != nil {
					return err
				}
			}
		}
		if err := work.RegisterRelationship(b.rec, rel, parent.rec); err != nil {
			return errors.PersistError(err, "register relationship "+desc)
		}
	}

	if err := work.RegisterNew(b.rec); err != nil {
		return errors.PersistError(err, "register new "+b.kind.String()+" record")
	}
	prepared.Add(b)
	*order = append(*order, b)
	return nil
}
