package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/seedkit/internal/factory"
	"git.home.luguber.info/inful/seedkit/internal/idgen"
	"git.home.luguber.info/inful/seedkit/internal/logfields"
	"git.home.luguber.info/inful/seedkit/internal/metrics"
	"git.home.luguber.info/inful/seedkit/internal/notify"
	"git.home.luguber.info/inful/seedkit/internal/plan"
	"git.home.luguber.info/inful/seedkit/internal/sqlunit"
	"git.home.luguber.info/inful/seedkit/internal/watch"
)

// applyPlan loads the plan, materializes it, and commits the batch
// through the store. Returns the number of committed records.
func applyPlan(ctx context.Context, planPath string, store *sqlunit.Store, coord *factory.Coordinator) (int, map[string]int, error) {
	p, err := plan.Load(planPath)
	if err != nil {
		return 0, nil, err
	}

	f := factory.New(idgen.UUIDSource{}, nil)
	res, err := plan.Materialize(p, f)
	if err != nil {
		return 0, nil, err
	}

	batch := res.Registry.Members()
	if err := coord.PersistRegistered(ctx, store, res.Registry); err != nil {
		return 0, nil, err
	}

	byKind := make(map[string]int)
	for _, b := range batch {
		byKind[b.Kind().String()]++
	}
	return len(batch), byKind, nil
}

func newNotifier(natsURL, natsSubject string) (notify.Notifier, error) {
	if natsURL == "" {
		return notify.NoopNotifier{}, nil
	}
	return notify.NewNATSNotifier(natsURL, natsSubject)
}

func runApply(ctx context.Context, planPath, dbPath, natsURL, natsSubject string) error {
	store, err := sqlunit.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	notifier, err := newNotifier(natsURL, natsSubject)
	if err != nil {
		return err
	}
	defer notifier.Close()

	start := time.Now()
	n, byKind, err := applyPlan(ctx, planPath, store, factory.NewCoordinator())
	if err != nil {
		return err
	}
	slog.Info("Applied seed plan",
		logfields.Plan(planPath),
		logfields.Database(dbPath),
		logfields.BatchSize(n),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))

	if err := notifier.PublishApplied(ctx, notify.Event{
		Plan:      planPath,
		Records:   n,
		ByKind:    byKind,
		AppliedAt: time.Now(),
	}); err != nil {
		// Seeding succeeded; a lost event is not worth a non-zero exit.
		slog.Warn("Failed to publish applied event", logfields.Error(err))
	}
	return nil
}

func runValidate(ctx context.Context, planPath string) error {
	store, err := sqlunit.Open(":memory:")
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, _, err := applyPlan(ctx, planPath, store, factory.NewCoordinator())
	if err != nil {
		return err
	}
	slog.Info("Plan is valid", logfields.Plan(planPath), logfields.BatchSize(n))
	return nil
}

func runWatch(ctx context.Context, planPath, dbPath, natsURL, natsSubject, metricsListen string) error {
	store, err := sqlunit.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	notifier, err := newNotifier(natsURL, natsSubject)
	if err != nil {
		return err
	}
	defer notifier.Close()

	coord := factory.NewCoordinator()
	if metricsListen != "" {
		reg := prom.NewRegistry()
		coord.WithRecorder(metrics.NewPrometheusRecorder(reg))
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		go func() {
			slog.Info("Serving metrics", "listen", metricsListen)
			if err := http.ListenAndServe(metricsListen, mux); err != nil {
				slog.Error("Metrics server stopped", logfields.Error(err))
			}
		}()
	}

	apply := func() {
		start := time.Now()
		n, byKind, err := applyPlan(ctx, planPath, store, coord)
		if err != nil {
			slog.Error("Apply failed", logfields.Plan(planPath), logfields.Error(err))
			return
		}
		slog.Info("Applied seed plan",
			logfields.Plan(planPath),
			logfields.BatchSize(n),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
		if err := notifier.PublishApplied(ctx, notify.Event{
			Plan:      planPath,
			Records:   n,
			ByKind:    byKind,
			AppliedAt: time.Now(),
		}); err != nil {
			slog.Warn("Failed to publish applied event", logfields.Error(err))
		}
	}

	apply()

	watcher, err := watch.NewPlanWatcher(planPath, apply)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	<-ctx.Done()
	slog.Info("Shutting down")
	return nil
}
