package orrery

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/observability"
)

// Fetcher retrieves ephemeris text for one body.
type Fetcher interface {
	Fetch(ctx context.Context, command string, date time.Time) ephem.FetchResult
}

// Store owns the scene bodies. Bodies returns copies; ApplyBody commits a
// reconciled copy back in one step.
type Store interface {
	Bodies() []Body
	ApplyBody(b Body) bool
	RecordCycle(r CycleReport)
}

// BodyResult is the outcome of refreshing a single body.
type BodyResult struct {
	Name     string
	Command  string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// CycleReport summarizes one pass over every body.
type CycleReport struct {
	Date     time.Time
	Started  time.Time
	Duration time.Duration
	Results  []BodyResult
	Canceled bool
}

// Updated returns the number of bodies whose position changed.
func (r CycleReport) Updated() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeUpdated {
			n++
		}
	}
	return n
}

// Failed returns the number of bodies that kept their previous position.
func (r CycleReport) Failed() int {
	return len(r.Results) - r.Updated()
}

// Refresher runs refresh cycles: for each body in turn it fetches, reconciles
// and commits. A failing body is logged and skipped.
type Refresher struct {
	fetcher Fetcher
	store   Store
	log     *logging.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithLogger sets the refresher's logger.
func WithLogger(l *logging.Logger) RefresherOption {
	return func(r *Refresher) {
		r.log = l
	}
}

// WithMetrics records request outcomes on m.
func WithMetrics(m *metrics.Collector) RefresherOption {
	return func(r *Refresher) {
		r.metrics = m
	}
}

// WithTracerProvider opens cycle and body spans from tp.
func WithTracerProvider(tp trace.TracerProvider) RefresherOption {
	return func(r *Refresher) {
		r.tracer = tp.Tracer(observability.TracerName)
	}
}

// NewRefresher creates a refresher over store using fetcher.
func NewRefresher(fetcher Fetcher, store Store, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		fetcher: fetcher,
		store:   store,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer("")
	}
	return r
}

// Refresh runs one cycle for date. Bodies are fetched sequentially in
// catalog order. Cancelling ctx aborts the in-flight request and skips the
// remaining bodies.
func (r *Refresher) Refresh(ctx context.Context, date time.Time) CycleReport {
	bodies := r.store.Bodies()
	report := CycleReport{
		Date:    date,
		Started: time.Now(),
		Results: make([]BodyResult, 0, len(bodies)),
	}

	ctx, span := r.tracer.Start(ctx, "refresh.cycle", trace.WithAttributes(
		attribute.String("date", date.Format(ephem.DateLayout)),
		attribute.Int("bodies", len(bodies)),
	))
	defer span.End()

	for _, b := range bodies {
		if ctx.Err() != nil {
			report.Canceled = true
			break
		}
		report.Results = append(report.Results, r.refreshBody(ctx, b, date))
	}

	report.Duration = time.Since(report.Started)
	span.SetAttributes(
		attribute.Int("updated", report.Updated()),
		attribute.Int("failed", report.Failed()),
	)

	r.store.RecordCycle(report)
	r.metrics.CycleCompleted()
	r.log.Info("refresh cycle for %s: %d updated, %d failed in %v",
		date.Format(ephem.DateLayout), report.Updated(), report.Failed(), report.Duration.Round(time.Millisecond))

	return report
}

func (r *Refresher) refreshBody(ctx context.Context, b Body, date time.Time) BodyResult {
	ctx, span := r.tracer.Start(ctx, "refresh.body", trace.WithAttributes(
		attribute.String("body", b.Name),
		attribute.String("command", b.Command),
	))
	defer span.End()

	log := r.log.With("body", b.Name)

	fr := r.fetcher.Fetch(ctx, b.Command, date)
	res := BodyResult{
		Name:     b.Name,
		Command:  b.Command,
		Duration: fr.Duration,
	}

	if fr.Error != nil {
		res.Outcome, res.Err = OutcomeFetchFailed, fr.Error
	} else {
		res.Outcome, res.Err = Reconcile(&b, fr.Result)
	}

	span.SetAttributes(attribute.String("outcome", res.Outcome.String()))
	r.metrics.RecordRequest(b.Name, res.Outcome.String(), fr.Duration)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Outcome.String())
		if res.Outcome == OutcomeFetchFailed {
			log.With("error", res.Err).Error("ephemeris fetch failed")
		} else {
			log.With("error", res.Err).Warn("position not updated (%s)", res.Outcome)
		}
		return res
	}

	if !r.store.ApplyBody(b) {
		log.Warn("body no longer in store; update dropped")
		return res
	}
	r.metrics.SetDistance(b.Name, b.Position.Norm())
	log.Debug("position updated: RA=%s Dec=%s -> (%.2f, %.2f, %.2f)",
		b.Sample.RA, b.Sample.Dec, b.Position.X, b.Position.Y, b.Position.Z)

	return res
}
