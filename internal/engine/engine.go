// Package engine is the single call surface of the mentorship workflows. It checks
// the caller's role, validates requests, runs workflows inside collection critical
// sections, records events and derives read-only projections from store snapshots.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/observability"
	"github.com/noah-isme/gema-mentorship/internal/service"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// Dependencies wires the engine. Only Store is required.
type Dependencies struct {
	Store       store.Store
	Catalog     *service.TestCatalog
	MaxAttempts int
	Events      service.ActivityService
	Validator   *validator.Validate
	Logger      zerolog.Logger
}

// Engine composes the workflows behind role checks and critical sections.
type Engine struct {
	locker       *store.Locker
	catalog      *service.TestCatalog
	applications service.ApplicationWorkflow
	assignments  service.AssignmentWorkflow
	submissions  service.SubmissionWorkflow
	projects     service.ProjectWorkflow
	students     service.StudentRegistry
	tests        service.TestWorkflow
	events       service.ActivityService
	validate     *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// New constructs the engine.
func New(deps Dependencies) *Engine {
	validate := deps.Validator
	if validate == nil {
		validate = validator.New()
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = service.DefaultTestCatalog()
	}
	events := deps.Events
	if events == nil {
		events = service.NewActivityService(nil, nil, "", deps.Logger)
	}

	e := &Engine{
		locker:       store.NewLocker(deps.Store),
		catalog:      catalog,
		applications: service.NewApplicationWorkflow(deps.Logger),
		assignments:  service.NewAssignmentWorkflow(deps.Logger),
		submissions:  service.NewSubmissionWorkflow(deps.Logger),
		projects:     service.NewProjectWorkflow(deps.Logger),
		students:     service.NewStudentRegistry(validate, deps.Logger),
		tests:        service.NewTestWorkflow(catalog, deps.MaxAttempts, deps.Logger),
		events:       events,
		validate:     validate,
		logger:       deps.Logger.With().Str("component", "engine").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/gema-mentorship/internal/engine"),
	}
	e.locker.OnRollback(e.observeRollback)
	return e
}

// Locker exposes the engine's critical sections, e.g. for seeding.
func (e *Engine) Locker() *store.Locker {
	return e.locker
}

// run wraps one facade call: authorization, tracing, metrics and error context.
func (e *Engine) run(ctx context.Context, op Operation, actor Actor, attrs []attribute.KeyValue, fn func(ctx context.Context) error) error {
	start := time.Now()
	attrs = append(attrs,
		attribute.String("engine.operation", string(op)),
		attribute.String("actor.role", string(actor.Role)),
	)
	spanCtx, span := e.tracer.Start(ctx, "engine."+string(op), trace.WithAttributes(attrs...))
	defer span.End()

	err := authorize(actor, op)
	if err == nil {
		err = fn(spanCtx)
	}

	outcome := "success"
	if err != nil {
		err = apperror.WithOp(err, "engine."+string(op))
		kind := apperror.KindOf(err)
		outcome = string(kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.CodeOf(err)))

		event := e.logger.Debug()
		if kind == apperror.KindStore {
			event = e.logger.Error()
		}
		event.Err(err).
			Str("operation", string(op)).
			Str("code", string(apperror.CodeOf(err))).
			Str("actor_role", string(actor.Role)).
			Msg("engine operation failed")
	}

	observability.EngineOperations().WithLabelValues(string(op), outcome).Inc()
	observability.EngineLatency().WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	return err
}

// mutate runs fn inside the critical sections of locks.
func (e *Engine) mutate(ctx context.Context, locks []store.Collection, fn func(tx *store.Tx) error) error {
	return e.locker.Update(ctx, fn, locks...)
}

func (e *Engine) check(request any) error {
	if err := e.validate.Struct(request); err != nil {
		return apperror.Invalid(describeValidation(err), err)
	}
	return nil
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request"
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return "invalid request: " + strings.Join(fields, ", ")
}

// record publishes a workflow event. Failures never fail the operation.
func (e *Engine) record(ctx context.Context, actor Actor, action, entityType, entityID string, metadata map[string]any) {
	_, err := e.events.Record(ctx, service.ActivityEntry{
		Actor:      service.ActivityActor{ID: actor.ID, Role: string(actor.Role)},
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("action", action).Msg("failed to record workflow event")
	}
}

func (e *Engine) observeRollback(written []store.Collection, cause, restoreErr error) {
	names := make([]string, 0, len(written))
	for _, c := range written {
		names = append(names, c.String())
	}

	if restoreErr != nil {
		observability.StoreRollbacks().WithLabelValues("failed").Inc()
		e.logger.Error().
			Err(restoreErr).
			AnErr("cause", cause).
			Strs("collections", names).
			Msg("compensating write failed")
		return
	}

	observability.StoreRollbacks().WithLabelValues("restored").Inc()
	e.logger.Warn().AnErr("cause", cause).Strs("collections", names).Msg("partial update rolled back")
}
