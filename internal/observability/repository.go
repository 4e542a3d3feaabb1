package observability

import (
	"context"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// InstrumentedRepository is a decorator that records metrics and trace
// subsegments around every TodoRepository call.
type InstrumentedRepository struct {
	inner     repository.TodoRepository
	collector *Collector
	tracer    *Tracer
}

var _ repository.TodoRepository = (*InstrumentedRepository)(nil)

// NewInstrumentedRepository wraps inner. Either collector or tracer may be nil.
func NewInstrumentedRepository(inner repository.TodoRepository, collector *Collector, tracer *Tracer) *InstrumentedRepository {
	return &InstrumentedRepository{inner: inner, collector: collector, tracer: tracer}
}

// observe times fn and runs it in a subsegment annotated with the ids it
// touches. todoID is empty for user-wide operations.
func (r *InstrumentedRepository) observe(ctx context.Context, op, userID, todoID string, fn func(context.Context) error) error {
	start := time.Now()
	err := r.tracer.TraceFunction(ctx, op, func(ctx context.Context) error {
		r.tracer.AddAnnotation(ctx, "userID", userID)
		if todoID != "" {
			r.tracer.AddAnnotation(ctx, "todoID", todoID)
		}
		return fn(ctx)
	})
	if r.collector != nil {
		r.collector.RecordStoreOperation(op, err, time.Since(start))
	}
	return err
}

func (r *InstrumentedRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	var stored domain.Todo
	err := r.observe(ctx, "Create", todo.UserID, todo.TodoID, func(ctx context.Context) error {
		var err error
		stored, err = r.inner.Create(ctx, todo)
		return err
	})
	if err == nil && r.collector != nil {
		r.collector.TodosCreated.Inc()
	}
	return stored, err
}

func (r *InstrumentedRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.observe(ctx, "ListByUser", userID, "", func(ctx context.Context) error {
		var err error
		todos, err = r.inner.ListByUser(ctx, userID)
		return err
	})
	return todos, err
}

func (r *InstrumentedRepository) UpdateFull(ctx context.Context, userID, todoID string, update domain.TodoUpdate) error {
	return r.observe(ctx, "UpdateFull", userID, todoID, func(ctx context.Context) error {
		return r.inner.UpdateFull(ctx, userID, todoID, update)
	})
}

func (r *InstrumentedRepository) UpdateNote(ctx context.Context, userID, todoID, note string) error {
	return r.observe(ctx, "UpdateNote", userID, todoID, func(ctx context.Context) error {
		return r.inner.UpdateNote(ctx, userID, todoID, note)
	})
}

func (r *InstrumentedRepository) Delete(ctx context.Context, userID, todoID string) error {
	err := r.observe(ctx, "Delete", userID, todoID, func(ctx context.Context) error {
		return r.inner.Delete(ctx, userID, todoID)
	})
	if err == nil && r.collector != nil {
		r.collector.TodosDeleted.Inc()
	}
	return err
}
