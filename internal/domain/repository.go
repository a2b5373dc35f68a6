// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"tillbox/internal/core/entity"
	"tillbox/internal/domain/listing"
)

// Entity is the constraint for catalog entities handled by the generic
// repository and service. Pointer types embedding entity.Base satisfy it.
type Entity interface {
	entity.Validatable
	GetID() int64
	SetID(int64)
	Deleted() bool
	MarkDeleted()
	Undelete()
	Touch()
	Stamp()
}

// --- Repository Interfaces ---

// CatalogRepository defines CRUD operations for catalog entities.
type CatalogRepository[T Entity] interface {
	// Create inserts a new entity and writes the generated ID back.
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID.
	GetByID(ctx context.Context, id int64) (T, error)

	// Update modifies an existing entity.
	Update(ctx context.Context, entity T) error

	// SetDeletionMark sets or clears the deletion mark.
	// Delete performs soft delete by default (sets deletion_mark=true);
	// physical removal is intentionally not exposed.
	SetDeletionMark(ctx context.Context, id int64, marked bool) error

	// List retrieves a page of entities for a validated query.
	List(ctx context.Context, q listing.Query) (listing.Result[T], error)

	// Exists checks if an entity exists and is not marked deleted.
	Exists(ctx context.Context, id int64) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}
