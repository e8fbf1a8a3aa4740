// Package domain holds cross-document building blocks.
package domain

import (
	"context"
	"sync"
)

// HookEvent represents a document lifecycle point.
type HookEvent string

const (
	BeforeCalculate  HookEvent = "before_calculate"
	AfterCalculate   HookEvent = "after_calculate"
	BeforeTransition HookEvent = "before_transition"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, doc T) error

// HookRegistry stores lifecycle hooks for a document type.
// Hooks may be registered while documents are being calculated.
type HookRegistry[T any] struct {
	mu    sync.RWMutex
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
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes hooks for event in registration order, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, doc T) error {
	r.mu.RLock()
	hooks := r.hooks[event]
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCalculate registers a hook to run before totals are computed.
func (r *HookRegistry[T]) OnBeforeCalculate(hook Hook[T]) {
	r.On(BeforeCalculate, hook)
}

// OnBeforeTransition registers a hook to run before a status change.
func (r *HookRegistry[T]) OnBeforeTransition(hook Hook[T]) {
	r.On(BeforeTransition, hook)
}

// OnAfterCalculate registers a hook to run after totals are computed.
func (r *HookRegistry[T]) OnAfterCalculate(hook Hook[T]) {
	r.On(AfterCalculate, hook)
}
