// Package errors provides a small categorized-error type for the ambient
// layers (config loading, telemetry setup, websocket, ingest). The detector core itself stays
// infallible at the sample boundary and never uses this package.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"time"
)

// Category groups an error for logging/metrics purposes.
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryValidation    Category = "validation"
	CategoryMQTT          Category = "mqtt"
	CategoryWebSocket     Category = "websocket"
	CategorySimulation    Category = "simulation"
	CategoryIngest        Category = "ingest"
)

// CategorizedError wraps an underlying error with a component, a
// category, and free-form context, built through a small fluent builder.
type CategorizedError struct {
	err       error
	component string
	category  Category
	context   map[string]any
	timestamp time.Time
}

func (e *CategorizedError) Error() string {
	return e.err.Error()
}

func (e *CategorizedError) Unwrap() error {
	return e.err
}

// Component returns the component that raised the error.
func (e *CategorizedError) Component() string { return e.component }

// GetCategory returns the error's category.
func (e *CategorizedError) GetCategory() Category { return e.category }

// Context returns a copy of the error's attached context.
func (e *CategorizedError) Context() map[string]any {
	if e.context == nil {
		return nil
	}
	out := make(map[string]any, len(e.context))
	maps.Copy(out, e.context)
	return out
}

// Timestamp returns when the error was built.
func (e *CategorizedError) Timestamp() time.Time { return e.timestamp }

// builder accumulates fields via chained calls before Build() finalizes
// the CategorizedError.
type builder struct {
	err       error
	component string
	category  Category
	context   map[string]any
}

// New starts a builder wrapping an existing error.
func New(err error) *builder {
	return &builder{err: err}
}

// Newf starts a builder from a formatted message.
func Newf(format string, args ...any) *builder {
	return &builder{err: fmt.Errorf(format, args...)}
}

func (b *builder) Component(name string) *builder {
	b.component = name
	return b
}

func (b *builder) Category(c Category) *builder {
	b.category = c
	return b
}

func (b *builder) ContextKV(key string, value any) *builder {
	if b.context == nil {
		b.context = make(map[string]any)
	}
	b.context[key] = value
	return b
}

// Build finalizes the CategorizedError.
func (b *builder) Build() *CategorizedError {
	return &CategorizedError{
		err:       b.err,
		component: b.component,
		category:  b.category,
		context:   b.context,
		timestamp: time.Now(),
	}
}

// Is reports whether err or any error it wraps matches target, delegating
// to the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As delegates to the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
