// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "sync"

// FieldHandler compiles one condition on a custom field into a SQL
// fragment against the given table alias. Returning a nil fragment with
// a nil error falls through to the record type's default column mapping.
type FieldHandler func(cond Condition, alias string) (*Fragment, error)

// Registry maps (record type, field name) pairs to custom field
// handlers. Record types register their handlers once at start-up; the
// compiler consults the registry before falling back to plain column
// mappings. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]map[string]FieldHandler
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]map[string]FieldHandler),
	}
}

// Register installs handler for field on recordType, replacing any
// previous handler for the same pair.
func (r *Registry) Register(recordType, field string, handler FieldHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fields, ok := r.handlers[recordType]
	if !ok {
		fields = make(map[string]FieldHandler)
		r.handlers[recordType] = fields
	}
	fields[field] = handler
}

// handler returns the handler for (recordType, field), or nil.
func (r *Registry) handler(recordType, field string) FieldHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[recordType][field]
}
