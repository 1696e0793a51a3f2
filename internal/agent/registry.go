// Package agent exposes the core operations as a deterministic, named
// registry. Whatever chooses intent, an HTTP handler or an AI agent, invokes
// operations by name with loosely-typed params; the registry itself is pure
// and synchronous.
package agent

import (
	"context"
	"sort"

	"github.com/AbinjithTK/Jums/internal/core"
)

// Params carries an operation's decoded JSON arguments
type Params map[string]interface{}

// String returns a string param, or def when absent
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Int returns an integer param, or def when absent. JSON numbers decode as
// float64, so both forms are accepted.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// Bool returns a boolean param, or def when absent
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// OpFunc executes one named operation for one owner. Results must be
// JSON-marshalable.
type OpFunc func(ctx context.Context, ownerID string, params Params) (interface{}, error)

// Registry maps operation names to implementations
type Registry struct {
	ops map[string]OpFunc
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]OpFunc)}
}

// Register adds an operation. Later registrations with the same name win.
func (r *Registry) Register(name string, op OpFunc) {
	r.ops[name] = op
}

// Invoke runs a named operation
func (r *Registry) Invoke(ctx context.Context, name, ownerID string, params Params) (interface{}, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, core.ErrOperationNotFound
	}
	if params == nil {
		params = Params{}
	}
	return op(ctx, ownerID, params)
}

// Names returns all registered operation names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
