package tool

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/spetersoncode/polli"
)

type entry struct {
	spec    polli.Tool
	handler Handler
}

// Registry maps function names to handlers. Definitions are listed in
// registration order so request payloads stay stable between rounds.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	names   []string
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds the definition with its handler, failing with *DuplicateError when
// the name is taken.
func (r *Registry) Register(spec polli.Tool, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.entries[spec.Name]; taken {
		return &DuplicateError{Name: spec.Name}
	}
	r.entries[spec.Name] = entry{spec: spec, handler: h}
	r.names = append(r.names, spec.Name)
	return nil
}

// Unregister drops name if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
}

func (r *Registry) lookup(name string) (entry, bool) {
	if r == nil {
		return entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// GetTool returns the definition registered under name.
func (r *Registry) GetTool(name string) (polli.Tool, bool) {
	e, ok := r.lookup(name)
	return e.spec, ok
}

// Tools returns the definitions to send with a chat request.
func (r *Registry) Tools() []polli.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]polli.Tool, len(r.names))
	for i, name := range r.names {
		specs[i] = r.entries[name].spec
	}
	return specs
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Execute runs the handler for call. Unknown names, handler errors and
// panics all become an error payload in the Result. A nil Registry
// answers every call as unknown.
func (r *Registry) Execute(ctx context.Context, call polli.ToolCall) Result {
	e, _ := r.lookup(call.Name)
	return run(ctx, call, e.handler)
}

// Registration pairs a definition with its handler for Add.
type Registration struct {
	Tool    polli.Tool
	Handler Handler
}

// Func builds a Registration whose parameter schema is reflected from T.
// It panics if T has no valid schema.
//
//	type forecastArgs struct {
//	    City string `json:"city" jsonschema:"description=City name"`
//	    Days int    `json:"days,omitempty"`
//	}
//
//	reg := tool.NewRegistry().Add(
//	    tool.Func("forecast", "Weather forecast", forecast),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	return Registration{
		Tool:    polli.Tool{Name: name, Description: description, Parameters: MustSchemaFor[T]()},
		Handler: Typed(fn),
	}
}

// Typed decodes the call arguments into T before calling fn. Arguments
// that do not fit T are reported as a handler error.
func Typed[T any](fn TypedHandler[T]) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return fn(ctx, v)
	}
}

// WithHandler builds a Registration from a raw JSON schema.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool:    polli.Tool{Name: name, Description: description, Parameters: schema},
		Handler: h,
	}
}

func WithTool(spec polli.Tool, h Handler) Registration {
	return Registration{Tool: spec, Handler: h}
}

// Add registers each registration and returns r. It panics on a
// duplicate name.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		if err := r.Register(reg.Tool, reg.Handler); err != nil {
			panic(err)
		}
	}
	return r
}
