// internal/providers/provider.go

// Package providers defines the capability every text-generation backend offers:
// turn a prompt into a completion. Backends are interchangeable and selected by
// name through a Registry.
package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingAPIKey is returned at call time by network backends without credentials.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrUnknownBackend is returned when a registry lookup fails.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrEmptyCompletion is returned when a backend answers without any text.
	ErrEmptyCompletion = errors.New("backend returned no completion")
)

// Request is a single completion call.
type Request struct {
	Prompt       string
	Temperature  float64
	Model        string
	SystemPrompt string
}

// Completer is the interface all backends implement.
type Completer interface {
	// Complete returns the generated text for req or a provider error.
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Error wraps a failure raised by a named backend.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with the backend name unless it already carries one.
func Wrap(backend string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Backend: backend, Err: err}
}

// ErrorKind names the class of a call failure for inline error records.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "DeadlineExceeded"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, ErrMissingAPIKey):
		return "MissingAPIKey"
	case errors.Is(err, ErrEmptyCompletion):
		return "EmptyCompletion"
	}
	var pe *Error
	if errors.As(err, &pe) {
		return "ProviderError"
	}
	return "Error"
}

// Backend is a registered completer together with the model it is called with.
type Backend struct {
	Name      string
	Model     string
	Completer Completer
}

// Registry maps backend keys to completers.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds or replaces the backend under name.
func (r *Registry) Register(name, model string, completer Completer) {
	key := normalizeName(name)
	r.backends[key] = Backend{Name: key, Model: model, Completer: completer}
}

// Lookup finds a backend by name, ignoring case and surrounding space.
func (r *Registry) Lookup(name string) (Backend, bool) {
	b, ok := r.backends[normalizeName(name)]
	return b, ok
}

// Get is Lookup returning ErrUnknownBackend on a miss.
func (r *Registry) Get(name string) (Backend, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return Backend{}, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// Names returns the registered keys in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Wrap replaces every completer with wrap(name, completer).
func (r *Registry) Wrap(wrap func(name string, c Completer) Completer) {
	for name, b := range r.backends {
		b.Completer = wrap(name, b.Completer)
		r.backends[name] = b
	}
}

func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "llama.cpp" {
		return "llamacpp"
	}
	return n
}
