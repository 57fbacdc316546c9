package skill

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Sentinel errors for registration.
var (
	// ErrDuplicateWorkflow indicates the workflow name is already registered.
	ErrDuplicateWorkflow = errors.New("workflow already registered")

	// ErrUnknownWorkflow indicates no workflow is registered under the name.
	ErrUnknownWorkflow = errors.New("unknown workflow")
)

// Registry is a write-once-at-startup table of workflows by name.
//
// Registration validates structurally before insertion; a workflow that fails
// [Validate] never becomes invocable. The registry is expected to be fully
// populated before any run starts and is read-only thereafter; the lock only
// guards concurrent population during startup itself.
type Registry struct {
	mu        sync.RWMutex
	workflows map[string]*Workflow
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{workflows: map[string]*Workflow{}}
}

// Register validates the workflow and inserts it. All structural problems
// are reported together; a duplicate name fails with [ErrDuplicateWorkflow].
func (r *Registry) Register(w *Workflow) error {
	if err := Validate(w); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.workflows[w.Name]; exists {
		return fmt.Errorf("%q: %w", w.Name, ErrDuplicateWorkflow)
	}
	r.workflows[w.Name] = w
	return nil
}

// MustRegister panics if registration fails. Intended for startup wiring
// where a structurally invalid built-in workflow is a programming error.
func (r *Registry) MustRegister(w *Workflow) {
	if err := r.Register(w); err != nil {
		panic(err)
	}
}

// Get returns the registered workflow with the given name.
func (r *Registry) Get(name string) (*Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workflows[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownWorkflow)
	}
	return w, nil
}

// Names returns the registered workflow names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered workflow, ordered by name.
func (r *Registry) All() []*Workflow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	all := make([]*Workflow, len(names))
	for i, name := range names {
		all[i] = r.workflows[name]
	}
	return all
}

// defaultRegistry is the process-wide registry used by the package-level
// functions. Populated once during startup (see the catalog package) and
// read-only for the process's remaining lifetime.
var defaultRegistry = NewRegistry()

// Register installs a workflow into the process-wide registry.
func Register(w *Workflow) error {
	return defaultRegistry.Register(w)
}

// Get looks a workflow up in the process-wide registry.
func Get(name string) (*Workflow, error) {
	return defaultRegistry.Get(name)
}

// Names lists the process-wide registry's workflow names, sorted.
func Names() []string {
	return defaultRegistry.Names()
}

// All returns every workflow in the process-wide registry, ordered by name.
func All() []*Workflow {
	return defaultRegistry.All()
}
