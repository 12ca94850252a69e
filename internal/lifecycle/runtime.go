package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Component is a long-running service with a managed lifecycle.
// Start must not block; Stop must respect the context deadline.
type Component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type namedComponent struct {
	name      string
	component Component
}

// Runtime starts components in registration order and stops them in
// reverse. A failed start rolls back the components already running.
type Runtime struct {
	mu         sync.Mutex
	components []namedComponent
	running    int
	logger     *log.Entry
}

func NewRuntime() *Runtime {
	return &Runtime{logger: log.WithField("object", "Runtime")}
}

func (r *Runtime) Register(name string, component Component) *Runtime {
	if component == nil {
		return r
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = append(r.components, namedComponent{name: name, component: component})
	return r
}

func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.components[r.running:] {
		if err := entry.component.Start(ctx); err != nil {
			stopErr := r.stopLocked(ctx)
			return errors.Join(fmt.Errorf("start %s: %w", entry.name, err), stopErr)
		}
		r.running++
		r.logger.WithField("component", entry.name).Debug("started")
	}
	return nil
}

func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopLocked(ctx)
}

func (r *Runtime) stopLocked(ctx context.Context) error {
	var stopErr error
	for r.running > 0 {
		entry := r.components[r.running-1]
		r.running--
		if err := entry.component.Stop(ctx); err != nil {
			stopErr = errors.Join(stopErr, fmt.Errorf("stop %s: %w", entry.name, err))
			continue
		}
		r.logger.WithField("component", entry.name).Debug("stopped")
	}
	return stopErr
}
