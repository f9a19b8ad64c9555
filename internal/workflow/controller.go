package workflow

import (
	"context"
	"slices"
	"sync"

	"github.com/jonathan/careeriq/internal/logger"
	"github.com/jonathan/careeriq/internal/observability"
)

// Options configures a Controller.
type Options struct {
	// Fallback is shown when a failure carries no server message.
	Fallback string
	Logger   logger.Logger
	Metrics  *observability.Metrics
}

// Controller owns one workflow's State and drives submissions through it.
//
// Every submission takes the next sequence number. A response is applied only
// if its number is still the latest when it arrives; superseded responses are
// dropped so they cannot overwrite a newer pending, success or error state.
// A validation failure also takes a number. Dispatch runs without holding the
// lock, so separate controllers never block one another and a controller can
// be resubmitted while a request is in flight.
type Controller[I, T any] struct {
	name     string
	validate func(I) error
	dispatch func(context.Context, I) (T, error)
	fallback string
	log      logger.Logger
	metrics  *observability.Metrics

	mu        sync.Mutex
	seq       uint64
	version   uint64
	state     State[T]
	observers []func(State[T])

	// notifyMu serializes observer delivery; delivered is the last version
	// handed to observers.
	notifyMu  sync.Mutex
	delivered uint64
}

// NewController creates an idle Controller. validate may be nil.
func NewController[I, T any](name string, validate func(I) error, dispatch func(context.Context, I) (T, error), opts Options) *Controller[I, T] {
	return &Controller[I, T]{
		name:     name,
		validate: validate,
		dispatch: dispatch,
		fallback: opts.Fallback,
		log:      logger.OrNop(opts.Logger).WithFields(map[string]interface{}{"workflow": name}),
		metrics:  opts.Metrics,
		state:    Idle[T](),
	}
}

// Name returns the workflow name used in logs and metrics.
func (c *Controller[I, T]) Name() string { return c.name }

// State returns the current state.
func (c *Controller[I, T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Observe registers fn to be called after applied transitions. Observers see
// transitions in the order they were applied; a transition that is overtaken
// by a newer one before it is delivered is skipped, never delivered late.
func (c *Controller[I, T]) Observe(fn func(State[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Submit validates in, dispatches it and blocks until the response arrives.
// It returns the controller's state afterwards, which is the state of a newer
// submission if this one was superseded.
func (c *Controller[I, T]) Submit(ctx context.Context, in I) State[T] {
	c.mu.Lock()
	c.seq++
	seq := c.seq

	if c.validate != nil {
		if err := c.validate(in); err != nil {
			st := Fail[T](Message(err, c.fallback))
			v := c.set(st)
			c.mu.Unlock()
			c.log.Debug("input rejected", map[string]interface{}{"reason": st.Err})
			c.applied(st, v)
			return st
		}
	}

	pending := Start[T]()
	pv := c.set(pending)
	c.mu.Unlock()
	c.applied(pending, pv)

	data, err := c.dispatch(ctx, in)

	var next State[T]
	if err != nil {
		next = Fail[T](Message(err, c.fallback))
	} else {
		next = Succeed(data)
	}

	c.mu.Lock()
	if seq != c.seq {
		current := c.state
		latest := c.seq
		c.mu.Unlock()
		c.metrics.ObserveStale(c.name)
		c.log.Debug("discarding superseded response", map[string]interface{}{"seq": seq, "latest": latest})
		return current
	}
	nv := c.set(next)
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("request failed", map[string]interface{}{"error": err.Error()})
	}
	c.applied(next, nv)
	return next
}

// set replaces the state and returns its version. Callers hold mu.
func (c *Controller[I, T]) set(st State[T]) uint64 {
	c.state = st
	c.version++
	return c.version
}

// applied records a transition and notifies observers outside mu.
func (c *Controller[I, T]) applied(st State[T], version uint64) {
	c.metrics.ObserveTransition(c.name, string(st.Status))

	c.mu.Lock()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	c.deliver(observers, st, version)
}

func (c *Controller[I, T]) deliver(observers []func(State[T]), st State[T], version uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if version <= c.delivered {
		return
	}
	c.delivered = version
	for _, fn := range observers {
		fn(st)
	}
}
