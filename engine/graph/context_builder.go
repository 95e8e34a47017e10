package graph

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

const defaultEventCapacity = 64

// ContextBuilderOption is a functional option for configuring a Context via NewContext.
type ContextBuilderOption func(*Context)

// NewContext creates a new Context with the specified options applied.
// Without WithLogger the context logs to a discarding handler.
//
// Parameters:
//   - options: a variadic list of ContextBuilderOption functions to configure the Context
//
// Returns:
//   - *Context: a new context ready for its first BeginUpdate
func NewContext(options ...ContextBuilderOption) *Context {
	c := &Context{
		worldTransform: model.IdentityTransform,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.sampledEvents == nil {
		c.sampledEvents = NewSampledEventsBuffer(defaultEventCapacity)
	}
	return c
}

// WithLogger is an option builder that sets the logger warnings are written to.
//
// Parameters:
//   - logger: the structured logger; nil keeps the discarding default
//
// Returns:
//   - ContextBuilderOption: a function that applies the logger option to a context
func WithLogger(logger *slog.Logger) ContextBuilderOption {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebugRecording is an option builder that enables recording of active nodes.
//
// Parameters:
//   - enabled: whether evaluated node indices are recorded each update
//
// Returns:
//   - ContextBuilderOption: a function that applies the recording option to a context
func WithDebugRecording(enabled bool) ContextBuilderOption {
	return func(c *Context) {
		c.debugRecording = enabled
	}
}

// WithEventCapacity is an option builder that presizes the sampled event buffer.
//
// Parameters:
//   - capacity: the number of events the buffer holds before growing
//
// Returns:
//   - ContextBuilderOption: a function that applies the capacity option to a context
func WithEventCapacity(capacity int) ContextBuilderOption {
	return func(c *Context) {
		c.sampledEvents = NewSampledEventsBuffer(max(capacity, 0))
	}
}

// WithWorldTransform is an option builder that sets the initial world transform of the character.
//
// Parameters:
//   - t: the world transform
//
// Returns:
//   - ContextBuilderOption: a function that applies the transform option to a context
func WithWorldTransform(t model.Transform) ContextBuilderOption {
	return func(c *Context) {
		c.worldTransform = t
	}
}

// WithSkeleton is an option builder that sets the skeleton poses are sampled for.
//
// Parameters:
//   - skeleton: the skeleton; nil for root-motion-only graphs
//
// Returns:
//   - ContextBuilderOption: a function that applies the skeleton option to a context
func WithSkeleton(skeleton *model.Skeleton) ContextBuilderOption {
	return func(c *Context) {
		c.skeleton = skeleton
	}
}

// WithGraphName is an option builder that names the graph in log output.
//
// Parameters:
//   - name: the graph name
//
// Returns:
//   - ContextBuilderOption: a function that applies the name option to a context
func WithGraphName(name string) ContextBuilderOption {
	return func(c *Context) {
		c.graphName = name
	}
}
