package graph

type instanceConfig struct {
	contextOptions []ContextBuilderOption
	reuse          *GraphInstance
}

// InstanceBuilderOption is a functional option for configuring InstantiateGraph.
type InstanceBuilderOption func(*instanceConfig)

// WithContextOptions is an option builder that forwards options to the instance's Context.
//
// Parameters:
//   - options: the context options
//
// Returns:
//   - InstanceBuilderOption: a function that applies the context options
func WithContextOptions(options ...ContextBuilderOption) InstanceBuilderOption {
	return func(c *instanceConfig) {
		c.contextOptions = append(c.contextOptions, options...)
	}
}

// WithReuse is an option builder that rebuilds a graph in place of a previous instance,
// reusing its node objects where the types match. The previous instance is destroyed first
// and must not be used afterwards.
//
// Parameters:
//   - previous: the instance being replaced
//
// Returns:
//   - InstanceBuilderOption: a function that applies the reuse option
func WithReuse(previous *GraphInstance) InstanceBuilderOption {
	return func(c *instanceConfig) {
		c.reuse = previous
	}
}
