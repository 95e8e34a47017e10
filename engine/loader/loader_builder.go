package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger the Loader reports to.
//
// Parameters:
//   - logger: the structured logger; nil keeps the discarding default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithDefinition is an option builder that pre-populates the cache with a definition.
//
// Parameters:
//   - key: the cache key for the definition
//   - def: the definition to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the definition option to a loader
func WithDefinition(key string, def *graph.Definition) LoaderBuilderOption {
	return func(l *loader) {
		l.definitionCache[key] = def
	}
}
