package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// loaderBackend defines the generic interface for loading graph assets from files or streams.
// Concrete implementations (e.g., yamlLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes the asset at the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *graph.Definition: the decoded definition
	//   - error: error if loading fails
	Load(path string) (*graph.Definition, error)

	// LoadReader decodes an asset from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *graph.Definition: the decoded definition
	//   - error: error if loading fails
	LoadReader(r io.Reader) (*graph.Definition, error)
}
