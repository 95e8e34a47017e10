package loader

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// yamlLoaderBackendImpl is the implementation of yamlLoaderBackend.
type yamlLoaderBackendImpl struct{}

// yamlLoaderBackend is a loaderBackend implementation for YAML graph assets.
type yamlLoaderBackend interface {
	loaderBackend
	parse(data []byte) (*graph.Definition, error)
}

var _ yamlLoaderBackend = &yamlLoaderBackendImpl{}

// newYAMLLoaderBackend creates a new YAML loader backend.
//
// Returns:
//   - yamlLoaderBackend: the loader backend for YAML assets
func newYAMLLoaderBackend() yamlLoaderBackend {
	return &yamlLoaderBackendImpl{}
}

func (b *yamlLoaderBackendImpl) Load(path string) (*graph.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.parse(data)
}

func (b *yamlLoaderBackendImpl) LoadReader(r io.Reader) (*graph.Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return b.parse(data)
}

func (b *yamlLoaderBackendImpl) parse(data []byte) (*graph.Definition, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return buildDefinition(&doc)
}

// buildDefinition turns a decoded document into a graph definition. Node references are
// resolved by name; the node list must already be in dependency order, which graph
// instantiation enforces.
func buildDefinition(doc *yamlDocument) (*graph.Definition, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: graph has no name", ErrInvalidAsset)
	}

	skeleton, err := extractSkeleton(doc.Skeleton)
	if err != nil {
		return nil, err
	}
	clips, err := extractAnimations(doc.Clips, skeleton)
	if err != nil {
		return nil, err
	}
	mdl := model.NewModel(
		model.WithName(doc.Name),
		model.WithSkeleton(skeleton),
		model.WithAnimations(clips),
	)

	b := &definitionBuilder{
		model: mdl,
		names: make(map[string]int16, len(doc.Nodes)),
	}
	headers := make([]yamlNodeHeader, len(doc.Nodes))
	for i := range doc.Nodes {
		if err := doc.Nodes[i].Decode(&headers[i]); err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrInvalidAsset, i, err)
		}
		name := headers[i].Name
		if name == "" {
			return nil, fmt.Errorf("%w: node %d has no name", ErrInvalidAsset, i)
		}
		if _, dup := b.names[name]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrInvalidAsset, name)
		}
		b.names[name] = int16(i)
	}

	settings := make([]graph.Settings, len(doc.Nodes))
	for i := range doc.Nodes {
		h := headers[i]
		kind, err := graph.ParseNodeKind(h.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %v", ErrInvalidAsset, h.Name, err)
		}
		decode, ok := nodeDecoders[kind]
		if !ok {
			return nil, fmt.Errorf("%w: node %q: no decoder for kind %s", ErrInvalidAsset, h.Name, kind)
		}
		s, err := decode(b, graph.SettingsBase{Index: int16(i)}, h, &doc.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", h.Name, err)
		}
		settings[i] = s
	}

	rootIdx, ok := b.names[doc.Root]
	if !ok {
		return nil, fmt.Errorf("%w: root node %q not found", ErrInvalidAsset, doc.Root)
	}

	def := &graph.Definition{
		Name:        doc.Name,
		Model:       mdl,
		Settings:    settings,
		RootNodeIdx: rootIdx,
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	return def, nil
}
