package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// Definition is the compiled, immutable form of a graph: a topologically ordered settings
// array, the index of the root pose node, and the model whose clips the settings reference.
// One Definition may back any number of concurrently evaluated graph instances.
type Definition struct {
	// Name identifies the graph in diagnostics.
	Name string

	// Model provides the skeleton and the clips referenced by index.
	Model model.Model

	// Settings holds one record per node; Settings[i].NodeIndex() must equal i and every
	// child index must be lower than the index of the node referencing it.
	Settings []Settings

	// RootNodeIdx is the index of the pose node whose result is the graph's output.
	RootNodeIdx int16
}

// NumNodes returns the number of nodes every instance of the graph owns.
func (d *Definition) NumNodes() int {
	return len(d.Settings)
}

// Validate checks the structural invariants that do not depend on node types.
// Child wiring is validated during instantiation.
//
// Returns:
//   - error: an error wrapping ErrInvalidDefinition, or nil
func (d *Definition) Validate() error {
	if len(d.Settings) == 0 {
		return fmt.Errorf("%w: %q has no nodes", ErrInvalidDefinition, d.Name)
	}
	if len(d.Settings) > 1<<15-1 {
		return fmt.Errorf("%w: %q has %d nodes", ErrInvalidDefinition, d.Name, len(d.Settings))
	}
	params := make(map[string]int16)
	for i, s := range d.Settings {
		if s == nil {
			return fmt.Errorf("%w: %q node %d has no settings", ErrInvalidDefinition, d.Name, i)
		}
		if int(s.NodeIndex()) != i {
			return fmt.Errorf("%w: %q node %d reports index %d", ErrInvalidDefinition, d.Name, i, s.NodeIndex())
		}
		if p, ok := s.(ParameterSettings); ok {
			if prev, dup := params[p.ParameterName()]; dup {
				return fmt.Errorf("%w: %q parameter %q declared by nodes %d and %d", ErrInvalidDefinition, d.Name, p.ParameterName(), prev, i)
			}
			params[p.ParameterName()] = int16(i)
		}
	}
	if d.RootNodeIdx < 0 || int(d.RootNodeIdx) >= len(d.Settings) {
		return fmt.Errorf("%w: %q root index %d out of range", ErrInvalidDefinition, d.Name, d.RootNodeIdx)
	}
	if kind := d.Settings[d.RootNodeIdx].Kind(); !kind.IsPoseKind() {
		return fmt.Errorf("%w: %q root node %d is a %s node", ErrInvalidDefinition, d.Name, d.RootNodeIdx, kind)
	}
	if d.Model != nil {
		if err := d.Model.Validate(); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidDefinition, d.Name, err)
		}
	}
	return nil
}

// ParameterIndex returns the index of the control parameter node with the given name.
//
// Parameters:
//   - name: the parameter name
//
// Returns:
//   - int16: the node index
//   - bool: false if no parameter has that name
func (d *Definition) ParameterIndex(name string) (int16, bool) {
	for i, s := range d.Settings {
		if p, ok := s.(ParameterSettings); ok && p.ParameterName() == name {
			return int16(i), true
		}
	}
	return InvalidIndex, false
}

// ParameterNames returns the names of every control parameter, in node order.
func (d *Definition) ParameterNames() []string {
	var names []string
	for _, s := range d.Settings {
		if p, ok := s.(ParameterSettings); ok {
			names = append(names, p.ParameterName())
		}
	}
	return names
}
