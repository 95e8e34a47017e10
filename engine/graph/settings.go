package graph

// Settings is the compiled, immutable configuration of one node. A single Settings array is
// shared by every live instance of a graph; settings never reference node state.
type Settings interface {
	// Kind returns the compiled type tag of the record.
	Kind() NodeKind

	// NodeIndex returns the record's position in the definition's settings array.
	NodeIndex() int16

	// InstantiateNode creates (or reuses) the node for this record and wires its children.
	// Wiring failures are recorded on the instantiation context, not returned.
	//
	// Parameters:
	//   - ictx: the instantiation context of the graph being built
	//   - option: whether existing nodes may be reused
	//
	// Returns:
	//   - Node: the node instance
	InstantiateNode(ictx *InstantiationContext, option InstantiationOption) Node
}

// SettingsBase holds the fields common to every settings record. Embed it in concrete settings.
type SettingsBase struct {
	Index int16
}

func (s *SettingsBase) NodeIndex() int16 { return s.Index }

// ParameterSettings is implemented by control parameter settings so graph instances can
// resolve parameters by name.
type ParameterSettings interface {
	Settings
	ParameterName() string
}

// BoolParameter is implemented by nodes whose value is set by gameplay as a bool.
type BoolParameter interface {
	SetBool(v bool)
}

// FloatParameter is implemented by nodes whose value is set by gameplay as a float.
type FloatParameter interface {
	SetFloat(v float32)
}

// VectorParameter is implemented by nodes whose value is set by gameplay as a vector.
type VectorParameter interface {
	SetVector(v [3]float32)
}
