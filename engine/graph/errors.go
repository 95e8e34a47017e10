package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrInvalidDefinition indicates a structurally broken compiled graph (nil settings,
	// mismatched indices, a root that is not a pose node).
	ErrInvalidDefinition = errors.New("invalid graph definition")

	// ErrInvalidNodeIndex indicates a required child index that is out of range, refers to a
	// node not yet constructed, or is the invalid sentinel.
	ErrInvalidNodeIndex = errors.New("invalid node index")

	// ErrNodeTypeMismatch indicates a child index resolving to a node of the wrong kind.
	ErrNodeTypeMismatch = errors.New("node type mismatch")

	// ErrMissingResource indicates a settings record referencing a clip that the model lacks.
	ErrMissingResource = errors.New("missing resource")

	// ErrUnknownParameter indicates a control parameter name the graph does not declare.
	ErrUnknownParameter = errors.New("unknown control parameter")

	// ErrParameterTypeMismatch indicates a control parameter set with the wrong value type.
	ErrParameterTypeMismatch = errors.New("control parameter type mismatch")
)

// InstantiationError reports the node whose construction failed and why.
// Unwraps to one of the sentinel errors above.
type InstantiationError struct {
	NodeIndex int16
	Kind      NodeKind
	Msg       string
	Err       error
}

func (e *InstantiationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("graph: instantiate node %d (%s): %s: %v", e.NodeIndex, e.Kind, e.Msg, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }
