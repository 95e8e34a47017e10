package graph

import (
	"fmt"
	"strings"
)

// NodeKind is the compiled type tag of a node settings record. Dispatch on it replaces
// runtime type registration: every kind has exactly one settings type and one node type.
type NodeKind uint16

const (
	NodeKindInvalid NodeKind = iota

	// Control parameters
	NodeKindBoolParameter
	NodeKindFloatParameter
	NodeKindVectorParameter

	// Event conditions and values
	NodeKindIDCondition
	NodeKindPercentageThrough
	NodeKindFootCondition
	NodeKindSyncEventIndexCondition
	NodeKindTransitionEventCondition

	// Pose producers
	NodeKindClip
	NodeKindState
	NodeKindOrientationWarp
)

var nodeKindNames = map[NodeKind]string{
	NodeKindInvalid:                  "invalid",
	NodeKindBoolParameter:            "boolParameter",
	NodeKindFloatParameter:           "floatParameter",
	NodeKindVectorParameter:          "vectorParameter",
	NodeKindIDCondition:              "idCondition",
	NodeKindPercentageThrough:        "percentageThrough",
	NodeKindFootCondition:            "footCondition",
	NodeKindSyncEventIndexCondition:  "syncEventIndexCondition",
	NodeKindTransitionEventCondition: "transitionEventCondition",
	NodeKindClip:                     "clip",
	NodeKindState:                    "state",
	NodeKindOrientationWarp:          "orientationWarp",
}

// String returns the kind's descriptor name.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", uint16(k))
}

// IsPoseKind reports whether nodes of this kind produce a pose.
func (k NodeKind) IsPoseKind() bool {
	return k == NodeKindClip || k == NodeKindState || k == NodeKindOrientationWarp
}

// ParseNodeKind resolves a descriptor name to its kind, case-insensitively.
//
// Parameters:
//   - s: the kind name (e.g. "idCondition")
//
// Returns:
//   - NodeKind: the parsed kind
//   - error: error if the name is unknown
func ParseNodeKind(s string) (NodeKind, error) {
	for k, name := range nodeKindNames {
		if k != NodeKindInvalid && strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return NodeKindInvalid, fmt.Errorf("unknown node kind %q", s)
}
