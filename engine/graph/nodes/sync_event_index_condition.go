package nodes

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// SyncTriggerMode selects how the source state's sync event index is compared.
type SyncTriggerMode uint8

const (
	SyncTriggerExactlyAt SyncTriggerMode = iota
	SyncTriggerGreaterOrEqual
)

func (m SyncTriggerMode) String() string {
	if m == SyncTriggerGreaterOrEqual {
		return "GreaterOrEqual"
	}
	return "ExactlyAt"
}

// ParseSyncTriggerMode resolves a trigger mode name; empty means ExactlyAt.
func ParseSyncTriggerMode(s string) (SyncTriggerMode, error) {
	switch s {
	case "", "ExactlyAt":
		return SyncTriggerExactlyAt, nil
	case "GreaterOrEqual":
		return SyncTriggerGreaterOrEqual, nil
	}
	return SyncTriggerExactlyAt, fmt.Errorf("unknown sync trigger mode %q", s)
}

// SyncEventIndexConditionSettings compares the sync event index of a state's playback.
// The source state is required.
type SyncEventIndexConditionSettings struct {
	graph.SettingsBase
	SourceStateNodeIdx int16
	TriggerMode        SyncTriggerMode
	SyncEventIdx       int32
}

func (s *SyncEventIndexConditionSettings) Kind() graph.NodeKind {
	return graph.NodeKindSyncEventIndexCondition
}

func (s *SyncEventIndexConditionSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *SyncEventIndexConditionNode { return &SyncEventIndexConditionNode{} })
	n.settings = s
	graph.SetNodePtrFromIndex(ictx, s.SourceStateNodeIdx, &n.sourceState)
	return n
}

// SyncEventIndexConditionNode evaluates a SyncEventIndexConditionSettings once per update.
type SyncEventIndexConditionNode struct {
	graph.BaseNode
	settings    *SyncEventIndexConditionSettings
	sourceState *StateNode
	result      bool
}

var _ graph.BoolValueNode = &SyncEventIndexConditionNode{}

func (n *SyncEventIndexConditionNode) Initialize(ctx *graph.Context) {
	if n.BeginInitialize() {
		n.result = false
	}
}

func (n *SyncEventIndexConditionNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *SyncEventIndexConditionNode) ValueType() graph.ValueType { return graph.ValueTypeBool }

func (n *SyncEventIndexConditionNode) GetBool(ctx *graph.Context) bool {
	n.AssertInitialized()
	if !n.WasUpdated(ctx) {
		n.MarkNodeActive(ctx)
		idx := n.sourceState.CurrentSyncTime().EventIdx
		if n.settings.TriggerMode == SyncTriggerExactlyAt {
			n.result = idx == n.settings.SyncEventIdx
		} else {
			n.result = idx >= n.settings.SyncEventIdx
		}
	}
	return n.result
}
