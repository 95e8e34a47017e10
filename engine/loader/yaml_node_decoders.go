package loader

import (
	"fmt"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// definitionBuilder resolves names while node entries are decoded.
type definitionBuilder struct {
	model model.Model
	names map[string]int16
}

func (b *definitionBuilder) requiredRef(field, name string) (int16, error) {
	if name == "" {
		return graph.InvalidIndex, fmt.Errorf("%w: %s is required", ErrInvalidAsset, field)
	}
	return b.optionalRef(field, name)
}

func (b *definitionBuilder) optionalRef(field, name string) (int16, error) {
	if name == "" {
		return graph.InvalidIndex, nil
	}
	idx, ok := b.names[name]
	if !ok {
		return graph.InvalidIndex, fmt.Errorf("%w: %s refers to unknown node %q", ErrInvalidAsset, field, name)
	}
	return idx, nil
}

func (b *definitionBuilder) clipIndex(name string) (int, error) {
	idx := b.model.GetAnimationIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: unknown clip %q", ErrInvalidAsset, name)
	}
	return idx, nil
}

func (b *definitionBuilder) eventSearch(ys yamlEventSearch) (nodes.EventSearchSettings, error) {
	source, err := b.optionalRef("source", ys.Source)
	if err != nil {
		return nodes.EventSearchSettings{}, err
	}
	rule, err := nodes.ParseSearchRule(ys.SearchRule)
	if err != nil {
		return nodes.EventSearchSettings{}, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return nodes.EventSearchSettings{
		SourceStateNodeIdx: source,
		SearchRule:         rule,
		OnlyActiveBranch:   ys.OnlyActiveBranch,
	}, nil
}

// nodeDecoder decodes the kind-specific fields of one node entry into its settings record.
type nodeDecoder func(b *definitionBuilder, base graph.SettingsBase, header yamlNodeHeader, raw *yaml.Node) (graph.Settings, error)

// nodeDecoders is the explicit kind to decoder table. Every node kind an asset may declare
// has exactly one entry.
var nodeDecoders = map[graph.NodeKind]nodeDecoder{
	graph.NodeKindBoolParameter:            decodeBoolParameter,
	graph.NodeKindFloatParameter:           decodeFloatParameter,
	graph.NodeKindVectorParameter:          decodeVectorParameter,
	graph.NodeKindIDCondition:              decodeIDCondition,
	graph.NodeKindPercentageThrough:        decodePercentageThrough,
	graph.NodeKindFootCondition:            decodeFootCondition,
	graph.NodeKindSyncEventIndexCondition:  decodeSyncEventIndexCondition,
	graph.NodeKindTransitionEventCondition: decodeTransitionEventCondition,
	graph.NodeKindClip:                     decodeClip,
	graph.NodeKindState:                    decodeState,
	graph.NodeKindOrientationWarp:          decodeOrientationWarp,
}

func decodeInto(raw *yaml.Node, out any) error {
	if err := raw.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return nil
}

// --- Parameters ---

type yamlParameterNode struct {
	Parameter string    `yaml:"parameter"`
	Default   yaml.Node `yaml:"default"`
}

func decodeParameterDefault(y *yamlParameterNode, out any) error {
	if y.Default.IsZero() {
		return nil
	}
	return decodeInto(&y.Default, out)
}

func decodeBoolParameter(b *definitionBuilder, base graph.SettingsBase, h yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlParameterNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	s := &nodes.BoolParameterSettings{SettingsBase: base, Name: common.Coalesce(y.Parameter, h.Name)}
	return s, decodeParameterDefault(&y, &s.Default)
}

func decodeFloatParameter(b *definitionBuilder, base graph.SettingsBase, h yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlParameterNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	s := &nodes.FloatParameterSettings{SettingsBase: base, Name: common.Coalesce(y.Parameter, h.Name)}
	return s, decodeParameterDefault(&y, &s.Default)
}

func decodeVectorParameter(b *definitionBuilder, base graph.SettingsBase, h yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlParameterNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	s := &nodes.VectorParameterSettings{SettingsBase: base, Name: common.Coalesce(y.Parameter, h.Name)}
	return s, decodeParameterDefault(&y, &s.Default)
}

// --- Conditions ---

type yamlIDConditionNode struct {
	yamlEventSearch `yaml:",inline"`
	IDs             []string `yaml:"ids"`
	Operator        string   `yaml:"operator"`
}

func decodeIDCondition(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlIDConditionNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	search, err := b.eventSearch(y.yamlEventSearch)
	if err != nil {
		return nil, err
	}
	op, err := nodes.ParseIDConditionOperator(y.Operator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return &nodes.IDConditionSettings{SettingsBase: base, EventSearchSettings: search, IDs: y.IDs, Operator: op}, nil
}

type yamlPercentageThroughNode struct {
	yamlEventSearch `yaml:",inline"`
	ID              string `yaml:"id"`
	PriorityRule    string `yaml:"priority_rule"`
}

func decodePercentageThrough(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlPercentageThroughNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	search, err := b.eventSearch(y.yamlEventSearch)
	if err != nil {
		return nil, err
	}
	rule, err := nodes.ParsePriorityRule(y.PriorityRule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return &nodes.PercentageThroughSettings{SettingsBase: base, EventSearchSettings: search, ID: y.ID, PriorityRule: rule}, nil
}

type yamlFootConditionNode struct {
	yamlEventSearch `yaml:",inline"`
	Phase           string `yaml:"phase"`
}

func decodeFootCondition(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlFootConditionNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	search, err := b.eventSearch(y.yamlEventSearch)
	if err != nil {
		return nil, err
	}
	phase, err := nodes.ParsePhaseCondition(y.Phase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return &nodes.FootConditionSettings{SettingsBase: base, EventSearchSettings: search, Condition: phase}, nil
}

type yamlSyncEventIndexConditionNode struct {
	Source         string `yaml:"source"`
	TriggerMode    string `yaml:"trigger_mode"`
	SyncEventIndex int32  `yaml:"sync_event_index"`
}

func decodeSyncEventIndexCondition(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlSyncEventIndexConditionNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	source, err := b.requiredRef("source", y.Source)
	if err != nil {
		return nil, err
	}
	mode, err := nodes.ParseSyncTriggerMode(y.TriggerMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return &nodes.SyncEventIndexConditionSettings{
		SettingsBase:       base,
		SourceStateNodeIdx: source,
		TriggerMode:        mode,
		SyncEventIdx:       y.SyncEventIndex,
	}, nil
}

type yamlTransitionEventConditionNode struct {
	yamlEventSearch `yaml:",inline"`
	MarkerID        string `yaml:"marker_id"`
	Condition       string `yaml:"condition"`
}

func decodeTransitionEventCondition(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlTransitionEventConditionNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	search, err := b.eventSearch(y.yamlEventSearch)
	if err != nil {
		return nil, err
	}
	cond, err := nodes.ParseMarkerCondition(y.Condition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	return &nodes.TransitionEventConditionSettings{
		SettingsBase:        base,
		EventSearchSettings: search,
		MarkerID:            y.MarkerID,
		Condition:           cond,
	}, nil
}

// --- Pose nodes ---

type yamlClipNode struct {
	Clip     string `yaml:"clip"`
	PlayRate string `yaml:"play_rate"`
	Loop     bool   `yaml:"loop"`
}

func decodeClip(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlClipNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	clipIdx, err := b.clipIndex(y.Clip)
	if err != nil {
		return nil, err
	}
	playRate, err := b.optionalRef("play_rate", y.PlayRate)
	if err != nil {
		return nil, err
	}
	return &nodes.ClipSettings{SettingsBase: base, ClipIdx: clipIdx, PlayRateNodeIdx: playRate, Loop: y.Loop}, nil
}

type yamlStateNode struct {
	Child         string   `yaml:"child"`
	EntryEvents   []string `yaml:"entry_events"`
	ExecuteEvents []string `yaml:"execute_events"`
	ExitEvents    []string `yaml:"exit_events"`
	TimedEvents   []struct {
		ID   string  `yaml:"id"`
		Time float32 `yaml:"time"`
	} `yaml:"timed_events"`
}

func decodeState(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlStateNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	child, err := b.requiredRef("child", y.Child)
	if err != nil {
		return nil, err
	}
	s := &nodes.StateSettings{
		SettingsBase:  base,
		ChildNodeIdx:  child,
		EntryEvents:   y.EntryEvents,
		ExecuteEvents: y.ExecuteEvents,
		ExitEvents:    y.ExitEvents,
	}
	for _, te := range y.TimedEvents {
		s.TimedEvents = append(s.TimedEvents, nodes.StateTimedEvent{ID: te.ID, Time: te.Time})
	}
	return s, nil
}

type yamlOrientationWarpNode struct {
	ClipNode            string `yaml:"clip_node"`
	AngleOffset         string `yaml:"angle_offset"`
	Target              string `yaml:"target"`
	RelativeToCharacter bool   `yaml:"relative_to_character"`
	SamplingMode        string `yaml:"sampling_mode"`
	Easing              string `yaml:"easing"`
}

// warpEasings names the curves a warp may spread its rotation with.
var warpEasings = map[string]ease.TweenFunc{
	"Linear":     ease.Linear,
	"InQuad":     ease.InQuad,
	"OutQuad":    ease.OutQuad,
	"InOutQuad":  ease.InOutQuad,
	"InOutCubic": ease.InOutCubic,
	"InOutSine":  ease.InOutSine,
}

func decodeOrientationWarp(b *definitionBuilder, base graph.SettingsBase, _ yamlNodeHeader, raw *yaml.Node) (graph.Settings, error) {
	var y yamlOrientationWarpNode
	if err := decodeInto(raw, &y); err != nil {
		return nil, err
	}
	clipNode, err := b.requiredRef("clip_node", y.ClipNode)
	if err != nil {
		return nil, err
	}

	s := &nodes.OrientationWarpSettings{
		SettingsBase:                base,
		ClipReferenceNodeIdx:        clipNode,
		AngleOffsetValueNodeIdx:     graph.InvalidIndex,
		TargetValueNodeIdx:          graph.InvalidIndex,
		IsOffsetNode:                y.AngleOffset != "",
		IsOffsetRelativeToCharacter: y.RelativeToCharacter,
	}
	if s.IsOffsetNode {
		if y.Target != "" {
			return nil, fmt.Errorf("%w: angle_offset and target are exclusive", ErrInvalidAsset)
		}
		if s.AngleOffsetValueNodeIdx, err = b.requiredRef("angle_offset", y.AngleOffset); err != nil {
			return nil, err
		}
	} else if s.TargetValueNodeIdx, err = b.requiredRef("target", y.Target); err != nil {
		return nil, err
	}

	switch y.SamplingMode {
	case "", "Delta":
		s.SamplingMode = model.SamplingModeDelta
	case "WorldSpace":
		s.SamplingMode = model.SamplingModeWorldSpace
	default:
		return nil, fmt.Errorf("%w: unknown sampling mode %q", ErrInvalidAsset, y.SamplingMode)
	}

	if y.Easing != "" {
		fn, ok := warpEasings[y.Easing]
		if !ok {
			return nil, fmt.Errorf("%w: unknown warp easing %q", ErrInvalidAsset, y.Easing)
		}
		s.Easing = fn
	}
	return s, nil
}
