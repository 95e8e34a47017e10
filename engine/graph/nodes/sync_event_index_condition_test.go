package nodes_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

func TestSyncEventIndexCondition(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1})
	clip.SyncMarkers = []model.SyncMarker{{ID: "LeftDown", Time: 0}, {ID: "RightDown", Time: 0.5}}

	syncCondition := func(idx int16, mode nodes.SyncTriggerMode, eventIdx int32) *nodes.SyncEventIndexConditionSettings {
		return &nodes.SyncEventIndexConditionSettings{
			SettingsBase:       base(idx),
			SourceStateNodeIdx: 1,
			TriggerMode:        mode,
			SyncEventIdx:       eventIdx,
		}
	}
	def := newDefinition(1, []*model.AnimationClip{clip},
		clipSettings(0, 0, true),
		&nodes.StateSettings{SettingsBase: base(1), ChildNodeIdx: 0},
		syncCondition(2, nodes.SyncTriggerExactlyAt, 1),
		syncCondition(3, nodes.SyncTriggerExactlyAt, 0),
		syncCondition(4, nodes.SyncTriggerGreaterOrEqual, 0),
		syncCondition(5, nodes.SyncTriggerGreaterOrEqual, 2),
	)
	inst := instantiate(t, def)
	ctx := inst.Context()

	inst.Update(0.6, model.IdentityTransform)

	state := inst.Node(1).(*nodes.StateNode)
	assert.Equal(t, int32(1), state.CurrentSyncTime().EventIdx)

	want := map[int16]bool{2: true, 3: false, 4: true, 5: false}
	for idx, expected := range want {
		got := inst.Node(idx).(*nodes.SyncEventIndexConditionNode).GetBool(ctx)
		assert.Equal(t, expected, got, "node %d", idx)
	}
}

func TestSyncEventIndexCondition_RequiresSourceState(t *testing.T) {
	def := newDefinition(0,
		[]*model.AnimationClip{straightClip("walk", 1, [3]float32{0, 0, 1})},
		clipSettings(0, 0, true),
		&nodes.SyncEventIndexConditionSettings{SettingsBase: base(1), SourceStateNodeIdx: graph.InvalidIndex},
	)
	_, err := graph.InstantiateGraph(def)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrInvalidNodeIndex)

	var ierr *graph.InstantiationError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, int16(1), ierr.NodeIndex)
}

func TestParseSyncTriggerMode(t *testing.T) {
	m, err := nodes.ParseSyncTriggerMode("GreaterOrEqual")
	require.NoError(t, err)
	assert.Equal(t, nodes.SyncTriggerGreaterOrEqual, m)
}
