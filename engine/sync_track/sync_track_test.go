package sync_track

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

const tol = 1e-5

func twoStepTrack() *SyncTrack {
	return NewFromMarkers([]model.SyncMarker{
		{ID: "LeftDown", Time: 0},
		{ID: "RightDown", Time: 0.5},
	}, 1)
}

func TestNewFromMarkers(t *testing.T) {
	track := NewFromMarkers([]model.SyncMarker{
		{ID: "RightDown", Time: 0.6},
		{ID: "LeftDown", Time: 0},
		{ID: "Outside", Time: 1.2},
	}, 1.2)

	want := []Event{
		{ID: "LeftDown", Start: 0, Duration: 0.5},
		{ID: "RightDown", Start: 0.5, Duration: 0.5},
	}
	if diff := cmp.Diff(want, track.Events()); diff != "" {
		t.Errorf("Events() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFromMarkers_Default(t *testing.T) {
	assert.Equal(t, int32(1), NewFromMarkers(nil, 1).NumEvents())
	assert.Equal(t, DefaultEventID, NewFromMarkers([]model.SyncMarker{{ID: "Late", Time: 3}}, 1).Event(0).ID)
}

func TestGetTime_RoundTrip(t *testing.T) {
	track := twoStepTrack()

	got := track.GetTime(0.75)
	assert.Equal(t, int32(1), got.EventIdx)
	assert.InDelta(t, 0.5, got.PercentageThrough, tol)

	assert.InDelta(t, 0.75, track.GetPercentageThrough(got), tol)
	assert.InDelta(t, 0.25, track.GetPercentageThrough(Time{EventIdx: 2, PercentageThrough: 0.5}), tol, "event index wraps into one cycle")
}

func TestGetTime_WrappedLastEvent(t *testing.T) {
	// The first marker is not at zero, so the last event wraps past the end of the clip.
	track := NewFromMarkers([]model.SyncMarker{
		{ID: "A", Time: 0.25},
		{ID: "B", Time: 0.75},
	}, 1)
	require.InDelta(t, 0.5, track.EventDuration(1), tol)

	got := track.GetTime(0.1)
	assert.Equal(t, int32(1), got.EventIdx)
	assert.InDelta(t, 0.7, got.PercentageThrough, tol)
	assert.InDelta(t, 0.1, track.GetPercentageThrough(got), tol)
}

func TestCalculatePercentageCovered(t *testing.T) {
	track := twoStepTrack()

	forward := TimeRange{Start: Time{EventIdx: 0, PercentageThrough: 0.5}, End: Time{EventIdx: 1, PercentageThrough: 0.5}}
	assert.InDelta(t, 0.5, track.CalculatePercentageCovered(forward), tol)

	looped := TimeRange{Start: Time{EventIdx: 1, PercentageThrough: 0.5}, End: Time{EventIdx: 0, PercentageThrough: 0.5}}
	assert.InDelta(t, 0.5, track.CalculatePercentageCovered(looped), tol)
}

func TestTimeLess(t *testing.T) {
	assert.True(t, Time{EventIdx: 0, PercentageThrough: 0.9}.Less(Time{EventIdx: 1}))
	assert.True(t, Time{EventIdx: 1, PercentageThrough: 0.1}.Less(Time{EventIdx: 1, PercentageThrough: 0.2}))
	assert.False(t, Time{EventIdx: 1}.Less(Time{EventIdx: 1}))
}

func TestBlend(t *testing.T) {
	blended := Blend(NewDefault(), twoStepTrack(), 0.5)

	require.Equal(t, int32(2), blended.NumEvents(), "blended track has lcm(1, 2) events")
	for i := range blended.NumEvents() {
		assert.InDelta(t, 0.5, blended.EventDuration(i), tol)
	}
	assert.Equal(t, DefaultEventID, blended.Event(0).ID, "ties keep the first track's IDs")
	assert.Equal(t, "RightDown", Blend(NewDefault(), twoStepTrack(), 0.75).Event(1).ID)
}
