// Package sync_track maps a clip timeline into event-indexed time so that clips of
// different lengths can be compared and blended by sync event rather than by seconds.
package sync_track

import (
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// DefaultEventID is the ID of the single event of a track built without markers.
const DefaultEventID = "Default"

// Event is one sync event of a track. Start and Duration are normalized to the clip length.
type Event struct {
	ID       string
	Start    float32
	Duration float32
}

// Time addresses a point on a sync track: an event index plus the percentage through that event.
// EventIdx may exceed the track's event count to express time past one full cycle.
type Time struct {
	EventIdx          int32
	PercentageThrough float32
}

// Less reports whether t comes strictly before o.
func (t Time) Less(o Time) bool {
	if t.EventIdx != o.EventIdx {
		return t.EventIdx < o.EventIdx
	}
	return t.PercentageThrough < o.PercentageThrough
}

// TimeRange is the sync-relative interval covered by a synchronized update.
type TimeRange struct {
	Start Time
	End   Time
}

// SyncTrack is an ordered partition of a normalized clip timeline into sync events.
// The last event wraps around the end of the clip when the first event does not start at zero.
type SyncTrack struct {
	events []Event
}

// NewDefault creates a track made of a single event spanning the whole clip.
//
// Returns:
//   - *SyncTrack: the default track
func NewDefault() *SyncTrack {
	return &SyncTrack{events: []Event{{ID: DefaultEventID, Start: 0, Duration: 1}}}
}

// NewFromMarkers builds a track from clip markers given in seconds.
// Markers outside the clip are dropped. With no usable markers the default track is returned.
//
// Parameters:
//   - markers: the sync markers of the clip
//   - clipDuration: the clip length in seconds used to normalize marker times
//
// Returns:
//   - *SyncTrack: the built track
func NewFromMarkers(markers []model.SyncMarker, clipDuration float32) *SyncTrack {
	if clipDuration <= 0 || len(markers) == 0 {
		return NewDefault()
	}

	sorted := make([]model.SyncMarker, 0, len(markers))
	for _, m := range markers {
		if m.Time < 0 || m.Time >= clipDuration {
			continue
		}
		sorted = append(sorted, m)
	}
	if len(sorted) == 0 {
		return NewDefault()
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	events := make([]Event, len(sorted))
	for i, m := range sorted {
		events[i] = Event{ID: m.ID, Start: m.Time / clipDuration}
	}
	return NewFromEvents(events)
}

// NewFromEvents builds a track from normalized events sorted by start. Durations are
// recomputed so the events exactly partition one cycle.
//
// Parameters:
//   - events: the events, with Start in [0, 1) and ascending
//
// Returns:
//   - *SyncTrack: the built track
func NewFromEvents(events []Event) *SyncTrack {
	if len(events) == 0 {
		return NewDefault()
	}
	out := make([]Event, len(events))
	copy(out, events)
	for i := range out {
		if i+1 < len(out) {
			out[i].Duration = out[i+1].Start - out[i].Start
		} else {
			out[i].Duration = 1 - out[i].Start + out[0].Start
		}
	}
	return &SyncTrack{events: out}
}

// NumEvents returns the number of sync events in one cycle.
func (s *SyncTrack) NumEvents() int32 {
	return int32(len(s.events))
}

// Event returns the event at idx, wrapping idx into one cycle.
func (s *SyncTrack) Event(idx int32) Event {
	return s.events[s.wrap(idx)]
}

// Events returns a copy of the track's events.
func (s *SyncTrack) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventDuration returns the normalized length of the event at idx.
func (s *SyncTrack) EventDuration(idx int32) float32 {
	return s.Event(idx).Duration
}

// StartOffset returns the normalized clip time at which the first sync event starts.
func (s *SyncTrack) StartOffset() float32 {
	return s.events[0].Start
}

func (s *SyncTrack) wrap(idx int32) int32 {
	n := int32(len(s.events))
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

// GetTime converts a normalized clip time into sync time.
//
// Parameters:
//   - p: the normalized clip time in [0, 1]
//
// Returns:
//   - Time: the sync event index and percentage through it
func (s *SyncTrack) GetTime(p float32) Time {
	// Measure from the first event so the wrapped tail of the last event needs no special case.
	offset := common.Clamp01(p) - s.events[0].Start
	if offset < 0 {
		offset += 1
	}

	last := int32(len(s.events) - 1)
	for i := int32(0); i < last; i++ {
		e := s.events[i]
		if offset < e.Duration {
			return Time{EventIdx: i, PercentageThrough: s.through(e, offset)}
		}
		offset -= e.Duration
	}
	return Time{EventIdx: last, PercentageThrough: s.through(s.events[last], offset)}
}

func (s *SyncTrack) through(e Event, offset float32) float32 {
	if e.Duration <= 0 {
		return 0
	}
	v := offset / e.Duration
	if v >= 1 {
		return 1
	}
	return v
}

// GetPercentageThrough converts sync time back into a normalized clip time in [0, 1).
//
// Parameters:
//   - t: the sync time
//
// Returns:
//   - float32: the normalized clip time
func (s *SyncTrack) GetPercentageThrough(t Time) float32 {
	e := s.Event(t.EventIdx)
	p := e.Start + e.Duration*common.Clamp01(t.PercentageThrough)
	p -= float32(math.Floor(float64(p)))
	return p
}

// CalculatePercentageCovered returns how much of one cycle, as a fraction, lies between the
// range's start and end. A range whose end precedes its start is treated as having looped.
//
// Parameters:
//   - r: the sync time range
//
// Returns:
//   - float32: the covered fraction of one cycle (may exceed 1 for multi-cycle ranges)
func (s *SyncTrack) CalculatePercentageCovered(r TimeRange) float32 {
	n := s.NumEvents()
	cycles := float32(r.End.EventIdx/n - r.Start.EventIdx/n)
	covered := s.unwrappedPosition(r.End) - s.unwrappedPosition(r.Start) + cycles
	if covered < 0 {
		covered += 1
	}
	return covered
}

// unwrappedPosition measures t from the start of the first event rather than from clip time zero.
func (s *SyncTrack) unwrappedPosition(t Time) float32 {
	idx := s.wrap(t.EventIdx)
	var pos float32
	for i := int32(0); i < idx; i++ {
		pos += s.events[i].Duration
	}
	return pos + s.events[idx].Duration*common.Clamp01(t.PercentageThrough)
}

// Blend creates the sync track that lies between a and b at the given weight.
// The result has lcm(a, b) events so that both tracks map onto it event for event;
// event IDs come from whichever source is weighted more heavily.
//
// Parameters:
//   - a: the track at weight 0
//   - b: the track at weight 1
//   - weight: the blend weight in [0, 1]
//
// Returns:
//   - *SyncTrack: the blended track
func Blend(a, b *SyncTrack, weight float32) *SyncTrack {
	weight = common.Clamp01(weight)
	na, nb := a.NumEvents(), b.NumEvents()
	n := lcm(na, nb)
	repA, repB := float32(n/na), float32(n/nb)

	events := make([]Event, n)
	start := common.Lerp(a.StartOffset(), b.StartOffset(), weight)
	for i := int32(0); i < n; i++ {
		ea, eb := a.Event(i), b.Event(i)
		id := ea.ID
		if weight > 0.5 {
			id = eb.ID
		}
		events[i] = Event{
			ID:       id,
			Start:    start,
			Duration: common.Lerp(ea.Duration/repA, eb.Duration/repB, weight),
		}
		start += events[i].Duration
		if start >= 1 {
			start -= 1
		}
	}
	return &SyncTrack{events: events}
}

func lcm(a, b int32) int32 {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}
