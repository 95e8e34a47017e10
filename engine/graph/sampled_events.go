package graph

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// StateEventType distinguishes when a state event was raised relative to the state's lifetime.
type StateEventType uint8

const (
	StateEventEntry StateEventType = iota
	StateEventFullyInState
	StateEventExit
	StateEventTimed
)

type sampledEventFlags uint8

const (
	flagIgnored sampledEventFlags = 1 << iota
	flagFromActiveBranch
	flagStateEvent
)

// SampledEvent is an event raised during the current frame: either a reference to an
// animation event sampled from a clip, or a state event carrying only an ID.
type SampledEvent struct {
	event             model.Event
	stateEventID      string
	stateEventType    StateEventType
	sourceNodeIdx     int16
	weight            float32
	percentageThrough float32
	flags             sampledEventFlags
}

// IsAnimationEvent reports whether the event was sampled from a clip.
func (e SampledEvent) IsAnimationEvent() bool { return e.flags&flagStateEvent == 0 }

// IsStateEvent reports whether the event was raised by a state node.
func (e SampledEvent) IsStateEvent() bool { return e.flags&flagStateEvent != 0 }

// Event returns the sampled animation event, or nil for state events.
func (e SampledEvent) Event() model.Event { return e.event }

// StateEventID returns the state event ID, or "" for animation events.
func (e SampledEvent) StateEventID() string { return e.stateEventID }

// StateEventType returns when the state event was raised. Meaningless for animation events.
func (e SampledEvent) StateEventType() StateEventType { return e.stateEventType }

// SourceNodeIndex returns the index of the node that raised the event.
func (e SampledEvent) SourceNodeIndex() int16 { return e.sourceNodeIdx }

// Weight returns the blend contribution of the event in [0, 1].
func (e SampledEvent) Weight() float32 { return e.weight }

// PercentageThrough returns how far through the source event playback was, in [0, 1).
func (e SampledEvent) PercentageThrough() float32 { return e.percentageThrough }

// IsIgnored reports whether a later pass asked searches to skip the event.
func (e SampledEvent) IsIgnored() bool { return e.flags&flagIgnored != 0 }

// IsFromActiveBranch reports whether the event came from the branch currently driving the pose.
func (e SampledEvent) IsFromActiveBranch() bool { return e.flags&flagFromActiveBranch != 0 }

// ID returns the identifier an ID search matches against: the payload ID of an ID event,
// the ID of a state event, or "" for other animation events.
func (e SampledEvent) ID() string {
	if e.IsStateEvent() {
		return e.stateEventID
	}
	if idEvent, ok := e.event.(*model.IDEvent); ok {
		return idEvent.ID
	}
	return ""
}

// SampledEventRange is a half-open [StartIdx, EndIdx) slice of the sampled event buffer.
type SampledEventRange struct {
	StartIdx int32
	EndIdx   int32
}

// EmptySampledEventRange returns a zero-length range positioned at idx.
func EmptySampledEventRange(idx int32) SampledEventRange {
	return SampledEventRange{StartIdx: idx, EndIdx: idx}
}

// Length returns the number of events in the range.
func (r SampledEventRange) Length() int32 { return r.EndIdx - r.StartIdx }

// IsEmpty reports whether the range holds no events.
func (r SampledEventRange) IsEmpty() bool { return r.EndIdx <= r.StartIdx }

// Contains reports whether idx lies within the range.
func (r SampledEventRange) Contains(idx int32) bool { return idx >= r.StartIdx && idx < r.EndIdx }

// SampledEventsBuffer is the append-only per-frame log of sampled events.
// It is reset at the start of every update; ranges captured during an update stay valid
// for the rest of that update.
type SampledEventsBuffer struct {
	events []SampledEvent
	scans  uint64
}

// NewSampledEventsBuffer creates a buffer with room for capacity events before growing.
//
// Parameters:
//   - capacity: the initial capacity
//
// Returns:
//   - *SampledEventsBuffer: the empty buffer
func NewSampledEventsBuffer(capacity int) *SampledEventsBuffer {
	return &SampledEventsBuffer{events: make([]SampledEvent, 0, capacity)}
}

// Reset clears the buffer for a new frame, keeping its storage.
func (b *SampledEventsBuffer) Reset() {
	b.events = b.events[:0]
}

// NumSampledEvents returns the current buffer length.
func (b *SampledEventsBuffer) NumSampledEvents() int32 {
	return int32(len(b.events))
}

// At returns a read-only copy of the event at idx.
func (b *SampledEventsBuffer) At(idx int32) SampledEvent {
	return b.events[idx]
}

// Events returns a copy of every event sampled so far this frame.
func (b *SampledEventsBuffer) Events() []SampledEvent {
	out := make([]SampledEvent, len(b.events))
	copy(out, b.events)
	return out
}

// FullRange returns the range covering the whole buffer as it is now.
func (b *SampledEventsBuffer) FullRange() SampledEventRange {
	return SampledEventRange{StartIdx: 0, EndIdx: int32(len(b.events))}
}

// EmitAnimationEvent appends an event sampled from a clip.
//
// Parameters:
//   - sourceNodeIdx: the index of the sampling node
//   - event: the clip event
//   - weight: the blend contribution in [0, 1]
//   - percentageThrough: how far through the event playback is
//   - fromActiveBranch: whether the sampling node is on the active branch
//
// Returns:
//   - int32: the index of the appended event
func (b *SampledEventsBuffer) EmitAnimationEvent(sourceNodeIdx int16, event model.Event, weight, percentageThrough float32, fromActiveBranch bool) int32 {
	se := SampledEvent{
		event:             event,
		sourceNodeIdx:     sourceNodeIdx,
		weight:            weight,
		percentageThrough: percentageThrough,
	}
	if fromActiveBranch {
		se.flags |= flagFromActiveBranch
	}
	b.events = append(b.events, se)
	return int32(len(b.events) - 1)
}

// EmitStateEvent appends an event raised by a state node.
//
// Parameters:
//   - sourceNodeIdx: the index of the state node
//   - id: the state event ID
//   - eventType: when in the state's lifetime the event was raised
//   - fromActiveBranch: whether the state is on the active branch
//
// Returns:
//   - int32: the index of the appended event
func (b *SampledEventsBuffer) EmitStateEvent(sourceNodeIdx int16, id string, eventType StateEventType, fromActiveBranch bool) int32 {
	se := SampledEvent{
		stateEventID:   id,
		stateEventType: eventType,
		sourceNodeIdx:  sourceNodeIdx,
		weight:         1,
		flags:          flagStateEvent,
	}
	if fromActiveBranch {
		se.flags |= flagFromActiveBranch
	}
	b.events = append(b.events, se)
	return int32(len(b.events) - 1)
}

// SetIgnored flags or unflags every event in r so that searches skip them.
func (b *SampledEventsBuffer) SetIgnored(r SampledEventRange, ignored bool) {
	for i := r.StartIdx; i < r.EndIdx; i++ {
		if ignored {
			b.events[i].flags |= flagIgnored
		} else {
			b.events[i].flags &^= flagIgnored
		}
	}
}

// Scan visits the events of r in order until visit returns false.
// Every call counts as one scan, which ScanCount exposes for memoization checks.
//
// Parameters:
//   - r: the range to visit
//   - visit: called with each event index and a read-only pointer; return false to stop
func (b *SampledEventsBuffer) Scan(r SampledEventRange, visit func(idx int32, e *SampledEvent) bool) {
	b.scans++
	end := min(r.EndIdx, int32(len(b.events)))
	for i := max(r.StartIdx, 0); i < end; i++ {
		if !visit(i, &b.events[i]) {
			return
		}
	}
}

// ScanCount returns how many scans the buffer has served since it was created.
func (b *SampledEventsBuffer) ScanCount() uint64 {
	return b.scans
}
