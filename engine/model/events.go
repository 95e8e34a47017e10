package model

import (
	"fmt"
	"strings"
)

// EventType identifies the payload carried by an animation Event.
type EventType int

const (
	// EventTypeID carries a gameplay identifier.
	EventTypeID EventType = iota

	// EventTypeFoot carries a locomotion foot phase.
	EventTypeFoot

	// EventTypeOrientationWarp marks the window in which root motion may be re-oriented.
	EventTypeOrientationWarp

	// EventTypeTransition carries a transition permission marker.
	EventTypeTransition
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventTypeID:
		return "ID"
	case EventTypeFoot:
		return "Foot"
	case EventTypeOrientationWarp:
		return "OrientationWarp"
	case EventTypeTransition:
		return "Transition"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is an author-placed, immutable marker on a clip timeline.
// A zero Duration makes it an immediate event, a positive one a duration event.
type Event interface {
	// StartTime returns the event start in seconds from the start of the clip.
	StartTime() float32

	// Duration returns the event length in seconds (0 for immediate events).
	Duration() float32

	// EndTime returns StartTime + Duration. Only valid for duration events; calling it on an
	// immediate event is a contract violation and panics.
	EndTime() float32

	// IsImmediate reports whether the event has no duration.
	IsImmediate() bool

	// IsDuration reports whether the event spans a time range.
	IsDuration() bool

	// Type returns the event payload type.
	Type() EventType
}

// EventBase holds the timing shared by every event type.
type EventBase struct {
	Start  float32
	Length float32
}

func (e EventBase) StartTime() float32 { return e.Start }

func (e EventBase) Duration() float32 { return e.Length }

func (e EventBase) EndTime() float32 {
	if e.Length <= 0 {
		panic("model: EndTime called on an immediate event")
	}
	return e.Start + e.Length
}

func (e EventBase) IsImmediate() bool { return e.Length <= 0 }

func (e EventBase) IsDuration() bool { return e.Length > 0 }

// IDEvent raises a gameplay identifier such as "Jump" or "WeaponRelease".
type IDEvent struct {
	EventBase
	ID string
}

func (e *IDEvent) Type() EventType { return EventTypeID }

// FootPhase is the discrete phase of a locomotion cycle a foot event marks.
type FootPhase int

const (
	FootPhaseLeftFootDown FootPhase = iota
	FootPhaseRightFootPassing
	FootPhaseRightFootDown
	FootPhaseLeftFootPassing
)

var footPhaseNames = [...]string{"LeftFootDown", "RightFootPassing", "RightFootDown", "LeftFootPassing"}

// String returns the phase name.
func (p FootPhase) String() string {
	if p < 0 || int(p) >= len(footPhaseNames) {
		return fmt.Sprintf("FootPhase(%d)", int(p))
	}
	return footPhaseNames[p]
}

// ParseFootPhase resolves a phase name, case-insensitively.
//
// Parameters:
//   - s: the phase name (e.g. "LeftFootDown")
//
// Returns:
//   - FootPhase: the parsed phase
//   - error: error if the name is unknown
func ParseFootPhase(s string) (FootPhase, error) {
	for i, name := range footPhaseNames {
		if strings.EqualFold(name, s) {
			return FootPhase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown foot phase %q", s)
}

// FootEvent marks a phase of the locomotion cycle.
type FootEvent struct {
	EventBase
	Phase FootPhase
}

func (e *FootEvent) Type() EventType { return EventTypeFoot }

// OrientationWarpEvent marks the section of a clip whose root motion may be rotated at runtime.
type OrientationWarpEvent struct {
	EventBase
}

func (e *OrientationWarpEvent) Type() EventType { return EventTypeOrientationWarp }

// TransitionRule is a transition permission. Values are ordered from least to most restrictive.
type TransitionRule int

const (
	TransitionRuleAllow TransitionRule = iota
	TransitionRuleConditionallyAllow
	TransitionRuleBlock
)

var transitionRuleNames = [...]string{"Allow", "ConditionallyAllow", "Block"}

// String returns the rule name.
func (r TransitionRule) String() string {
	if r < 0 || int(r) >= len(transitionRuleNames) {
		return fmt.Sprintf("TransitionRule(%d)", int(r))
	}
	return transitionRuleNames[r]
}

// ParseTransitionRule resolves a rule name, case-insensitively.
func ParseTransitionRule(s string) (TransitionRule, error) {
	for i, name := range transitionRuleNames {
		if strings.EqualFold(name, s) {
			return TransitionRule(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transition rule %q", s)
}

// TransitionEvent marks whether a state may be left while it is sampled.
type TransitionEvent struct {
	EventBase
	Rule TransitionRule

	// ID optionally names the marker so conditions can target one of several.
	ID string
}

func (e *TransitionEvent) Type() EventType { return EventTypeTransition }

// EventsOfType returns the clip's events with concrete type T, in clip order.
//
// Parameters:
//   - clip: the clip to search
//
// Returns:
//   - []T: the matching events
func EventsOfType[T Event](clip *AnimationClip) []T {
	var out []T
	for _, e := range clip.Events {
		if typed, ok := e.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
