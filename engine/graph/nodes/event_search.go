package nodes

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// SearchRule selects which kinds of sampled events a condition considers.
type SearchRule uint8

const (
	SearchRuleAll SearchRule = iota
	SearchRuleStateEventsOnly
	SearchRuleAnimationEventsOnly
)

var searchRuleNames = [...]string{"All", "StateEventsOnly", "AnimationEventsOnly"}

func (r SearchRule) String() string {
	if int(r) < len(searchRuleNames) {
		return searchRuleNames[r]
	}
	return fmt.Sprintf("SearchRule(%d)", int(r))
}

// ParseSearchRule resolves a rule name.
func ParseSearchRule(s string) (SearchRule, error) {
	if s == "" {
		return SearchRuleAll, nil
	}
	for i, name := range searchRuleNames {
		if name == s {
			return SearchRule(i), nil
		}
	}
	return SearchRuleAll, fmt.Errorf("unknown search rule %q", s)
}

// EventSearchSettings configures which slice of the sampled event buffer a condition scans.
// Embedded by every event condition settings record.
type EventSearchSettings struct {
	// SourceStateNodeIdx restricts the search to the events of a state node's subtree.
	// graph.InvalidIndex searches the whole buffer.
	SourceStateNodeIdx int16

	// SearchRule filters animation and state events.
	SearchRule SearchRule

	// OnlyActiveBranch skips events sampled on branches that do not drive the pose.
	OnlyActiveBranch bool
}

// eventSearch is the runtime half of EventSearchSettings.
type eventSearch struct {
	settings    *EventSearchSettings
	sourceState *StateNode
}

func (s *eventSearch) wire(ictx *graph.InstantiationContext, settings *EventSearchSettings) bool {
	s.settings = settings
	return graph.SetOptionalNodePtrFromIndex(ictx, settings.SourceStateNodeIdx, &s.sourceState)
}

// searchRange picks the whole buffer when there is no source state or evaluation is inside
// a layer, and the source state's range otherwise.
func (s *eventSearch) searchRange(ctx *graph.Context) graph.SampledEventRange {
	buffer := ctx.SampledEvents()
	if s.sourceState == nil || ctx.IsInLayer() {
		return buffer.FullRange()
	}
	if !s.sourceState.WasUpdated(ctx) {
		return graph.EmptySampledEventRange(buffer.NumSampledEvents())
	}
	return s.sourceState.SampledEventRange()
}

// scan visits every event passing the ignore, branch, and search rule filters until visit
// returns false.
func (s *eventSearch) scan(ctx *graph.Context, visit func(e *graph.SampledEvent) bool) {
	ctx.SampledEvents().Scan(s.searchRange(ctx), func(_ int32, e *graph.SampledEvent) bool {
		if e.IsIgnored() {
			return true
		}
		if s.settings.OnlyActiveBranch && !e.IsFromActiveBranch() {
			return true
		}
		switch s.settings.SearchRule {
		case SearchRuleStateEventsOnly:
			if !e.IsStateEvent() {
				return true
			}
		case SearchRuleAnimationEventsOnly:
			if !e.IsAnimationEvent() {
				return true
			}
		}
		return visit(e)
	})
}
