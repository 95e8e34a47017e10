package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
)

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func newTable() table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	return w
}

func loadDefinition(path string) (*graph.Definition, error) {
	l := loader.NewLoader(loader.BackendTypeYAML, loader.WithLogger(slog.Default()))
	def, err := l.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return def, nil
}

// applyParameters sets name=value assignments on a graph instance. The parameter's kind
// decides how the value is parsed: true/false, a float, or x,y,z.
func applyParameters(inst *graph.GraphInstance, assignments []string) error {
	def := inst.Definition()
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("parameter %q: expected name=value", a)
		}
		idx, found := def.ParameterIndex(name)
		if !found {
			return fmt.Errorf("parameter %q: %w", name, graph.ErrUnknownParameter)
		}

		var err error
		switch def.Settings[idx].Kind() {
		case graph.NodeKindBoolParameter:
			var v bool
			if v, err = strconv.ParseBool(raw); err == nil {
				err = inst.SetBoolParameter(name, v)
			}
		case graph.NodeKindFloatParameter:
			var v float64
			if v, err = strconv.ParseFloat(raw, 32); err == nil {
				err = inst.SetFloatParameter(name, float32(v))
			}
		case graph.NodeKindVectorParameter:
			var v [3]float32
			if v, err = parseVector(raw); err == nil {
				err = inst.SetVectorParameter(name, v)
			}
		}
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	return nil
}

func parseVector(s string) ([3]float32, error) {
	var v [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("vector %q: expected x,y,z", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// describeEvent renders a sampled event for table output.
func describeEvent(e graph.SampledEvent) string {
	if e.IsStateEvent() {
		return fmt.Sprintf("state:%s(%s)", e.StateEventID(), stateEventTypeName(e.StateEventType()))
	}
	id := e.ID()
	if id == "" {
		id = e.Event().Type().String()
	}
	return fmt.Sprintf("%s@%.2f w%.2f", id, e.PercentageThrough(), e.Weight())
}

func stateEventTypeName(t graph.StateEventType) string {
	switch t {
	case graph.StateEventEntry:
		return "entry"
	case graph.StateEventFullyInState:
		return "execute"
	case graph.StateEventExit:
		return "exit"
	case graph.StateEventTimed:
		return "timed"
	default:
		return strconv.Itoa(int(t))
	}
}

// valueOf evaluates a non-pose node for display. Pose nodes report "".
func valueOf(inst *graph.GraphInstance, n graph.Node) string {
	ctx := inst.Context()
	switch v := n.(type) {
	case graph.BoolValueNode:
		return strconv.FormatBool(v.GetBool(ctx))
	case graph.FloatValueNode:
		return strconv.FormatFloat(float64(v.GetFloat(ctx)), 'f', 3, 32)
	case graph.VectorValueNode:
		vec := v.GetVector(ctx)
		return fmt.Sprintf("(%.2f, %.2f, %.2f)", vec[0], vec[1], vec[2])
	default:
		return ""
	}
}
