package nodes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// warpActivations counts orientation warp activations by outcome.
	warpActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oxyanim_orientation_warp_activations_total",
		Help: "Orientation warp activations by outcome",
	}, []string{"outcome"})

	// warpAngle tracks the absolute rotation applied by successful warps.
	warpAngle = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oxyanim_orientation_warp_angle_degrees",
		Help:    "Absolute rotation applied by orientation warps in degrees",
		Buckets: []float64{1, 5, 15, 30, 45, 90, 135, 180},
	})
)

const (
	warpOutcomeApplied       = "applied"
	warpOutcomeNoEvent       = "no_event"
	warpOutcomeNoRootMotion  = "no_root_motion"
	warpOutcomeShortWindow   = "short_window"
	warpOutcomeNoWarpFrames  = "no_warp_frames"
	warpOutcomeInvalidTarget = "invalid_target"
)
