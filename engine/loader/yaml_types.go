package loader

import (
	"gopkg.in/yaml.v3"
)

// yamlDocument is the top level of a YAML graph asset.
type yamlDocument struct {
	Name     string        `yaml:"name"`
	Root     string        `yaml:"root"`
	Skeleton *yamlSkeleton `yaml:"skeleton"`
	Clips    []yamlClip    `yaml:"clips"`

	// Nodes are kept raw so each entry can be decoded by the decoder of its kind.
	Nodes []yaml.Node `yaml:"nodes"`
}

type yamlSkeleton struct {
	Bones []yamlBone `yaml:"bones"`
}

type yamlBone struct {
	Name        string      `yaml:"name"`
	Parent      string      `yaml:"parent"`
	Translation *[3]float32 `yaml:"translation"`
	Rotation    *[4]float32 `yaml:"rotation"`
	Scale       *[3]float32 `yaml:"scale"`
}

type yamlClip struct {
	Name        string           `yaml:"name"`
	Duration    float32          `yaml:"duration"`
	FrameRate   float32          `yaml:"frame_rate"`
	SyncMarkers []yamlSyncMarker `yaml:"sync_markers"`
	Events      []yamlEvent      `yaml:"events"`
	RootMotion  *yamlRootMotion  `yaml:"root_motion"`
	Channels    []yamlChannel    `yaml:"channels"`
}

type yamlSyncMarker struct {
	ID   string  `yaml:"id"`
	Time float32 `yaml:"time"`
}

type yamlEvent struct {
	Type     string  `yaml:"type"`
	Start    float32 `yaml:"start"`
	Duration float32 `yaml:"duration"`
	ID       string  `yaml:"id"`
	Phase    string  `yaml:"phase"`
	Rule     string  `yaml:"rule"`
}

// yamlRootMotion either lists one transform per frame or generates them from a constant
// character-space velocity and yaw rate.
type yamlRootMotion struct {
	Frames   []yamlTransform `yaml:"frames"`
	Velocity *[3]float32     `yaml:"velocity"`
	YawRate  float32         `yaml:"yaw_rate"`
}

type yamlTransform struct {
	Translation [3]float32  `yaml:"translation"`
	Rotation    *[4]float32 `yaml:"rotation"`
}

type yamlChannel struct {
	Bone         string        `yaml:"bone"`
	PositionKeys []yamlVec3Key `yaml:"position_keys"`
	RotationKeys []yamlQuatKey `yaml:"rotation_keys"`
	ScaleKeys    []yamlVec3Key `yaml:"scale_keys"`
}

type yamlVec3Key struct {
	Time  float32    `yaml:"time"`
	Value [3]float32 `yaml:"value"`
}

type yamlQuatKey struct {
	Time  float32    `yaml:"time"`
	Value [4]float32 `yaml:"value"`
}

// yamlNodeHeader holds the fields shared by every node entry.
type yamlNodeHeader struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// yamlEventSearch holds the event search fields shared by condition nodes.
type yamlEventSearch struct {
	Source           string `yaml:"source"`
	SearchRule       string `yaml:"search_rule"`
	OnlyActiveBranch bool   `yaml:"only_active_branch"`
}
